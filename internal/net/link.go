package net

import (
	"fmt"
	"net/url"
	"strings"
)

// LinkScheme prefixes shareable room links.
const LinkScheme = "roomboard://"

// ShareLink builds a link a peer can open to join room on host:port.
func ShareLink(host string, port int, room string) string {
	return fmt.Sprintf("%s%s:%d/%s", LinkScheme, host, port, url.PathEscape(room))
}

// IsShareLink reports whether arg looks like a room link.
func IsShareLink(arg string) bool { return strings.HasPrefix(arg, LinkScheme) }

// ParseShareLink returns the http server address and room of a link.
func ParseShareLink(link string) (server, room string, err error) {
	if !IsShareLink(link) {
		return "", "", fmt.Errorf("not a %s link: %q", LinkScheme, link)
	}
	rest := strings.TrimPrefix(link, LinkScheme)
	rest = strings.TrimSuffix(rest, "/")
	host, escaped, _ := strings.Cut(rest, "/")
	if host == "" {
		return "", "", fmt.Errorf("link %q has no host", link)
	}
	room, err = url.PathUnescape(escaped)
	if err != nil {
		return "", "", fmt.Errorf("link room: %w", err)
	}
	return "http://" + host, room, nil
}
