package net

import (
	"log/slog"
	"net"
)

// OutgoingIP finds the local address peers on the network should use to
// reach this host.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return localIPFallback()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// localIPFallback is used on networks without internet access.
func localIPFallback() string {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, address := range addrs {
			if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	slog.Warn("no suitable local IP found, share link uses loopback")
	return "127.0.0.1"
}
