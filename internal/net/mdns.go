package net

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service RoomBoard servers advertise.
const ServiceType = "_roomboard._tcp"

// ErrNoServer is returned when discovery finds nothing before its timeout.
var ErrNoServer = errors.New("no roomboard server found on the local network")

// Advertise announces a server listening on port to the local network.
// Close the returned server to stop advertising.
func Advertise(port int, info []string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, []net.IP{firstIPv4()}, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discover browses the local network for timeout and returns the http
// address of the first server that answers.
func Discover(timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			select {
			case found <- fmt.Sprintf("http://%s:%d", e.AddrV4.String(), e.Port):
			default:
			}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return "", fmt.Errorf("mdns query: %w", err)
	}
	select {
	case addr := <-found:
		return addr, nil
	default:
		return "", ErrNoServer
	}
}

func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
