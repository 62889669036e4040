package net

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_localdiagram._tcp"

// ErrNoHost is returned by FindHost when nobody answered in time.
var ErrNoHost = errors.New("no diagram host found on the local network")

// Advertise announces a hosted diagram on port. Shutdown the returned server
// to stop announcing.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"LocalDiagram"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[MDNS] Advertising %s as %s on port %d", serviceType, host, port)
	return server, nil
}

// Browse collects host:port addresses of diagram hosts answering within
// timeout.
func Browse(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan []string)
	go func() {
		var addrs []string
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addrs = append(addrs, fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
		found <- addrs
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	addrs := <-found
	if err != nil {
		return addrs, fmt.Errorf("mDNS query failed: %w", err)
	}
	return addrs, nil
}

// FindHost returns the first diagram host that answers.
func FindHost(timeout time.Duration) (string, error) {
	addrs, err := Browse(timeout)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", ErrNoHost
	}
	log.Printf("[MDNS] Found %d host(s), joining %s", len(addrs), addrs[0])
	return addrs[0], nil
}
