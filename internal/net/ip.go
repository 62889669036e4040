package net

import (
	"fmt"
	"log"
	"net"
	"strings"
)

// LinkScheme prefixes share links, e.g. localdiagram://192.168.1.20:8888.
const LinkScheme = "localdiagram://"

// ShareLink builds the link peers use to join.
func ShareLink(ip string, port int) string {
	return LinkScheme + net.JoinHostPort(ip, fmt.Sprint(port))
}

// ParseLink accepts a share link or a bare host:port and returns host:port.
func ParseLink(link string) (string, error) {
	address := strings.TrimPrefix(strings.TrimSpace(link), LinkScheme)
	address = strings.TrimSuffix(address, "/")
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return "", fmt.Errorf("invalid share link %q: %w", link, err)
	}
	if host == "" || port == "" {
		return "", fmt.Errorf("invalid share link %q: missing host or port", link)
	}
	return address, nil
}

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet, fall back to checking local interfaces.
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("could not list interface addresses: %w", err)
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	log.Println("[NET] No suitable local IP found, share link may not work.")
	return "127.0.0.1", nil
}
