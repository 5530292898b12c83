package realms

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// SelectAddress picks the host:port a client should use to reach r: the
// local address when clientIP falls inside the realm's configured local
// subnet, the external address otherwise. Falls back to ExternalAddress on
// any parse failure so a misconfigured subnet never breaks realm listing.
func SelectAddress(r *Realm, clientIP net.IP) string {
	if r.LocalSubnet == "" || r.LocalAddress == "" {
		return r.ExternalAddress
	}

	_, subnet, err := net.ParseCIDR(r.LocalSubnet)
	if err != nil {
		return r.ExternalAddress
	}

	if clientIP != nil && subnet.Contains(clientIP) {
		return r.LocalAddress
	}
	return r.ExternalAddress
}

// SplitHostPort parses an "ip:port" address into its components for wire
// encoding, defaulting the port to fallbackPort when the address carries none.
func SplitHostPort(address string, fallbackPort uint16) (ip net.IP, port uint16, err error) {
	host, portStr, splitErr := net.SplitHostPort(address)
	if splitErr != nil {
		host = address
		portStr = strconv.Itoa(int(fallbackPort))
	}

	resolved, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		return nil, 0, fmt.Errorf("realms: resolving address %q: %w", address, err)
	}

	p, err := strconv.ParseUint(strings.TrimSpace(portStr), 10, 16)
	if err != nil {
		return nil, 0, fmt.Errorf("realms: parsing port in %q: %w", address, err)
	}

	return resolved.IP.To4(), uint16(p), nil
}
