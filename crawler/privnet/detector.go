// Package privnet detects hosts that resolve to private network addresses.
package privnet

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/mycok/uCrawl/crawler"
)

// Static and compile-time check to ensure NetDetector implements
// crawler.PrivateNetworkDetector interface.
var _ crawler.PrivateNetworkDetector = (*NetDetector)(nil)

// DefaultPrivateRanges lists the loopback, RFC1918, carrier-grade NAT,
// link-local and unique local ranges.
var DefaultPrivateRanges = []string{
	"127.0.0.0/8",
	"::1/128",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
	"169.254.0.0/16",
	"fe80::/10",
	"0.0.0.0/8",
	"255.255.255.255/32",
	"fc00::/7",
}

// lookupTimeout bounds the DNS lookup performed for host names.
const lookupTimeout = 5 * time.Second

// Resolver looks up the addresses of a host name. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// NetDetector checks whether a host name resolves to a private network address.
type NetDetector struct {
	ranges   []netip.Prefix
	resolver Resolver
}

// NewDetector returns a detector for DefaultPrivateRanges that uses the
// system resolver.
func NewDetector() (*NetDetector, error) {
	return NewDetectorFromCIDRs(DefaultPrivateRanges...)
}

// NewDetectorFromCIDRs returns a detector that treats the given CIDR ranges
// as private.
func NewDetectorFromCIDRs(cidrs ...string) (*NetDetector, error) {
	ranges := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, err
		}

		ranges = append(ranges, prefix.Masked())
	}

	return &NetDetector{ranges: ranges, resolver: net.DefaultResolver}, nil
}

// WithResolver replaces the resolver used for host names.
func (d *NetDetector) WithResolver(r Resolver) *NetDetector {
	d.resolver = r

	return d
}

// IsNetworkPrivate reports whether address is, or resolves to, a private
// network address. A host name is private if any of its addresses is.
func (d *NetDetector) IsNetworkPrivate(address string) (bool, error) {
	host := strings.TrimSuffix(strings.TrimPrefix(address, "["), "]")

	if addr, err := netip.ParseAddr(host); err == nil {
		return d.isPrivate(addr), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	addrs, err := d.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return false, err
	}

	for _, addr := range addrs {
		if d.isPrivate(addr) {
			return true, nil
		}
	}

	return false, nil
}

func (d *NetDetector) isPrivate(addr netip.Addr) bool {
	// IPv4-mapped IPv6 addresses are matched against the IPv4 ranges.
	addr = addr.Unmap().WithZone("")

	for _, prefix := range d.ranges {
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}
