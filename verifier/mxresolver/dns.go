package mxresolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

const defaultDNSPort = "53"

// NewDNS constructs a direct DNS resolver. When servers is empty the
// resolvers from /etc/resolv.conf are used. Server entries may omit the port,
// in which case 53 is assumed.
func NewDNS(servers []string, timeout time.Duration) (*DNS, error) {
	if len(servers) == 0 {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("no resolvers configured and none could be loaded from the system %w", err)
		}

		for _, s := range conf.Servers {
			servers = append(servers, net.JoinHostPort(s, conf.Port))
		}
	}

	addrs := make([]string, 0, len(servers))
	for _, s := range servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, defaultDNSPort)
		}

		addrs = append(addrs, s)
	}

	if len(addrs) == 0 {
		return nil, fmt.Errorf("no usable resolver addresses")
	}

	return &DNS{
		servers: addrs,
		udp:     &dns.Client{Net: "udp", Timeout: timeout},
		tcp:     &dns.Client{Net: "tcp", Timeout: timeout},
	}, nil
}

// DNS resolves MX records by querying name servers directly over the wire
// protocol. Servers are tried in configured order until one produces a
// response.
type DNS struct {
	servers []string
	udp     *dns.Client
	tcp     *dns.Client
}

// LookupMX implements Resolver. A response with a non-success Rcode or an
// empty answer section is a definitive ErrNoRecords; errors reaching any of
// the configured servers are returned as-is, meaning the lookup is unsettled.
func (r *DNS) LookupMX(ctx context.Context, domain string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
	m.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		in, err := r.exchange(ctx, m, server)
		if err != nil {
			lastErr = fmt.Errorf("querying %s %w", server, err)
			continue
		}

		if in.Rcode != dns.RcodeSuccess {
			// NXDOMAIN and friends come from an authoritative chain, that's an
			// answer, not an outage.
			return nil, fmt.Errorf("%s answered %s for %q %w", server, dns.RcodeToString[in.Rcode], domain, ErrNoRecords)
		}

		hosts := collectHosts(mxHostsFromAnswer(in.Answer))
		if len(hosts) == 0 {
			return nil, ErrNoRecords
		}

		return hosts, nil
	}

	return nil, fmt.Errorf("MX lookup failed on all resolvers %w", lastErr)
}

// exchange performs the query over UDP and falls back to TCP when the
// response came back truncated.
func (r *DNS) exchange(ctx context.Context, m *dns.Msg, server string) (*dns.Msg, error) {
	in, _, err := r.udp.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, err
	}

	if in.Truncated {
		in, _, err = r.tcp.ExchangeContext(ctx, m, server)
		if err != nil {
			return nil, err
		}
	}

	return in, nil
}

func mxHostsFromAnswer(answer []dns.RR) []string {
	hosts := make([]string, 0, len(answer))
	for _, rr := range answer {
		if mx, ok := rr.(*dns.MX); ok {
			hosts = append(hosts, mx.Mx)
		}
	}

	return hosts
}
