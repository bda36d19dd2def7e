// Package mxresolver answers one question: which host accepts mail for a
// domain. It offers two interchangeable transports, a direct DNS client and a
// DNS-over-HTTPS client, so callers on networks that restrict port 53 can
// still resolve.
package mxresolver

import (
	"context"
	"errors"
	"strings"
)

// ErrNoRecords is the definitive negative: the domain exists without MX
// records, the answer section was empty, or the domain doesn't exist at all.
// Any other error from a Resolver means the lookup itself failed and the
// domain's mail capability is unknown.
var ErrNoRecords = errors.New("domain has no MX records")

// Resolver resolves the MX record set for a domain. Implementations return
// the exchange hosts in the order the response listed them, trimmed of the
// trailing root dot.
type Resolver interface {
	LookupMX(ctx context.Context, domain string) ([]string, error)
}

// collectHosts filters a raw exchange host list down to plausible host names,
// preserving response order. Bogus entries such as a bare "." (RFC 7505 null
// MX) are weeded out.
func collectHosts(raw []string) []string {
	collected := make([]string, 0, len(raw))
	for _, h := range raw {
		host := strings.TrimRight(h, ".")
		if mightBeAHost(host) {
			collected = append(collected, host)
		}
	}

	return collected
}

// mightBeAHost is a rudimentary plausibility check for an exchange host name.
// It aims for speed, not correctness; its job is rejecting bogus answer data,
// not validating DNS names.
func mightBeAHost(h string) bool {
	lastCharIndex := len(h) - 1
	if 3 >= lastCharIndex || lastCharIndex >= 253 {
		return false
	}

	var dotCount uint8
	for i, c := range h {
		switch {
		case 48 <= c && c <= 57 /* 0-9 */ :
		case 65 <= c && c <= 90 /* A-Z */ :
		case 97 <= c && c <= 122 /* a-z */ :
		case c == 45 /* dash - */ :
		case c == 46 && 0 < i && i < lastCharIndex /* dot . */ :
			dotCount++
		default:
			return false
		}
	}

	return dotCount > 0
}
