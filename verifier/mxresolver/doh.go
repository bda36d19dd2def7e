package mxresolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/miekg/dns"
)

// CloudflareDoHEndpoint is a well-known public JSON DoH endpoint, usable as a
// default when none is configured.
const CloudflareDoHEndpoint = "https://cloudflare-dns.com/dns-query"

// dohResponse is the JSON shape shared by the Cloudflare and Google DoH
// endpoints (the "application/dns-json" flavour of RFC 8484).
type dohResponse struct {
	Status int         `json:"Status"`
	Answer []dohAnswer `json:"Answer"`
}

type dohAnswer struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	TTL  int    `json:"TTL"`
	Data string `json:"data"`
}

// NewDoH constructs a resolver that tunnels MX queries over HTTPS, for
// environments where outbound port 53 is blocked.
func NewDoH(endpoint string, timeout time.Duration) *DoH {
	if endpoint == "" {
		endpoint = CloudflareDoHEndpoint
	}

	return &DoH{
		endpoint: endpoint,
		client:   req.C().SetTimeout(timeout),
	}
}

// DoH resolves MX records with a GET query against a public DNS-over-HTTPS
// endpoint, negotiating the JSON response shape.
type DoH struct {
	endpoint string
	client   *req.Client
}

// LookupMX implements Resolver with the same error contract as DNS: a parsed
// response carrying an error status or no usable answers is ErrNoRecords,
// anything that prevented obtaining a response is an unsettled failure.
func (r *DoH) LookupMX(ctx context.Context, domain string) ([]string, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/dns-json").
		SetQueryParam("name", dns.Fqdn(domain)).
		SetQueryParam("type", "MX").
		Get(r.endpoint)

	if err != nil {
		return nil, fmt.Errorf("DoH query failed %w", err)
	}

	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("DoH endpoint returned HTTP %d", resp.StatusCode)
	}

	var body dohResponse
	if err := json.Unmarshal(resp.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("unable to decode DoH response %w", err)
	}

	if body.Status != dns.RcodeSuccess {
		return nil, fmt.Errorf("DoH status %s for %q %w", dns.RcodeToString[body.Status], domain, ErrNoRecords)
	}

	hosts := collectHosts(mxHostsFromJSON(body.Answer))
	if len(hosts) == 0 {
		return nil, ErrNoRecords
	}

	return hosts, nil
}

// mxHostsFromJSON extracts the exchange hosts from JSON answer records, which
// hold MX rdata as "<preference> <exchange>".
func mxHostsFromJSON(answers []dohAnswer) []string {
	hosts := make([]string, 0, len(answers))
	for _, a := range answers {
		if a.Type != int(dns.TypeMX) {
			continue
		}

		fields := strings.Fields(a.Data)
		if len(fields) == 0 {
			continue
		}

		hosts = append(hosts, fields[len(fields)-1])
	}

	return hosts
}
