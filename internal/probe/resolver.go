package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/wallcheck/wallcheck/internal/apperr"
)

// dnsPort is appended to resolver addresses given without a port.
const dnsPort = "53"

// Exchanger is the subset of *dns.Client used by ResolverClient, abstracted
// for testing.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// ResolverClient issues single-shot A-record queries against explicit
// resolver addresses. Queries go over UDP first and are retried once over
// TCP when the response is truncated. There is no retry policy beyond that:
// one attempt per resolver per request is the contract.
type ResolverClient struct {
	udp     Exchanger
	tcp     Exchanger
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolverClient returns a client whose individual queries are bounded
// by timeout.
func NewResolverClient(timeout time.Duration, logger *slog.Logger) *ResolverClient {
	return &ResolverClient{
		udp:     &dns.Client{Net: "udp", Timeout: timeout},
		tcp:     &dns.Client{Net: "tcp", Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

// QueryA resolves domain's A records via the resolver at server (host or
// host:port). On any failure it returns no addresses and an error wrapping
// apperr.ErrTimeout or apperr.ErrResolutionFailed; it never panics and
// never blocks past the configured timeout.
func (c *ResolverClient) QueryA(ctx context.Context, server, domain string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	server = ensureDNSPort(server)
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeA)

	resp, _, err := c.udp.ExchangeContext(ctx, m, server)
	if err == nil && resp.Truncated {
		c.logger.Debug("truncated response, retrying over tcp", "resolver", server, "domain", domain)
		resp, _, err = c.tcp.ExchangeContext(ctx, m, server)
	}
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: resolver %s: %v", apperr.ErrTimeout, server, err)
		}
		return nil, fmt.Errorf("%w: resolver %s: %v", apperr.ErrResolutionFailed, server, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: resolver %s answered %s", apperr.ErrResolutionFailed, server, dns.RcodeToString[resp.Rcode])
	}

	var addrs []string
	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	return addrs, nil
}

// ensureDNSPort appends :53 when addr carries no port.
func ensureDNSPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, dnsPort)
}
