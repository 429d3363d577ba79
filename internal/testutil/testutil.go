// Package testutil provides shared test helpers for unit tests. It is a
// leaf package (no internal imports) so that both internal and external
// test packages can use it freely.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockExchanger satisfies the probe package's Exchanger interface. Set
// ExchangeFn to control the response per query; the default echoes an
// empty reply.
type MockExchanger struct {
	ExchangeFn func(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// ExchangeContext dispatches to ExchangeFn.
func (m *MockExchanger) ExchangeContext(ctx context.Context, msg *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
	if m.ExchangeFn != nil {
		return m.ExchangeFn(ctx, msg, address)
	}
	reply := new(dns.Msg)
	reply.SetReply(msg)
	return reply, 0, nil
}

// MockDialer satisfies the probe package's Dialer interface.
type MockDialer struct {
	DialFn func(ctx context.Context, network, address string) (net.Conn, error)
}

// DialContext dispatches to DialFn; the default refuses every dial.
func (m *MockDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if m.DialFn != nil {
		return m.DialFn(ctx, network, address)
	}
	return nil, net.ErrClosed
}

// AReply builds a DNS reply to msg carrying one A record per address.
func AReply(msg *dns.Msg, addrs ...string) *dns.Msg {
	reply := new(dns.Msg)
	reply.SetReply(msg)
	for _, addr := range addrs {
		reply.Answer = append(reply.Answer, &dns.A{
			Hdr: dns.RR_Header{
				Name:   msg.Question[0].Name,
				Rrtype: dns.TypeA,
				Class:  dns.ClassINET,
				Ttl:    60,
			},
			A: net.ParseIP(addr),
		})
	}
	return reply
}
