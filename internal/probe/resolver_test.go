package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallcheck/wallcheck/internal/apperr"
	"github.com/wallcheck/wallcheck/internal/testutil"
)

func newTestResolverClient(udp, tcp Exchanger) *ResolverClient {
	return &ResolverClient{
		udp:     udp,
		tcp:     tcp,
		timeout: time.Second,
		logger:  testutil.NopLogger(),
	}
}

func TestQueryA_Success(t *testing.T) {
	udp := &testutil.MockExchanger{
		ExchangeFn: func(_ context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
			assert.Equal(t, "8.8.8.8:53", address)
			assert.Equal(t, "example.com.", m.Question[0].Name)
			assert.Equal(t, dns.TypeA, m.Question[0].Qtype)
			return testutil.AReply(m, "93.184.216.34", "93.184.216.35"), 0, nil
		},
	}
	c := newTestResolverClient(udp, &testutil.MockExchanger{})

	addrs, err := c.QueryA(context.Background(), "8.8.8.8", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"93.184.216.34", "93.184.216.35"}, addrs)
}

func TestQueryA_PortPreserved(t *testing.T) {
	udp := &testutil.MockExchanger{
		ExchangeFn: func(_ context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
			assert.Equal(t, "127.0.0.1:5353", address)
			return testutil.AReply(m, "1.2.3.4"), 0, nil
		},
	}
	c := newTestResolverClient(udp, &testutil.MockExchanger{})

	_, err := c.QueryA(context.Background(), "127.0.0.1:5353", "example.com")
	require.NoError(t, err)
}

func TestQueryA_TimeoutClassified(t *testing.T) {
	udp := &testutil.MockExchanger{
		ExchangeFn: func(ctx context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			return nil, 0, context.DeadlineExceeded
		},
	}
	c := newTestResolverClient(udp, &testutil.MockExchanger{})

	addrs, err := c.QueryA(context.Background(), "8.8.8.8", "example.com")
	assert.Empty(t, addrs)
	assert.ErrorIs(t, err, apperr.ErrTimeout)
}

func TestQueryA_NetworkFailureClassified(t *testing.T) {
	udp := &testutil.MockExchanger{
		ExchangeFn: func(_ context.Context, _ *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			return nil, 0, errors.New("read udp: connection refused")
		},
	}
	c := newTestResolverClient(udp, &testutil.MockExchanger{})

	addrs, err := c.QueryA(context.Background(), "8.8.8.8", "example.com")
	assert.Empty(t, addrs)
	assert.ErrorIs(t, err, apperr.ErrResolutionFailed)
}

func TestQueryA_ServfailIsResolutionFailure(t *testing.T) {
	udp := &testutil.MockExchanger{
		ExchangeFn: func(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			reply := new(dns.Msg)
			reply.SetRcode(m, dns.RcodeServerFailure)
			return reply, 0, nil
		},
	}
	c := newTestResolverClient(udp, &testutil.MockExchanger{})

	_, err := c.QueryA(context.Background(), "8.8.8.8", "example.com")
	assert.ErrorIs(t, err, apperr.ErrResolutionFailed)
}

func TestQueryA_NoAnswersIsEmptyNotError(t *testing.T) {
	udp := &testutil.MockExchanger{} // default: empty NOERROR reply
	c := newTestResolverClient(udp, &testutil.MockExchanger{})

	addrs, err := c.QueryA(context.Background(), "8.8.8.8", "example.com")
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestQueryA_TruncatedRetriesOverTCP(t *testing.T) {
	udp := &testutil.MockExchanger{
		ExchangeFn: func(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			reply := new(dns.Msg)
			reply.SetReply(m)
			reply.Truncated = true
			return reply, 0, nil
		},
	}
	tcpCalled := false
	tcp := &testutil.MockExchanger{
		ExchangeFn: func(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			tcpCalled = true
			return testutil.AReply(m, "1.2.3.4"), 0, nil
		},
	}
	c := newTestResolverClient(udp, tcp)

	addrs, err := c.QueryA(context.Background(), "8.8.8.8", "example.com")
	require.NoError(t, err)
	assert.True(t, tcpCalled, "truncated UDP response must trigger a TCP retry")
	assert.Equal(t, []string{"1.2.3.4"}, addrs)
}

func TestQueryA_IgnoresNonARecords(t *testing.T) {
	udp := &testutil.MockExchanger{
		ExchangeFn: func(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			reply := testutil.AReply(m, "1.2.3.4")
			reply.Answer = append(reply.Answer, &dns.CNAME{
				Hdr: dns.RR_Header{
					Name:   m.Question[0].Name,
					Rrtype: dns.TypeCNAME,
					Class:  dns.ClassINET,
					Ttl:    60,
				},
				Target: "alias.example.net.",
			})
			return reply, 0, nil
		},
	}
	c := newTestResolverClient(udp, &testutil.MockExchanger{})

	addrs, err := c.QueryA(context.Background(), "8.8.8.8", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.3.4"}, addrs)
}

// startTestDNSServer runs a local UDP DNS server answering every A query
// with the given addresses.
func startTestDNSServer(t *testing.T, addrs ...string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &dns.Server{
		PacketConn: pc,
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			_ = w.WriteMsg(testutil.AReply(r, addrs...))
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func TestQueryA_AgainstRealServer(t *testing.T) {
	addr := startTestDNSServer(t, "203.0.113.7")

	c := NewResolverClient(2*time.Second, testutil.NopLogger())
	addrs, err := c.QueryA(context.Background(), addr, "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.7"}, addrs)
}

func TestEnsureDNSPort(t *testing.T) {
	assert.Equal(t, "8.8.8.8:53", ensureDNSPort("8.8.8.8"))
	assert.Equal(t, "8.8.8.8:5353", ensureDNSPort("8.8.8.8:5353"))
}
