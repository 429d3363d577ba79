package probe

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"
)

// Dialer is the subset of *net.Dialer used by NetProber, abstracted for
// testing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NetProber performs the per-IP connectivity probes: bare TCP connects,
// TLS handshakes, and raw HTTP requests. Every probe absorbs its failure
// into the documented result value; nothing propagates.
type NetProber struct {
	dialer  Dialer
	timeout time.Duration
	logger  *slog.Logger

	// Probe target ports. Fixed to the well-known values in production;
	// overridable inside the package so tests can target local listeners.
	tlsPort  int
	httpPort int
}

// NewNetProber returns a prober whose individual operations are bounded by
// timeout.
func NewNetProber(timeout time.Duration, logger *slog.Logger) *NetProber {
	return &NetProber{
		dialer:   &net.Dialer{Timeout: timeout},
		timeout:  timeout,
		logger:   logger,
		tlsPort:  443,
		httpPort: 80,
	}
}

// CheckTCP reports whether a TCP connection to ip:port completes within the
// configured timeout. Refusal, timeout, and routing failures all yield
// false.
func (p *NetProber) CheckTCP(ctx context.Context, ip string, port int) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		p.logger.Debug("tcp connect failed", "ip", ip, "port", port, "error", err)
		return false
	}
	_ = conn.Close()
	return true
}
