package probe

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"
)

// CheckTLS dials ip on the TLS port and runs a TLS handshake presenting
// domain as the server name. Outcomes:
//
//   - TLSSuccess: the handshake completed. Certificate validity is
//     irrelevant here; reachability is the question, so verification is
//     disabled.
//   - TLSReset: the peer reset or abruptly closed the connection after the
//     ClientHello went out. The SNI in that ClientHello is the only thing a
//     middlebox has learned at that point, which makes a reset here the
//     strongest single censorship signal this engine produces.
//   - TLSFailed: everything else (timeout, refusal before TLS, malformed
//     handshake).
func (p *NetProber) CheckTLS(ctx context.Context, ip, domain string) TLSStatus {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip, strconv.Itoa(p.tlsPort)))
	if err != nil {
		p.logger.Debug("tls probe: tcp connect failed", "ip", ip, "error", err)
		return TLSFailed
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(p.timeout))

	tconn := tls.Client(conn, &tls.Config{
		ServerName:         domain,
		InsecureSkipVerify: true, //nolint:gosec // reachability probe; certificate validity is out of scope
	})
	err = tconn.HandshakeContext(ctx)
	switch {
	case err == nil:
		return TLSSuccess
	case !isTimeout(err) && isReset(err):
		p.logger.Debug("tls probe: connection reset during handshake", "ip", ip, "domain", domain, "error", err)
		return TLSReset
	default:
		p.logger.Debug("tls probe: handshake failed", "ip", ip, "domain", domain, "error", err)
		return TLSFailed
	}
}
