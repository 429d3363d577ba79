package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

// httpProbeReadLen is how much of the response is read before deciding.
// The status line's "HTTP" prefix is all that matters.
const httpProbeReadLen = 50

// CheckHTTP dials ip on the HTTP port, sends a minimal HEAD request with
// the Host header set to domain, and reports whether anything that looks
// like an HTTP status line came back before the timeout. Status codes and
// redirects are deliberately ignored: a middlebox that intercepts port 80
// typically answers with nothing, a reset, or garbage, so the presence of
// any well-formed response is the reachability signal. A high-level HTTP
// client is unsuitable here because the request must target a specific IP
// while naming a different host.
func (p *NetProber) CheckHTTP(ctx context.Context, ip, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip, strconv.Itoa(p.httpPort)))
	if err != nil {
		p.logger.Debug("http probe: tcp connect failed", "ip", ip, "error", err)
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(p.timeout))

	if _, err := fmt.Fprintf(conn, "HEAD / HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", domain); err != nil {
		p.logger.Debug("http probe: write failed", "ip", ip, "error", err)
		return false
	}

	buf := make([]byte, httpProbeReadLen)
	n, err := io.ReadAtLeast(conn, buf, len("HTTP"))
	if err != nil {
		p.logger.Debug("http probe: read failed", "ip", ip, "error", err)
		return false
	}
	return bytes.HasPrefix(buf[:n], []byte("HTTP"))
}
