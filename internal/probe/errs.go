package probe

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

// isTimeout reports whether err is a deadline- or cancellation-shaped
// failure rather than a protocol one.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isReset reports whether err indicates the peer tore the connection down
// with a RST or an abrupt close mid-exchange. An unexpected EOF counts:
// middleboxes that filter on SNI frequently close the upstream socket
// instead of forging a RST toward the client.
func isReset(err error) bool {
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}
