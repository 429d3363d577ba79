package apperr

import "errors"

// ErrInvalidInput is returned when a provided domain fails validation.
// This is the only error that escapes the probe engine; every network-level
// failure is absorbed into the corresponding result field instead.
// Use errors.Is(err, apperr.ErrInvalidInput) to detect validation failures
// uniformly across the CLI and the API layer.
var ErrInvalidInput = errors.New("invalid input")

// ErrTimeout marks an operation that did not complete within its deadline.
var ErrTimeout = errors.New("operation timed out")

// ErrResolutionFailed marks a DNS query that completed but produced no
// usable answer (SERVFAIL, NXDOMAIN, protocol error).
var ErrResolutionFailed = errors.New("resolution failed")

// ErrConnectionRefused marks a TCP connection actively refused by the peer.
var ErrConnectionRefused = errors.New("connection refused")

// ErrConnectionReset marks a connection torn down by a RST or an abrupt
// close mid-exchange.
var ErrConnectionReset = errors.New("connection reset")

// ErrMalformedResponse marks a response that could not be parsed.
var ErrMalformedResponse = errors.New("malformed response")

// ErrRequestFailed is returned by the remote client when a check request
// fails at the transport level or the server responds with a non-2xx status.
var ErrRequestFailed = errors.New("request failed")
