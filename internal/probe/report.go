package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wallcheck/wallcheck/internal/apperr"
)

// TLSStatus is the tri-state outcome of a TLS handshake probe.
type TLSStatus int

const (
	// TLSFailed covers timeouts, refusals before TLS starts, and malformed
	// handshakes. Ambiguous: says nothing about filtering.
	TLSFailed TLSStatus = iota
	// TLSSuccess means the handshake completed, certificate validity aside.
	TLSSuccess
	// TLSReset means the connection was reset or abruptly closed after the
	// ClientHello revealed the server name. This is the SNI-filtering signal
	// and must never be collapsed into a plain failure.
	TLSReset
)

// tlsResetWire is the wire encoding of TLSReset, kept for compatibility
// with existing report consumers: success and failure serialize as JSON
// booleans, reset as this literal string.
const tlsResetWire = "TLS-Reset"

// String returns a human-readable label for the status.
func (s TLSStatus) String() string {
	switch s {
	case TLSSuccess:
		return "success"
	case TLSReset:
		return "reset"
	default:
		return "failed"
	}
}

// MarshalJSON encodes TLSSuccess as true, TLSFailed as false, and TLSReset
// as the string "TLS-Reset".
func (s TLSStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case TLSSuccess:
		return []byte("true"), nil
	case TLSReset:
		return json.Marshal(tlsResetWire)
	default:
		return []byte("false"), nil
	}
}

// UnmarshalJSON accepts the bool-or-"TLS-Reset" wire encoding.
func (s *TLSStatus) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*s = TLSSuccess
		} else {
			*s = TLSFailed
		}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil && str == tlsResetWire {
		*s = TLSReset
		return nil
	}
	return fmt.Errorf("%w: invalid tls status %s", apperr.ErrMalformedResponse, data)
}

// Resolver identifies one DNS server to query, with the display name used
// as the key in the report's dns section.
type Resolver struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

// ResolverResult is the outcome of a single A-record query against one
// resolver. Addrs is empty when the query failed or returned no addresses;
// Err carries the absorbed failure for logging, never for propagation.
type ResolverResult struct {
	Resolver string
	Addrs    []string
	Err      error
}

// ConnectivityResult holds the per-IP probe outcomes: one TCP reachability
// bit per probed port, the TLS handshake tri-state, and whether a
// well-formed HTTP response was received.
type ConnectivityResult struct {
	TCP  map[int]bool
	TLS  TLSStatus
	HTTP bool
}

// MarshalJSON renders the result with one "tcp_<port>" key per probed port
// in ascending port order, followed by "tls" and "http".
func (c *ConnectivityResult) MarshalJSON() ([]byte, error) {
	ports := make([]int, 0, len(c.TCP))
	for p := range c.TCP {
		ports = append(ports, p)
	}
	sort.Ints(ports)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, p := range ports {
		fmt.Fprintf(&buf, `"tcp_%d":%t,`, p, c.TCP[p])
	}
	tlsEnc, err := c.TLS.MarshalJSON()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, `"tls":%s,"http":%t}`, tlsEnc, c.HTTP)
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the "tcp_<port>"/"tls"/"http" wire layout.
func (c *ConnectivityResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.TCP = make(map[int]bool)
	for key, val := range raw {
		switch {
		case key == "tls":
			if err := c.TLS.UnmarshalJSON(val); err != nil {
				return err
			}
		case key == "http":
			if err := json.Unmarshal(val, &c.HTTP); err != nil {
				return err
			}
		case strings.HasPrefix(key, "tcp_"):
			port, err := strconv.Atoi(strings.TrimPrefix(key, "tcp_"))
			if err != nil {
				return fmt.Errorf("%w: invalid connectivity key %q", apperr.ErrMalformedResponse, key)
			}
			var ok bool
			if err := json.Unmarshal(val, &ok); err != nil {
				return err
			}
			c.TCP[port] = ok
		}
	}
	return nil
}

// Indicator is one discrete, enumerated signal contributing to the blocked
// verdict.
type Indicator string

const (
	// IndicatorDNSPollution means independent resolvers disagreed on the
	// domain's addresses.
	IndicatorDNSPollution Indicator = "dns-pollution"
	// IndicatorTLSReset means at least one IP reset the connection during
	// the TLS handshake.
	IndicatorTLSReset Indicator = "tls-reset"
	// IndicatorTCPAllFailed means no probed port on any resolved IP
	// accepted a TCP connection.
	IndicatorTCPAllFailed Indicator = "tcp-all-failed"
)

// Description returns the human-readable phrase used in the conclusion.
func (i Indicator) Description() string {
	switch i {
	case IndicatorDNSPollution:
		return "DNS pollution"
	case IndicatorTLSReset:
		return "TLS reset (suspected SNI filtering)"
	case IndicatorTCPAllFailed:
		return "all TCP connections failed"
	default:
		return string(i)
	}
}

// Summary fuses the per-plane results into the final verdict.
type Summary struct {
	AllIPs            []string    `json:"all_ips"`
	DNSPollution      bool        `json:"dns_pollution"`
	DNSStatus         string      `json:"dns_status"`
	BlockedIndicators []Indicator `json:"blocked_indicators"`
	IsBlocked         bool        `json:"is_blocked"`
	Conclusion        string      `json:"conclusion"`
	ElapsedTime       float64     `json:"elapsed_time"`
}

// Report is the complete result of probing one domain. All slices and maps
// are non-nil so the serialized form always carries every section.
type Report struct {
	Domain       string                         `json:"domain"`
	DNS          map[string][]string            `json:"dns"`
	Connectivity map[string]*ConnectivityResult `json:"connectivity"`
	Summary      Summary                        `json:"summary"`
	Timestamp    float64                        `json:"timestamp"`
}
