package probe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallcheck/wallcheck/internal/probe"
)

func connOK() *probe.ConnectivityResult {
	return &probe.ConnectivityResult{
		TCP:  map[int]bool{80: true, 443: true},
		TLS:  probe.TLSSuccess,
		HTTP: true,
	}
}

func connDead() *probe.ConnectivityResult {
	return &probe.ConnectivityResult{
		TCP:  map[int]bool{80: false, 443: false},
		TLS:  probe.TLSFailed,
		HTTP: false,
	}
}

func TestClassify_Unblocked(t *testing.T) {
	ips := []string{"142.250.191.14"}
	conn := map[string]*probe.ConnectivityResult{ips[0]: connOK()}

	s := probe.Classify(false, probe.StatusConsistent, ips, conn)

	assert.False(t, s.DNSPollution)
	assert.Empty(t, s.BlockedIndicators)
	assert.False(t, s.IsBlocked)
	assert.Equal(t, "no blocking detected", s.Conclusion)
}

func TestClassify_NoAddresses(t *testing.T) {
	s := probe.Classify(false, probe.StatusInsufficientData, []string{}, map[string]*probe.ConnectivityResult{})

	assert.Empty(t, s.BlockedIndicators)
	assert.True(t, s.IsBlocked, "unresolvable domain must be blocked")
	assert.Equal(t, "no resolved addresses", s.Conclusion)
}

func TestClassify_Pollution(t *testing.T) {
	ips := []string{"1.2.3.4", "5.6.7.8"}
	conn := map[string]*probe.ConnectivityResult{ips[0]: connOK(), ips[1]: connOK()}

	s := probe.Classify(true, probe.StatusInconsistent, ips, conn)

	assert.Equal(t, []probe.Indicator{probe.IndicatorDNSPollution}, s.BlockedIndicators)
	assert.True(t, s.IsBlocked)
	assert.Contains(t, s.Conclusion, "DNS pollution")
}

func TestClassify_TLSReset(t *testing.T) {
	ip := "1.2.3.4"
	cr := connOK()
	cr.TLS = probe.TLSReset
	conn := map[string]*probe.ConnectivityResult{ip: cr}

	s := probe.Classify(false, probe.StatusConsistent, []string{ip}, conn)

	assert.Equal(t, []probe.Indicator{probe.IndicatorTLSReset}, s.BlockedIndicators)
	assert.True(t, s.IsBlocked)
	assert.Contains(t, s.Conclusion, "SNI")
}

func TestClassify_TCPAllFailed(t *testing.T) {
	ip := "1.2.3.4"
	conn := map[string]*probe.ConnectivityResult{ip: connDead()}

	s := probe.Classify(false, probe.StatusInsufficientData, []string{ip}, conn)

	assert.Contains(t, s.BlockedIndicators, probe.IndicatorTCPAllFailed)
	assert.True(t, s.IsBlocked)
}

func TestClassify_TCPOnePortAliveIsNotAllFailed(t *testing.T) {
	ip := "1.2.3.4"
	cr := connDead()
	cr.TCP[443] = true
	conn := map[string]*probe.ConnectivityResult{ip: cr}

	s := probe.Classify(false, probe.StatusInsufficientData, []string{ip}, conn)

	assert.NotContains(t, s.BlockedIndicators, probe.IndicatorTCPAllFailed)
}

func TestClassify_IndicatorOrderFixed(t *testing.T) {
	ips := []string{"1.2.3.4", "5.6.7.8"}
	crA := connDead()
	crA.TLS = probe.TLSReset
	conn := map[string]*probe.ConnectivityResult{ips[0]: crA, ips[1]: connDead()}

	s := probe.Classify(true, probe.StatusInconsistent, ips, conn)

	require.Equal(t, []probe.Indicator{
		probe.IndicatorDNSPollution,
		probe.IndicatorTLSReset,
		probe.IndicatorTCPAllFailed,
	}, s.BlockedIndicators)
	assert.True(t, s.IsBlocked)
}

func TestClassify_Idempotent(t *testing.T) {
	ips := []string{"1.2.3.4"}
	cr := connDead()
	cr.TLS = probe.TLSReset
	conn := map[string]*probe.ConnectivityResult{ips[0]: cr}

	first := probe.Classify(true, probe.StatusInconsistent, ips, conn)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, probe.Classify(true, probe.StatusInconsistent, ips, conn))
	}
}

func TestClassify_IsBlockedNeverIndependent(t *testing.T) {
	// is_blocked must equal (indicators non-empty || no IPs) in every case.
	cases := []struct {
		ips  []string
		conn map[string]*probe.ConnectivityResult
		poll bool
	}{
		{[]string{}, map[string]*probe.ConnectivityResult{}, false},
		{[]string{"1.1.1.1"}, map[string]*probe.ConnectivityResult{"1.1.1.1": connOK()}, false},
		{[]string{"1.1.1.1"}, map[string]*probe.ConnectivityResult{"1.1.1.1": connOK()}, true},
		{[]string{"1.1.1.1"}, map[string]*probe.ConnectivityResult{"1.1.1.1": connDead()}, false},
	}
	for _, tc := range cases {
		s := probe.Classify(tc.poll, "", tc.ips, tc.conn)
		assert.Equal(t, len(s.BlockedIndicators) > 0 || len(tc.ips) == 0, s.IsBlocked)
	}
}
