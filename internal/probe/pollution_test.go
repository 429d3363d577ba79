package probe_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wallcheck/wallcheck/internal/probe"
)

func rr(name string, addrs ...string) probe.ResolverResult {
	return probe.ResolverResult{Resolver: name, Addrs: addrs}
}

func TestDetectPollution(t *testing.T) {
	tests := []struct {
		name          string
		results       []probe.ResolverResult
		wantPollution bool
		wantStatus    string
	}{
		{
			name:          "no results",
			results:       nil,
			wantPollution: false,
			wantStatus:    probe.StatusInsufficientData,
		},
		{
			name:          "all failed",
			results:       []probe.ResolverResult{rr("a"), rr("b"), rr("c")},
			wantPollution: false,
			wantStatus:    probe.StatusInsufficientData,
		},
		{
			name:          "single success cannot conclude",
			results:       []probe.ResolverResult{rr("a", "1.2.3.4"), rr("b")},
			wantPollution: false,
			wantStatus:    probe.StatusInsufficientData,
		},
		{
			name: "full agreement",
			results: []probe.ResolverResult{
				rr("a", "142.250.191.14"),
				rr("b", "142.250.191.14"),
				rr("c", "142.250.191.14"),
				rr("d", "142.250.191.14"),
			},
			wantPollution: false,
			wantStatus:    probe.StatusConsistent,
		},
		{
			name: "two camps disagree",
			results: []probe.ResolverResult{
				rr("a", "1.2.3.4"),
				rr("b", "1.2.3.4"),
				rr("c", "5.6.7.8"),
				rr("d", "5.6.7.8"),
			},
			wantPollution: true,
			wantStatus:    probe.StatusInconsistent,
		},
		{
			name: "ordering differences are not pollution",
			results: []probe.ResolverResult{
				rr("a", "1.1.1.1", "2.2.2.2"),
				rr("b", "2.2.2.2", "1.1.1.1"),
			},
			wantPollution: false,
			wantStatus:    probe.StatusConsistent,
		},
		{
			name: "one extra address is pollution",
			results: []probe.ResolverResult{
				rr("a", "1.1.1.1", "2.2.2.2"),
				rr("b", "1.1.1.1"),
			},
			wantPollution: true,
			wantStatus:    probe.StatusInconsistent,
		},
		{
			name: "failed resolvers are ignored in comparison",
			results: []probe.ResolverResult{
				rr("a", "1.1.1.1"),
				rr("b"),
				rr("c", "1.1.1.1"),
			},
			wantPollution: false,
			wantStatus:    probe.StatusConsistent,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pollution, status := probe.DetectPollution(tc.results)
			assert.Equal(t, tc.wantPollution, pollution)
			assert.Equal(t, tc.wantStatus, status)
		})
	}
}

func TestDetectPollution_ErrFieldIrrelevant(t *testing.T) {
	// A resolver that errored but still carries addresses (should not
	// happen, but the detector only looks at address sets).
	results := []probe.ResolverResult{
		{Resolver: "a", Addrs: []string{"1.1.1.1"}, Err: errors.New("late failure")},
		{Resolver: "b", Addrs: []string{"1.1.1.1"}},
	}
	pollution, status := probe.DetectPollution(results)
	assert.False(t, pollution)
	assert.Equal(t, probe.StatusConsistent, status)
}
