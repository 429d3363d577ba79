package probe

import "strings"

// Conclusion strings for the summary. The blocked conclusion is completed
// with the descriptions of the present indicators.
const (
	conclusionNoAddresses = "no resolved addresses"
	conclusionUnblocked   = "no blocking detected"
	conclusionBlocked     = "domain appears blocked: "
)

// Classify fuses the DNS consistency verdict and the per-IP connectivity
// results into summary fields. Rules run in a fixed order (pollution, TLS
// reset, total TCP failure) so the indicator sequence is deterministic for
// a given input regardless of probe completion order. Pure function: same
// input, same summary, no hidden state. ElapsedTime is left zero for the
// orchestrator to fill in.
func Classify(pollution bool, dnsStatus string, allIPs []string, conn map[string]*ConnectivityResult) Summary {
	indicators := []Indicator{}

	if pollution {
		indicators = append(indicators, IndicatorDNSPollution)
	}

	for _, ip := range allIPs {
		if conn[ip] != nil && conn[ip].TLS == TLSReset {
			indicators = append(indicators, IndicatorTLSReset)
			break
		}
	}

	if len(allIPs) > 0 && allTCPFailed(allIPs, conn) {
		indicators = append(indicators, IndicatorTCPAllFailed)
	}

	s := Summary{
		AllIPs:            allIPs,
		DNSPollution:      pollution,
		DNSStatus:         dnsStatus,
		BlockedIndicators: indicators,
		IsBlocked:         len(indicators) > 0 || len(allIPs) == 0,
	}
	s.Conclusion = conclusion(s)
	return s
}

// allTCPFailed reports whether no probed port on any IP accepted a
// connection.
func allTCPFailed(allIPs []string, conn map[string]*ConnectivityResult) bool {
	for _, ip := range allIPs {
		cr := conn[ip]
		if cr == nil {
			continue
		}
		for _, ok := range cr.TCP {
			if ok {
				return false
			}
		}
	}
	return true
}

func conclusion(s Summary) string {
	if len(s.AllIPs) == 0 {
		return conclusionNoAddresses
	}
	if !s.IsBlocked {
		return conclusionUnblocked
	}
	descs := make([]string, len(s.BlockedIndicators))
	for i, ind := range s.BlockedIndicators {
		descs[i] = ind.Description()
	}
	return conclusionBlocked + strings.Join(descs, ", ")
}
