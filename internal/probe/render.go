package probe

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteText renders the report as a human-readable breakdown: per-resolver
// answers, per-IP probe results, and the verdict. Resolver names are
// sorted for a stable rendering; IPs follow first-seen order.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Domain: %s\n\nDNS results:\n", r.Domain); err != nil {
		return err
	}
	names := make([]string, 0, len(r.DNS))
	for name := range r.DNS {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ips := r.DNS[name]
		rendered := "(no answer)"
		if len(ips) > 0 {
			rendered = strings.Join(ips, ", ")
		}
		if _, err := fmt.Fprintf(w, "  %-28s => %s\n", name, rendered); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "DNS status: %s\n", r.Summary.DNSStatus); err != nil {
		return err
	}

	for _, ip := range r.Summary.AllIPs {
		cr := r.Connectivity[ip]
		if cr == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "\nIP %s:\n", ip); err != nil {
			return err
		}
		ports := make([]int, 0, len(cr.TCP))
		for p := range cr.TCP {
			ports = append(ports, p)
		}
		sort.Ints(ports)
		for _, p := range ports {
			if _, err := fmt.Fprintf(w, "  TCP %-4d %s\n", p, openClosed(cr.TCP[p])); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  TLS      %s\n  HTTP     %s\n", cr.TLS, okFail(cr.HTTP)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nVerdict: %s (%.2fs)\n", r.Summary.Conclusion, r.Summary.ElapsedTime)
	return err
}

// WritePlain renders the report as a single tab-separated line, one report
// per line when probing in bulk.
func (r *Report) WritePlain(w io.Writer) error {
	indicators := "-"
	if len(r.Summary.BlockedIndicators) > 0 {
		parts := make([]string, len(r.Summary.BlockedIndicators))
		for i, ind := range r.Summary.BlockedIndicators {
			parts[i] = string(ind)
		}
		indicators = strings.Join(parts, ",")
	}
	_, err := fmt.Fprintf(w, "%s\tblocked=%t\t%s\t%s\n",
		r.Domain, r.Summary.IsBlocked, indicators, r.Summary.Conclusion)
	return err
}

func openClosed(ok bool) string {
	if ok {
		return "open"
	}
	return "closed"
}

func okFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "no response"
}
