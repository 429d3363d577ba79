package remote

import (
	"fmt"
	"io"
	"strings"
)

// Results wraps per-endpoint answers so they satisfy the output formatter
// interfaces as a single document.
type Results []Result

// WriteText renders each endpoint's verdict as a short block.
func (rs Results) WriteText(w io.Writer) error {
	for i, r := range rs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Remote: %s\n", r.Endpoint); err != nil {
			return err
		}
		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "  error: %v\n", r.Err); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  blocked: %t\n", r.Report.Summary.IsBlocked); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  conclusion: %s\n", r.Report.Summary.Conclusion); err != nil {
			return err
		}
	}
	return nil
}

// WritePlain renders one tab-separated line per endpoint.
func (rs Results) WritePlain(w io.Writer) error {
	for _, r := range rs {
		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "%s\terror\t%v\n", r.Endpoint, r.Err); err != nil {
				return err
			}
			continue
		}
		indicators := "-"
		if len(r.Report.Summary.BlockedIndicators) > 0 {
			names := make([]string, len(r.Report.Summary.BlockedIndicators))
			for i, ind := range r.Report.Summary.BlockedIndicators {
				names[i] = string(ind)
			}
			indicators = strings.Join(names, ",")
		}
		if _, err := fmt.Fprintf(w, "%s\tblocked=%t\t%s\n", r.Endpoint, r.Report.Summary.IsBlocked, indicators); err != nil {
			return err
		}
	}
	return nil
}
