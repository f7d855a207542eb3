package batch

import (
	"fmt"
	"strings"
	"time"
)

// Report summarizes one batch run.
type Report struct {
	RunID        string
	Results      []DocumentResult
	TotalFiles   int
	SuccessCount int
	PartialCount int
	FailedCount  int
	Elapsed      time.Duration
}

func newReport(runID string, results []DocumentResult, elapsed time.Duration) *Report {
	r := &Report{
		RunID:      runID,
		Results:    results,
		TotalFiles: len(results),
		Elapsed:    elapsed,
	}
	for _, res := range results {
		switch res.Status {
		case StatusSuccess:
			r.SuccessCount++
		case StatusPartial:
			r.PartialCount++
		default:
			r.FailedCount++
		}
	}
	return r
}

// SuccessRate returns the share of documents that produced a usable artifact,
// as a percentage. Partial documents count as usable.
func (r *Report) SuccessRate() float64 {
	if r.TotalFiles == 0 {
		return 0
	}
	return float64(r.SuccessCount+r.PartialCount) / float64(r.TotalFiles) * 100
}

// Failed reports whether any document failed outright. This drives the
// process exit code: page-level failures inside a written artifact do not
// count, whole-document failures do.
func (r *Report) Failed() bool {
	return r.FailedCount > 0
}

// Summary renders a human-readable run summary for the terminal.
func (r *Report) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Processed %d file(s) in %.2fs\n", r.TotalFiles, r.Elapsed.Seconds())
	fmt.Fprintf(&b, "  succeeded: %d\n", r.SuccessCount)
	if r.PartialCount > 0 {
		fmt.Fprintf(&b, "  partial:   %d\n", r.PartialCount)
	}
	fmt.Fprintf(&b, "  failed:    %d\n", r.FailedCount)
	fmt.Fprintf(&b, "  success rate: %.1f%%\n", r.SuccessRate())

	if r.FailedCount > 0 || r.PartialCount > 0 {
		b.WriteString("\nFailures:\n")
		for _, res := range r.Results {
			switch {
			case res.Err != nil:
				fmt.Fprintf(&b, "  - %s: %v\n", res.Path, res.Err)
			case res.Status != StatusSuccess:
				for _, p := range res.Pages {
					if p.Failed() {
						fmt.Fprintf(&b, "  - %s page %d: %v\n", res.Path, p.Index, p.Err)
					}
				}
			}
		}
	}

	return b.String()
}
