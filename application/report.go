package application

import (
	"fmt"
	"io"
	"strings"

	"github.com/rios0rios0/safesync/domain"
)

// renderOrder fixes the outcome ordering in the rendered report.
var renderOrder = []domain.Outcome{
	domain.OutcomeSucceeded,
	domain.OutcomeForcedSucceeded,
	domain.OutcomeRejectedNeedsForce,
	domain.OutcomePlanned,
	domain.OutcomeSkippedAbsent,
	domain.OutcomeSkippedNotRepository,
	domain.OutcomeFailed,
	domain.OutcomeForcedFailed,
}

// RunReport aggregates the per-repository outcomes of a single run. It is
// built once after all phases complete and holds exactly one outcome per
// registry entry (unless the run was cancelled or a dry run).
type RunReport struct {
	Cancelled bool
	DryRun    bool

	outcomes []domain.SyncOutcome
}

// NewRunReport creates an empty report.
func NewRunReport() *RunReport {
	return &RunReport{}
}

// Add records one repository's terminal outcome.
func (r *RunReport) Add(o domain.SyncOutcome) {
	r.outcomes = append(r.outcomes, o)
}

// Total returns the number of repositories considered.
func (r *RunReport) Total() int {
	return len(r.outcomes)
}

// Count returns how many repositories landed in the given outcome.
func (r *RunReport) Count(outcome domain.Outcome) int {
	n := 0
	for _, o := range r.outcomes {
		if o.Outcome == outcome {
			n++
		}
	}
	return n
}

// Names returns the repository names in the given outcome bucket, in
// registry order. This is the machine-usable view for scripting consumers.
func (r *RunReport) Names(outcome domain.Outcome) []string {
	var names []string
	for _, o := range r.outcomes {
		if o.Outcome == outcome {
			names = append(names, o.Name)
		}
	}
	return names
}

// Outcomes returns every recorded outcome in registry order.
func (r *RunReport) Outcomes() []domain.SyncOutcome {
	return r.outcomes
}

// HasFailures reports whether any repository landed in a failing outcome.
func (r *RunReport) HasFailures() bool {
	return r.Count(domain.OutcomeFailed) > 0 || r.Count(domain.OutcomeForcedFailed) > 0
}

// ExitCode maps the run to the process exit code: cancellation is
// success-coded, only Failed/ForcedFailed make the run non-zero.
func (r *RunReport) ExitCode() int {
	if r.HasFailures() {
		return 1
	}
	return 0
}

// Render writes the human-readable breakdown followed by the per-bucket
// name lists. Every terminal outcome is named individually, never
// collapsed into a generic "some failed".
func (r *RunReport) Render(w io.Writer) {
	if r.Cancelled {
		fmt.Fprintln(w, "Run cancelled by operator, no changes were made.")
		return
	}
	if r.DryRun {
		fmt.Fprintln(w, "Dry run, no actions were performed.")
		return
	}

	fmt.Fprintf(w, "Synchronization report: %d repositories\n", r.Total())
	for _, outcome := range renderOrder {
		if n := r.Count(outcome); n > 0 {
			fmt.Fprintf(w, "  %-24s %d\n", string(outcome)+":", n)
		}
	}

	for _, outcome := range renderOrder {
		names := r.Names(outcome)
		if len(names) == 0 {
			continue
		}
		label := string(outcome)
		if outcome == domain.OutcomeForcedFailed {
			label += " (UNRESOLVED DIVERGENCE)"
		}
		fmt.Fprintf(w, "%s: %s\n", label, strings.Join(names, " "))
	}

	for _, o := range r.outcomes {
		if o.Reason != "" &&
			(o.Outcome == domain.OutcomeFailed || o.Outcome == domain.OutcomeForcedFailed) {
			fmt.Fprintf(w, "  %s: %s\n", o.Name, o.Reason)
		}
	}
}
