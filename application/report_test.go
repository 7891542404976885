package application_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safesync/application"
	"github.com/rios0rios0/safesync/domain"
)

func buildReport(outcomes ...domain.SyncOutcome) *application.RunReport {
	r := application.NewRunReport()
	for _, o := range outcomes {
		r.Add(o)
	}
	return r
}

func TestRunReport_Counts(t *testing.T) {
	t.Parallel()

	t.Run("should count outcomes per bucket and in total", func(t *testing.T) {
		t.Parallel()

		// given
		r := buildReport(
			domain.SyncOutcome{Name: "a", Outcome: domain.OutcomeSucceeded},
			domain.SyncOutcome{Name: "b", Outcome: domain.OutcomeSucceeded},
			domain.SyncOutcome{Name: "c", Outcome: domain.OutcomeSkippedAbsent},
			domain.SyncOutcome{Name: "d", Outcome: domain.OutcomeFailed, Reason: "boom"},
		)

		// when / then
		assert.Equal(t, 4, r.Total())
		assert.Equal(t, 2, r.Count(domain.OutcomeSucceeded))
		assert.Equal(t, 1, r.Count(domain.OutcomeSkippedAbsent))
		assert.Equal(t, 1, r.Count(domain.OutcomeFailed))
		assert.Equal(t, 0, r.Count(domain.OutcomeForcedFailed))
	})

	t.Run("should return bucket names in insertion order", func(t *testing.T) {
		t.Parallel()

		// given
		r := buildReport(
			domain.SyncOutcome{Name: "z", Outcome: domain.OutcomeSucceeded},
			domain.SyncOutcome{Name: "a", Outcome: domain.OutcomeSucceeded},
			domain.SyncOutcome{Name: "m", Outcome: domain.OutcomeFailed},
		)

		// when / then
		assert.Equal(t, []string{"z", "a"}, r.Names(domain.OutcomeSucceeded))
		assert.Equal(t, []string{"m"}, r.Names(domain.OutcomeFailed))
		assert.Nil(t, r.Names(domain.OutcomeForcedSucceeded))
	})
}

func TestRunReport_ExitCode(t *testing.T) {
	t.Parallel()

	t.Run("should be zero for a clean run", func(t *testing.T) {
		t.Parallel()

		// given
		r := buildReport(
			domain.SyncOutcome{Name: "a", Outcome: domain.OutcomeSucceeded},
			domain.SyncOutcome{Name: "b", Outcome: domain.OutcomeSkippedAbsent},
			domain.SyncOutcome{Name: "c", Outcome: domain.OutcomeRejectedNeedsForce},
		)

		// when / then
		assert.False(t, r.HasFailures())
		assert.Equal(t, 0, r.ExitCode())
	})

	t.Run("should be zero for a cancelled run", func(t *testing.T) {
		t.Parallel()

		// given
		r := application.NewRunReport()
		r.Cancelled = true

		// when / then
		assert.Equal(t, 0, r.ExitCode())
	})

	t.Run("should be non-zero when any repository failed", func(t *testing.T) {
		t.Parallel()

		// given
		r := buildReport(
			domain.SyncOutcome{Name: "a", Outcome: domain.OutcomeSucceeded},
			domain.SyncOutcome{Name: "b", Outcome: domain.OutcomeFailed, Reason: "boom"},
		)

		// when / then
		assert.True(t, r.HasFailures())
		assert.Equal(t, 1, r.ExitCode())
	})

	t.Run("should be non-zero when a forced publish failed", func(t *testing.T) {
		t.Parallel()

		// given
		r := buildReport(
			domain.SyncOutcome{Name: "a", Outcome: domain.OutcomeForcedFailed, Reason: "stale"},
		)

		// when / then
		assert.Equal(t, 1, r.ExitCode())
	})
}

func TestRunReport_Render(t *testing.T) {
	t.Parallel()

	t.Run("should name every terminal outcome individually", func(t *testing.T) {
		t.Parallel()

		// given
		r := buildReport(
			domain.SyncOutcome{Name: "a", Outcome: domain.OutcomeSucceeded},
			domain.SyncOutcome{Name: "b", Outcome: domain.OutcomeFailed, Reason: "commit: hook rejected"},
			domain.SyncOutcome{Name: "c", Outcome: domain.OutcomeForcedFailed, Reason: "stale info"},
		)
		var buf bytes.Buffer

		// when
		r.Render(&buf)

		// then
		out := buf.String()
		assert.Contains(t, out, "3 repositories")
		assert.Contains(t, out, "succeeded: a")
		assert.Contains(t, out, "failed: b")
		assert.Contains(t, out, "forced-failed (UNRESOLVED DIVERGENCE): c")
		assert.Contains(t, out, "b: commit: hook rejected")
	})

	t.Run("should render a cancelled run without buckets", func(t *testing.T) {
		t.Parallel()

		// given
		r := application.NewRunReport()
		r.Cancelled = true
		var buf bytes.Buffer

		// when
		r.Render(&buf)

		// then
		out := buf.String()
		require.Contains(t, out, "cancelled")
		assert.Contains(t, out, "no changes were made")
	})

	t.Run("should render a dry run marker", func(t *testing.T) {
		t.Parallel()

		// given
		r := application.NewRunReport()
		r.DryRun = true
		var buf bytes.Buffer

		// when
		r.Render(&buf)

		// then
		assert.Contains(t, buf.String(), "Dry run")
	})
}
