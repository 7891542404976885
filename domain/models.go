package domain

// RepositoryEntry identifies one registered repository. Entries are built
// once at startup from the configuration and never mutated afterwards.
type RepositoryEntry struct {
	Name   string // Logical name, unique within the registry
	Remote string // Upstream address the working copy publishes to
	Branch string // Expected default branch
	Path   string // Absolute path of the local working copy
}

// RepositoryState is the read-only snapshot the status collector produces
// for one repository. When Exists is false every other field is left at its
// zero value; the collector short-circuits and inspects nothing else.
type RepositoryState struct {
	Exists           bool
	IsRepository     bool
	CurrentBranch    string // Empty when detached or unknown
	ConfiguredRemote string // Empty when no remote is configured
	ChangedPaths     []string
}

// ChangeCount returns the number of uncommitted changes.
func (s RepositoryState) ChangeCount() int {
	return len(s.ChangedPaths)
}

// Outcome is the terminal state a repository reaches in a single run.
type Outcome string

const (
	OutcomeSkippedAbsent        Outcome = "skipped-absent"
	OutcomeSkippedNotRepository Outcome = "skipped-not-repository"
	OutcomePlanned              Outcome = "planned"
	OutcomeSucceeded            Outcome = "succeeded"
	OutcomeRejectedNeedsForce   Outcome = "rejected-needs-force"
	OutcomeForcedSucceeded      Outcome = "forced-succeeded"
	OutcomeForcedFailed         Outcome = "forced-failed"
	OutcomeFailed               Outcome = "failed"
)

// SyncOutcome pairs a repository name with the terminal outcome it reached.
// Reason carries detail for the skipped and failing variants.
type SyncOutcome struct {
	Name    string
	Outcome Outcome
	Reason  string
}
