package domain

import "context"

// ForceMode selects the semantics of a forced publish.
type ForceMode string

const (
	// ForceWithLease aborts the overwrite if the remote moved again after
	// the divergence was last observed. This is the only acceptable default.
	ForceWithLease ForceMode = "force-with-lease"

	// ForceUnconditional overwrites the remote regardless of its state.
	// It can discard unseen upstream work and must be an explicit opt-in.
	ForceUnconditional ForceMode = "force"
)

// PushResult classifies the outcome of a standard publish attempt.
type PushResult int

const (
	// PushOK means the remote accepted the publish.
	PushOK PushResult = iota

	// PushUpToDate means the remote was already current; treated as success.
	PushUpToDate

	// PushRejected means the remote refused a non-fast-forward publish,
	// i.e. the upstream has advanced past the local view.
	PushRejected
)

// GitClient abstracts the version-control collaborator. Implementations
// invoke the underlying tool against one local working copy at a time and
// treat its exit status and line-oriented output as the sole source of
// truth. All inspection methods are read-only.
type GitClient interface {
	// IsRepository reports whether the path is a version-controlled directory.
	IsRepository(path string) bool

	// CurrentBranch returns the checked-out branch, or an empty string when
	// the head is detached.
	CurrentBranch(ctx context.Context, path string) (string, error)

	// ChangedPaths lists the uncommitted changes in the working copy,
	// one path per entry, in the order the tool reports them.
	ChangedPaths(ctx context.Context, path string) ([]string, error)

	// ConfiguredRemote returns the configured upstream address, or an empty
	// string (and no error) when none is configured.
	ConfiguredRemote(ctx context.Context, path string) (string, error)

	// SetRemote configures the upstream address for a working copy that has
	// none yet.
	SetRemote(ctx context.Context, path, url string) error

	// CommitAll stages and commits every uncommitted change into a single
	// commit with the given message. It never touches the remote.
	CommitAll(ctx context.Context, path, message string) error

	// Push attempts a standard publish of the branch. A non-fast-forward
	// refusal is reported as PushRejected with a nil error; any other
	// failure is returned as an error.
	Push(ctx context.Context, path, branch string) (PushResult, error)

	// ForcePush performs a forced publish. With ForceWithLease the
	// expectedHead (the remote head observed at rejection time) qualifies
	// the overwrite so that a remote that moved again aborts the push.
	ForcePush(ctx context.Context, path, branch string, mode ForceMode, expectedHead string) error
}
