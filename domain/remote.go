package domain

import "context"

// RemoteInspector reads from an upstream without touching any working copy.
type RemoteInspector interface {
	// Probe checks whether the publish endpoint behind the remote URL is
	// reachable. The result is advisory: an error triggers a confirmation
	// gate, never an abort.
	Probe(ctx context.Context, remoteURL string) error

	// Head returns the commit hash the remote branch currently points at.
	// Used to capture the lease base for a force-with-lease publish.
	Head(ctx context.Context, remoteURL, branch string) (string, error)
}
