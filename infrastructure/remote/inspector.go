// Package remote reads from upstreams without touching any working copy,
// using go-git's client-side transport (the equivalent of ls-remote).
package remote

import (
	"context"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gogitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/rios0rios0/safesync/domain"
)

// Inspector lists remote refs over an in-memory remote. No clone, no
// filesystem state.
type Inspector struct {
	timeout time.Duration
}

var _ domain.RemoteInspector = (*Inspector)(nil)

// NewInspector creates an inspector with the given per-operation timeout.
func NewInspector(timeout time.Duration) *Inspector {
	return &Inspector{timeout: timeout}
}

// Probe lists the refs advertised by the remote. Reachability and
// authentication problems surface as the returned error; the caller
// treats any error as advisory.
func (i *Inspector) Probe(ctx context.Context, remoteURL string) error {
	_, err := i.list(ctx, remoteURL)
	if err != nil {
		return fmt.Errorf("remote %s: %w", remoteURL, err)
	}
	return nil
}

// Head returns the commit hash the remote branch points at.
func (i *Inspector) Head(ctx context.Context, remoteURL, branch string) (string, error) {
	refs, err := i.list(ctx, remoteURL)
	if err != nil {
		return "", fmt.Errorf("remote %s: %w", remoteURL, err)
	}

	want := plumbing.NewBranchReferenceName(branch)
	for _, ref := range refs {
		if ref.Name() == want {
			return ref.Hash().String(), nil
		}
	}
	return "", fmt.Errorf("remote %s has no branch %q", remoteURL, branch)
}

func (i *Inspector) list(ctx context.Context, remoteURL string) ([]*plumbing.Reference, error) {
	listCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		listCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	rem := gogit.NewRemote(memory.NewStorage(), &gogitcfg.RemoteConfig{
		Name: "origin",
		URLs: []string{remoteURL},
	})
	return rem.ListContext(listCtx, &gogit.ListOptions{})
}
