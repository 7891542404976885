// Package git implements the version-control collaborator by shelling out
// to the git binary. Exit status and line-oriented output are the sole
// source of truth; no wire format beyond that is assumed.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rios0rios0/safesync/domain"
)

const originRemote = "origin"

// CLI invokes git against one working copy per call. Every invocation gets
// its own deadline so a hung subprocess surfaces as a timeout failure
// instead of blocking the run.
type CLI struct {
	timeout time.Duration
}

var _ domain.GitClient = (*CLI)(nil)

// New creates a CLI adapter with the given per-invocation timeout.
func New(timeout time.Duration) *CLI {
	return &CLI{timeout: timeout}
}

// IsRepository reports whether path contains a .git entry. Linked
// worktrees and submodule checkouts carry a .git file instead of a
// directory, so any kind of entry counts.
func (c *CLI) IsRepository(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// CurrentBranch returns the checked-out branch, empty when detached.
func (c *CLI) CurrentBranch(ctx context.Context, path string) (string, error) {
	out, _, err := c.run(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ChangedPaths lists uncommitted changes from porcelain status output.
func (c *CLI) ChangedPaths(ctx context.Context, path string) ([]string, error) {
	out, _, err := c.run(ctx, path, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return ParsePorcelain(out), nil
}

// ConfiguredRemote returns the origin URL, or empty when none is set.
func (c *CLI) ConfiguredRemote(ctx context.Context, path string) (string, error) {
	out, stderr, err := c.run(ctx, path, "remote", "get-url", originRemote)
	if err != nil {
		if strings.Contains(stderr, "No such remote") {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SetRemote configures origin for a working copy that has none yet.
func (c *CLI) SetRemote(ctx context.Context, path, url string) error {
	_, _, err := c.run(ctx, path, "remote", "add", originRemote, url)
	return err
}

// CommitAll stages everything and commits it as a single commit.
func (c *CLI) CommitAll(ctx context.Context, path, message string) error {
	if _, _, err := c.run(ctx, path, "add", "-A"); err != nil {
		return err
	}
	_, _, err := c.run(ctx, path, "commit", "-m", message)
	return err
}

// Push attempts a standard publish. Non-fast-forward refusals come back as
// PushRejected with a nil error; everything else is a failure.
func (c *CLI) Push(ctx context.Context, path, branch string) (domain.PushResult, error) {
	out, stderr, err := c.run(ctx, path, "push", originRemote, branch)
	if err != nil {
		if IsRejection(stderr) {
			return domain.PushRejected, nil
		}
		return domain.PushOK, err
	}
	if strings.Contains(out, "Everything up-to-date") ||
		strings.Contains(stderr, "Everything up-to-date") {
		return domain.PushUpToDate, nil
	}
	return domain.PushOK, nil
}

// ForcePush performs the forced publish. With ForceWithLease the expected
// head qualifies the overwrite so a remote that moved again aborts.
func (c *CLI) ForcePush(
	ctx context.Context,
	path, branch string,
	mode domain.ForceMode,
	expectedHead string,
) error {
	var flag string
	switch mode {
	case domain.ForceUnconditional:
		flag = "--force"
	case domain.ForceWithLease:
		flag = "--force-with-lease=" + branch
		if expectedHead != "" {
			flag += ":" + expectedHead
		}
	default:
		return fmt.Errorf("unknown force mode: %q", mode)
	}

	_, _, err := c.run(ctx, path, "push", flag, originRemote, branch)
	return err
}

// run executes one git invocation in the working copy directory, bounded
// by the configured timeout.
func (c *CLI) run(ctx context.Context, dir string, args ...string) (string, string, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return stdout.String(), stderr.String(), fmt.Errorf(
				"git %s: timeout after %s", strings.Join(args, " "), c.timeout,
			)
		}
		return stdout.String(), stderr.String(), fmt.Errorf(
			"git %s: %w: %s", strings.Join(args, " "), err,
			strings.TrimSpace(stderr.String()),
		)
	}

	return stdout.String(), stderr.String(), nil
}

// ParsePorcelain extracts the changed paths from `status --porcelain`
// output, preserving git's order. Renames report the destination path.
func ParsePorcelain(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		entry := line[3:]
		if _, after, found := strings.Cut(entry, " -> "); found {
			entry = after
		}
		paths = append(paths, strings.Trim(entry, `"`))
	}
	return paths
}

// rejectionMarkers are the stderr fragments git emits when a push is
// refused because the remote has advanced past the local view.
var rejectionMarkers = []string{
	"[rejected]",
	"non-fast-forward",
	"fetch first",
	"stale info",
}

// IsRejection reports whether push stderr indicates a non-fast-forward
// refusal rather than a generic failure.
func IsRejection(stderr string) bool {
	for _, marker := range rejectionMarkers {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
