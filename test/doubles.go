// Package testdoubles provides test doubles (spies, stubs, dummies) for
// domain interfaces. These are hand-crafted implementations, no mock
// frameworks. The spies are safe for the service's concurrent workers.
package testdoubles

import (
	"context"
	"sync"

	"github.com/rios0rios0/safesync/domain"
)

// ---------------------------------------------------------------------------
// SpyGit
// ---------------------------------------------------------------------------

// SpyGit implements domain.GitClient as a configurable spy. All maps are
// keyed by working-copy path. Configure the response fields for the
// methods your test exercises, then inspect the call-tracking fields.
type SpyGit struct {
	mu sync.Mutex

	// --- configured state ---
	Repositories map[string]bool
	Branches     map[string]string
	Changed      map[string][]string
	Remotes      map[string]string

	// --- configured errors ---
	BranchErrs    map[string]error
	StatusErrs    map[string]error
	RemoteErrs    map[string]error
	SetRemoteErrs map[string]error
	CommitErrs    map[string]error
	PushErrs      map[string]error
	ForcePushErrs map[string]error

	// --- standard push classification (zero value is PushOK) ---
	PushResults map[string]domain.PushResult

	// --- spy: calls received ---
	CommitCalls    []CommitCall
	PushCalls      []PushCall
	ForcePushCalls []ForcePushCall
	SetRemoteCalls []SetRemoteCall
}

// CommitCall records a single CommitAll invocation.
type CommitCall struct {
	Path    string
	Message string
}

// PushCall records a single standard Push invocation.
type PushCall struct {
	Path   string
	Branch string
}

// ForcePushCall records a single ForcePush invocation.
type ForcePushCall struct {
	Path         string
	Branch       string
	Mode         domain.ForceMode
	ExpectedHead string
}

// SetRemoteCall records a single SetRemote invocation.
type SetRemoteCall struct {
	Path string
	URL  string
}

var _ domain.GitClient = (*SpyGit)(nil)

func (g *SpyGit) IsRepository(path string) bool {
	return g.Repositories[path]
}

func (g *SpyGit) CurrentBranch(_ context.Context, path string) (string, error) {
	return g.Branches[path], g.BranchErrs[path]
}

func (g *SpyGit) ChangedPaths(_ context.Context, path string) ([]string, error) {
	if err := g.StatusErrs[path]; err != nil {
		return nil, err
	}
	return g.Changed[path], nil
}

func (g *SpyGit) ConfiguredRemote(_ context.Context, path string) (string, error) {
	return g.Remotes[path], g.RemoteErrs[path]
}

func (g *SpyGit) SetRemote(_ context.Context, path, url string) error {
	g.mu.Lock()
	g.SetRemoteCalls = append(g.SetRemoteCalls, SetRemoteCall{Path: path, URL: url})
	g.mu.Unlock()
	return g.SetRemoteErrs[path]
}

func (g *SpyGit) CommitAll(_ context.Context, path, message string) error {
	g.mu.Lock()
	g.CommitCalls = append(g.CommitCalls, CommitCall{Path: path, Message: message})
	g.mu.Unlock()
	return g.CommitErrs[path]
}

func (g *SpyGit) Push(_ context.Context, path, branch string) (domain.PushResult, error) {
	g.mu.Lock()
	g.PushCalls = append(g.PushCalls, PushCall{Path: path, Branch: branch})
	g.mu.Unlock()
	if err := g.PushErrs[path]; err != nil {
		return domain.PushOK, err
	}
	return g.PushResults[path], nil
}

func (g *SpyGit) ForcePush(
	_ context.Context,
	path, branch string,
	mode domain.ForceMode,
	expectedHead string,
) error {
	g.mu.Lock()
	g.ForcePushCalls = append(g.ForcePushCalls, ForcePushCall{
		Path:         path,
		Branch:       branch,
		Mode:         mode,
		ExpectedHead: expectedHead,
	})
	g.mu.Unlock()
	return g.ForcePushErrs[path]
}

// ---------------------------------------------------------------------------
// SpyInspector
// ---------------------------------------------------------------------------

// SpyInspector implements domain.RemoteInspector as a configurable spy.
// Heads is keyed by "<remoteURL>#<branch>".
type SpyInspector struct {
	mu sync.Mutex

	ProbeErr error
	Heads    map[string]string
	HeadErr  error

	// --- spy ---
	ProbedURLs []string
	HeadCalls  []HeadCall
}

// HeadCall records a single Head invocation.
type HeadCall struct {
	RemoteURL string
	Branch    string
}

var _ domain.RemoteInspector = (*SpyInspector)(nil)

func (i *SpyInspector) Probe(_ context.Context, remoteURL string) error {
	i.mu.Lock()
	i.ProbedURLs = append(i.ProbedURLs, remoteURL)
	i.mu.Unlock()
	return i.ProbeErr
}

func (i *SpyInspector) Head(_ context.Context, remoteURL, branch string) (string, error) {
	i.mu.Lock()
	i.HeadCalls = append(i.HeadCalls, HeadCall{RemoteURL: remoteURL, Branch: branch})
	i.mu.Unlock()
	if i.HeadErr != nil {
		return "", i.HeadErr
	}
	return i.Heads[remoteURL+"#"+branch], nil
}

// ---------------------------------------------------------------------------
// ScriptedConfirmer
// ---------------------------------------------------------------------------

// ScriptedConfirmer implements domain.Confirmer with a fixed sequence of
// answers. Once the script is exhausted every answer is No. Gates are
// single-threaded by design, so no locking is needed.
type ScriptedConfirmer struct {
	Answers []bool
	Err     error

	// BeforeAnswer, when set, runs against each prompt before the scripted
	// answer is returned. Lets a test mutate collaborator state at the
	// moment a gate is presented.
	BeforeAnswer func(prompt string)

	// --- spy: prompts received, in order ---
	Prompts []string

	next int
}

var _ domain.Confirmer = (*ScriptedConfirmer)(nil)

func (c *ScriptedConfirmer) Confirm(prompt string) (bool, error) {
	c.Prompts = append(c.Prompts, prompt)
	if c.BeforeAnswer != nil {
		c.BeforeAnswer(prompt)
	}
	if c.Err != nil {
		return false, c.Err
	}
	if c.next >= len(c.Answers) {
		return false, nil
	}
	answer := c.Answers[c.next]
	c.next++
	return answer, nil
}
