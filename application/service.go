package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/safesync/domain"
)

// SyncService orchestrates the full synchronization flow:
// probe -> collect status -> gate -> commit + publish -> gate -> forced
// publish -> report. Status collection and publishing run concurrently
// across repositories; everything for one repository stays on one worker,
// and the confirmation gates are a global rendezvous between phases.
type SyncService struct {
	registry *domain.Registry
	git      domain.GitClient
	remote   domain.RemoteInspector
	confirm  domain.Confirmer
	out      io.Writer
}

// NewSyncService creates a new service over the given collaborators.
func NewSyncService(
	registry *domain.Registry,
	git domain.GitClient,
	remote domain.RemoteInspector,
	confirm domain.Confirmer,
) *SyncService {
	return &SyncService{
		registry: registry,
		git:      git,
		remote:   remote,
		confirm:  confirm,
		out:      os.Stdout,
	}
}

// SetOutput redirects the human-readable summaries (status table, plans).
func (s *SyncService) SetOutput(w io.Writer) {
	s.out = w
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun      bool
	Verbose     bool
	Concurrency int
	ForceMode   domain.ForceMode
	ProbeRemote string // Remote URL probed before the run; empty skips the probe
}

// RepositoryStatus pairs a registry entry with its collected state. Err is
// set when inspection itself failed (the repository is then excluded from
// write phases and reported as failed).
type RepositoryStatus struct {
	Entry domain.RepositoryEntry
	State domain.RepositoryState
	Err   error
}

// publishResult is the per-repository result of the standard publish
// phase. A rejection is not an outcome yet; it waits for gate #2 and
// carries the remote head observed when the rejection came back, which
// becomes the lease base for a forced publish.
type publishResult struct {
	outcome   domain.SyncOutcome
	rejected  bool
	leaseHead string
}

// rejectedRepo pairs a rejected repository with the lease base captured
// at rejection time.
type rejectedRepo struct {
	entry     domain.RepositoryEntry
	leaseHead string
}

// Run executes the full synchronization cycle and returns the finalized
// report. Operator cancellation is reported on the RunReport, not as an
// error.
func (s *SyncService) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.ForceMode == "" {
		opts.ForceMode = domain.ForceWithLease
	}

	report := NewRunReport()

	// Advisory connectivity probe. Unreachable gates, never aborts:
	// status collection and commits do not need the network.
	if opts.ProbeRemote != "" {
		if err := s.remote.Probe(ctx, opts.ProbeRemote); err != nil {
			logger.Warnf("Publish endpoint unreachable: %v", err)
			ok, confirmErr := s.confirm.Confirm(
				"Publish endpoint looks unreachable. Continue anyway?",
			)
			if confirmErr != nil {
				return nil, confirmErr
			}
			if !ok {
				logger.Info("Cancelled by operator after connectivity warning")
				report.Cancelled = true
				return report, nil
			}
		}
	}

	statuses := s.CollectStatuses(ctx, opts.Concurrency)
	s.RenderStatuses(statuses)

	outcomes := make(map[string]domain.SyncOutcome, len(statuses))
	var actionable []RepositoryStatus

	for _, st := range statuses {
		name := st.Entry.Name
		switch {
		case st.Err != nil:
			outcomes[name] = domain.SyncOutcome{
				Name:    name,
				Outcome: domain.OutcomeFailed,
				Reason:  "status: " + st.Err.Error(),
			}
		case !st.State.Exists:
			outcomes[name] = domain.SyncOutcome{
				Name:    name,
				Outcome: domain.OutcomeSkippedAbsent,
				Reason:  "working copy not found",
			}
		case !st.State.IsRepository:
			outcomes[name] = domain.SyncOutcome{
				Name:    name,
				Outcome: domain.OutcomeSkippedNotRepository,
				Reason:  "not a version-controlled directory",
			}
		default:
			actionable = append(actionable, st)
		}
	}

	if len(actionable) == 0 {
		logger.Info("No repositories eligible for synchronization")
		s.finalize(report, outcomes)
		return report, nil
	}

	if opts.DryRun {
		s.renderPlan("Dry run: planned actions", actionable)
		for _, st := range actionable {
			outcomes[st.Entry.Name] = domain.SyncOutcome{
				Name:    st.Entry.Name,
				Outcome: domain.OutcomePlanned,
			}
		}
		report.DryRun = true
		s.finalize(report, outcomes)
		return report, nil
	}

	// Gate #1: nothing has been mutated up to this point. The operator
	// sees the actionable subset, not just a count.
	s.renderPlan("Selected for commit and publish", actionable)
	ok, err := s.confirm.Confirm(fmt.Sprintf(
		"Proceed with commit and publish for %d repositories?", len(actionable),
	))
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Info("Cancelled by operator before any mutation")
		report.Cancelled = true
		return report, nil
	}

	// Commit + standard publish, concurrent across repositories. Each
	// repository stays on a single worker so its commit can never race
	// its own publish.
	results := make([]publishResult, len(actionable))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, st := range actionable {
		g.Go(func() error {
			results[i] = s.syncOne(gctx, st, opts.ForceMode)
			return nil
		})
	}
	_ = g.Wait() // failures are captured per repository

	var rejected []rejectedRepo
	for i, res := range results {
		if res.rejected {
			rejected = append(rejected, rejectedRepo{
				entry:     actionable[i].Entry,
				leaseHead: res.leaseHead,
			})
			continue
		}
		outcomes[actionable[i].Entry.Name] = res.outcome
	}

	if len(rejected) > 0 {
		s.renderRejected(rejected)

		// Gate #2: forced publish needs its own affirmative answer.
		forced, confirmErr := s.confirmForce(opts.ForceMode, len(rejected))
		if confirmErr != nil {
			return nil, confirmErr
		}

		if !forced {
			for _, r := range rejected {
				outcomes[r.entry.Name] = domain.SyncOutcome{
					Name:    r.entry.Name,
					Outcome: domain.OutcomeRejectedNeedsForce,
					Reason:  "forced publish declined",
				}
			}
		} else {
			forcedResults := make([]domain.SyncOutcome, len(rejected))
			fg, fctx := errgroup.WithContext(ctx)
			fg.SetLimit(opts.Concurrency)
			for i, r := range rejected {
				fg.Go(func() error {
					forcedResults[i] = s.forceOne(fctx, r.entry, opts.ForceMode, r.leaseHead)
					return nil
				})
			}
			_ = fg.Wait()
			for _, o := range forcedResults {
				outcomes[o.Name] = o
			}
		}
	}

	s.finalize(report, outcomes)
	return report, nil
}

// CollectStatuses inspects every registered repository concurrently with a
// bounded worker pool. Inspection is strictly read-only.
func (s *SyncService) CollectStatuses(ctx context.Context, concurrency int) []RepositoryStatus {
	if concurrency < 1 {
		concurrency = 1
	}

	entries := s.registry.Entries()
	statuses := make([]RepositoryStatus, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, e := range entries {
		g.Go(func() error {
			state, err := s.collectOne(gctx, e)
			statuses[i] = RepositoryStatus{Entry: e, State: state, Err: err}
			return nil
		})
	}
	_ = g.Wait() // errors are captured per repository

	return statuses
}

// collectOne builds the state snapshot for a single repository. A missing
// working copy short-circuits: no further inspection happens.
func (s *SyncService) collectOne(
	ctx context.Context,
	e domain.RepositoryEntry,
) (domain.RepositoryState, error) {
	var state domain.RepositoryState

	info, err := os.Stat(e.Path)
	if err != nil || !info.IsDir() {
		return state, nil
	}
	state.Exists = true

	if !s.git.IsRepository(e.Path) {
		return state, nil
	}
	state.IsRepository = true

	branch, err := s.git.CurrentBranch(ctx, e.Path)
	if err != nil {
		return state, fmt.Errorf("read branch: %w", err)
	}
	state.CurrentBranch = branch

	paths, err := s.git.ChangedPaths(ctx, e.Path)
	if err != nil {
		return state, fmt.Errorf("read status: %w", err)
	}
	state.ChangedPaths = paths

	remote, err := s.git.ConfiguredRemote(ctx, e.Path)
	if err != nil {
		return state, fmt.Errorf("read remote: %w", err)
	}
	state.ConfiguredRemote = remote

	return state, nil
}

// syncOne commits pending changes and attempts the standard publish for
// one repository. It runs on a single worker, so the commit is always
// ordered before the publish.
func (s *SyncService) syncOne(
	ctx context.Context,
	st RepositoryStatus,
	mode domain.ForceMode,
) publishResult {
	e := st.Entry
	state := st.State

	if state.CurrentBranch != "" && state.CurrentBranch != e.Branch {
		logger.Warnf(
			"[%s] on branch %q, expected %q", e.Name, state.CurrentBranch, e.Branch,
		)
	}

	if state.ConfiguredRemote == "" {
		logger.Infof("[%s] no remote configured, setting %s", e.Name, e.Remote)
		if err := s.git.SetRemote(ctx, e.Path, e.Remote); err != nil {
			return failedResult(e.Name, "set remote: "+err.Error())
		}
	}

	if state.ChangeCount() > 0 {
		logger.Infof("[%s] committing %d uncommitted changes", e.Name, state.ChangeCount())
		if err := s.git.CommitAll(ctx, e.Path, CommitMessage(time.Now())); err != nil {
			return failedResult(e.Name, "commit: "+err.Error())
		}
	}

	result, err := s.git.Push(ctx, e.Path, e.Branch)
	if err != nil {
		return failedResult(e.Name, "publish: "+err.Error())
	}

	switch result {
	case domain.PushRejected:
		logger.Warnf("[%s] publish rejected, upstream has diverged", e.Name)
		return publishResult{rejected: true, leaseHead: s.captureLeaseHead(ctx, e, mode)}
	case domain.PushUpToDate:
		logger.Infof("[%s] already up to date", e.Name)
	case domain.PushOK:
		logger.Infof("[%s] published", e.Name)
	}

	return publishResult{outcome: domain.SyncOutcome{
		Name:    e.Name,
		Outcome: domain.OutcomeSucceeded,
	}}
}

// captureLeaseHead reads the remote head the moment a rejection is
// observed. Anything pushed upstream after this point makes the later
// lease-qualified force abort instead of overwriting it.
func (s *SyncService) captureLeaseHead(
	ctx context.Context,
	e domain.RepositoryEntry,
	mode domain.ForceMode,
) string {
	if mode != domain.ForceWithLease {
		return ""
	}
	head, err := s.remote.Head(ctx, e.Remote, e.Branch)
	if err != nil {
		logger.Warnf("[%s] could not capture remote head at rejection: %v", e.Name, err)
		return ""
	}
	return head
}

// forceOne performs the forced publish for one rejected repository.
// expectedHead is the lease base captured at rejection time; when that
// read failed it is re-read here, once, before the overwrite.
func (s *SyncService) forceOne(
	ctx context.Context,
	e domain.RepositoryEntry,
	mode domain.ForceMode,
	expectedHead string,
) domain.SyncOutcome {
	if mode == domain.ForceWithLease && expectedHead == "" {
		head, err := s.remote.Head(ctx, e.Remote, e.Branch)
		if err != nil {
			logger.Warnf("[%s] could not capture remote head for lease: %v", e.Name, err)
		} else {
			expectedHead = head
		}
	}

	if err := s.git.ForcePush(ctx, e.Path, e.Branch, mode, expectedHead); err != nil {
		logger.Errorf("[%s] forced publish failed: %v", e.Name, err)
		return domain.SyncOutcome{
			Name:    e.Name,
			Outcome: domain.OutcomeForcedFailed,
			Reason:  err.Error(),
		}
	}

	logger.Infof("[%s] forced publish succeeded", e.Name)
	return domain.SyncOutcome{Name: e.Name, Outcome: domain.OutcomeForcedSucceeded}
}

// confirmForce is gate #2. The unconditional mode gets its own wording
// because it can discard unseen upstream work.
func (s *SyncService) confirmForce(mode domain.ForceMode, count int) (bool, error) {
	var prompt string
	if mode == domain.ForceUnconditional {
		prompt = fmt.Sprintf(
			"UNCONDITIONALLY force publish %d rejected repositories? This can discard upstream work",
			count,
		)
	} else {
		prompt = fmt.Sprintf(
			"Force publish (with lease protection) %d rejected repositories?", count,
		)
	}
	return s.confirm.Confirm(prompt)
}

// finalize records one outcome per registry entry, in registration order.
func (s *SyncService) finalize(report *RunReport, outcomes map[string]domain.SyncOutcome) {
	for _, e := range s.registry.Entries() {
		o, ok := outcomes[e.Name]
		if !ok {
			o = domain.SyncOutcome{
				Name:    e.Name,
				Outcome: domain.OutcomeFailed,
				Reason:  "no outcome recorded",
			}
		}
		report.Add(o)
	}
}

// RenderStatuses prints the per-repository status summary the operator
// sees before gate #1.
func (s *SyncService) RenderStatuses(statuses []RepositoryStatus) {
	fmt.Fprintf(s.out, "Repository status (%d registered):\n", len(statuses))
	for _, st := range statuses {
		switch {
		case st.Err != nil:
			fmt.Fprintf(s.out, "  %-24s inspection failed: %v\n", st.Entry.Name, st.Err)
		case !st.State.Exists:
			fmt.Fprintf(s.out, "  %-24s (absent)\n", st.Entry.Name)
		case !st.State.IsRepository:
			fmt.Fprintf(s.out, "  %-24s (not a git repository)\n", st.Entry.Name)
		default:
			branch := st.State.CurrentBranch
			if branch == "" {
				branch = "(detached)"
			}
			remote := st.State.ConfiguredRemote
			if remote == "" {
				remote = "(no remote)"
			}
			fmt.Fprintf(
				s.out, "  %-24s %-16s %2d changes   %s\n",
				st.Entry.Name, branch, st.State.ChangeCount(), remote,
			)
		}
	}
}

// renderPlan prints the actionable subset and what will happen to each.
// Shown before gate #1 and as the body of --dry-run.
func (s *SyncService) renderPlan(header string, actionable []RepositoryStatus) {
	fmt.Fprintf(s.out, "%s (%d repositories):\n", header, len(actionable))
	for _, st := range actionable {
		if st.State.ChangeCount() > 0 {
			fmt.Fprintf(
				s.out, "  %-24s commit %d changes, publish %s\n",
				st.Entry.Name, st.State.ChangeCount(), st.Entry.Branch,
			)
		} else {
			fmt.Fprintf(s.out, "  %-24s publish %s\n", st.Entry.Name, st.Entry.Branch)
		}
	}
}

// renderRejected lists the repositories gate #2 is about to decide over.
func (s *SyncService) renderRejected(rejected []rejectedRepo) {
	fmt.Fprintf(s.out, "Rejected by standard publish (upstream diverged):\n")
	for _, r := range rejected {
		fmt.Fprintf(s.out, "  %s\n", r.entry.Name)
	}
}

// CommitMessage builds the deterministic synchronization commit message.
func CommitMessage(now time.Time) string {
	return fmt.Sprintf("chore: synchronize local changes (%s)", now.UTC().Format(time.RFC3339))
}

func failedResult(name, reason string) publishResult {
	logger.Errorf("[%s] %s", name, reason)
	return publishResult{outcome: domain.SyncOutcome{
		Name:    name,
		Outcome: domain.OutcomeFailed,
		Reason:  reason,
	}}
}
