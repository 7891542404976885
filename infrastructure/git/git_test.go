package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safesync/infrastructure/git"
)

func TestParsePorcelain(t *testing.T) {
	t.Parallel()

	t.Run("should return nil for empty output", func(t *testing.T) {
		t.Parallel()

		// given
		out := ""

		// when
		paths := git.ParsePorcelain(out)

		// then
		assert.Nil(t, paths)
	})

	t.Run("should return nil for whitespace-only output", func(t *testing.T) {
		t.Parallel()

		// given
		out := "\n\n"

		// when
		paths := git.ParsePorcelain(out)

		// then
		assert.Nil(t, paths)
	})

	t.Run("should extract paths for modified, added and untracked entries", func(t *testing.T) {
		t.Parallel()

		// given
		out := " M internal/service.go\n" +
			"A  docs/notes.md\n" +
			"?? scratch.txt\n"

		// when
		paths := git.ParsePorcelain(out)

		// then
		assert.Equal(t, []string{
			"internal/service.go",
			"docs/notes.md",
			"scratch.txt",
		}, paths)
	})

	t.Run("should keep the destination path for renames", func(t *testing.T) {
		t.Parallel()

		// given
		out := "R  old/name.go -> new/name.go\n"

		// when
		paths := git.ParsePorcelain(out)

		// then
		assert.Equal(t, []string{"new/name.go"}, paths)
	})

	t.Run("should strip quotes around paths with special characters", func(t *testing.T) {
		t.Parallel()

		// given
		out := "?? \"file with spaces.txt\"\n"

		// when
		paths := git.ParsePorcelain(out)

		// then
		assert.Equal(t, []string{"file with spaces.txt"}, paths)
	})
}

func TestIsRejection(t *testing.T) {
	t.Parallel()

	t.Run("should recognize each non-fast-forward marker", func(t *testing.T) {
		t.Parallel()

		// given
		samples := []string{
			"! [rejected]        main -> main (non-fast-forward)",
			"hint: Updates were rejected because the remote contains work... fetch first",
			"error: failed to push some refs: stale info",
		}

		for _, stderr := range samples {
			// when
			rejected := git.IsRejection(stderr)

			// then
			assert.True(t, rejected, stderr)
		}
	})

	t.Run("should not flag generic failures as rejections", func(t *testing.T) {
		t.Parallel()

		// given
		samples := []string{
			"",
			"fatal: Authentication failed for 'https://example.com/org/repo.git'",
			"fatal: Could not read from remote repository.",
			"error: src refspec main does not match any",
		}

		for _, stderr := range samples {
			// when
			rejected := git.IsRejection(stderr)

			// then
			assert.False(t, rejected, stderr)
		}
	})
}

func TestCLI_IsRepository(t *testing.T) {
	t.Parallel()

	t.Run("should report true when a .git directory exists", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o750))
		cli := git.New(time.Second)

		// when
		ok := cli.IsRepository(dir)

		// then
		assert.True(t, ok)
	})

	t.Run("should report false for a plain directory", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		cli := git.New(time.Second)

		// when
		ok := cli.IsRepository(dir)

		// then
		assert.False(t, ok)
	})

	t.Run("should report true for a linked worktree where .git is a file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: elsewhere"), 0o600))
		cli := git.New(time.Second)

		// when
		ok := cli.IsRepository(dir)

		// then
		assert.True(t, ok)
	})

	t.Run("should report false for a nonexistent path", func(t *testing.T) {
		t.Parallel()

		// given
		cli := git.New(time.Second)

		// when
		ok := cli.IsRepository(filepath.Join(t.TempDir(), "missing"))

		// then
		assert.False(t, ok)
	})
}

func TestCLI_Timeout(t *testing.T) {
	t.Parallel()

	t.Run("should classify an expired deadline as a timeout", func(t *testing.T) {
		t.Parallel()

		// given: the deadline is already in the past, the tool never starts
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		cli := git.New(time.Minute)

		// when
		branch, err := cli.CurrentBranch(ctx, t.TempDir())

		// then
		require.Error(t, err)
		assert.Empty(t, branch)
		assert.Contains(t, err.Error(), "timeout")
	})

	t.Run("should not report a cancellation as a timeout", func(t *testing.T) {
		t.Parallel()

		// given
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cli := git.New(time.Minute)

		// when
		_, err := cli.CurrentBranch(ctx, t.TempDir())

		// then
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "timeout")
	})
}
