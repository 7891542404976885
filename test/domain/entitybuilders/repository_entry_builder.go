//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/safesync/domain"
)

// RepositoryEntryBuilder helps create test registry entries with a fluent interface.
type RepositoryEntryBuilder struct {
	*testkit.BaseBuilder
	name   string
	remote string
	branch string
	path   string
}

// NewRepositoryEntryBuilder creates a new entry builder with sensible defaults.
func NewRepositoryEntryBuilder() *RepositoryEntryBuilder {
	return &RepositoryEntryBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-repo",
		remote:      "git@example.com:org/test-repo.git",
		branch:      "main",
		path:        "/tmp/test-repo",
	}
}

// WithName sets the logical repository name.
func (b *RepositoryEntryBuilder) WithName(name string) *RepositoryEntryBuilder {
	b.name = name
	return b
}

// WithRemote sets the upstream address.
func (b *RepositoryEntryBuilder) WithRemote(remote string) *RepositoryEntryBuilder {
	b.remote = remote
	return b
}

// WithBranch sets the expected default branch.
func (b *RepositoryEntryBuilder) WithBranch(branch string) *RepositoryEntryBuilder {
	b.branch = branch
	return b
}

// WithPath sets the local working copy path.
func (b *RepositoryEntryBuilder) WithPath(path string) *RepositoryEntryBuilder {
	b.path = path
	return b
}

// Build creates the entry (satisfies testkit.Builder interface).
func (b *RepositoryEntryBuilder) Build() interface{} {
	return b.BuildEntry()
}

// BuildEntry creates the entry with a concrete return type.
func (b *RepositoryEntryBuilder) BuildEntry() domain.RepositoryEntry {
	return domain.RepositoryEntry{
		Name:   b.name,
		Remote: b.remote,
		Branch: b.branch,
		Path:   b.path,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryEntryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-repo"
	b.remote = "git@example.com:org/test-repo.git"
	b.branch = "main"
	b.path = "/tmp/test-repo"
	return b
}

// Clone creates a deep copy of the RepositoryEntryBuilder.
func (b *RepositoryEntryBuilder) Clone() testkit.Builder {
	return &RepositoryEntryBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		remote:      b.remote,
		branch:      b.branch,
		path:        b.path,
	}
}
