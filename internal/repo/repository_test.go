package repo_test

import (
	"testing"

	"github.com/hamed0406/webmon/internal/repo"
	"github.com/hamed0406/webmon/internal/repo/memory"
	pg "github.com/hamed0406/webmon/internal/repo/postgres"
	"github.com/hamed0406/webmon/internal/repo/sqlite"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.LogStore = memory.New()
	var _ repo.LogStore = (*sqlite.Store)(nil)
	var _ repo.LogStore = (*pg.Store)(nil)
}
