package testsupport

import (
	"context"
	"testing"

	"reelbuild/internal/config"
	"reelbuild/internal/history"
)

// MustOpenHistory opens the run history store for cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
