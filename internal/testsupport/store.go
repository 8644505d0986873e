package testsupport

import (
	"context"
	"testing"

	"reel/internal/config"
	"reel/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddRecord inserts a pending record for tests using the provided store.
func AddRecord(t testing.TB, store *history.Store, batchID, url, mode string) *history.Record {
	t.Helper()

	record, err := store.Add(context.Background(), batchID, url, mode, "")
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return record
}
