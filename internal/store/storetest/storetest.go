// Package storetest opens throwaway stores for tests in other packages.
package storetest

import (
	"context"
	"strings"
	"testing"

	"github.com/abhisek/linguo/internal/store"
)

// Open returns a migrated in-memory SQLite store private to t.
func Open(t testing.TB) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	s, err := store.Open(context.Background(), store.Options{
		Driver: store.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
