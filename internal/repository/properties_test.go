package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/receipts-renamer/internal/common"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "props.db")
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { Close(db, nil) })
	return db
}

func TestPropertyRepositoryUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(openTestDB(t), nil)

	if _, err := repo.Get(ctx, "script", "apiKey"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("missing key err = %v, want ErrNotFound", err)
	}

	if err := repo.Upsert(ctx, "script", "apiKey", "k1"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(ctx, "script", "apiKey", "k2"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err := repo.Get(ctx, "script", "apiKey")
	if err != nil || got != "k2" {
		t.Fatalf("get = %q, %v; want k2", got, err)
	}
}

func TestPropertyRepositoryScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(openTestDB(t), nil)

	if err := repo.Upsert(ctx, "user:alice", "file-1", "done"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.Get(ctx, "user:bob", "file-1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("other scope err = %v, want ErrNotFound", err)
	}
}

func TestRebindForPostgres(t *testing.T) {
	r := &propertyRepository{db: &DB{Driver: DriverPostgres}}
	got := r.rebind("SELECT value FROM properties WHERE scope = ? AND key = ?")
	want := "SELECT value FROM properties WHERE scope = $1 AND key = $2"
	if got != want {
		t.Fatalf("rebind = %q, want %q", got, want)
	}

	r.db.Driver = DriverSQLite
	if got := r.rebind("a = ?"); got != "a = ?" {
		t.Fatalf("sqlite rebind changed query: %q", got)
	}
}
