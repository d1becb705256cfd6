package migrations

import (
	"context"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}
	for _, entry := range filesystems {
		matches, globErr := fs.Glob(entry.FS, "*.up.sql")
		if globErr != nil {
			t.Fatalf("glob %s: %v", entry.Dialect, globErr)
		}
		if len(matches) == 0 {
			t.Fatalf("expected %s migration files, got none", entry.Dialect)
		}
	}
}

func TestFilesystems_PairsUpAndDownPerDialect(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	for _, entry := range filesystems {
		ups, _ := fs.Glob(entry.FS, "*.up.sql")
		for _, up := range ups {
			down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
			if _, err := fs.Stat(entry.FS, down); err != nil {
				t.Fatalf("expected %s down migration for %s: %v", entry.Dialect, up, err)
			}
		}
	}
}

func TestFilesystems_RejectsRootWithoutMigrations(t *testing.T) {
	root := fstest.MapFS{
		"data/sql/migrations/README.md":        {Data: []byte("empty")},
		"data/sql/migrations/sqlite/README.md": {Data: []byte("empty")},
	}
	if _, err := Filesystems(root); err == nil {
		t.Fatalf("expected error for tree without up migrations")
	}
}

func TestRegister_UsesRequestedDialects(t *testing.T) {
	var calls []string
	err := Register(context.Background(), func(_ context.Context, dialect string, label string, _ fs.FS) error {
		if label != SourceLabel {
			t.Fatalf("unexpected source label %q", label)
		}
		calls = append(calls, dialect)
		return nil
	}, "sqlite3", DialectSQLite)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !reflect.DeepEqual(calls, []string{DialectSQLite}) {
		t.Fatalf("expected single sqlite registration, got %v", calls)
	}
}

func TestRegister_DefaultsToAllDialects(t *testing.T) {
	var calls []string
	err := Register(context.Background(), func(_ context.Context, dialect string, _ string, _ fs.FS) error {
		calls = append(calls, dialect)
		return nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !reflect.DeepEqual(calls, []string{DialectPostgres, DialectSQLite}) {
		t.Fatalf("unexpected registrations %v", calls)
	}
}

func TestRegister_RejectsUnknownDialect(t *testing.T) {
	err := Register(context.Background(), func(context.Context, string, string, fs.FS) error {
		return nil
	}, "mysql")
	if err == nil {
		t.Fatalf("expected unsupported dialect error")
	}
}
