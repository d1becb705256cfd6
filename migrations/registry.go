package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	linkbridge "github.com/goliatone/go-linkbridge"
	persistence "github.com/goliatone/go-persistence-bun"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	SourceLabel = "go-linkbridge"
)

type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

// Filesystems splits the embedded tree into one filesystem per dialect.
// An alternate root may be passed for tests.
func Filesystems(sources ...fs.FS) ([]FilesystemSpec, error) {
	root := linkbridge.GetMigrationsFS()
	if len(sources) > 0 && sources[0] != nil {
		root = sources[0]
	}

	base, err := fs.Sub(root, "data/sql/migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations: data/sql/migrations not found: %w", err)
	}
	sqliteFS, err := fs.Sub(base, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite filesystem: %w", err)
	}

	filesystems := []FilesystemSpec{
		{Dialect: DialectPostgres, Path: "data/sql/migrations", FS: base},
		{Dialect: DialectSQLite, Path: "data/sql/migrations/sqlite", FS: sqliteFS},
	}
	for _, spec := range filesystems {
		matches, globErr := fs.Glob(spec.FS, "*.up.sql")
		if globErr != nil {
			return nil, fmt.Errorf("migrations: glob %s %s: %w", spec.Dialect, spec.Path, globErr)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("migrations: %s filesystem %q has no *.up.sql files", spec.Dialect, spec.Path)
		}
	}
	return filesystems, nil
}

func ForDialect(dialect string) (FilesystemSpec, error) {
	dialect = NormalizeDialect(dialect)
	filesystems, err := Filesystems()
	if err != nil {
		return FilesystemSpec{}, err
	}
	for _, spec := range filesystems {
		if spec.Dialect == dialect {
			return spec, nil
		}
	}
	return FilesystemSpec{}, fmt.Errorf("migrations: unsupported dialect %q", dialect)
}

// Register hands the filesystem of each requested dialect to registerFn.
func Register(ctx context.Context, registerFn RegisterFunc, dialects ...string) error {
	if registerFn == nil {
		return fmt.Errorf("migrations: register function is required")
	}
	if len(dialects) == 0 {
		dialects = []string{DialectPostgres, DialectSQLite}
	}
	seen := map[string]struct{}{}
	for _, dialect := range dialects {
		spec, err := ForDialect(dialect)
		if err != nil {
			return err
		}
		if _, done := seen[spec.Dialect]; done {
			continue
		}
		seen[spec.Dialect] = struct{}{}
		if err := registerFn(ctx, spec.Dialect, SourceLabel, spec.FS); err != nil {
			return fmt.Errorf("migrations: register %s (%s): %w", spec.Dialect, spec.Path, err)
		}
	}
	return nil
}

// Apply registers the dialect's migrations on client and runs them.
func Apply(ctx context.Context, client *persistence.Client, dialect string) error {
	if client == nil {
		return fmt.Errorf("migrations: persistence client is required")
	}
	spec, err := ForDialect(dialect)
	if err != nil {
		return err
	}
	client.RegisterSQLMigrations(spec.FS)
	if err := client.Migrate(ctx); err != nil {
		return fmt.Errorf("migrations: apply %s: %w", spec.Dialect, err)
	}
	return nil
}

func NormalizeDialect(dialect string) string {
	switch strings.TrimSpace(strings.ToLower(dialect)) {
	case "postgres", "postgresql", "pg", "pq":
		return DialectPostgres
	case "sqlite", "sqlite3":
		return DialectSQLite
	default:
		return strings.TrimSpace(strings.ToLower(dialect))
	}
}
