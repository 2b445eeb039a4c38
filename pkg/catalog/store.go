package catalog

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store holds the catalog's database handle and exposes one repository per
// entity group. All writes happen through these repositories so that every
// transactional boundary is explicit, never implicit via an ORM session.
type Store struct {
	DB *sqlx.DB

	Sources    *SourceRepository
	Files      *FileRepository
	Hashes     *HashRepository
	Duplicates *DuplicateRepository
	Zones      *ZoneRepository
	Projects   *ProjectRepository
}

// Open connects to dsn and wires every repository against the shared
// handle.
func Open(dsn string, maxOpenConns, maxIdleConns int) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}

	store := &Store{DB: db}
	store.Sources = &SourceRepository{db: db}
	store.Files = &FileRepository{db: db}
	store.Hashes = &HashRepository{db: db}
	store.Duplicates = &DuplicateRepository{db: db}
	store.Zones = &ZoneRepository{db: db}
	store.Projects = &ProjectRepository{db: db}

	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate applies every embedded migration in lexical filename order. Each
// migration file is executed as a single statement batch; migrations are
// expected to be idempotent (CREATE TABLE/INDEX IF NOT EXISTS) so that
// Migrate is safe to call on every process start.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("unable to read embedded migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		contents, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("unable to read migration %s: %w", name, err)
		}
		if _, err := s.DB.ExecContext(ctx, string(contents)); err != nil {
			return fmt.Errorf("unable to apply migration %s: %w", name, err)
		}
	}

	return nil
}
