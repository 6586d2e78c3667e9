package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/semiconbook/chaptermap/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "chaptermap.db"

// snippetRadius is the context kept on each side of a highlight.
const snippetRadius = 50

// Store is the SQLite database holding the search index.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.SearchIndex = (*Store)(nil)

// NewStore opens or creates the store in dataDir.
// If dataDir is empty, defaults to ~/.chaptermap/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chaptermap", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// WAL mode for concurrent readers
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending up migrations in version order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_search.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Index adds or replaces a chapter.
func (s *Store) Index(ctx context.Context, entry domain.SearchEntry) error {
	tagsJSON, err := encodeTags(entry.Tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chapters (slug, title, content, part, chapter, tags, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			part = excluded.part,
			chapter = excluded.chapter,
			tags = excluded.tags,
			indexed_at = excluded.indexed_at
	`, entry.Slug, entry.Title, entry.Content, entry.Part, entry.Chapter, tagsJSON)
	if err != nil {
		return fmt.Errorf("indexing chapter %s: %w", entry.Slug, err)
	}
	return nil
}

// encodeTags stores tags as a JSON array without HTML escaping, so the
// LIKE prefilter sees "A&B" rather than "A\u0026B".
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tags); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Delete removes a chapter. Unknown slugs are ignored.
func (s *Store) Delete(ctx context.Context, slug string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chapters WHERE slug = ?", slug); err != nil {
		return fmt.Errorf("deleting chapter %s: %w", slug, err)
	}
	return nil
}

// likePattern escapes query for a LIKE substring match.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}

// Search returns matching chapters, best first, ties by slug.
func (s *Store) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	results := []domain.SearchResult{}
	if query == "" {
		return results, nil
	}

	pattern := likePattern(query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, title, content, part, chapter, tags
		FROM chapters
		WHERE (title LIKE ?1 ESCAPE '\' OR content LIKE ?1 ESCAPE '\' OR tags LIKE ?1 ESCAPE '\')
		  AND (?2 = '' OR part = ?2)
	`, pattern, opts.Part)
	if err != nil {
		return nil, fmt.Errorf("searching chapters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		// LIKE is ASCII case-insensitive only; Score decides.
		score := entry.Score(query)
		if score == 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Chapter:    entry.Ref(),
			Score:      score,
			Highlights: []string{entry.Snippet(query, snippetRadius)},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chapters: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chapter.Slug < results[j].Chapter.Slug
	})
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func scanEntry(rows *sql.Rows) (domain.SearchEntry, error) {
	var e domain.SearchEntry
	var tagsJSON string
	if err := rows.Scan(&e.Slug, &e.Title, &e.Content, &e.Part, &e.Chapter, &tagsJSON); err != nil {
		return e, fmt.Errorf("scanning chapter: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
		return e, fmt.Errorf("unmarshalling tags of %s: %w", e.Slug, err)
	}
	return e, nil
}

// Get returns one indexed chapter.
func (s *Store) Get(ctx context.Context, slug string) (*domain.SearchEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, title, content, part, chapter, tags FROM chapters WHERE slug = ?
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("getting chapter %s: %w", slug, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("indexed chapter %s: %w", slug, domain.ErrNotFound)
	}
	entry, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Clear removes every chapter.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chapters"); err != nil {
		return fmt.Errorf("clearing chapters: %w", err)
	}
	return nil
}

// Count returns the number of indexed chapters.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chapters").Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counting chapters: %w", err)
	}
	return n, nil
}
