// Package standards indexes the markdown coding-standard corpus and
// answers keyword queries over it.
//
// Documents live in an in-memory SQLite database that is rebuilt from
// disk as a whole; the corpus is small enough that incremental updates
// are not worth the bookkeeping.
package standards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/corbat-tech/corbat-mcp/internal/logging"
	"github.com/corbat-tech/corbat-mcp/internal/resilience"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrInvalidQuery is returned for empty or whitespace-only queries.
var ErrInvalidQuery = errors.New("please provide a search query")

// snippetRadius is how many characters of context surround the first hit.
const snippetRadius = 80

// Result is one ranked search hit.
type Result struct {
	Category string
	Title    string
	Snippet  string
	Score    int
	Path     string
}

// Stats summarises the index contents.
type Stats struct {
	Documents  int
	Categories int
	BuiltAt    time.Time
}

// Options configures an Index.
type Options struct {
	// Root is the standards directory; used for display paths and as the
	// default filesystem.
	Root string
	// FS overrides the filesystem (tests use fstest.MapFS).
	FS fs.FS
	// TTL is how long a build is trusted before the corpus is re-checked.
	// Zero re-checks on every query.
	TTL         time.Duration
	Now         func() time.Time
	RetryPolicy *resilience.Policy
	Logger      *logging.AppLogger
}

// Index is a searchable view of the standards corpus.
type Index struct {
	db     *sql.DB
	root   string
	fsys   fs.FS
	ttl    time.Duration
	now    func() time.Time
	policy resilience.Policy
	logger *logging.AppLogger

	mu      sync.Mutex
	built   bool
	builtAt time.Time
	fp      fingerprint
}

// NewIndex opens the in-memory database. Documents are loaded lazily on
// first use, or explicitly with Build.
func NewIndex(opts Options) (*Index, error) {
	db, err := openDB("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("standards: open database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	idx := &Index{
		db:     db,
		root:   opts.Root,
		fsys:   opts.FS,
		ttl:    opts.TTL,
		now:    opts.Now,
		logger: opts.Logger,
	}
	if idx.fsys == nil {
		idx.fsys = os.DirFS(opts.Root)
	}
	if idx.now == nil {
		idx.now = time.Now
	}
	if opts.RetryPolicy != nil {
		idx.policy = *opts.RetryPolicy
	} else {
		idx.policy = resilience.DefaultFilePolicy()
	}
	if idx.logger == nil {
		idx.logger = logging.Discard()
	}

	if err := idx.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("standards: migration: %w", err)
	}
	return idx, nil
}

// Close releases the database.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Root returns the standards directory.
func (idx *Index) Root() string {
	return idx.root
}

const schema = `
	CREATE TABLE documents (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		title    TEXT NOT NULL,
		path     TEXT NOT NULL,
		body     TEXT NOT NULL,
		title_lc TEXT NOT NULL,
		body_lc  TEXT NOT NULL
	);
	CREATE INDEX idx_documents_category ON documents(category);
`

func (idx *Index) migrate(ctx context.Context) error {
	_, err := idx.db.ExecContext(ctx, "DROP TABLE IF EXISTS documents;"+schema)
	return err
}

// Build reloads every document from disk and replaces the index contents
// in a single transaction. Safe to call repeatedly.
func (idx *Index) Build(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.buildLocked(ctx)
}

func (idx *Index) buildLocked(ctx context.Context) error {
	start := time.Now()

	fp, err := computeFingerprint(idx.fsys)
	if err != nil {
		return fmt.Errorf("standards: scan: %w", err)
	}
	docs, err := loadDocuments(ctx, idx.fsys, idx.policy)
	if err != nil {
		return fmt.Errorf("standards: load: %w", err)
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("standards: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS documents;"+schema); err != nil {
		return fmt.Errorf("standards: reset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (category, title, path, body, title_lc, body_lc) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("standards: prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err := stmt.ExecContext(ctx,
			d.Category, d.Title, d.Path, d.Body,
			strings.ToLower(d.Title), strings.ToLower(d.Body),
		); err != nil {
			return fmt.Errorf("standards: insert %s: %w", d.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("standards: commit: %w", err)
	}

	idx.built = true
	idx.builtAt = idx.now()
	idx.fp = fp
	idx.logger.Debug("Standards index built", "documents", len(docs), "root", idx.root)
	idx.logger.LogPerformance("standards build", start)
	return nil
}

// EnsureFresh builds the index if it never was, and rebuilds it when the
// TTL has elapsed and the corpus on disk has changed.
func (idx *Index) EnsureFresh(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.built {
		return idx.buildLocked(ctx)
	}
	if idx.ttl > 0 && idx.now().Sub(idx.builtAt) < idx.ttl {
		return nil
	}

	fp, err := computeFingerprint(idx.fsys)
	if err != nil {
		return fmt.Errorf("standards: scan: %w", err)
	}
	if fp == idx.fp {
		idx.builtAt = idx.now()
		return nil
	}
	return idx.buildLocked(ctx)
}

// Search ranks documents by keyword hits: each token scores two points
// per occurrence in the title and one per occurrence in the body. Only
// documents with a positive score are returned, best first, ties broken
// by category then title.
func (idx *Index) Search(ctx context.Context, query string) ([]Result, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, ErrInvalidQuery
	}
	if err := idx.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	const occurrences = "((length(%[1]s) - length(replace(%[1]s, ?, ''))) / length(?))"
	terms := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens)*4)
	for _, tok := range tokens {
		terms = append(terms, "2 * "+fmt.Sprintf(occurrences, "title_lc")+" + "+fmt.Sprintf(occurrences, "body_lc"))
		args = append(args, tok, tok, tok, tok)
	}

	q := `SELECT category, title, path, body, score FROM (
			SELECT category, title, path, body, (` + strings.Join(terms, " + ") + `) AS score
			FROM documents
		) WHERE score > 0
		ORDER BY score DESC, category ASC, title ASC`

	rows, err := idx.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("standards: search: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var r Result
		var body string
		if err := rows.Scan(&r.Category, &r.Title, &r.Path, &body, &r.Score); err != nil {
			return nil, fmt.Errorf("standards: scan result: %w", err)
		}
		r.Snippet = snippet(body, tokens)
		r.Path = idx.displayPath(r.Path)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Categories returns the distinct categories, sorted.
func (idx *Index) Categories(ctx context.Context) ([]string, error) {
	if err := idx.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	rows, err := idx.db.QueryContext(ctx, `SELECT DISTINCT category FROM documents ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("standards: categories: %w", err)
	}
	defer rows.Close()

	cats := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// DocumentsByCategory returns the documents in category sorted by title.
// An unknown category yields an empty slice.
func (idx *Index) DocumentsByCategory(ctx context.Context, category string) ([]Document, error) {
	if err := idx.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	rows, err := idx.db.QueryContext(ctx,
		`SELECT category, title, path, body FROM documents WHERE category = ? ORDER BY title`,
		strings.ToLower(strings.TrimSpace(category)))
	if err != nil {
		return nil, fmt.Errorf("standards: documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Category, &d.Title, &d.Path, &d.Body); err != nil {
			return nil, err
		}
		d.Path = idx.displayPath(d.Path)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Stats reports document and category counts.
func (idx *Index) Stats(ctx context.Context) (Stats, error) {
	if err := idx.EnsureFresh(ctx); err != nil {
		return Stats{}, err
	}

	var s Stats
	err := idx.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT category) FROM documents`).Scan(&s.Documents, &s.Categories)
	if err != nil {
		return Stats{}, fmt.Errorf("standards: stats: %w", err)
	}

	idx.mu.Lock()
	s.BuiltAt = idx.builtAt
	idx.mu.Unlock()
	return s, nil
}

func (idx *Index) displayPath(rel string) string {
	if idx.root == "" {
		return rel
	}
	return filepath.Join(idx.root, filepath.FromSlash(rel))
}

// tokenize lowercases the query and splits it on whitespace, dropping
// duplicate tokens.
func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// snippet returns a single-line excerpt around the first token found in
// body, or the start of the body when only the title matched.
func snippet(body string, tokens []string) string {
	text := strings.Join(strings.Fields(body), " ")
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		text = lower
	}

	pos := -1
	for _, tok := range tokens {
		if i := strings.Index(lower, tok); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}
	if pos < 0 {
		pos = 0
	}

	start := max(pos-snippetRadius, 0)
	end := min(pos+snippetRadius, len(text))
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	out := strings.TrimSpace(text[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}
