package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/ballotnews/internal/model"
)

// DatabaseFile is the name of the SQLite file inside the data directory.
const DatabaseFile = "ballotnews.db"

// ErrEmptyURL is returned when an article without a URL is stored.
var ErrEmptyURL = errors.New("article has no url")

// timeLayout is the fixed-width UTC layout used for stored timestamps.
// Fixed width keeps lexical order equal to chronological order, which
// DeleteOlderThan relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ArticleStore provides SQLite-based storage for compiled articles.
type ArticleStore struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// now returns the write time recorded as LastModified.
	now func() time.Time
}

// Options configures ArticleStore behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// Now overrides the clock used for LastModified. Nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an ArticleStore in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ArticleStore, error) {
	dbPath := filepath.Join(dbDir, DatabaseFile)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &ArticleStore{
		db:     db,
		dbPath: dbPath,
		now:    opts.Now,
	}
	if store.now == nil {
		store.now = time.Now
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *ArticleStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *ArticleStore) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *ArticleStore) createTables() error {
	schema := `
	-- Articles are stored once per URL
	CREATE TABLE IF NOT EXISTS articles (
		key TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		publisher TEXT,
		published_date TEXT,
		content TEXT NOT NULL DEFAULT '',
		abbreviated_content TEXT NOT NULL DEFAULT '',
		summarized_content TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL,
		last_modified TEXT NOT NULL,
		run_id TEXT NOT NULL DEFAULT ''
	);

	-- Candidate associations reference articles by key
	CREATE TABLE IF NOT EXISTS candidate_articles (
		candidate_id TEXT NOT NULL,
		article_key TEXT NOT NULL REFERENCES articles(key) ON DELETE CASCADE,
		priority INTEGER NOT NULL,
		last_modified TEXT NOT NULL,
		run_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (candidate_id, article_key)
	);

	CREATE INDEX IF NOT EXISTS idx_candidate_articles_modified ON candidate_articles(last_modified);
	CREATE INDEX IF NOT EXISTS idx_articles_modified ON articles(last_modified);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// ArticleKey returns the storage key of a URL: the hex BLAKE2b-256 digest.
func ArticleKey(url string) string {
	sum := blake2b.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Store upserts the article and its association with the candidate in one
// transaction and sets article.LastModified to the write time.
func (s *ArticleStore) Store(ctx context.Context, candidateID, runID string, article *model.Article) error {
	if article == nil || article.URL == "" {
		return ErrEmptyURL
	}

	modified := s.now().UTC()
	key := ArticleKey(article.URL)

	var published any
	if article.PublishedDate != nil {
		published = formatTime(*article.PublishedDate)
	}
	var publisher any
	if article.Publisher != nil {
		publisher = *article.Publisher
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	articleQuery := `
	INSERT INTO articles (key, url, title, publisher, published_date, content,
		abbreviated_content, summarized_content, priority, last_modified, run_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		url = excluded.url,
		title = excluded.title,
		publisher = excluded.publisher,
		published_date = excluded.published_date,
		content = excluded.content,
		abbreviated_content = excluded.abbreviated_content,
		summarized_content = excluded.summarized_content,
		priority = excluded.priority,
		last_modified = excluded.last_modified,
		run_id = excluded.run_id
	`
	if _, err := tx.ExecContext(ctx, articleQuery,
		key,
		article.URL,
		article.Title,
		publisher,
		published,
		article.Content,
		article.AbbreviatedContent,
		article.SummarizedContent,
		article.Priority,
		formatTime(modified),
		runID,
	); err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	linkQuery := `
	INSERT INTO candidate_articles (candidate_id, article_key, priority, last_modified, run_id)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(candidate_id, article_key) DO UPDATE SET
		priority = excluded.priority,
		last_modified = excluded.last_modified,
		run_id = excluded.run_id
	`
	if _, err := tx.ExecContext(ctx, linkQuery,
		candidateID, key, article.Priority, formatTime(modified), runID,
	); err != nil {
		return fmt.Errorf("failed to upsert candidate article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit article: %w", err)
	}

	article.LastModified = modified
	return nil
}

// recordColumns is the column list shared by Get and ListByCandidate.
const recordColumns = `
	a.key, ca.candidate_id, ca.run_id, a.url, a.title, a.publisher, a.published_date,
	a.content, a.abbreviated_content, a.summarized_content, ca.priority, ca.last_modified`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one record row.
func scanRecord(row rowScanner) (*model.Record, error) {
	var (
		record    model.Record
		publisher sql.NullString
		published sql.NullString
		modified  string
	)
	err := row.Scan(
		&record.Key,
		&record.CandidateID,
		&record.RunID,
		&record.Article.URL,
		&record.Article.Title,
		&publisher,
		&published,
		&record.Article.Content,
		&record.Article.AbbreviatedContent,
		&record.Article.SummarizedContent,
		&record.Article.Priority,
		&modified,
	)
	if err != nil {
		return nil, err
	}

	if publisher.Valid {
		record.Article.Publisher = &publisher.String
	}
	if published.Valid {
		if t := parseTimestamp(published.String); !t.IsZero() {
			record.Article.PublishedDate = &t
		}
	}
	record.Article.LastModified = parseTimestamp(modified)
	return &record, nil
}

// Get retrieves the article stored at url for a candidate.
// It returns nil, nil when no such record exists.
func (s *ArticleStore) Get(ctx context.Context, candidateID, url string) (*model.Record, error) {
	query := `SELECT` + recordColumns + `
	FROM candidate_articles ca
	JOIN articles a ON a.key = ca.article_key
	WHERE ca.candidate_id = ? AND ca.article_key = ?
	`

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, candidateID, ArticleKey(url)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return record, nil
}

// ListByCandidate returns every article stored for a candidate, best rank first.
func (s *ArticleStore) ListByCandidate(ctx context.Context, candidateID string) ([]model.Record, error) {
	query := `SELECT` + recordColumns + `
	FROM candidate_articles ca
	JOIN articles a ON a.key = ca.article_key
	WHERE ca.candidate_id = ?
	ORDER BY ca.priority ASC, ca.last_modified DESC
	`

	rows, err := s.db.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return records, nil
}

// CandidateSummary describes what is stored for one candidate.
type CandidateSummary struct {
	// ID is the candidate identifier.
	ID string

	// Articles is the number of stored articles.
	Articles int

	// LastModified is the most recent write for the candidate.
	LastModified time.Time
}

// ListCandidates returns every candidate with at least one stored article.
func (s *ArticleStore) ListCandidates(ctx context.Context) ([]CandidateSummary, error) {
	query := `
	SELECT candidate_id, COUNT(*), MAX(last_modified)
	FROM candidate_articles
	GROUP BY candidate_id
	ORDER BY candidate_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var summaries []CandidateSummary
	for rows.Next() {
		var summary CandidateSummary
		var modified string
		if err := rows.Scan(&summary.ID, &summary.Articles, &modified); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		summary.LastModified = parseTimestamp(modified)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return summaries, nil
}

// DeleteOlderThan removes candidate associations written before cutoff and
// then every article no candidate references any more.
// It returns the number of associations removed.
func (s *ArticleStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM candidate_articles WHERE last_modified < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete candidate articles: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
	DELETE FROM articles
	WHERE key NOT IN (SELECT DISTINCT article_key FROM candidate_articles)
	`); err != nil {
		return 0, fmt.Errorf("failed to delete orphaned articles: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit deletion: %w", err)
	}
	return removed, nil
}

// formatTime renders t in the stored UTC layout.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// timestampFormats contains the timestamp formats accepted when reading.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,                // Layout written by this package
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, it returns the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
