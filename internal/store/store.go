// Package store persists subscribers, categories, newsletters and delivery
// records in SQLite. The unique index on (week_of, category_key) is the
// arbiter for concurrent newsletter generation: exactly one writer wins,
// everyone else reads the winner's row.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"trendletter/internal/core"
	"trendletter/internal/week"
)

// Store represents the SQLite-backed persistence layer
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "trendletter.db")
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	categoriesTable := `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		label TEXT,
		icon TEXT
	);`

	userCategoriesTable := `
	CREATE TABLE IF NOT EXISTS user_categories (
		user_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		PRIMARY KEY (user_id, category_id),
		FOREIGN KEY (user_id) REFERENCES users (id),
		FOREIGN KEY (category_id) REFERENCES categories (id)
	);`

	newslettersTable := `
	CREATE TABLE IF NOT EXISTS newsletters (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		subtitle TEXT,
		week_of TEXT NOT NULL,
		category_key TEXT NOT NULL,
		categories TEXT NOT NULL,
		articles TEXT NOT NULL,
		html_content TEXT,
		created_at DATETIME NOT NULL,
		UNIQUE (week_of, category_key)
	);`

	newsletterSentTable := `
	CREATE TABLE IF NOT EXISTS newsletter_sent (
		user_id TEXT NOT NULL,
		newsletter_id TEXT NOT NULL,
		sent_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, newsletter_id),
		FOREIGN KEY (user_id) REFERENCES users (id),
		FOREIGN KEY (newsletter_id) REFERENCES newsletters (id)
	);`

	tables := []string{usersTable, categoriesTable, userCategoriesTable, newslettersTable, newsletterSentTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertUserByEmail creates a user or updates the name of an existing one,
// keyed on the unique email.
func (s *Store) UpsertUserByEmail(ctx context.Context, email, name string) (*core.User, error) {
	now := time.Now().UTC()
	query := `
	INSERT INTO users (id, email, name, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(email) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, uuid.NewString(), email, name, now, now); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return s.GetUserByEmail(ctx, email)
}

// GetUserByEmail returns the user with the given email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, created_at, updated_at FROM users WHERE email = ?`, email)

	var user core.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// UpsertCategory creates a category by unique name if it does not already
// exist and returns the stored row.
func (s *Store) UpsertCategory(ctx context.Context, name, label, icon string) (*core.Category, error) {
	query := `INSERT OR IGNORE INTO categories (id, name, label, icon) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, uuid.NewString(), name, label, icon); err != nil {
		return nil, fmt.Errorf("failed to upsert category: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, name, label, icon FROM categories WHERE name = ?`, name)
	var cat core.Category
	if err := row.Scan(&cat.ID, &cat.Name, &cat.Label, &cat.Icon); err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &cat, nil
}

// ReplaceUserCategories replaces the user's category associations wholesale
// in one transaction. Categories are created lazily by name.
func (s *Store) ReplaceUserCategories(ctx context.Context, userID string, names []string) error {
	categoryIDs := make([]string, 0, len(names))
	for _, name := range names {
		cat, err := s.UpsertCategory(ctx, name, "", "")
		if err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, cat.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_categories WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear user categories: %w", err)
	}
	for _, catID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_categories (user_id, category_id) VALUES (?, ?)`, userID, catID); err != nil {
			return fmt.Errorf("failed to insert user category: %w", err)
		}
	}

	return tx.Commit()
}

// UserCategories returns the user's category names in sorted order.
func (s *Store) UserCategories(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT c.name FROM categories c
	JOIN user_categories uc ON uc.category_id = c.id
	WHERE uc.user_id = ?
	ORDER BY c.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetNewsletter returns the cached newsletter for a week start and category
// key, or nil on a cache miss.
func (s *Store) GetNewsletter(ctx context.Context, weekOf time.Time, categoryKey string) (*core.Newsletter, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, title, subtitle, week_of, category_key, categories, articles, html_content, created_at
	FROM newsletters WHERE week_of = ? AND category_key = ?`,
		week.Key(weekOf), categoryKey)
	return scanNewsletter(row)
}

// GetNewsletterByID returns a newsletter by id, or nil when absent.
func (s *Store) GetNewsletterByID(ctx context.Context, id string) (*core.Newsletter, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, title, subtitle, week_of, category_key, categories, articles, html_content, created_at
	FROM newsletters WHERE id = ?`, id)
	return scanNewsletter(row)
}

func scanNewsletter(row *sql.Row) (*core.Newsletter, error) {
	var n core.Newsletter
	var weekKey, categoriesJSON, articlesJSON string
	err := row.Scan(&n.ID, &n.Title, &n.Subtitle, &weekKey, &n.CategoryKey,
		&categoriesJSON, &articlesJSON, &n.HTMLContent, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan newsletter: %w", err)
	}

	weekOf, err := time.ParseInLocation(week.KeyLayout, weekKey, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid week key %q: %w", weekKey, err)
	}
	n.WeekOf = weekOf

	if err := json.Unmarshal([]byte(categoriesJSON), &n.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if err := json.Unmarshal([]byte(articlesJSON), &n.Articles); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}
	return &n, nil
}

// GeneratorFunc produces the content of a new newsletter when the cache has
// no issue for the requested week and category set.
type GeneratorFunc func(ctx context.Context) (*core.Newsletter, error)

// CreateOutcome reports how CreateNewsletterIfAbsent resolved the request.
type CreateOutcome int

const (
	// OutcomeCacheHit means the newsletter already existed.
	OutcomeCacheHit CreateOutcome = iota
	// OutcomeCreated means this call generated and inserted the row.
	OutcomeCreated
	// OutcomeConflictRecovered means a concurrent writer won the insert
	// race and its row was returned.
	OutcomeConflictRecovered
)

// CreateNewsletterIfAbsent returns the cached newsletter for (weekOf,
// categoryKey) or generates and inserts a new one. Under concurrent calls
// the unique index picks exactly one winner; losers re-read and return the
// winner's row.
func (s *Store) CreateNewsletterIfAbsent(ctx context.Context, weekOf time.Time, categoryKey string, generate GeneratorFunc) (*core.Newsletter, CreateOutcome, error) {
	existing, err := s.GetNewsletter(ctx, weekOf, categoryKey)
	if err != nil {
		return nil, OutcomeCacheHit, err
	}
	if existing != nil {
		return existing, OutcomeCacheHit, nil
	}

	newsletter, err := generate(ctx)
	if err != nil {
		return nil, OutcomeCacheHit, fmt.Errorf("failed to generate newsletter: %w", err)
	}
	if newsletter.ID == "" {
		newsletter.ID = uuid.NewString()
	}
	newsletter.WeekOf = weekOf
	newsletter.CategoryKey = categoryKey
	newsletter.CreatedAt = time.Now().UTC()

	categoriesJSON, err := json.Marshal(newsletter.Categories)
	if err != nil {
		return nil, OutcomeCacheHit, fmt.Errorf("failed to encode categories: %w", err)
	}
	articlesJSON, err := json.Marshal(newsletter.Articles)
	if err != nil {
		return nil, OutcomeCacheHit, fmt.Errorf("failed to encode articles: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO newsletters (id, title, subtitle, week_of, category_key, categories, articles, html_content, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newsletter.ID, newsletter.Title, newsletter.Subtitle, week.Key(weekOf), categoryKey,
		string(categoriesJSON), string(articlesJSON), newsletter.HTMLContent, newsletter.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent writer won the race; return its row.
			winner, rerr := s.GetNewsletter(ctx, weekOf, categoryKey)
			if rerr != nil {
				return nil, OutcomeCacheHit, rerr
			}
			if winner == nil {
				return nil, OutcomeCacheHit, fmt.Errorf("newsletter conflict but no row found: %w", err)
			}
			return winner, OutcomeConflictRecovered, nil
		}
		return nil, OutcomeCacheHit, fmt.Errorf("failed to insert newsletter: %w", err)
	}

	return newsletter, OutcomeCreated, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	// Driver errors sometimes arrive wrapped beyond errors.As reach.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// WasSent reports whether the newsletter was already delivered to the user.
func (s *Store) WasSent(ctx context.Context, userID, newsletterID string) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM newsletter_sent WHERE user_id = ? AND newsletter_id = ?`, userID, newsletterID)
	var one int
	err := row.Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query delivery record: %w", err)
	}
	return true, nil
}

// MarkSent records delivery of a newsletter to a user. Repeated calls only
// refresh the timestamp; the record count never grows past one per pair.
func (s *Store) MarkSent(ctx context.Context, userID, newsletterID string) error {
	query := `
	INSERT INTO newsletter_sent (user_id, newsletter_id, sent_at)
	VALUES (?, ?, ?)
	ON CONFLICT(user_id, newsletter_id) DO UPDATE SET sent_at = excluded.sent_at`

	if _, err := s.db.ExecContext(ctx, query, userID, newsletterID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark newsletter sent: %w", err)
	}
	return nil
}

// SentCount returns how many users a newsletter has been delivered to.
func (s *Store) SentCount(ctx context.Context, newsletterID string) (int, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM newsletter_sent WHERE newsletter_id = ?`, newsletterID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return count, nil
}

// Stats summarizes store contents for diagnostics.
type Stats struct {
	Users       int `json:"users"`
	Categories  int `json:"categories"`
	Newsletters int `json:"newsletters"`
	Deliveries  int `json:"deliveries"`
}

// GetStats returns row counts per table.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	counts := map[string]*int{
		"users":           &stats.Users,
		"categories":      &stats.Categories,
		"newsletters":     &stats.Newsletters,
		"newsletter_sent": &stats.Deliveries,
	}
	for table, dst := range counts {
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table)
		if err := row.Scan(dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
	}
	return stats, nil
}
