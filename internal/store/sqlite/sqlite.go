package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/left4translate/internal/store"
)

// DefaultListLimit caps ListEntries when the query has no limit.
const DefaultListLimit = 100

var entryColumns = []string{
	"id",
	"source",
	"player",
	"original",
	"translated",
	"source_language",
	"team_chat",
	"team",
	"created_at",
}

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

// New opens the database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		return Migrate(context.Background(), db)
	})
}

// NewWithSetup opens the database and runs setup instead of the default
// migration. Useful for tests with ":memory:".
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps ":memory:"
	// databases alive across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db, sq: sq.StatementBuilder}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveEntry inserts or replaces an entry.
func (s *SQLiteStore) SaveEntry(ctx context.Context, e *store.Entry) error {
	if e == nil || e.ID == "" {
		return errors.New("entry id is required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query, args, err := s.sq.
		Insert("entries").
		Columns(entryColumns...).
		Values(
			e.ID,
			e.Source,
			e.Player,
			e.Original,
			e.Translated,
			e.SourceLanguage,
			e.TeamChat,
			e.Team,
			e.CreatedAt.UnixMilli(),
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			translated = excluded.translated,
			source_language = excluded.source_language`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// GetEntry retrieves an entry by ID.
func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (*store.Entry, error) {
	query, args, err := s.sq.
		Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("entry %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query entry: %w", err)
	}
	return e, nil
}

// ListEntries returns entries matching q, newest first.
func (s *SQLiteStore) ListEntries(ctx context.Context, q store.EntryQuery) ([]*store.Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	b := s.sq.
		Select(entryColumns...).
		From("entries").
		OrderBy("created_at DESC", "rowid DESC").
		Limit(uint64(limit))
	if q.Player != "" {
		b = b.Where(sq.Eq{"player": q.Player})
	}
	if q.Source != "" {
		b = b.Where(sq.Eq{"source": q.Source})
	}
	if q.TeamOnly {
		b = b.Where(sq.Eq{"team_chat": true})
	}
	if !q.Before.IsZero() {
		b = b.Where(sq.Lt{"created_at": q.Before.UnixMilli()})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*store.Entry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// DeleteBefore removes entries created before t.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	query, args, err := s.sq.
		Delete("entries").
		Where(sq.Lt{"created_at": t.UnixMilli()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*store.Entry, error) {
	var (
		e       store.Entry
		created int64
	)
	if err := row.Scan(
		&e.ID,
		&e.Source,
		&e.Player,
		&e.Original,
		&e.Translated,
		&e.SourceLanguage,
		&e.TeamChat,
		&e.Team,
		&created,
	); err != nil {
		return nil, err
	}
	e.CreatedAt = time.UnixMilli(created)
	return &e, nil
}
