package reminders

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/Srimaan215/Roku-AI/internal/clock"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrNotFound is returned when a reminder id does not exist.
var ErrNotFound = errors.New("reminder not found")

const timeLayout = time.RFC3339Nano

// Store is a SQLite-backed reminder store.
type Store struct {
	db    *sql.DB
	clock clock.Clock
	loc   *time.Location
}

// Option customises a Store.
type Option func(*Store)

// WithClock sets the clock used for due-soon and overdue checks.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the location due times are reported in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Open opens (creating if needed) the database at path and applies any
// pending migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("reminders: create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("reminders: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, clock: clock.System{}, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("reminders: load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return fmt.Errorf("reminders: create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// List returns the reminders in list (every list when empty), ordered by
// due time with undated items last.
func (s *Store) List(ctx context.Context, list string, includeCompleted bool) ([]Reminder, error) {
	query := `SELECT id, name, notes, due, completed, list_name, priority, created_at FROM reminders`
	var (
		where []string
		args  []any
	)
	if list != "" {
		where = append(where, "list_name = ?")
		args = append(args, list)
	}
	if !includeCompleted {
		where = append(where, "completed = 0")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reminders: query: %w", err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		r, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reminders: iterate: %w", err)
	}
	sortByDue(out)
	return out, nil
}

// DueSoon returns incomplete reminders in any list due within the next
// window. Overdue items are included.
func (s *Store) DueSoon(ctx context.Context, within time.Duration) ([]Reminder, error) {
	all, err := s.List(ctx, "", false)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().Add(within)
	out := make([]Reminder, 0, len(all))
	for _, r := range all {
		if r.Due != nil && !r.Due.After(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Overdue returns incomplete reminders in any list that are past due.
func (s *Store) Overdue(ctx context.Context) ([]Reminder, error) {
	all, err := s.List(ctx, "", false)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]Reminder, 0, len(all))
	for _, r := range all {
		if r.IsOverdue(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Create inserts r, assigning an id and creation time.
func (s *Store) Create(ctx context.Context, r Reminder) (Reminder, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return Reminder{}, errors.New("reminders: name is required")
	}
	if r.List == "" {
		r.List = DefaultList
	}
	r.ID = uuid.NewString()
	r.CreatedAt = s.now()

	var due any
	if r.Due != nil {
		due = r.Due.Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (id, name, notes, due, completed, list_name, priority, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Notes, due, boolToInt(r.Completed), r.List, int(r.Priority), r.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Reminder{}, fmt.Errorf("reminders: insert: %w", err)
	}
	return r, nil
}

// Complete marks the reminder with id done.
func (s *Store) Complete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reminders SET completed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("reminders: complete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reminders: complete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(row scanner) (Reminder, error) {
	var (
		r         Reminder
		due       sql.NullString
		completed int
		priority  int
		created   string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Notes, &due, &completed, &r.List, &priority, &created); err != nil {
		return Reminder{}, fmt.Errorf("reminders: scan: %w", err)
	}
	r.Completed = completed != 0
	r.Priority = Priority(priority)
	if due.Valid && due.String != "" {
		t, err := time.Parse(timeLayout, due.String)
		if err != nil {
			return Reminder{}, fmt.Errorf("reminders: parse due %q: %w", due.String, err)
		}
		t = t.In(s.loc)
		r.Due = &t
	}
	if t, err := time.Parse(timeLayout, created); err == nil {
		r.CreatedAt = t.In(s.loc)
	}
	return r, nil
}

func (s *Store) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func sortByDue(rs []Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i].Due, rs[j].Due
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
