package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when no activity has the requested ID.
var ErrNotFound = errors.New("activity not found")

// Record is a stored activity. UserID is empty for public activities,
// which every user can see.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Activity  Activity  `json:"activity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists activities to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (and migrates) an activity store at the given path.
// Use ":memory:" for testing.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			data BLOB NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_activities_user_id
		ON activities(user_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Store{db: db}, nil
}

// CreatePublic stores an activity visible to every user.
func (s *Store) CreatePublic(ctx context.Context, act Activity) (Record, error) {
	return s.create(ctx, "", act)
}

// CreateForUser stores an activity owned by a single user.
func (s *Store) CreateForUser(ctx context.Context, userID string, act Activity) (Record, error) {
	if userID == "" {
		return Record{}, errors.New("activity: user ID is required")
	}
	return s.create(ctx, userID, act)
}

// CreateBatchForUser stores several activities for one user in a single
// transaction.
func (s *Store) CreateBatchForUser(ctx context.Context, userID string, acts []Activity) ([]Record, error) {
	if userID == "" {
		return nil, errors.New("activity: user ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	records := make([]Record, 0, len(acts))
	for _, act := range acts {
		rec := Record{
			ID:        uuid.New().String(),
			UserID:    userID,
			Activity:  act,
			CreatedAt: now,
			UpdatedAt: now,
		}
		data, err := json.Marshal(act)
		if err != nil {
			return nil, fmt.Errorf("marshal activity: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO activities (id, user_id, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, nullable(userID), data, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano)); err != nil {
			return nil, fmt.Errorf("insert activity: %w", err)
		}
		records = append(records, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return records, nil
}

// Get returns one activity by ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, data, created_at, updated_at
		FROM activities WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get activity: %w", err)
	}
	return rec, nil
}

// ListPublic returns all public activities.
func (s *Store) ListPublic(ctx context.Context) ([]Record, error) {
	return s.list(ctx, `
		SELECT id, user_id, data, created_at, updated_at
		FROM activities WHERE user_id IS NULL
		ORDER BY created_at
	`)
}

// ListForUser returns all activities owned by a user.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]Record, error) {
	return s.list(ctx, `
		SELECT id, user_id, data, created_at, updated_at
		FROM activities WHERE user_id = ?
		ORDER BY created_at
	`, userID)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) create(ctx context.Context, userID string, act Activity) (Record, error) {
	now := time.Now().UTC()
	rec := Record{
		ID:        uuid.New().String(),
		UserID:    userID,
		Activity:  act,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(act)
	if err != nil {
		return Record{}, fmt.Errorf("marshal activity: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, nullable(userID), data, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano)); err != nil {
		return Record{}, fmt.Errorf("insert activity: %w", err)
	}

	return rec, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return records, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (Record, error) {
	var (
		rec       Record
		userID    sql.NullString
		data      []byte
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&rec.ID, &userID, &data, &createdAt, &updatedAt); err != nil {
		return Record{}, err
	}
	rec.UserID = userID.String
	if err := json.Unmarshal(data, &rec.Activity); err != nil {
		return Record{}, fmt.Errorf("decode activity: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return rec, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
