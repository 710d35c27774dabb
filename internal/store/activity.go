package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Activity is one device effect recorded from the dispatch engine.
type Activity struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Label     string    `json:"label"`
	Profile   string    `json:"profile"`
	Detail    string    `json:"detail"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityRepository provides access to the activity log.
type ActivityRepository struct {
	db *sql.DB
}

// Activity returns the activity repository for this store.
func (s *Store) Activity() *ActivityRepository {
	return &ActivityRepository{db: s.db}
}

// Create appends an entry. ID and CreatedAt are filled in when empty.
func (r *ActivityRepository) Create(a *Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO activity (id, kind, label, profile, detail, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Kind, a.Label, a.Profile, a.Detail, a.Error, a.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit entries, newest first.
func (r *ActivityRepository) ListRecent(limit int) ([]*Activity, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.Query(
		`SELECT id, kind, label, profile, detail, error, created_at
		 FROM activity ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Activity
	for rows.Next() {
		a := &Activity{}
		if err := rows.Scan(&a.ID, &a.Kind, &a.Label, &a.Profile, &a.Detail, &a.Error, &a.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the number of stored entries.
func (r *ActivityRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM activity`).Scan(&n)
	return n, err
}

// Prune keeps the newest keep entries and deletes the rest. It returns the
// number of deleted rows.
func (r *ActivityRepository) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	result, err := r.db.Exec(
		`DELETE FROM activity WHERE rowid NOT IN (
			SELECT rowid FROM activity ORDER BY rowid DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
