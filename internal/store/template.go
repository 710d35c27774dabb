package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Landmark is one normalized hand landmark.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Template is a reference hand pose for a gesture label.
type Template struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Tolerance float64    `json:"tolerance"`
	Landmarks []Landmark `json:"landmarks"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TemplateRepository provides CRUD operations for templates.
type TemplateRepository struct {
	db *sql.DB
}

// Templates returns the template repository for this store.
func (s *Store) Templates() *TemplateRepository {
	return &TemplateRepository{db: s.db}
}

// Create inserts a template and its landmarks in a single transaction.
func (r *TemplateRepository) Create(t *Template) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO templates (id, label, tolerance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Label, t.Tolerance, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO template_landmarks (template_id, landmark_index, x, y, z) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, lm := range t.Landmarks {
		if _, err := stmt.Exec(t.ID, i, lm.X, lm.Y, lm.Z); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a template by its ID.
func (r *TemplateRepository) GetByID(id string) (*Template, error) {
	t := &Template{}
	err := r.db.QueryRow(
		`SELECT id, label, tolerance, created_at, updated_at
		 FROM templates WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Label, &t.Tolerance, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if t.Landmarks, err = r.landmarks(t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// List retrieves all templates with their landmarks, ordered by label.
func (r *TemplateRepository) List() ([]*Template, error) {
	rows, err := r.db.Query(
		`SELECT id, label, tolerance, created_at, updated_at
		 FROM templates ORDER BY label, created_at`,
	)
	if err != nil {
		return nil, err
	}

	var templates []*Template
	for rows.Next() {
		t := &Template{}
		if err := rows.Scan(&t.ID, &t.Label, &t.Tolerance, &t.CreatedAt, &t.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Landmarks are loaded after the cursor is closed: the pool has one connection.
	for _, t := range templates {
		if t.Landmarks, err = r.landmarks(t.ID); err != nil {
			return nil, err
		}
	}

	return templates, nil
}

func (r *TemplateRepository) landmarks(templateID string) ([]Landmark, error) {
	rows, err := r.db.Query(
		`SELECT x, y, z FROM template_landmarks
		 WHERE template_id = ? ORDER BY landmark_index`,
		templateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var landmarks []Landmark
	for rows.Next() {
		var lm Landmark
		if err := rows.Scan(&lm.X, &lm.Y, &lm.Z); err != nil {
			return nil, err
		}
		landmarks = append(landmarks, lm)
	}
	return landmarks, rows.Err()
}

// Delete removes a template and its landmarks.
func (r *TemplateRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
