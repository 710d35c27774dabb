package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Activity table - device effects emitted by the dispatch engine
		`CREATE TABLE IF NOT EXISTS activity (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			profile TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Templates table - reference hand poses for the template classifier
		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			tolerance REAL NOT NULL DEFAULT 1.5,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Template landmarks table - normalized landmark positions per template
		`CREATE TABLE IF NOT EXISTS template_landmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
			landmark_index INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_templates_label ON templates(label)`,
		`CREATE INDEX IF NOT EXISTS idx_template_landmarks_template_id ON template_landmarks(template_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
