package history

import "fmt"

// migration is a single versioned schema step.
type migration struct {
	version int
	name    string
	up      func() error
}

// runMigrations applies pending schema migrations in order.
func (s *SQLiteStore) runMigrations() error {
	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.currentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "initial_schema", up: s.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *SQLiteStore) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) currentMigrationVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, nil
}

func (s *SQLiteStore) setMigrationVersion(version int, name string) error {
	_, err := s.db.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, version, name)
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

func (s *SQLiteStore) migration001InitialSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			input_text TEXT NOT NULL,
			reply_text TEXT NOT NULL,
			emotion_score REAL NOT NULL,
			risk REAL NOT NULL,
			risk_level TEXT NOT NULL,
			tags TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_session_created
			ON interactions(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS dangerous_moments (
			interaction_id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			input_text TEXT NOT NULL,
			risk REAL NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dangerous_session_risk
			ON dangerous_moments(session_id, risk)`,
		`CREATE TABLE IF NOT EXISTS pattern_occurrences (
			session_id TEXT NOT NULL,
			hour INTEGER NOT NULL,
			weekday INTEGER NOT NULL,
			label TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			last_seen INTEGER NOT NULL,
			PRIMARY KEY (session_id, hour, weekday, label)
		)`,
		`CREATE TABLE IF NOT EXISTS watchlist (
			symbol TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			buy_price REAL NOT NULL,
			quantity REAL NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
