package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Strava authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Time trials entered by hand or imported
		`CREATE TABLE IF NOT EXISTS time_trials (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			distance_meters REAL NOT NULL,
			time_seconds REAL NOT NULL,
			source TEXT NOT NULL DEFAULT 'manual',
			external_id INTEGER,
			recorded_at TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_time_trials_recorded_at ON time_trials(recorded_at)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_trials_external ON time_trials(source, external_id)
			WHERE external_id IS NOT NULL`,

		// Computed results per trial
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trial_id TEXT NOT NULL,
			vdot REAL NOT NULL,
			predicted_5k REAL NOT NULL,
			threshold_pace REAL NOT NULL,
			easy_pace REAL NOT NULL,
			heat_impact REAL,
			headwind_impact REAL,
			tailwind_impact REAL,
			altitude_impact REAL,
			computed_at TEXT NOT NULL,
			FOREIGN KEY (trial_id) REFERENCES time_trials(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_results_trial ON results(trial_id, computed_at)`,

		// Key/value bookkeeping, e.g. the last Strava import
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
