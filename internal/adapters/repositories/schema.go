package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects the SQL flavour of the journal database.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// ParseDialect accepts "sqlite" or "postgres".
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "sqlite", "":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return SQLite, fmt.Errorf("unknown journal dialect %q", s)
	}
}

// placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Initialize the ride journal schema.
func InitSchema(db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d == Postgres {
		id = "BIGSERIAL PRIMARY KEY"
	}

	createRidesQuery := `
	CREATE TABLE IF NOT EXISTS rides (
		id ` + id + `,
		fleet TEXT NOT NULL,
		cabin INTEGER NOT NULL,
		rider_id INTEGER NOT NULL,
		start_floor INTEGER NOT NULL,
		destination INTEGER NOT NULL,
		start_tick INTEGER NOT NULL,
		board_tick INTEGER NOT NULL,
		exit_tick INTEGER NOT NULL,
		score INTEGER NOT NULL,
		recorded_at_ms BIGINT NOT NULL
	);
	`

	createResetsQuery := `
	CREATE TABLE IF NOT EXISTS resets (
		id ` + id + `,
		fleet TEXT NOT NULL,
		cabin INTEGER NOT NULL,
		cause TEXT NOT NULL,
		kind TEXT NOT NULL,
		reason TEXT NOT NULL,
		tick INTEGER NOT NULL,
		penalty INTEGER NOT NULL,
		recorded_at_ms BIGINT NOT NULL
	);
	`

	statements := []string{
		createRidesQuery,
		createResetsQuery,
		`CREATE INDEX IF NOT EXISTS idx_rides_fleet ON rides(fleet);`,
		`CREATE INDEX IF NOT EXISTS idx_resets_fleet ON resets(fleet);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
