package repositories

import (
	"context"
	"database/sql"
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/platform/obs"
	"elevator-dispatch-service/internal/ports"
	"errors"
	"fmt"
	"strings"
)

// SQLRideJournal is a SQL-backed implementation of the RideJournal port.
// The same queries serve SQLite and Postgres; only bind parameters differ.
type SQLRideJournal struct {
	DB      *sql.DB
	Dialect Dialect
}

var _ ports.RideJournal = (*SQLRideJournal)(nil)

func NewSQLiteRideJournal(db *sql.DB) *SQLRideJournal {
	return &SQLRideJournal{DB: db, Dialect: SQLite}
}

func NewPostgresRideJournal(db *sql.DB) *SQLRideJournal {
	return &SQLRideJournal{DB: db, Dialect: Postgres}
}

// insertQuery renders an INSERT for table with one bind parameter per column.
func (s *SQLRideJournal) insertQuery(table string, columns ...string) string {
	params := make([]string, len(columns))
	for i := range columns {
		params[i] = s.Dialect.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		table, strings.Join(columns, ", "), strings.Join(params, ", "))
}

// Append completed rides in one transaction.
func (s *SQLRideJournal) RecordRides(ctx context.Context, rides []domain.RideRecord) (err error) {
	defer obs.Time(ctx, "journal.RecordRides")(&err)

	if s.DB == nil {
		return errors.New("ride journal: db is nil")
	}
	if len(rides) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record rides: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.insertQuery("rides",
		"fleet", "cabin", "rider_id", "start_floor", "destination",
		"start_tick", "board_tick", "exit_tick", "score", "recorded_at_ms"))
	if err != nil {
		return fmt.Errorf("record rides: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range rides {
		_, err := stmt.ExecContext(ctx, r.Fleet, r.Cabin, r.RiderID, r.StartFloor, r.Destination,
			r.StartTick, r.BoardTick, r.ExitTick, r.Score, r.RecordedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("record rides: insert rider_id=%d: %w", r.RiderID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record rides: commit: %w", err)
	}

	return nil
}

// Append resets in one transaction.
func (s *SQLRideJournal) RecordResets(ctx context.Context, resets []domain.ResetRecord) (err error) {
	defer obs.Time(ctx, "journal.RecordResets")(&err)

	if s.DB == nil {
		return errors.New("ride journal: db is nil")
	}
	if len(resets) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record resets: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.insertQuery("resets",
		"fleet", "cabin", "cause", "kind", "reason", "tick", "penalty", "recorded_at_ms"))
	if err != nil {
		return fmt.Errorf("record resets: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range resets {
		_, err := stmt.ExecContext(ctx, r.Fleet, r.Cabin, r.Cause, r.Kind, r.Reason,
			r.Tick, r.Penalty, r.RecordedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("record resets: insert tick=%d: %w", r.Tick, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record resets: commit: %w", err)
	}

	return nil
}

// Summarize aggregates rides and resets of fleet; an empty fleet covers
// the whole journal.
func (s *SQLRideJournal) Summarize(ctx context.Context, fleet string) (_ ports.JournalSummary, err error) {
	defer obs.Time(ctx, "journal.Summarize")(&err)

	var sum ports.JournalSummary
	if s.DB == nil {
		return sum, errors.New("ride journal: db is nil")
	}

	where, args := "", []any{}
	if fleet != "" {
		where = " WHERE fleet = " + s.Dialect.placeholder(1)
		args = append(args, fleet)
	}

	q := `SELECT COUNT(*), COALESCE(SUM(score), 0) FROM rides` + where + `;`
	if err := s.DB.QueryRowContext(ctx, q, args...).Scan(&sum.Rides, &sum.TotalScore); err != nil {
		return sum, fmt.Errorf("summarize %q: query rides table: %w", fleet, err)
	}

	q = `
	SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN kind = 'CLEAN' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(penalty), 0)
	FROM resets` + where + `;`
	if err := s.DB.QueryRowContext(ctx, q, args...).Scan(&sum.Resets, &sum.CleanResets, &sum.Penalties); err != nil {
		return sum, fmt.Errorf("summarize %q: query resets table: %w", fleet, err)
	}

	if sum.Rides > 0 {
		sum.MeanScore = float64(sum.TotalScore) / float64(sum.Rides)
	}
	return sum, nil
}
