package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaveTrial inserts a trial, assigning an ID and timestamps when missing.
// For imported trials a repeat of the same external ID is ignored and
// reported with inserted = false.
func (s *Store) SaveTrial(ctx context.Context, t *TimeTrial) (inserted bool, err error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Source == "" {
		t.Source = SourceManual
	}
	if t.RecordedAt.IsZero() {
		t.RecordedAt = time.Now()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO time_trials (id, label, distance_meters, time_seconds, source, external_id, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		t.ID, t.Label, t.DistanceMeters, t.TimeSeconds, t.Source, nullInt64(t.ExternalID),
		t.RecordedAt.UTC().Format(time.RFC3339), t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("inserting time trial: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetTrial retrieves a trial by ID
func (s *Store) GetTrial(ctx context.Context, id string) (*TimeTrial, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, distance_meters, time_seconds, source, external_id, recorded_at, created_at
		FROM time_trials
		WHERE id = ?
	`, id)

	t, err := scanTrial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrialNotFound
	}
	return t, err
}

// ListTrials returns trials, most recently recorded first. limit <= 0 means no limit.
func (s *Store) ListTrials(ctx context.Context, limit int) ([]TimeTrial, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, distance_meters, time_seconds, source, external_id, recorded_at, created_at
		FROM time_trials
		ORDER BY recorded_at DESC, created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trials []TimeTrial
	for rows.Next() {
		t, err := scanTrial(rows)
		if err != nil {
			return nil, err
		}
		trials = append(trials, *t)
	}
	return trials, rows.Err()
}

// DeleteTrial removes a trial and its results
func (s *Store) DeleteTrial(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM time_trials WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTrialNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrial(row scanner) (*TimeTrial, error) {
	var t TimeTrial
	var externalID sql.NullInt64
	var recordedAt, createdAt string

	if err := row.Scan(&t.ID, &t.Label, &t.DistanceMeters, &t.TimeSeconds, &t.Source,
		&externalID, &recordedAt, &createdAt); err != nil {
		return nil, err
	}

	if externalID.Valid {
		id := externalID.Int64
		t.ExternalID = &id
	}

	var err error
	if t.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
		return nil, fmt.Errorf("parsing recorded_at: %w", err)
	}
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &t, nil
}

// parseTimestamp accepts RFC3339 and SQLite's CURRENT_TIMESTAMP format
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
