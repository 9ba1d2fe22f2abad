package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// computedAtLayout is fixed width so text ordering matches time ordering
const computedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SaveResult stores a computed result for an existing trial
func (s *Store) SaveResult(ctx context.Context, r *Result) error {
	if r.ComputedAt.IsZero() {
		r.ComputedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO results (
			trial_id, vdot, predicted_5k, threshold_pace, easy_pace,
			heat_impact, headwind_impact, tailwind_impact, altitude_impact, computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.TrialID, r.VDOT, r.Predicted5K, r.ThresholdPace, r.EasyPace,
		nullFloat64(r.HeatImpact), nullFloat64(r.HeadwindImpact),
		nullFloat64(r.TailwindImpact), nullFloat64(r.AltitudeImpact),
		r.ComputedAt.UTC().Format(computedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}

	if r.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	return nil
}

// GetLatestResult returns the most recently computed result for a trial
func (s *Store) GetLatestResult(ctx context.Context, trialID string) (*Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, trial_id, vdot, predicted_5k, threshold_pace, easy_pace,
			heat_impact, headwind_impact, tailwind_impact, altitude_impact, computed_at
		FROM results
		WHERE trial_id = ?
		ORDER BY computed_at DESC, id DESC
		LIMIT 1
	`, trialID)

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	return r, err
}

// ListHistory returns the most recent trials, each with its latest result
func (s *Store) ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	trials, err := s.ListTrials(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing trials: %w", err)
	}

	history := make([]HistoryEntry, 0, len(trials))
	for _, t := range trials {
		entry := HistoryEntry{Trial: t}

		r, err := s.GetLatestResult(ctx, t.ID)
		switch {
		case errors.Is(err, ErrResultNotFound):
		case err != nil:
			return nil, fmt.Errorf("loading result for %s: %w", t.ID, err)
		default:
			entry.Result = r
		}

		history = append(history, entry)
	}

	return history, nil
}

func scanResult(row scanner) (*Result, error) {
	var r Result
	var heat, head, tail, alt sql.NullFloat64
	var computedAt string

	if err := row.Scan(&r.ID, &r.TrialID, &r.VDOT, &r.Predicted5K, &r.ThresholdPace, &r.EasyPace,
		&heat, &head, &tail, &alt, &computedAt); err != nil {
		return nil, err
	}

	r.HeatImpact = floatPtr(heat)
	r.HeadwindImpact = floatPtr(head)
	r.TailwindImpact = floatPtr(tail)
	r.AltitudeImpact = floatPtr(alt)

	t, err := time.Parse(computedAtLayout, computedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing computed_at: %w", err)
	}
	r.ComputedAt = t

	return &r, nil
}
