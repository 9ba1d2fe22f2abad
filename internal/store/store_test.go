package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening runs the migrations again without error
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSaveAndGetTrial(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	recorded := time.Date(2025, 3, 9, 8, 30, 0, 0, time.UTC)
	trial := &TimeTrial{
		Label:          "Parkrun",
		DistanceMeters: 5000,
		TimeSeconds:    1200,
		RecordedAt:     recorded,
	}

	inserted, err := s.SaveTrial(ctx, trial)
	require.NoError(t, err)
	assert.True(t, inserted)

	_, err = uuid.Parse(trial.ID)
	assert.NoError(t, err, "SaveTrial should assign a uuid")
	assert.Equal(t, SourceManual, trial.Source)

	got, err := s.GetTrial(ctx, trial.ID)
	require.NoError(t, err)
	assert.Equal(t, "Parkrun", got.Label)
	assert.Equal(t, 5000.0, got.DistanceMeters)
	assert.Equal(t, 1200.0, got.TimeSeconds)
	assert.True(t, got.RecordedAt.Equal(recorded))
	assert.Nil(t, got.ExternalID)
}

func TestGetTrial_NotFound(t *testing.T) {
	s := NewTestStore(t)

	_, err := s.GetTrial(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrTrialNotFound)
}

func TestSaveTrial_DuplicateImport(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()
	activityID := int64(987654321)

	first := &TimeTrial{DistanceMeters: 10000, TimeSeconds: 2500, Source: SourceStrava, ExternalID: &activityID}
	inserted, err := s.SaveTrial(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	again := &TimeTrial{DistanceMeters: 10000, TimeSeconds: 2500, Source: SourceStrava, ExternalID: &activityID}
	inserted, err = s.SaveTrial(ctx, again)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := s.GetTrial(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ExternalID)
	assert.Equal(t, activityID, *got.ExternalID)

	// Manual trials never collide
	for i := 0; i < 2; i++ {
		inserted, err := s.SaveTrial(ctx, &TimeTrial{DistanceMeters: 5000, TimeSeconds: 1300})
		require.NoError(t, err)
		assert.True(t, inserted)
	}
}

func TestListTrials(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.SaveTrial(ctx, &TimeTrial{
			Label:          string(rune('A' + i)),
			DistanceMeters: 5000,
			TimeSeconds:    1200 + float64(i),
			RecordedAt:     base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	all, err := s.ListTrials(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "E", all[0].Label, "newest first")
	assert.Equal(t, "A", all[4].Label)

	limited, err := s.ListTrials(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "D", limited[1].Label)
}

func TestDeleteTrial_CascadesResults(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	trial := &TimeTrial{DistanceMeters: 5000, TimeSeconds: 1200}
	_, err := s.SaveTrial(ctx, trial)
	require.NoError(t, err)
	require.NoError(t, s.SaveResult(ctx, &Result{TrialID: trial.ID, VDOT: 49.8}))

	require.NoError(t, s.DeleteTrial(ctx, trial.ID))

	_, err = s.GetTrial(ctx, trial.ID)
	assert.ErrorIs(t, err, ErrTrialNotFound)
	_, err = s.GetLatestResult(ctx, trial.ID)
	assert.ErrorIs(t, err, ErrResultNotFound)

	assert.ErrorIs(t, s.DeleteTrial(ctx, trial.ID), ErrTrialNotFound)
}

func TestSaveResult_RequiresTrial(t *testing.T) {
	s := NewTestStore(t)

	err := s.SaveResult(context.Background(), &Result{TrialID: "missing", VDOT: 40})
	assert.Error(t, err)
}

func TestGetLatestResult(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	trial := &TimeTrial{DistanceMeters: 5000, TimeSeconds: 1200}
	_, err := s.SaveTrial(ctx, trial)
	require.NoError(t, err)

	heat := 2.25
	older := &Result{
		TrialID:    trial.ID,
		VDOT:       49.8,
		ComputedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &Result{
		TrialID:       trial.ID,
		VDOT:          49.8,
		Predicted5K:   1200,
		ThresholdPace: 256,
		EasyPace:      401,
		HeatImpact:    &heat,
		ComputedAt:    time.Date(2025, 5, 2, 10, 0, 0, 500, time.UTC),
	}
	require.NoError(t, s.SaveResult(ctx, newer))
	require.NoError(t, s.SaveResult(ctx, older))
	assert.NotZero(t, newer.ID)

	got, err := s.GetLatestResult(ctx, trial.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
	assert.Equal(t, 256.0, got.ThresholdPace)
	require.NotNil(t, got.HeatImpact)
	assert.Equal(t, 2.25, *got.HeatImpact)
	assert.Nil(t, got.HeadwindImpact)
	assert.Nil(t, got.AltitudeImpact)
	assert.True(t, got.ComputedAt.Equal(newer.ComputedAt))
}

func TestListHistory(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 7, 0, 0, 0, time.UTC)

	withResult := &TimeTrial{Label: "with", DistanceMeters: 10000, TimeSeconds: 2700, RecordedAt: base}
	without := &TimeTrial{Label: "without", DistanceMeters: 5000, TimeSeconds: 1300, RecordedAt: base.Add(time.Hour)}
	for _, tr := range []*TimeTrial{withResult, without} {
		_, err := s.SaveTrial(ctx, tr)
		require.NoError(t, err)
	}
	require.NoError(t, s.SaveResult(ctx, &Result{TrialID: withResult.ID, VDOT: 37.5}))

	history, err := s.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, "without", history[0].Trial.Label)
	assert.Nil(t, history[0].Result)
	assert.Equal(t, "with", history[1].Trial.Label)
	require.NotNil(t, history[1].Result)
	assert.Equal(t, 37.5, history[1].Result.VDOT)
}

func TestAuth(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	_, err := s.GetAuth(ctx)
	assert.ErrorIs(t, err, ErrNoAuth)

	assert.ErrorIs(t, s.UpdateTokens(ctx, "a", "r", time.Now()), ErrNoAuth)

	expires := time.Unix(1767225600, 0)
	require.NoError(t, s.SaveAuth(ctx, &Auth{
		AthleteID:    42,
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    expires,
	}))

	newExpiry := expires.Add(6 * time.Hour)
	require.NoError(t, s.UpdateTokens(ctx, "access2", "refresh2", newExpiry))

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.AthleteID)
	assert.Equal(t, "access2", got.AccessToken)
	assert.Equal(t, "refresh2", got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(newExpiry))
}

func TestSyncState(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	v, err := s.GetSyncState(ctx, KeyLastImport)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetSyncState(ctx, KeyLastImport, "2025-06-01T00:00:00Z"))
	require.NoError(t, s.SetSyncState(ctx, KeyLastImport, "2025-06-02T00:00:00Z"))

	v, err = s.GetSyncState(ctx, KeyLastImport)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02T00:00:00Z", v)
}
