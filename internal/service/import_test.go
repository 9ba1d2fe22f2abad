package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pacecalc/internal/store"
	"pacecalc/internal/strava"
)

type fakeSource struct {
	activities []strava.Activity
	err        error
	afters     []time.Time
}

func (f *fakeSource) GetAllActivities(ctx context.Context, after time.Time, onProgress func(int)) ([]strava.Activity, error) {
	f.afters = append(f.afters, after)
	if f.err != nil {
		return nil, f.err
	}
	if onProgress != nil {
		onProgress(len(f.activities))
	}
	return f.activities, nil
}

func run(id int64, name string, meters float64, secs int, at time.Time) strava.Activity {
	return strava.Activity{
		ID: id, Name: name, Type: "Run", SportType: "Run",
		Distance: meters, MovingTime: secs, ElapsedTime: secs + 30, StartDate: at,
	}
}

func newTestImport(t *testing.T, src ActivitySource, now time.Time) (*ImportService, *store.Store) {
	t.Helper()
	st := store.NewTestStore(t)
	svc := NewImportService(src, st, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc, st
}

func TestImport_SelectsFastestStandardRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	src := &fakeSource{activities: []strava.Activity{
		run(1, "Parkrun", 5030, 1250, day(20)),
		run(2, "Tempo 10k", 9980, 2460, day(10)), // fastest by VDOT
		run(3, "Easy 7.5k", 7500, 2700, day(5)),
		{ID: 4, Name: "Ride", Type: "Ride", SportType: "Ride", Distance: 5000, MovingTime: 600, StartDate: day(3)},
		run(5, "Broken watch", 5000, 0, day(2)),
	}}

	svc, st := newTestImport(t, src, now)

	progress := make(chan ImportProgress, 16)
	res, err := svc.Import(ctx, progress)
	require.NoError(t, err)

	assert.Equal(t, 5, res.ActivitiesFetched)
	assert.Equal(t, 2, res.RunsMatched)
	assert.Equal(t, 2, res.TrialsSaved)
	assert.Empty(t, res.Errors)

	require.NotNil(t, res.Best)
	require.NotNil(t, res.Best.ExternalID)
	assert.Equal(t, int64(2), *res.Best.ExternalID)
	assert.Equal(t, "Tempo 10k (10k)", res.Best.Label)
	assert.Equal(t, store.SourceStrava, res.Best.Source)
	assert.Greater(t, res.BestVDOT, 40.0)

	// First import looks back over the default window
	require.Len(t, src.afters, 1)
	assert.Equal(t, now.Add(-DefaultImportWindow), src.afters[0])

	last, err := st.GetSyncState(ctx, store.KeyLastImport)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T12:00:00Z", last)

	var phases []string
	for p := range progress {
		phases = append(phases, p.Phase)
	}
	assert.Contains(t, phases, "fetching")
	assert.Contains(t, phases, "saving")

	trials, err := st.ListTrials(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, trials, 2)
}

func TestImport_SkipsDuplicatesAndResumes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	src := &fakeSource{activities: []strava.Activity{
		run(7, "Half", 21150, 5400, now.AddDate(0, 0, -3)),
	}}
	svc, st := newTestImport(t, src, now)

	_, err := svc.Import(ctx, nil)
	require.NoError(t, err)

	later := now.Add(48 * time.Hour)
	svc.now = func() time.Time { return later }

	res, err := svc.Import(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.RunsMatched)
	assert.Zero(t, res.TrialsSaved)

	// The second import starts from the first one's timestamp
	require.Len(t, src.afters, 2)
	assert.True(t, src.afters[1].Equal(now), "after = %v", src.afters[1])

	trials, err := st.ListTrials(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, trials, 1)
}

func TestImport_SourceError(t *testing.T) {
	boom := errors.New("boom")
	svc, st := newTestImport(t, &fakeSource{err: boom}, time.Now())

	_, err := svc.Import(context.Background(), nil)
	assert.ErrorIs(t, err, boom)

	last, err := st.GetSyncState(context.Background(), store.KeyLastImport)
	require.NoError(t, err)
	assert.Empty(t, last, "a failed import must not advance the cursor")
}
