package store

import "time"

// Trial sources
const (
	SourceManual = "manual"
	SourceStrava = "strava"
)

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// TimeTrial is a stored race or hard effort
type TimeTrial struct {
	ID             string // uuid
	Label          string
	DistanceMeters float64
	TimeSeconds    float64
	Source         string // SourceManual or SourceStrava
	ExternalID     *int64 // Strava activity ID for imported trials
	RecordedAt     time.Time
	CreatedAt      time.Time
}

// Result is a computed pacing result for a trial. Impact fields are nil
// when the condition was not active.
type Result struct {
	ID             int64
	TrialID        string
	VDOT           float64
	Predicted5K    float64 // seconds
	ThresholdPace  float64 // seconds per km
	EasyPace       float64 // seconds per km
	HeatImpact     *float64
	HeadwindImpact *float64
	TailwindImpact *float64
	AltitudeImpact *float64
	ComputedAt     time.Time
}

// HistoryEntry is a trial with its most recent result, if any
type HistoryEntry struct {
	Trial  TimeTrial
	Result *Result
}
