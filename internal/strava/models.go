package strava

import "time"

// Activity is the summary of a Strava activity as returned by
// /athlete/activities. Only the fields the import reads are decoded.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	ElevHigh           *float64  `json:"elev_high"`            // meters, absent without altitude data
	AverageTemp        *float64  `json:"average_temp"`         // °C, only with a recording sensor
	Manual             bool      `json:"manual"`
}

// IsRun reports whether the activity is a run. Treadmill and trail runs count.
func (a Activity) IsRun() bool {
	switch a.SportType {
	case "Run", "TrailRun", "VirtualRun":
		return true
	}
	return a.Type == "Run"
}
