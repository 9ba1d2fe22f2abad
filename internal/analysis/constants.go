package analysis

// Standard race distances in meters
const (
	Distance1500m    = 1500
	Distance1Mile    = 1609.34
	Distance5K       = 5000
	Distance10K      = 10000
	DistanceHalfMara = 21097.5
	DistanceMarathon = 42195

	DistanceTolerance = 0.05 // 5% tolerance for race distance matching
)

// Shared engine defaults
const (
	// DefaultReferenceAge is the age used by the training-range model when none is given
	DefaultReferenceAge = 25

	// MinAltitudeDelta is the smallest base/target difference (m) treated as a real altitude change
	MinAltitudeDelta = 100.0

	// MinSaneSpeed is the slowest speed (m/s) accepted as a valid model output
	MinSaneSpeed = 0.5

	MetersPerKm   = 1000.0
	MetersPerMile = 1609.34
)
