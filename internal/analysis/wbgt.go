package analysis

import "math"

const (
	// globeSolarGain is the black-globe temperature rise (°C) per W/m² in still air
	globeSolarGain = 0.017
	// globeWindCooling is the exponential damping of solar gain per m/s of wind
	globeWindCooling = 0.3
)

// WetBulbStull estimates the natural wet-bulb temperature (°C) from air
// temperature (°C) and relative humidity (%) using Stull (2011).
func WetBulbStull(tempC, rhPct float64) float64 {
	rh := math.Max(0, math.Min(100, rhPct))
	return tempC*math.Atan(0.151977*math.Sqrt(rh+8.313659)) +
		math.Atan(tempC+rh) -
		math.Atan(rh-1.676331) +
		0.00391838*math.Pow(rh, 1.5)*math.Atan(0.023101*rh) -
		4.686035
}

// BlackGlobeTemp estimates the black-globe temperature (°C) from air
// temperature, solar radiation (W/m²) and wind speed (m/s).
func BlackGlobeTemp(tempC, solarWm2, windMs float64) float64 {
	solar := math.Max(0, solarWm2)
	wind := math.Max(0, windMs)
	return tempC + globeSolarGain*solar*math.Exp(-globeWindCooling*wind)
}

// WBGTInput holds the readings needed for an outdoor WBGT estimate
type WBGTInput struct {
	TempC     float64
	DewPointC float64
	WindKmh   float64
	SolarWm2  float64
}

// WBGTResult is an outdoor WBGT estimate with its components
type WBGTResult struct {
	WBGT        float64
	WetBulb     float64
	GlobeTemp   float64
	HumidityPct float64
	Flag        HeatFlag
}

// CalculateWBGT returns 0.7*Tw + 0.2*Tg + 0.1*T
func CalculateWBGT(in WBGTInput) WBGTResult {
	rh := RelativeHumidity(in.TempC, in.DewPointC)
	tw := WetBulbStull(in.TempC, rh)
	tg := BlackGlobeTemp(in.TempC, in.SolarWm2, in.WindKmh/3.6)
	wbgt := 0.7*tw + 0.2*tg + 0.1*in.TempC

	return WBGTResult{
		WBGT:        wbgt,
		WetBulb:     tw,
		GlobeTemp:   tg,
		HumidityPct: rh,
		Flag:        ClassifyWBGT(wbgt),
	}
}

// HeatFlag is the race-day heat-stress flag for a WBGT reading
type HeatFlag int

const (
	FlagGreen HeatFlag = iota
	FlagYellow
	FlagRed
	FlagBlack
)

// String returns the flag color
func (f HeatFlag) String() string {
	switch f {
	case FlagYellow:
		return "yellow"
	case FlagRed:
		return "red"
	case FlagBlack:
		return "black"
	default:
		return "green"
	}
}

// ClassifyWBGT maps WBGT (°C) to the ACSM road-race flag
func ClassifyWBGT(wbgt float64) HeatFlag {
	switch {
	case wbgt >= 28:
		return FlagBlack
	case wbgt >= 23:
		return FlagRed
	case wbgt >= 18:
		return FlagYellow
	default:
		return FlagGreen
	}
}
