package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pacecalc/internal/analysis"
	"pacecalc/internal/service"
	"pacecalc/internal/store"
)

// trialJSON accepts a trial either as numbers or as text ("5k", "20:00")
type trialJSON struct {
	DistanceMeters float64 `json:"distance_m,omitempty"`
	Distance       string  `json:"distance,omitempty"`
	TimeSeconds    float64 `json:"time_s,omitempty"`
	Time           string  `json:"time,omitempty"`
}

func (t trialJSON) resolve() (float64, float64, error) {
	dist, secs := t.DistanceMeters, t.TimeSeconds

	if dist == 0 && t.Distance != "" {
		d, err := service.ParseDistance(t.Distance)
		if err != nil {
			return 0, 0, err
		}
		dist = d
	}
	if secs == 0 && t.Time != "" {
		s, err := service.ParseDuration(t.Time)
		if err != nil {
			return 0, 0, err
		}
		secs = s
	}
	return dist, secs, nil
}

type pacesRequest struct {
	trialJSON
	Label          string   `json:"label,omitempty"`
	TempC          *float64 `json:"temp_c,omitempty"`
	DewPointC      *float64 `json:"dew_point_c,omitempty"`
	WindKmh        *float64 `json:"wind_kmh,omitempty"`
	WeightKg       float64  `json:"weight_kg,omitempty"`
	HeightCm       float64  `json:"height_cm,omitempty"`
	BaseAltitude   *float64 `json:"base_altitude_m,omitempty"`
	TargetAltitude *float64 `json:"target_altitude_m,omitempty"`
	Save           bool     `json:"save,omitempty"`
}

type paceSetJSON struct {
	Threshold float64 `json:"threshold"`
	P10Min    float64 `json:"p10min"`
	P6Min     float64 `json:"p6min"`
	P3Min     float64 `json:"p3min"`
	P1Min     float64 `json:"p1min"`
	Easy      float64 `json:"easy"`
}

func toPaceSetJSON(p analysis.PaceSet) paceSetJSON {
	return paceSetJSON{
		Threshold: p.Threshold,
		P10Min:    p.P10Min,
		P6Min:     p.P6Min,
		P3Min:     p.P3Min,
		P1Min:     p.P1Min,
		Easy:      p.Easy,
	}
}

type adjustmentJSON struct {
	ImpactPercent float64     `json:"impact_percent"`
	Paces         paceSetJSON `json:"paces"`
}

func toAdjustmentJSON(a *analysis.EnvironmentAdjustment) *adjustmentJSON {
	if a == nil {
		return nil
	}
	return &adjustmentJSON{ImpactPercent: a.ImpactPercent, Paces: toPaceSetJSON(a.Paces)}
}

type predictionJSON struct {
	Target           string  `json:"target"`
	DistanceMeters   float64 `json:"distance_m"`
	PredictedSeconds int     `json:"predicted_s"`
	PaceSecPerKm     float64 `json:"pace_s_per_km"`
	Confidence       string  `json:"confidence"`
	ConfidenceScore  float64 `json:"confidence_score"`
}

type pacesResponse struct {
	VDOT               float64          `json:"vdot"`
	Predicted5KSeconds float64          `json:"predicted_5k_s"`
	Paces              paceSetJSON      `json:"paces"`
	Heat               *adjustmentJSON  `json:"heat,omitempty"`
	Headwind           *adjustmentJSON  `json:"headwind,omitempty"`
	Tailwind           *adjustmentJSON  `json:"tailwind,omitempty"`
	Altitude           *adjustmentJSON  `json:"altitude,omitempty"`
	Predictions        []predictionJSON `json:"predictions"`
	TrialID            string           `json:"trial_id,omitempty"`
}

type ageGradeRequest struct {
	trialJSON
	Age    int    `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

type ageGradeResponse struct {
	Score                float64 `json:"score"`
	AgeGradedTimeSeconds float64 `json:"age_graded_time_s"`
	Class                string  `json:"class"`
	Factor               float64 `json:"factor"`
	Table                string  `json:"table"`
}

type rangesRequest struct {
	trialJSON
	Age float64 `json:"age,omitempty"`
}

type rangeJSON struct {
	Safe   float64 `json:"safe_s_per_km"`
	Median float64 `json:"median_s_per_km"`
	Fast   float64 `json:"range_fast_s_per_km"`
	Slow   float64 `json:"range_slow_s_per_km"`
}

type wbgtRequest struct {
	TempC     float64 `json:"temp_c"`
	DewPointC float64 `json:"dew_point_c"`
	WindKmh   float64 `json:"wind_kmh"`
	SolarWm2  float64 `json:"solar_w_m2"`
}

type wbgtResponse struct {
	WBGT        float64 `json:"wbgt_c"`
	WetBulb     float64 `json:"wet_bulb_c"`
	GlobeTemp   float64 `json:"globe_c"`
	HumidityPct float64 `json:"humidity_pct"`
	Flag        string  `json:"flag"`
}

type historyEntryJSON struct {
	ID             string    `json:"id"`
	Label          string    `json:"label,omitempty"`
	Source         string    `json:"source"`
	DistanceMeters float64   `json:"distance_m"`
	TimeSeconds    float64   `json:"time_s"`
	RecordedAt     time.Time `json:"recorded_at"`
	VDOT           *float64  `json:"vdot,omitempty"`
	ThresholdPace  *float64  `json:"threshold_s_per_km,omitempty"`
	HeatImpact     *float64  `json:"heat_impact_percent,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePaces(w http.ResponseWriter, r *http.Request) {
	var req pacesRequest
	if !s.decode(w, r, &req) {
		return
	}

	dist, secs, err := req.resolve()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.calc.Calculate(r.Context(), service.PaceRequest{
		Label:          req.Label,
		DistanceMeters: dist,
		TimeSeconds:    secs,
		TempC:          req.TempC,
		DewPointC:      req.DewPointC,
		WindKmh:        req.WindKmh,
		WeightKg:       req.WeightKg,
		HeightCm:       req.HeightCm,
		BaseAltitude:   req.BaseAltitude,
		TargetAltitude: req.TargetAltitude,
		Save:           req.Save,
	})
	s.metrics.observeCalculation("paces", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := pacesResponse{
		VDOT:               report.VDOT,
		Predicted5KSeconds: report.Predicted5KSeconds,
		Paces:              toPaceSetJSON(report.Paces),
		Heat:               toAdjustmentJSON(report.Heat),
		Headwind:           toAdjustmentJSON(report.Headwind),
		Tailwind:           toAdjustmentJSON(report.Tailwind),
		Altitude:           toAdjustmentJSON(report.Altitude),
		Predictions:        make([]predictionJSON, 0, len(report.Predictions)),
		TrialID:            report.TrialID,
	}
	for _, p := range report.Predictions {
		resp.Predictions = append(resp.Predictions, predictionJSON{
			Target:           p.TargetName,
			DistanceMeters:   p.TargetMeters,
			PredictedSeconds: p.PredictedSeconds,
			PaceSecPerKm:     p.PredictedPace,
			Confidence:       p.Confidence,
			ConfidenceScore:  p.ConfidenceScore,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAgeGrade(w http.ResponseWriter, r *http.Request) {
	var req ageGradeRequest
	if !s.decode(w, r, &req) {
		return
	}

	dist, secs, err := req.resolve()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.calc.AgeGrade(service.AgeGradeRequest{
		DistanceMeters: dist,
		TimeSeconds:    secs,
		Age:            req.Age,
		Gender:         req.Gender,
	})
	s.metrics.observeCalculation("agegrade", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ageGradeResponse{
		Score:                res.Score,
		AgeGradedTimeSeconds: res.AgeGradedTimeSeconds,
		Class:                res.Class.String(),
		Factor:               res.UsedFactor,
		Table:                res.TableName,
	})
}

func (s *Server) handleRanges(w http.ResponseWriter, r *http.Request) {
	var req rangesRequest
	if !s.decode(w, r, &req) {
		return
	}

	dist, secs, err := req.resolve()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ranges, err := s.calc.TrainingRanges(dist, secs, req.Age)
	s.metrics.observeCalculation("ranges", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make(map[string]rangeJSON, len(analysis.RangeZones))
	for _, zone := range analysis.RangeZones {
		z, _ := ranges.Zone(zone)
		resp[zone] = rangeJSON{
			Safe:   z.SafeSecPerKm,
			Median: z.MedianSecPerKm,
			Fast:   z.RangeFastSecPerKm,
			Slow:   z.RangeSlowSecPerKm,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWBGT(w http.ResponseWriter, r *http.Request) {
	var req wbgtRequest
	if !s.decode(w, r, &req) {
		return
	}

	res := s.calc.WBGT(analysis.WBGTInput{
		TempC:     req.TempC,
		DewPointC: req.DewPointC,
		WindKmh:   req.WindKmh,
		SolarWm2:  req.SolarWm2,
	})
	s.metrics.observeCalculation("wbgt", nil)

	writeJSON(w, http.StatusOK, wbgtResponse{
		WBGT:        res.WBGT,
		WetBulb:     res.WetBulb,
		GlobeTemp:   res.GlobeTemp,
		HumidityPct: res.HumidityPct,
		Flag:        res.Flag.String(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
			return
		}
		limit = n
	}

	entries, err := s.calc.History(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]historyEntryJSON, 0, len(entries))
	for _, e := range entries {
		item := historyEntryJSON{
			ID:             e.Trial.ID,
			Label:          e.Trial.Label,
			Source:         e.Trial.Source,
			DistanceMeters: e.Trial.DistanceMeters,
			TimeSeconds:    e.Trial.TimeSeconds,
			RecordedAt:     e.Trial.RecordedAt,
		}
		if e.Result != nil {
			item.VDOT = &e.Result.VDOT
			item.ThresholdPace = &e.Result.ThresholdPace
			item.HeatImpact = e.Result.HeatImpact
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTrial(w http.ResponseWriter, r *http.Request) {
	if err := s.calc.DeleteTrial(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errBadRequest = errors.New("bad request")

// decode reads a JSON body, writing a 400 and returning false on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidTrial),
		errors.Is(err, service.ErrIncompleteHeat),
		errors.Is(err, service.ErrIncompleteAltitude),
		errors.Is(err, service.ErrUnknownGender),
		errors.Is(err, service.ErrBadDistance),
		errors.Is(err, service.ErrBadDuration):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoAgeGrade), errors.Is(err, service.ErrNoRanges):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrTrialNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	id := RequestID(r.Context())

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("request_id", id).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}

	writeJSON(w, status, errorResponse{Error: msg, RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
