package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"

	"pacecalc/internal/analysis"
	"pacecalc/internal/config"
	"pacecalc/internal/service"
	"pacecalc/internal/store"
	"pacecalc/internal/tables"
)

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	tbl, err := tables.Default()
	if err != nil {
		t.Fatal(err)
	}

	var st *store.Store
	if withStore {
		st = store.NewTestStore(t)
	}
	calc := service.NewCalculatorService(analysis.NewEngine(tbl), st, config.RunnerConfig{WeightKg: 65}, zerolog.Nop())
	return New(calc, zerolog.Nop())
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	return w
}

func decodeBody(w *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(v)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, false)

	Convey("Given a running API", t, func() {
		Convey("When /healthz is requested", func() {
			w := do(s, http.MethodGet, "/healthz", "")

			Convey("Then it reports ok with a request ID", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"ok"`)
				So(w.Header().Get(RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When a client sends its own request ID", func() {
			r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			r.Header.Set(RequestIDHeader, "7b0e3a3c-1f7e-4c55-9d0e-2f6c1a9b8e11")
			w := httptest.NewRecorder()
			s.ServeHTTP(w, r)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(RequestIDHeader), ShouldEqual, "7b0e3a3c-1f7e-4c55-9d0e-2f6c1a9b8e11")
			})
		})

		Convey("When /metrics is scraped after a calculation", func() {
			do(s, http.MethodPost, "/v1/paces", `{"distance":"5k","time":"20:00"}`)
			w := do(s, http.MethodGet, "/metrics", "")

			Convey("Then request and calculation counters are exported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `pacecalc_api_requests_total{method="POST",route="/v1/paces",status="200"}`)
				So(w.Body.String(), ShouldContainSubstring, `pacecalc_calculations_total{kind="paces",outcome="ok"}`)
			})
		})

		Convey("When unknown paths are requested", func() {
			for _, p := range []string{"/nope", "/wp-admin/setup.php", "/a/b/c"} {
				So(do(s, http.MethodGet, p, "").Code, ShouldEqual, http.StatusNotFound)
			}
			w := do(s, http.MethodGet, "/metrics", "")

			Convey("Then they share one route label", func() {
				So(w.Body.String(), ShouldContainSubstring, `pacecalc_api_requests_total{method="GET",route="unmatched",status="404"} 3`)
				So(w.Body.String(), ShouldNotContainSubstring, `route="/nope"`)
				So(w.Body.String(), ShouldNotContainSubstring, `route="/wp-admin/setup.php"`)
			})
		})
	})
}

func TestPaces(t *testing.T) {
	s := newTestServer(t, true)

	Convey("Given a 20:00 5K", t, func() {
		Convey("When paces are requested without conditions", func() {
			w := do(s, http.MethodPost, "/v1/paces", `{"distance_m":5000,"time_s":1200}`)

			var resp pacesResponse
			So(decodeBody(w, &resp), ShouldBeNil)

			Convey("Then the base paces are returned and no adjustments", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.VDOT, ShouldAlmostEqual, 49.81, 0.01)
				So(resp.Paces.Threshold, ShouldAlmostEqual, 256.0, 0.5)
				So(resp.Heat, ShouldBeNil)
				So(resp.Altitude, ShouldBeNil)
				So(resp.TrialID, ShouldBeEmpty)
				So(len(resp.Predictions), ShouldEqual, 4)
			})
		})

		Convey("When heat, wind and altitude are given", func() {
			w := do(s, http.MethodPost, "/v1/paces", `{
				"distance": "5k", "time": "20:00",
				"temp_c": 30, "dew_point_c": 20,
				"wind_kmh": 20,
				"base_altitude_m": 0, "target_altitude_m": 2000
			}`)

			var resp pacesResponse
			So(decodeBody(w, &resp), ShouldBeNil)

			Convey("Then each adjustment is reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Heat, ShouldNotBeNil)
				So(resp.Heat.ImpactPercent, ShouldAlmostEqual, 5.09, 0.02)
				So(resp.Headwind, ShouldNotBeNil)
				So(resp.Headwind.ImpactPercent, ShouldBeGreaterThan, 0)
				So(resp.Tailwind.ImpactPercent, ShouldBeLessThan, 0)
				So(resp.Altitude.ImpactPercent, ShouldAlmostEqual, 8.33, 0.01)
			})
		})

		Convey("When the dew point is above the air temperature", func() {
			w := do(s, http.MethodPost, "/v1/paces", `{"distance":"5k","time":"20:00","temp_c":20,"dew_point_c":22}`)

			var resp pacesResponse
			So(decodeBody(w, &resp), ShouldBeNil)

			Convey("Then it is treated as saturated air", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Heat, ShouldNotBeNil)
				So(resp.Heat.ImpactPercent, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the trial is saved", func() {
			w := do(s, http.MethodPost, "/v1/paces", `{"distance":"5k","time":"20:00","label":"parkrun","save":true}`)

			var resp pacesResponse
			So(decodeBody(w, &resp), ShouldBeNil)
			So(resp.TrialID, ShouldNotBeEmpty)

			Convey("Then it shows up in the history", func() {
				hw := do(s, http.MethodGet, "/v1/history?limit=5", "")
				var entries []historyEntryJSON
				So(decodeBody(hw, &entries), ShouldBeNil)

				So(hw.Code, ShouldEqual, http.StatusOK)
				So(len(entries), ShouldBeGreaterThanOrEqualTo, 1)
				So(entries[0].ID, ShouldEqual, resp.TrialID)
				So(entries[0].Label, ShouldEqual, "parkrun")
				So(*entries[0].VDOT, ShouldAlmostEqual, resp.VDOT, 1e-9)

				Convey("And it can be deleted", func() {
					dw := do(s, http.MethodDelete, "/v1/history/"+resp.TrialID, "")
					So(dw.Code, ShouldEqual, http.StatusNoContent)

					again := do(s, http.MethodDelete, "/v1/history/"+resp.TrialID, "")
					So(again.Code, ShouldEqual, http.StatusNotFound)
				})
			})
		})
	})
}

func TestPaces_Errors(t *testing.T) {
	s := newTestServer(t, false)

	Convey("Given bad paces requests", t, func() {
		cases := []struct {
			body   string
			status int
		}{
			{`{"distance_m":0,"time_s":1200}`, http.StatusBadRequest},
			{`{"distance":"far","time":"20:00"}`, http.StatusBadRequest},
			{`{"distance":"5k","time":"20:00","temp_c":25}`, http.StatusBadRequest},
			{`{"distance":"5k","time":"20:00","mystery":1}`, http.StatusBadRequest},
			{`not json`, http.StatusBadRequest},
			{`{"distance":"5k","time":"20:00","save":true}`, http.StatusServiceUnavailable},
		}

		for _, c := range cases {
			w := do(s, http.MethodPost, "/v1/paces", c.body)

			var resp errorResponse
			So(decodeBody(w, &resp), ShouldBeNil)
			So(w.Code, ShouldEqual, c.status)
			So(resp.Error, ShouldNotBeEmpty)
			So(resp.RequestID, ShouldEqual, w.Header().Get(RequestIDHeader))
		}
	})

	Convey("Given no history store", t, func() {
		w := do(s, http.MethodGet, "/v1/history", "")

		Convey("Then history is unavailable", func() {
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestAgeGradeRangesWBGT(t *testing.T) {
	s := newTestServer(t, false)

	Convey("Given the default tables", t, func() {
		Convey("When a 40 year old man runs 20:00 for 5K", func() {
			w := do(s, http.MethodPost, "/v1/agegrade", `{"distance":"5k","time":"20:00","age":40,"gender":"M"}`)
			var resp ageGradeResponse
			So(decodeBody(w, &resp), ShouldBeNil)

			Convey("Then the age grade is about 68.6% Local class", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Score, ShouldAlmostEqual, 68.57, 0.01)
				So(resp.Class, ShouldEqual, "Local")
			})
		})

		Convey("When the gender is unknown", func() {
			w := do(s, http.MethodPost, "/v1/agegrade", `{"distance":"5k","time":"20:00","age":40,"gender":"Q"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When training ranges are requested", func() {
			w := do(s, http.MethodPost, "/v1/ranges", `{"distance_m":5000,"time_s":1200,"age":25}`)
			var resp map[string]rangeJSON
			So(decodeBody(w, &resp), ShouldBeNil)

			Convey("Then all three zones are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp, ShouldContainKey, "threshold")
				So(resp, ShouldContainKey, "cv")
				So(resp, ShouldContainKey, "vo2max")
				So(resp["threshold"].Median, ShouldAlmostEqual, 256.0, 0.2)
				So(resp["threshold"].Fast, ShouldBeLessThanOrEqualTo, resp["threshold"].Slow)
			})
		})

		Convey("When WBGT is requested for a hot sunny day", func() {
			w := do(s, http.MethodPost, "/v1/wbgt", `{"temp_c":30,"dew_point_c":20,"wind_kmh":10,"solar_w_m2":800}`)
			var resp wbgtResponse
			So(decodeBody(w, &resp), ShouldBeNil)

			Convey("Then the flag is red", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.WBGT, ShouldAlmostEqual, 26.40, 0.01)
				So(resp.Flag, ShouldEqual, "red")
			})
		})
	})
}
