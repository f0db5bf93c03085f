package api

import (
	"encoding/json"
	"net/http"
	"time"

	"codeberg.org/mutker/enviromon/internal/logger"
	"codeberg.org/mutker/enviromon/internal/series"
	"codeberg.org/mutker/enviromon/internal/store"
)

type seriesPayload struct {
	Timestamps []string  `json:"timestamps"`
	Values     []float64 `json:"values"`
}

type dataResponse struct {
	Series      map[string]seriesPayload `json:"series"`
	SampleCount int                      `json:"sample_count"`
	MaxSamples  int                      `json:"max_samples"`
}

type statsResponse struct {
	Metrics     map[string]*series.Stats `json:"metrics"`
	SampleCount int                      `json:"sample_count"`
	MaxSamples  int                      `json:"max_samples"`
	FirstSample string                   `json:"first_sample,omitempty"`
	LastSample  string                   `json:"last_sample,omitempty"`
}

type latestEntry struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	resp := dataResponse{
		Series:     make(map[string]seriesPayload),
		MaxSamples: s.store.Capacity(),
	}

	for _, name := range s.store.Names() {
		samples, err := s.store.Snapshot(name)
		if err != nil {
			continue
		}
		resp.Series[name] = toPayload(samples)
		if len(samples) > resp.SampleCount {
			resp.SampleCount = len(samples)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	metric := r.PathValue("metric")

	samples, err := s.store.Snapshot(metric)
	if err != nil {
		if store.IsUnknownMetric(err) {
			writeError(w, http.StatusNotFound, "unknown metric: "+metric)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Metric string `json:"metric"`
		seriesPayload
	}{Metric: metric, seriesPayload: toPayload(samples)})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.store.AllStats()

	resp := statsResponse{
		Metrics:    stats,
		MaxSamples: s.store.Capacity(),
	}

	var first, last time.Time
	for _, name := range s.store.Names() {
		st := stats[name]
		if st == nil {
			continue
		}
		if st.Count > resp.SampleCount {
			resp.SampleCount = st.Count
		}

		samples, err := s.store.Snapshot(name)
		if err != nil || len(samples) == 0 {
			continue
		}
		if first.IsZero() || samples[0].Time.Before(first) {
			first = samples[0].Time
		}
		if tail := samples[len(samples)-1].Time; tail.After(last) {
			last = tail
		}
	}

	if resp.SampleCount == 0 {
		writeJSON(w, http.StatusOK, struct {
			Message     string `json:"message"`
			SampleCount int    `json:"sample_count"`
		}{Message: "No data available yet", SampleCount: 0})
		return
	}

	resp.FirstSample = first.Format(time.RFC3339)
	resp.LastSample = last.Format(time.RFC3339)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	latest := s.store.LatestAll()

	resp := make(map[string]latestEntry, len(latest))
	for name, sample := range latest {
		resp[name] = latestEntry{
			Time:  sample.Time.Format(time.RFC3339),
			Value: sample.Value,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func toPayload(samples []series.Sample) seriesPayload {
	payload := seriesPayload{
		Timestamps: make([]string, len(samples)),
		Values:     make([]float64, len(samples)),
	}
	for i, sample := range samples {
		payload.Timestamps[i] = sample.Time.Format(time.RFC3339)
		payload.Values[i] = sample.Value
	}

	return payload
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}
