package api

import (
	"net/http"

	"codeberg.org/mutker/enviromon/internal/sensor"
	"codeberg.org/mutker/enviromon/internal/store"
)

// Plotly figure JSON, consumed directly by Plotly.newPlot on the dashboard.

type lineStyle struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type markerStyle struct {
	Size int `json:"size"`
}

type trace struct {
	X      []string    `json:"x"`
	Y      []float64   `json:"y"`
	Type   string      `json:"type"`
	Mode   string      `json:"mode"`
	Name   string      `json:"name"`
	Line   lineStyle   `json:"line"`
	Marker markerStyle `json:"marker"`
}

type axis struct {
	Title string `json:"title"`
}

type layout struct {
	Title     string `json:"title"`
	XAxis     axis   `json:"xaxis"`
	YAxis     axis   `json:"yaxis"`
	HoverMode string `json:"hovermode"`
	Height    int    `json:"height"`
}

type figure struct {
	Data   []trace `json:"data"`
	Layout layout  `json:"layout"`
}

type chartTrace struct {
	metric string
	label  string
	color  string
}

type chartSpec struct {
	title  string
	yTitle string
	traces []chartTrace
}

var chartSpecs = map[string]chartSpec{
	"temperature": {
		title:  "Temperature Time Series",
		yTitle: "Temperature (°C)",
		traces: []chartTrace{{metric: sensor.GroupTemperature, label: "Temperature", color: "#FF6B6B"}},
	},
	"pressure": {
		title:  "Barometric Pressure Time Series",
		yTitle: "Pressure (hPa)",
		traces: []chartTrace{{metric: sensor.GroupPressure, label: "Pressure", color: "#4ECDC4"}},
	},
	"humidity": {
		title:  "Humidity Time Series",
		yTitle: "Humidity (%)",
		traces: []chartTrace{{metric: sensor.GroupHumidity, label: "Humidity", color: "#95E1D3"}},
	},
	"light": {
		title:  "Light Level Time Series",
		yTitle: "Light (Lux)",
		traces: []chartTrace{{metric: sensor.GroupLight, label: "Light", color: "#FFD93D"}},
	},
	"particulates": {
		title:  "Particulate Matter Time Series",
		yTitle: "Concentration (µg/m³)",
		traces: []chartTrace{
			{metric: sensor.SeriesPM1, label: "PM1.0", color: "#A8E6CF"},
			{metric: sensor.SeriesPM25, label: "PM2.5", color: "#FFD3B6"},
			{metric: sensor.SeriesPM10, label: "PM10", color: "#FFAAA5"},
		},
	},
	"gas": {
		title:  "Gas Sensors Time Series",
		yTitle: "Resistance (Ohms)",
		traces: []chartTrace{
			{metric: sensor.SeriesGasOxidising, label: "Oxidising", color: "#FF6B9D"},
			{metric: sensor.SeriesGasReducing, label: "Reducing", color: "#6BCF7F"},
			{metric: sensor.SeriesGasNH3, label: "NH3", color: "#6B9BCF"},
		},
	},
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("chart")

	spec, ok := chartSpecs[name]
	if !ok {
		// Any configured metric gets a generic single-trace chart
		if _, err := s.store.Snapshot(name); err != nil {
			if store.IsUnknownMetric(err) {
				writeError(w, http.StatusNotFound, "unknown chart: "+name)
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		spec = chartSpec{
			title:  name,
			yTitle: name,
			traces: []chartTrace{{metric: name, label: name, color: "#888888"}},
		}
	}

	fig := figure{
		Layout: layout{
			Title:     spec.title,
			XAxis:     axis{Title: "Time"},
			YAxis:     axis{Title: spec.yTitle},
			HoverMode: "x unified",
			Height:    400,
		},
	}

	points := 0
	for _, tr := range spec.traces {
		samples, err := s.store.Snapshot(tr.metric)
		if err != nil {
			continue
		}
		payload := toPayload(samples)
		points += len(samples)
		fig.Data = append(fig.Data, trace{
			X:      payload.Timestamps,
			Y:      payload.Values,
			Type:   "scatter",
			Mode:   "lines+markers",
			Name:   tr.label,
			Line:   lineStyle{Color: tr.color, Width: 2},
			Marker: markerStyle{Size: 4},
		})
	}

	if points == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, fig)
}
