package pages

import (
	"strings"
	"testing"
	"time"

	"github.com/intelligent-username/Tachion/internal/models"
)

func sampleView() models.ViewState {
	return models.ViewState{
		Symbol:     "AAPL",
		AssetClass: models.AssetEquities,
		History: []models.HistoryPoint{
			{Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100},
			{Timestamp: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Value: 101},
		},
		Forecast: &models.ForecastSeries{
			Timestamps:  []time.Time{time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)},
			Medians:     []float64{103},
			LowerBounds: []float64{101},
			UpperBounds: []float64{105},
			Metadata:    map[string]string{"model": "deepar_equities"},
		},
	}
}

func TestBuildChartPage(t *testing.T) {
	b := NewBuilder()
	page := b.BuildChartPage(sampleView(), "<div id=\"chart\">chart goes here</div>")

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1 id=\"aapl\">AAPL</h1>",
		"equities",
		"deepar_equities",
		"chart goes here",
		"[101.00, 105.00]",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "error-banner") {
		t.Error("page shows an error banner with no error set")
	}
}

func TestBuildChartPageWithError(t *testing.T) {
	b := NewBuilder()
	view := sampleView()
	view.Error = "history request failed: 503 Service Unavailable"

	page := b.BuildChartPage(view, "<div>chart</div>")
	if !strings.Contains(page, "error-banner") {
		t.Error("page missing error banner")
	}
	if !strings.Contains(page, "503 Service Unavailable") {
		t.Error("page missing the error message")
	}
	// The last-known-good chart stays alongside the error
	if !strings.Contains(page, "<div>chart</div>") {
		t.Error("page dropped the chart when an error is present")
	}
}

func TestBuildChartPageNoForecast(t *testing.T) {
	b := NewBuilder()
	view := sampleView()
	view.Forecast = nil

	page := b.BuildChartPage(view, "<div>chart</div>")
	if strings.Contains(page, "Forecast") {
		t.Error("page shows a forecast section without a forecast")
	}
}

func TestBuildInitialPage(t *testing.T) {
	b := NewBuilder()
	page := b.BuildInitialPage()

	if !strings.Contains(page, "No asset selected") {
		t.Error("initial page missing its message")
	}
	if !strings.Contains(page, "<!DOCTYPE html>") {
		t.Error("initial page is not a complete document")
	}
}
