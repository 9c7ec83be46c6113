package charts

import (
	"strings"
	"testing"
)

func TestEChartsHistoryOnly(t *testing.T) {
	surface := NewEChartsSurface("AAPL", 900, 420)
	fc := NewForecastChart(surface, Options{Scheduler: ImmediateScheduler{}})
	if err := fc.RenderHistory(histPoints()); err != nil {
		t.Fatal(err)
	}

	html, err := surface.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	if !strings.Contains(html, "AAPL") {
		t.Error("chart HTML missing title")
	}
	if !strings.Contains(html, "History") {
		t.Error("chart HTML missing history series")
	}
	if strings.Contains(html, "Confidence Band") {
		t.Error("forecast channels must not appear before a prediction")
	}
	if !strings.Contains(html, "2025-01-01") || !strings.Contains(html, "2025-01-03") {
		t.Error("chart HTML missing history axis labels")
	}
}

func TestEChartsSettledForecast(t *testing.T) {
	surface := NewEChartsSurface("AAPL", 900, 420)
	fc := NewForecastChart(surface, Options{Scheduler: ImmediateScheduler{}})
	if err := fc.RenderHistory(histPoints()); err != nil {
		t.Fatal(err)
	}
	forecast := testForecast()
	forecast.Metadata = map[string]string{"model": "deepar"}
	if err := fc.AnimatePrediction(forecast); err != nil {
		t.Fatal(err)
	}

	html, err := surface.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{"Forecast", "Lower 95", "Confidence Band", "confidence", "deepar"} {
		if !strings.Contains(html, want) {
			t.Errorf("settled chart HTML missing %q", want)
		}
	}
	// Forecast axis labels extend past the history
	if !strings.Contains(html, "2025-01-05") {
		t.Error("settled chart HTML missing forecast axis labels")
	}
}

func TestEChartsFreshHistoryHidesForecast(t *testing.T) {
	surface := NewEChartsSurface("AAPL", 900, 420)
	fc := NewForecastChart(surface, Options{Scheduler: ImmediateScheduler{}})
	if err := fc.RenderHistory(histPoints()); err != nil {
		t.Fatal(err)
	}
	if err := fc.AnimatePrediction(testForecast()); err != nil {
		t.Fatal(err)
	}
	if err := fc.RenderHistory(histPoints()); err != nil {
		t.Fatal(err)
	}

	html, err := surface.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(html, "Confidence Band") {
		t.Error("fresh history load left stale forecast channels in the chart")
	}
}

func TestEChartsPhaseDurations(t *testing.T) {
	surface := NewEChartsSurface("AAPL", 900, 420)
	fc := NewForecastChart(surface, Options{
		Scheduler:       ImmediateScheduler{},
		RescaleDuration: DefaultRescaleDuration,
		RevealDuration:  DefaultRevealDuration,
	})
	if err := fc.RenderHistory(histPoints()); err != nil {
		t.Fatal(err)
	}
	if err := fc.AnimatePrediction(testForecast()); err != nil {
		t.Fatal(err)
	}

	rescale, reveal := surface.PhaseDurations()
	if rescale != DefaultRescaleDuration {
		t.Errorf("rescale duration = %v, want %v", rescale, DefaultRescaleDuration)
	}
	if reveal != DefaultRevealDuration {
		t.Errorf("reveal duration = %v, want %v", reveal, DefaultRevealDuration)
	}
}
