package charts

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/intelligent-username/Tachion/internal/models"
)

// PNGSurface renders the chart channels to a static PNG snapshot. It is
// used for the settled composition; the phase durations only decide what
// is visible, there is nothing to ease in a still image.
type PNGSurface struct {
	mu     sync.Mutex
	title  string
	width  int
	height int

	history []models.HistoryPoint

	fcTimes  []time.Time
	medians  []float64
	lowers   []float64
	uppers   []float64
	labelAt  time.Time
	labelVal float64
	label    string
	visible  bool

	yMin float64
	yMax float64
}

// NewPNGSurface creates a PNG surface with the given title and size
func NewPNGSurface(title string, width, height int) *PNGSurface {
	return &PNGSurface{
		title:  title,
		width:  width,
		height: height,
	}
}

// DrawHistory rebuilds the history line and hides the forecast channels
func (s *PNGSurface) DrawHistory(points []models.HistoryPoint, ts TimeScale, vs ValueScale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]models.HistoryPoint(nil), points...)
	s.fcTimes = nil
	s.medians = nil
	s.lowers = nil
	s.uppers = nil
	s.visible = false
	s.yMin = vs.Domain.Min
	s.yMax = vs.Domain.Max
}

// DrawForecast builds the forecast channels without revealing them. The
// median line is anchored at the last history point and the label sits at
// the midpoint of the forecast range, near the top of the plot.
func (s *PNGSurface) DrawForecast(last models.HistoryPoint, forecast *models.ForecastSeries, ts TimeScale, vs ValueScale) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := forecast.Len()
	s.fcTimes = append([]time.Time{last.Timestamp}, forecast.Timestamps...)
	s.medians = append([]float64{last.Value}, forecast.Medians...)
	s.lowers = append([]float64{last.Value}, forecast.LowerBounds...)
	s.uppers = append([]float64{last.Value}, forecast.UpperBounds...)

	s.labelAt = midpoint(forecast.Timestamps[0], forecast.Timestamps[n-1])
	s.label = "Forecast"
	if model, ok := forecast.Metadata["model"]; ok && model != "" {
		s.label = "Forecast: " + model
	}
}

// RescaleAxes adopts the new domains for both axes
func (s *PNGSurface) RescaleAxes(ts TimeScale, vs ValueScale, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.yMin = vs.Domain.Min
	s.yMax = vs.Domain.Max
	// Place the label slightly below the rescaled top edge
	s.labelVal = vs.Domain.Max - 0.05*vs.Domain.Span()
}

// RevealForecast makes the forecast channels visible
func (s *PNGSurface) RevealForecast(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
}

// HideForecast makes the forecast channels invisible
func (s *PNGSurface) HideForecast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

// WritePNG renders the current channels as a PNG image
func (s *PNGSurface) WritePNG(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return models.ErrEmptySeries
	}

	histX := make([]time.Time, len(s.history))
	histY := make([]float64, len(s.history))
	for i, p := range s.history {
		histX[i] = p.Timestamp
		histY[i] = p.Value
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name: "History",
			Style: chart.Style{
				StrokeColor: drawing.Color{R: 51, G: 102, B: 204, A: 255},
				StrokeWidth: 2,
			},
			XValues: histX,
			YValues: histY,
		},
	}

	if s.visible {
		series = append(series,
			chart.TimeSeries{
				Name: "Forecast",
				Style: chart.Style{
					StrokeColor:     drawing.Color{R: 220, G: 53, B: 69, A: 255},
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
				XValues: s.fcTimes,
				YValues: s.medians,
			},
			chart.TimeSeries{
				Name: "Lower 95",
				Style: chart.Style{
					StrokeColor:     drawing.Color{R: 220, G: 53, B: 69, A: 120},
					StrokeWidth:     1,
					StrokeDashArray: []float64{3, 3},
				},
				XValues: s.fcTimes,
				YValues: s.lowers,
			},
			chart.TimeSeries{
				Name: "Upper 95",
				Style: chart.Style{
					StrokeColor:     drawing.Color{R: 220, G: 53, B: 69, A: 120},
					StrokeWidth:     1,
					StrokeDashArray: []float64{3, 3},
				},
				XValues: s.fcTimes,
				YValues: s.uppers,
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{
						XValue: chart.TimeToFloat64(s.labelAt),
						YValue: s.labelVal,
						Label:  s.label,
					},
				},
			},
		)
	}

	graph := chart.Chart{
		Title: s.title,
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   70,
				Right:  20,
				Bottom: 60,
			},
		},
		Width:  s.width,
		Height: s.height,
		XAxis: chart.XAxis{
			Name: "Time",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 9,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return chart.TimeFromFloat64(f).Format(axisTimeFormat)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: "Value",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				FontSize: 10,
			},
			Range: &chart.ContinuousRange{
				Min: s.yMin,
				Max: s.yMax,
			},
		},
		Series: series,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render snapshot chart: %w", err)
	}
	return nil
}
