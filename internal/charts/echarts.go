package charts

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/intelligent-username/Tachion/internal/models"
)

const axisTimeFormat = "2006-01-02"

// EChartsSurface renders the chart channels as an embeddable go-echarts
// line chart. Channel visibility follows the transition controller: hidden
// forecast channels are simply absent from the emitted chart, and the
// phase durations are carried so the page can report them.
type EChartsSurface struct {
	mu     sync.Mutex
	title  string
	width  string
	height string

	histLabels []string
	histValues []float64

	fcLabels  []string
	joinValue float64
	medians   []float64
	lowers    []float64
	uppers    []float64
	label     string
	visible   bool

	yMin float64
	yMax float64

	rescaleDur time.Duration
	revealDur  time.Duration
}

// NewEChartsSurface creates a surface with the given title and pixel size
func NewEChartsSurface(title string, widthPx, heightPx int) *EChartsSurface {
	return &EChartsSurface{
		title:  title,
		width:  fmt.Sprintf("%dpx", widthPx),
		height: fmt.Sprintf("%dpx", heightPx),
	}
}

// DrawHistory rebuilds the history line and hides the forecast channels
func (s *EChartsSurface) DrawHistory(points []models.HistoryPoint, ts TimeScale, vs ValueScale) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histLabels = make([]string, len(points))
	s.histValues = make([]float64, len(points))
	for i, p := range points {
		s.histLabels[i] = p.Timestamp.Format(axisTimeFormat)
		s.histValues[i] = p.Value
	}
	s.fcLabels = nil
	s.medians = nil
	s.lowers = nil
	s.uppers = nil
	s.label = ""
	s.visible = false
	s.yMin = vs.Domain.Min
	s.yMax = vs.Domain.Max
}

// DrawForecast builds the forecast channels, still hidden. The median line
// is anchored at the last history point so there is no gap at the join,
// and the label sits at the midpoint of the forecast timestamp range.
func (s *EChartsSurface) DrawForecast(last models.HistoryPoint, forecast *models.ForecastSeries, ts TimeScale, vs ValueScale) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := forecast.Len()
	s.fcLabels = make([]string, n)
	for i, t := range forecast.Timestamps {
		s.fcLabels[i] = t.Format(axisTimeFormat)
	}
	s.joinValue = last.Value
	s.medians = append([]float64(nil), forecast.Medians...)
	s.lowers = append([]float64(nil), forecast.LowerBounds...)
	s.uppers = append([]float64(nil), forecast.UpperBounds...)

	mid := midpoint(forecast.Timestamps[0], forecast.Timestamps[n-1])
	s.label = "Forecast · " + mid.Format(axisTimeFormat)
	if model, ok := forecast.Metadata["model"]; ok && model != "" {
		s.label = fmt.Sprintf("Forecast (%s) · %s", model, mid.Format(axisTimeFormat))
	}
}

// RescaleAxes adopts the new domains for both axes
func (s *EChartsSurface) RescaleAxes(ts TimeScale, vs ValueScale, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.yMin = vs.Domain.Min
	s.yMax = vs.Domain.Max
	s.rescaleDur = d
}

// RevealForecast makes the forecast channels visible
func (s *EChartsSurface) RevealForecast(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
	s.revealDur = d
}

// HideForecast makes the forecast channels invisible
func (s *EChartsSurface) HideForecast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

// PhaseDurations returns the most recent rescale and reveal durations
func (s *EChartsSurface) PhaseDurations() (rescale, reveal time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rescaleDur, s.revealDur
}

// RenderHTML renders the current channels to a self-contained chart HTML
// fragment ready to embed in a page
func (s *EChartsSurface) RenderHTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := echarts.NewLine()
	subtitle := ""
	if s.visible {
		subtitle = s.label
	}
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  s.width,
			Height: s.height,
		}),
		echarts.WithTitleOpts(opts.Title{
			Title:    s.title,
			Subtitle: subtitle,
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Name: "Time",
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name: "Value",
			Min:  s.yMin,
			Max:  s.yMax,
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show: true,
		}),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    true,
			Trigger: "axis",
		}),
	)

	nHist := len(s.histLabels)
	nFc := 0
	if s.visible {
		nFc = len(s.fcLabels)
	}

	xAxis := make([]string, 0, nHist+nFc)
	xAxis = append(xAxis, s.histLabels...)
	histData := make([]opts.LineData, 0, nHist+nFc)
	for _, v := range s.histValues {
		histData = append(histData, opts.LineData{Value: v})
	}
	if s.visible {
		xAxis = append(xAxis, s.fcLabels...)
		for i := 0; i < nFc; i++ {
			histData = append(histData, opts.LineData{Value: "-"})
		}
	}

	line.SetXAxis(xAxis).
		AddSeries("History", histData,
			echarts.WithLineChartOpts(opts.LineChart{Smooth: true}))

	if s.visible {
		// The forecast channels start one slot before the horizon so the
		// median line and a zero-width band anchor at the join point.
		pad := func(n int) []opts.LineData {
			data := make([]opts.LineData, n)
			for i := range data {
				data[i] = opts.LineData{Value: "-"}
			}
			return data
		}

		medianData := pad(nHist - 1)
		medianData = append(medianData, opts.LineData{Value: s.joinValue})
		for _, v := range s.medians {
			medianData = append(medianData, opts.LineData{Value: v})
		}

		// Confidence band: a fully transparent line at the lower bound
		// stacked with a shaded delta up to the upper bound.
		lowerData := pad(nHist - 1)
		lowerData = append(lowerData, opts.LineData{Value: s.joinValue})
		deltaData := pad(nHist - 1)
		deltaData = append(deltaData, opts.LineData{Value: 0.0})
		for i := range s.lowers {
			lowerData = append(lowerData, opts.LineData{Value: s.lowers[i]})
			deltaData = append(deltaData, opts.LineData{Value: s.uppers[i] - s.lowers[i]})
		}

		line.AddSeries("Forecast", medianData,
			echarts.WithLineChartOpts(opts.LineChart{Smooth: true}),
			echarts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"})).
			AddSeries("Lower 95", lowerData,
				echarts.WithLineChartOpts(opts.LineChart{Stack: "confidence"}),
				echarts.WithLineStyleOpts(opts.LineStyle{Opacity: 0}),
				echarts.WithItemStyleOpts(opts.ItemStyle{Opacity: 0})).
			AddSeries("Confidence Band", deltaData,
				echarts.WithLineChartOpts(opts.LineChart{Stack: "confidence"}),
				echarts.WithLineStyleOpts(opts.LineStyle{Opacity: 0}),
				echarts.WithItemStyleOpts(opts.ItemStyle{Opacity: 0}),
				echarts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.25}))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.String(), nil
}

func midpoint(a, b time.Time) time.Time {
	return a.Add(b.Sub(a) / 2)
}
