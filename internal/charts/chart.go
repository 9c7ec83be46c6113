package charts

import (
	"sync"
	"time"

	"github.com/intelligent-username/Tachion/internal/models"
)

// Default pixel dimensions of the plot area
const (
	DefaultWidthPx  = 900
	DefaultHeightPx = 420
)

// Options configures a ForecastChart
type Options struct {
	WidthPx         float64
	HeightPx        float64
	RescaleDuration time.Duration
	RevealDuration  time.Duration
	// Scheduler drives the animation phases; nil means real timers
	Scheduler Scheduler
}

// ForecastChart is the public chart component: it renders a history
// series and animates the expansion when a quantile forecast arrives.
// It composes the scale engine, a render surface, and the transition
// controller.
type ForecastChart struct {
	mu      sync.Mutex
	surface Surface
	ctrl    *Controller
	width   float64
	height  float64

	history     []models.HistoryPoint
	forecast    *models.ForecastSeries
	timeDomain  TimeDomain
	valueDomain ValueDomain
}

// NewForecastChart creates a chart drawing onto the given surface
func NewForecastChart(surface Surface, opts Options) *ForecastChart {
	if opts.WidthPx <= 0 {
		opts.WidthPx = DefaultWidthPx
	}
	if opts.HeightPx <= 0 {
		opts.HeightPx = DefaultHeightPx
	}
	return &ForecastChart{
		surface: surface,
		ctrl:    NewController(surface, opts.Scheduler, opts.RescaleDuration, opts.RevealDuration),
		width:   opts.WidthPx,
		height:  opts.HeightPx,
	}
}

// RenderHistory replaces the charted series with points and resets the
// chart to Idle with every forecast channel hidden. Fails with
// ErrEmptySeries when points is empty; no state changes on failure.
// Rendering the same series twice is idempotent.
func (fc *ForecastChart) RenderHistory(points []models.HistoryPoint) error {
	if len(points) == 0 {
		return models.ErrEmptySeries
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.history = append([]models.HistoryPoint(nil), points...)
	fc.forecast = nil
	fc.timeDomain = TimeDomainOf(fc.history)
	fc.valueDomain = HistoryValueDomain(fc.history)

	ts, vs := fc.scalesLocked()
	fc.ctrl.Reset()
	fc.surface.DrawHistory(fc.history, ts, vs)
	return nil
}

// AnimatePrediction validates the forecast and drives the transition
// sequence against the combined history+forecast domains. Fails with
// ErrNoHistory before any RenderHistory and with MalformedForecastError
// when the series invariants are violated; either the whole update
// applies or none of it does.
func (fc *ForecastChart) AnimatePrediction(forecast *models.ForecastSeries) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if len(fc.history) == 0 {
		return models.ErrNoHistory
	}
	last := fc.history[len(fc.history)-1]
	if err := forecast.ValidateAfter(last.Timestamp); err != nil {
		return err
	}

	fc.forecast = forecast.Clone()
	fc.timeDomain = CombinedTimeDomain(fc.history, fc.forecast)
	fc.valueDomain = CombinedValueDomain(fc.history, fc.forecast)

	ts, vs := fc.scalesLocked()
	fc.ctrl.Animate(last, fc.forecast, ts, vs)
	return nil
}

// State returns the transition controller's current state
func (fc *ForecastChart) State() State {
	return fc.ctrl.State()
}

// TimeDomain returns the currently rendered time domain
func (fc *ForecastChart) TimeDomain() TimeDomain {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.timeDomain
}

// ValueDomain returns the currently rendered value domain
func (fc *ForecastChart) ValueDomain() ValueDomain {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.valueDomain
}

// Scales returns the pixel scales for the current domains
func (fc *ForecastChart) Scales() (TimeScale, ValueScale) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.scalesLocked()
}

func (fc *ForecastChart) scalesLocked() (TimeScale, ValueScale) {
	return TimeScale{Domain: fc.timeDomain, Range: fc.width},
		ValueScale{Domain: fc.valueDomain, Range: fc.height}
}
