package charts

import (
	"sync"
	"time"

	"github.com/intelligent-username/Tachion/internal/models"
)

// Default phase durations for the prediction animation
const (
	DefaultRescaleDuration = 750 * time.Millisecond
	DefaultRevealDuration  = 500 * time.Millisecond
)

// State is the transition controller's explicit tagged state
type State int

const (
	StateIdle State = iota
	StateRescalingAxes
	StateRevealingForecast
	StateSettled
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRescalingAxes:
		return "RescalingAxes"
	case StateRevealingForecast:
		return "RevealingForecast"
	case StateSettled:
		return "Settled"
	default:
		return "Unknown"
	}
}

// Scheduler defers a callback by a duration. Production code uses the
// timer-backed implementation; tests inject manual or immediate ones.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler schedules callbacks on real timers
type TimerScheduler struct{}

// After runs fn after d elapses
func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// ImmediateScheduler runs callbacks synchronously, collapsing the whole
// animation into a single call. Used for server-side rendering, where the
// settled composition is wanted right away.
type ImmediateScheduler struct{}

// After runs fn inline
func (ImmediateScheduler) After(d time.Duration, fn func()) {
	fn()
}

// Controller sequences the prediction animation:
// Idle -> RescalingAxes -> RevealingForecast -> Settled.
// A new Animate or Reset during a running sequence supersedes it; phase
// callbacks from a superseded run are abandoned, so the final state always
// reflects the latest call.
type Controller struct {
	mu      sync.Mutex
	surface Surface
	sched   Scheduler
	rescale time.Duration
	reveal  time.Duration
	state   State
	gen     uint64
}

// NewController creates a controller over the given surface. Zero
// durations fall back to the defaults; a nil scheduler uses real timers.
func NewController(surface Surface, sched Scheduler, rescale, reveal time.Duration) *Controller {
	if sched == nil {
		sched = TimerScheduler{}
	}
	if rescale <= 0 {
		rescale = DefaultRescaleDuration
	}
	if reveal <= 0 {
		reveal = DefaultRevealDuration
	}
	return &Controller{
		surface: surface,
		sched:   sched,
		rescale: rescale,
		reveal:  reveal,
		state:   StateIdle,
	}
}

// State returns the current transition state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset supersedes any running sequence, hides the forecast channels, and
// returns to Idle. Called when a fresh history replaces the series.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = StateIdle
	c.surface.HideForecast()
}

// Animate starts the prediction sequence: the forecast channels are drawn
// hidden, the axes rescale to the combined domains, then the forecast
// fades in. The caller has already validated the forecast.
func (c *Controller) Animate(last models.HistoryPoint, forecast *models.ForecastSeries, ts TimeScale, vs ValueScale) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = StateRescalingAxes
	c.surface.HideForecast()
	c.surface.DrawForecast(last, forecast, ts, vs)
	c.surface.RescaleAxes(ts, vs, c.rescale)
	c.mu.Unlock()

	c.sched.After(c.rescale, func() { c.beginReveal(gen) })
}

func (c *Controller) beginReveal(gen uint64) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.state = StateRevealingForecast
	c.surface.RevealForecast(c.reveal)
	c.mu.Unlock()

	c.sched.After(c.reveal, func() { c.settle(gen) })
}

func (c *Controller) settle(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.state = StateSettled
}
