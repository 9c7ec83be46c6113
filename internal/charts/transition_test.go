package charts

import (
	"sync"
	"testing"
	"time"

	"github.com/intelligent-username/Tachion/internal/models"
)

// fakeSurface records surface calls for assertions
type fakeSurface struct {
	mu            sync.Mutex
	historyDrawn  []models.HistoryPoint
	forecastDrawn *models.ForecastSeries
	lastTS        TimeScale
	lastVS        ValueScale
	visible       bool
	calls         []string
}

func (f *fakeSurface) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeSurface) DrawHistory(points []models.HistoryPoint, ts TimeScale, vs ValueScale) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DrawHistory")
	f.historyDrawn = append([]models.HistoryPoint(nil), points...)
	f.lastTS, f.lastVS = ts, vs
}

func (f *fakeSurface) DrawForecast(last models.HistoryPoint, forecast *models.ForecastSeries, ts TimeScale, vs ValueScale) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DrawForecast")
	f.forecastDrawn = forecast
	f.lastTS, f.lastVS = ts, vs
}

func (f *fakeSurface) RescaleAxes(ts TimeScale, vs ValueScale, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RescaleAxes")
	f.lastTS, f.lastVS = ts, vs
}

func (f *fakeSurface) RevealForecast(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RevealForecast")
	f.visible = true
}

func (f *fakeSurface) HideForecast() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("HideForecast")
	f.visible = false
}

// manualScheduler queues callbacks so tests can step through phases
type manualScheduler struct {
	pending []func()
}

func (m *manualScheduler) After(d time.Duration, fn func()) {
	m.pending = append(m.pending, fn)
}

// step runs the oldest pending callback
func (m *manualScheduler) step(t *testing.T) {
	t.Helper()
	if len(m.pending) == 0 {
		t.Fatal("no pending scheduler callbacks")
	}
	fn := m.pending[0]
	m.pending = m.pending[1:]
	fn()
}

func testForecast() *models.ForecastSeries {
	return &models.ForecastSeries{
		Timestamps:  []time.Time{ts(4), ts(5)},
		Medians:     []float64{103, 104},
		LowerBounds: []float64{101, 102},
		UpperBounds: []float64{105, 106},
	}
}

func TestControllerSequence(t *testing.T) {
	surface := &fakeSurface{}
	sched := &manualScheduler{}
	ctrl := NewController(surface, sched, 0, 0)

	if ctrl.State() != StateIdle {
		t.Fatalf("initial state = %v, want Idle", ctrl.State())
	}

	last := models.HistoryPoint{Timestamp: ts(3), Value: 101}
	ctrl.Animate(last, testForecast(), TimeScale{Range: 900}, ValueScale{Range: 420})

	if ctrl.State() != StateRescalingAxes {
		t.Fatalf("after Animate state = %v, want RescalingAxes", ctrl.State())
	}
	if surface.visible {
		t.Error("forecast must stay hidden during the rescale phase")
	}

	sched.step(t) // rescale elapsed
	if ctrl.State() != StateRevealingForecast {
		t.Fatalf("after rescale state = %v, want RevealingForecast", ctrl.State())
	}
	if !surface.visible {
		t.Error("forecast should be revealed in the reveal phase")
	}

	sched.step(t) // reveal elapsed
	if ctrl.State() != StateSettled {
		t.Fatalf("after reveal state = %v, want Settled", ctrl.State())
	}
}

func TestControllerLatestCallWins(t *testing.T) {
	surface := &fakeSurface{}
	sched := &manualScheduler{}
	ctrl := NewController(surface, sched, 0, 0)

	last := models.HistoryPoint{Timestamp: ts(3), Value: 101}
	first := testForecast()
	ctrl.Animate(last, first, TimeScale{Range: 900}, ValueScale{Range: 420})

	// A second prediction arrives mid-rescale
	second := testForecast()
	second.Medians = []float64{110, 111}
	second.UpperBounds = []float64{115, 116}
	ctrl.Animate(last, second, TimeScale{Range: 900}, ValueScale{Range: 420})

	// The first run's rescale callback fires; it must be abandoned
	sched.step(t)
	if ctrl.State() != StateRescalingAxes {
		t.Fatalf("superseded callback advanced state to %v", ctrl.State())
	}

	// The second run completes normally
	sched.step(t)
	if ctrl.State() != StateRevealingForecast {
		t.Fatalf("state = %v, want RevealingForecast", ctrl.State())
	}
	sched.step(t)
	if ctrl.State() != StateSettled {
		t.Fatalf("state = %v, want Settled", ctrl.State())
	}
	if surface.forecastDrawn.Medians[0] != 110 {
		t.Errorf("surface holds medians %v, want the latest forecast", surface.forecastDrawn.Medians)
	}
}

func TestControllerResetSupersedes(t *testing.T) {
	surface := &fakeSurface{}
	sched := &manualScheduler{}
	ctrl := NewController(surface, sched, 0, 0)

	last := models.HistoryPoint{Timestamp: ts(3), Value: 101}
	ctrl.Animate(last, testForecast(), TimeScale{Range: 900}, ValueScale{Range: 420})
	ctrl.Reset()

	if ctrl.State() != StateIdle {
		t.Fatalf("after Reset state = %v, want Idle", ctrl.State())
	}
	if surface.visible {
		t.Error("Reset must hide forecast channels")
	}

	// Stale callbacks from the abandoned run must not resurrect the animation
	for len(sched.pending) > 0 {
		sched.step(t)
	}
	if ctrl.State() != StateIdle {
		t.Errorf("stale callbacks moved state to %v", ctrl.State())
	}
}

func TestImmediateSchedulerSettles(t *testing.T) {
	surface := &fakeSurface{}
	ctrl := NewController(surface, ImmediateScheduler{}, 0, 0)

	last := models.HistoryPoint{Timestamp: ts(3), Value: 101}
	ctrl.Animate(last, testForecast(), TimeScale{Range: 900}, ValueScale{Range: 420})

	if ctrl.State() != StateSettled {
		t.Fatalf("immediate scheduler should settle synchronously, state = %v", ctrl.State())
	}
	if !surface.visible {
		t.Error("forecast should be visible once settled")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateRescalingAxes, "RescalingAxes"},
		{StateRevealingForecast, "RevealingForecast"},
		{StateSettled, "Settled"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
