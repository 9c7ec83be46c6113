package charts

import (
	"math"
	"time"

	"github.com/intelligent-username/Tachion/internal/models"
)

// Scale configuration constants
const (
	// DomainPadFraction is the symmetric padding applied to the raw
	// [min,max] value range
	DomainPadFraction = 0.1
	// FlatSeriesEpsilon pads a flat series whose value is exactly 0,
	// where a magnitude-relative pad would collapse to zero width
	FlatSeriesEpsilon = 1.0
)

// TimeDomain is the [Start, End] input range of the time axis
type TimeDomain struct {
	Start time.Time
	End   time.Time
}

// ExtendTo grows the domain end to cover t, never shrinking it
func (d TimeDomain) ExtendTo(t time.Time) TimeDomain {
	if t.After(d.End) {
		d.End = t
	}
	return d
}

// Span returns the domain width
func (d TimeDomain) Span() time.Duration {
	return d.End.Sub(d.Start)
}

// ValueDomain is the padded [Min, Max] input range of the value axis
type ValueDomain struct {
	Min float64
	Max float64
}

// Span returns the domain width
func (d ValueDomain) Span() float64 {
	return d.Max - d.Min
}

// TimeDomainOf computes the time domain covering a history series.
// Returns the zero domain for an empty series; callers guard emptiness.
func TimeDomainOf(points []models.HistoryPoint) TimeDomain {
	if len(points) == 0 {
		return TimeDomain{}
	}
	d := TimeDomain{Start: points[0].Timestamp, End: points[0].Timestamp}
	for _, p := range points[1:] {
		if p.Timestamp.Before(d.Start) {
			d.Start = p.Timestamp
		}
		if p.Timestamp.After(d.End) {
			d.End = p.Timestamp
		}
	}
	return d
}

// ValueDomainOf computes the padded value domain over raw values.
// A degenerate (flat or single-point) series is padded by a fraction of
// the value magnitude so the mapping never collapses to zero width.
func ValueDomainOf(values []float64) ValueDomain {
	if len(values) == 0 {
		return ValueDomain{}
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := DomainPadFraction * (hi - lo)
	if pad == 0 {
		pad = DomainPadFraction * math.Abs(lo)
		if pad == 0 {
			pad = FlatSeriesEpsilon
		}
	}
	return ValueDomain{Min: lo - pad, Max: hi + pad}
}

// HistoryValueDomain computes the padded value domain of a history series
func HistoryValueDomain(points []models.HistoryPoint) ValueDomain {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return ValueDomainOf(values)
}

// CombinedTimeDomain extends the history time domain to the forecast's
// last timestamp
func CombinedTimeDomain(points []models.HistoryPoint, forecast *models.ForecastSeries) TimeDomain {
	d := TimeDomainOf(points)
	if forecast != nil && forecast.Len() > 0 {
		d = d.ExtendTo(forecast.Timestamps[forecast.Len()-1])
	}
	return d
}

// CombinedValueDomain computes the padded value domain over history values
// plus the forecast's medians and confidence bounds
func CombinedValueDomain(points []models.HistoryPoint, forecast *models.ForecastSeries) ValueDomain {
	values := make([]float64, 0, len(points)+3*forecast.Len())
	for _, p := range points {
		values = append(values, p.Value)
	}
	values = append(values, forecast.Medians...)
	values = append(values, forecast.LowerBounds...)
	values = append(values, forecast.UpperBounds...)
	return ValueDomainOf(values)
}

// TimeScale maps instants onto a horizontal pixel range [0, Range].
// The mapping is linear in time, monotonic, and invertible.
type TimeScale struct {
	Domain TimeDomain
	Range  float64
}

// Map converts an instant to a pixel offset
func (s TimeScale) Map(t time.Time) float64 {
	span := s.Domain.Span()
	if span <= 0 {
		return 0
	}
	frac := float64(t.Sub(s.Domain.Start)) / float64(span)
	return frac * s.Range
}

// Invert converts a pixel offset back to an instant
func (s TimeScale) Invert(px float64) time.Time {
	if s.Range == 0 {
		return s.Domain.Start
	}
	frac := px / s.Range
	return s.Domain.Start.Add(time.Duration(frac * float64(s.Domain.Span())))
}

// ValueScale maps values onto a vertical pixel range [0, Range] with
// pixel 0 at the top, so larger values map to smaller offsets.
type ValueScale struct {
	Domain ValueDomain
	Range  float64
}

// Map converts a value to a pixel offset
func (s ValueScale) Map(v float64) float64 {
	span := s.Domain.Span()
	if span <= 0 {
		return 0
	}
	frac := (v - s.Domain.Min) / span
	return (1 - frac) * s.Range
}

// Invert converts a pixel offset back to a value
func (s ValueScale) Invert(px float64) float64 {
	if s.Range == 0 {
		return s.Domain.Min
	}
	frac := 1 - px/s.Range
	return s.Domain.Min + frac*s.Domain.Span()
}
