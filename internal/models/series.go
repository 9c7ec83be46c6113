package models

import (
	"fmt"
	"time"
)

// AssetClass routes a symbol to the correct data source and model
type AssetClass string

const (
	AssetEquities  AssetClass = "equities"
	AssetCrypto    AssetClass = "crypto"
	AssetForex     AssetClass = "forex"
	AssetCommodity AssetClass = "comm"
)

// ParseAssetClass maps a wire/user string to an AssetClass
func ParseAssetClass(s string) (AssetClass, error) {
	switch s {
	case "equities":
		return AssetEquities, nil
	case "crypto":
		return AssetCrypto, nil
	case "forex":
		return AssetForex, nil
	case "comm", "commodity":
		return AssetCommodity, nil
	default:
		return "", fmt.Errorf("unknown asset class: %q", s)
	}
}

// HistoryPoint is a single observed value in a historical series
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ForecastSeries holds a quantile forecast: a median path with a
// per-timestamp confidence interval. All four sequences are index-aligned.
type ForecastSeries struct {
	Timestamps  []time.Time       `json:"timestamps"`
	Medians     []float64         `json:"medians"`
	LowerBounds []float64         `json:"lower_95s"`
	UpperBounds []float64         `json:"upper_95s"`
	Metadata    map[string]string `json:"metadata"`
}

// Len returns the number of forecast steps
func (f *ForecastSeries) Len() int {
	return len(f.Timestamps)
}

// Validate checks the structural invariants of the series: equal sequence
// lengths, at least one step, strictly increasing timestamps, and
// lower <= median <= upper at every index.
func (f *ForecastSeries) Validate() error {
	n := len(f.Timestamps)
	if n == 0 {
		return &MalformedForecastError{Reason: "forecast has no steps"}
	}
	if len(f.Medians) != n || len(f.LowerBounds) != n || len(f.UpperBounds) != n {
		return &MalformedForecastError{Reason: fmt.Sprintf(
			"sequence length mismatch: timestamps=%d medians=%d lower=%d upper=%d",
			n, len(f.Medians), len(f.LowerBounds), len(f.UpperBounds))}
	}
	for i := 0; i < n; i++ {
		if i > 0 && !f.Timestamps[i].After(f.Timestamps[i-1]) {
			return &MalformedForecastError{Reason: fmt.Sprintf(
				"timestamps not strictly increasing at index %d", i)}
		}
		if f.LowerBounds[i] > f.Medians[i] || f.Medians[i] > f.UpperBounds[i] {
			return &MalformedForecastError{Reason: fmt.Sprintf(
				"bound order violated at index %d: lower=%g median=%g upper=%g",
				i, f.LowerBounds[i], f.Medians[i], f.UpperBounds[i])}
		}
	}
	return nil
}

// ValidateAfter runs Validate and additionally requires every forecast
// timestamp to fall strictly after the given history cutoff, so the
// forecast continues the series instead of overlapping it.
func (f *ForecastSeries) ValidateAfter(cutoff time.Time) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if !f.Timestamps[0].After(cutoff) {
		return &MalformedForecastError{Reason: fmt.Sprintf(
			"forecast starts at %s, not after history end %s",
			f.Timestamps[0].Format(time.RFC3339), cutoff.Format(time.RFC3339))}
	}
	return nil
}

// Clone returns a deep copy so callers can hold a snapshot that later
// store mutations cannot touch.
func (f *ForecastSeries) Clone() *ForecastSeries {
	if f == nil {
		return nil
	}
	c := &ForecastSeries{
		Timestamps:  append([]time.Time(nil), f.Timestamps...),
		Medians:     append([]float64(nil), f.Medians...),
		LowerBounds: append([]float64(nil), f.LowerBounds...),
		UpperBounds: append([]float64(nil), f.UpperBounds...),
	}
	if f.Metadata != nil {
		c.Metadata = make(map[string]string, len(f.Metadata))
		for k, v := range f.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}
