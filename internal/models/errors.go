package models

import (
	"errors"
	"fmt"
)

// ErrEmptySeries is returned when a chart render is attempted with no
// history points to anchor a domain.
var ErrEmptySeries = errors.New("history series is empty")

// ErrNoHistory is returned when a prediction is animated before any
// history has been rendered.
var ErrNoHistory = errors.New("no history rendered")

// MalformedForecastError reports a ForecastSeries that violates its
// structural invariants. The chart rejects such a forecast without
// touching any visual state.
type MalformedForecastError struct {
	Reason string
}

func (e *MalformedForecastError) Error() string {
	return "malformed forecast: " + e.Reason
}

// NetworkError reports a non-success HTTP response from the backend.
// It is captured into ViewState.Error by the store and never escapes it.
type NetworkError struct {
	Op     string // "history" or "predict"
	Status string // HTTP status line, e.g. "503 Service Unavailable"
	Code   int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s request failed: %s", e.Op, e.Status)
}
