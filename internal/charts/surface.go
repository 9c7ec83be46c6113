package charts

import (
	"time"

	"github.com/intelligent-username/Tachion/internal/models"
)

// Surface is the capability set a render target must provide. It owns one
// persistent drawable per visual channel: the history line, the forecast
// line, the confidence band, both axes, and the forecast-region label.
// Implementations are purely visual; they never touch network or state.
type Surface interface {
	// DrawHistory rebuilds the history line from points against the given
	// scales and hides every forecast channel, so a fresh history load
	// never shows stale forecast artifacts.
	DrawHistory(points []models.HistoryPoint, ts TimeScale, vs ValueScale)

	// DrawForecast builds the forecast channels without revealing them:
	// a median line anchored at the last history point (no gap at the
	// join), a band between the lower and upper bounds, and a label at
	// the horizontal midpoint of the forecast range.
	DrawForecast(last models.HistoryPoint, forecast *models.ForecastSeries, ts TimeScale, vs ValueScale)

	// RescaleAxes transitions the axes and any drawn channels to new
	// scales over the given duration.
	RescaleAxes(ts TimeScale, vs ValueScale, d time.Duration)

	// RevealForecast fades the forecast line, band, and label from full
	// transparency to full opacity over the given duration.
	RevealForecast(d time.Duration)

	// HideForecast makes the forecast channels invisible immediately.
	HideForecast()
}
