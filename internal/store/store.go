package store

import (
	"context"
	"sync"

	"github.com/intelligent-username/Tachion/internal/logger"
	"github.com/intelligent-username/Tachion/internal/models"
)

// DefaultHorizon is the number of periods requested when the caller does
// not specify one, matching the backend's default.
const DefaultHorizon = 7

// Fetcher is the remote data dependency of the store
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string, class models.AssetClass) ([]models.HistoryPoint, error)
	FetchPrediction(ctx context.Context, symbol string, class models.AssetClass, horizon int) (*models.ForecastSeries, error)
}

// Store owns the session's single ViewState. All mutation is funneled
// through SetAsset and RunPrediction; fetches run asynchronously and
// their responses are tagged so a superseded request can never overwrite
// newer state (last write wins, per symbol).
type Store struct {
	mu      sync.Mutex
	fetcher Fetcher
	view    models.ViewState
	log     *logger.Logger

	// historySeq tags history requests; a response is discarded unless
	// it carries the latest tag for the still-selected symbol.
	historySeq uint64
	// historyGen counts applied histories; a prediction response is
	// discarded if a newer history was applied after it was issued.
	historyGen uint64
	predictSeq uint64

	updates chan struct{}
}

// New creates a store backed by the given fetcher
func New(fetcher Fetcher) *Store {
	return &Store{
		fetcher: fetcher,
		log:     logger.GetGlobalLogger().WithComponent("store"),
		updates: make(chan struct{}, 1),
	}
}

// Snapshot returns a deep copy of the current view state
func (s *Store) Snapshot() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Clone()
}

// Updates returns a coalesced notification channel that receives after
// every applied state change
func (s *Store) Updates() <-chan struct{} {
	return s.updates
}

func (s *Store) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// SetAsset selects a symbol: any prior forecast is invalidated, the error
// is cleared, and a history fetch is issued. On failure the previous
// history is kept (stale data beats a blank chart) and the error is
// surfaced through ViewState.Error.
func (s *Store) SetAsset(ctx context.Context, symbol string, class models.AssetClass) {
	s.mu.Lock()
	s.historySeq++
	seq := s.historySeq
	s.view.Symbol = symbol
	s.view.AssetClass = class
	s.view.Forecast = nil
	s.view.Error = ""
	s.view.Loading = true
	s.mu.Unlock()
	s.notify()

	s.log.Info("asset selected", map[string]interface{}{
		"symbol": symbol,
		"class":  string(class),
	})

	go func() {
		points, err := s.fetcher.FetchHistory(ctx, symbol, class)
		s.applyHistory(symbol, seq, points, err)
	}()
}

func (s *Store) applyHistory(symbol string, seq uint64, points []models.HistoryPoint, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer SetAsset superseded this request; its response must not
	// overwrite newer state.
	if symbol != s.view.Symbol || seq != s.historySeq {
		s.log.Debug("discarding stale history response", map[string]interface{}{
			"symbol": symbol,
		})
		return
	}

	s.view.Loading = false
	if err != nil {
		s.view.Error = err.Error()
		s.log.Error("history fetch failed", err, map[string]interface{}{
			"symbol": symbol,
		})
	} else {
		s.view.History = points
		s.historyGen++
	}
	s.notify()
}

// RunPrediction requests a forecast over horizon periods for the selected
// asset. A no-op when no asset is selected. A horizon below 1 falls back
// to the default. On failure the previous forecast (if any) is kept and
// the error is surfaced.
func (s *Store) RunPrediction(ctx context.Context, horizon int) {
	if horizon < 1 {
		horizon = DefaultHorizon
	}

	s.mu.Lock()
	if !s.view.HasAsset() {
		s.mu.Unlock()
		s.log.Warn("prediction requested with no asset selected")
		return
	}
	symbol := s.view.Symbol
	class := s.view.AssetClass
	s.predictSeq++
	seq := s.predictSeq
	gen := s.historyGen
	s.view.Error = ""
	s.view.Loading = true
	s.mu.Unlock()
	s.notify()

	s.log.Info("prediction requested", map[string]interface{}{
		"symbol":  symbol,
		"horizon": horizon,
	})

	go func() {
		forecast, err := s.fetcher.FetchPrediction(ctx, symbol, class, horizon)
		s.applyForecast(symbol, seq, gen, forecast, err)
	}()
}

func (s *Store) applyForecast(symbol string, seq, gen uint64, forecast *models.ForecastSeries, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Discard when superseded by a newer prediction, a symbol change, or
	// a history applied after this request was issued: the forecast would
	// refer to a different series.
	if symbol != s.view.Symbol || seq != s.predictSeq || gen != s.historyGen {
		s.log.Debug("discarding stale prediction response", map[string]interface{}{
			"symbol": symbol,
		})
		return
	}

	s.view.Loading = false
	if err != nil {
		s.view.Error = err.Error()
		s.log.Error("prediction fetch failed", err, map[string]interface{}{
			"symbol": symbol,
		})
	} else {
		s.view.Forecast = forecast
	}
	s.notify()
}
