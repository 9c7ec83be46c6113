package server

import (
	"net/http"
	"time"

	"github.com/intelligent-username/Tachion/internal/charts"
	"github.com/intelligent-username/Tachion/internal/config"
	"github.com/intelligent-username/Tachion/internal/logger"
	"github.com/intelligent-username/Tachion/internal/models"
	"github.com/intelligent-username/Tachion/internal/pages"
	"github.com/intelligent-username/Tachion/internal/storage"
	"github.com/intelligent-username/Tachion/internal/store"
)

// Server exposes the forecast visualization pipeline over HTTP
type Server struct {
	Config    *config.Config
	Store     *store.Store
	Pages     *pages.Builder
	Snapshots storage.SnapshotStore
	log       *logger.Logger
}

// NewServer creates a server over the given store and snapshot storage
func NewServer(cfg *config.Config, st *store.Store, snapshots storage.SnapshotStore) *Server {
	return &Server{
		Config:    cfg,
		Store:     st,
		Pages:     pages.NewBuilder(),
		Snapshots: snapshots,
		log:       logger.GetGlobalLogger().WithComponent("server"),
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/select", s.HandleSelect)
	mux.HandleFunc("/predict", s.HandlePredict)
	mux.HandleFunc("/chart", s.HandleChart)
	mux.HandleFunc("/snapshot", s.HandleSnapshot)
	mux.HandleFunc("/files/", s.HandleFileProxy)
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Snapshots != nil {
		return s.Snapshots.Close()
	}
	return nil
}

// chartOptions builds chart options from the configuration with an
// immediate scheduler, so a server-side render yields the settled
// composition in one call.
func (s *Server) chartOptions() charts.Options {
	return charts.Options{
		WidthPx:         float64(s.Config.ChartWidthPx),
		HeightPx:        float64(s.Config.ChartHeightPx),
		RescaleDuration: time.Duration(s.Config.RescaleMs) * time.Millisecond,
		RevealDuration:  time.Duration(s.Config.RevealMs) * time.Millisecond,
		Scheduler:       charts.ImmediateScheduler{},
	}
}

// renderChart drives a fresh chart through the view's history and
// forecast against the given surface. A forecast the chart rejects is
// logged and skipped; the history-only chart still renders.
func (s *Server) renderChart(view models.ViewState, surface charts.Surface) error {
	fc := charts.NewForecastChart(surface, s.chartOptions())
	if err := fc.RenderHistory(view.History); err != nil {
		return err
	}
	if view.Forecast != nil {
		if err := fc.AnimatePrediction(view.Forecast); err != nil {
			s.log.Error("forecast rejected by chart", err, map[string]interface{}{
				"symbol": view.Symbol,
			})
		}
	}
	return nil
}
