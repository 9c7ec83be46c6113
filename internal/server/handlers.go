package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/intelligent-username/Tachion/internal/charts"
	"github.com/intelligent-username/Tachion/internal/models"
	"github.com/intelligent-username/Tachion/internal/storage"
)

// HandleRoot serves the chart page for the current view, or the initial
// page when no asset has been selected yet
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.serveChartPage(w)
}

// HandleChart serves the chart page
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.serveChartPage(w)
}

func (s *Server) serveChartPage(w http.ResponseWriter) {
	view := s.Store.Snapshot()
	w.Header().Set("Content-Type", "text/html")

	if !view.HasAsset() {
		w.Write([]byte(s.Pages.BuildInitialPage()))
		return
	}

	surface := charts.NewEChartsSurface(view.Symbol, s.Config.ChartWidthPx, s.Config.ChartHeightPx)
	chartHTML := ""
	if err := s.renderChart(view, surface); err != nil {
		// History not loaded yet (or failed); the page still shows the
		// summary and any error banner
		s.log.Debugf("chart render skipped: %v", err)
	} else {
		rendered, err := surface.RenderHTML()
		if err != nil {
			http.Error(w, "Failed to render chart: "+err.Error(), http.StatusInternalServerError)
			return
		}
		chartHTML = rendered
	}

	w.Write([]byte(s.Pages.BuildChartPage(view, chartHTML)))
}

// HandleHealth provides the health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

type selectRequest struct {
	Symbol     string `json:"symbol"`
	AssetClass string `json:"asset_class"`
}

// HandleSelect selects an asset and kicks off its history fetch
func (s *Server) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}
	class, err := models.ParseAssetClass(req.AssetClass)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The fetch outlives this request; it completes against the store,
	// not the response.
	s.Store.SetAsset(context.Background(), req.Symbol, class)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "accepted",
		"symbol":      req.Symbol,
		"asset_class": string(class),
	})
}

type predictHTTPRequest struct {
	Horizon int `json:"horizon"`
}

// HandlePredict requests a forecast for the selected asset
func (s *Server) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req predictHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	snap := s.Store.Snapshot()
	if !snap.HasAsset() {
		http.Error(w, "No asset selected", http.StatusConflict)
		return
	}

	s.Store.RunPrediction(context.Background(), req.Horizon)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "accepted",
		"horizon": req.Horizon,
	})
}

// HandleSnapshot renders the settled chart to PNG and HTML and persists
// both through the snapshot store
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := s.Store.Snapshot()
	if len(view.History) == 0 {
		http.Error(w, "Nothing to snapshot: no history loaded", http.StatusConflict)
		return
	}

	pngSurface := charts.NewPNGSurface(view.Symbol, s.Config.ChartWidthPx, s.Config.ChartHeightPx)
	if err := s.renderChart(view, pngSurface); err != nil {
		http.Error(w, "Failed to build snapshot chart: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var png bytes.Buffer
	if err := pngSurface.WritePNG(&png); err != nil {
		http.Error(w, "Failed to render snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}

	htmlSurface := charts.NewEChartsSurface(view.Symbol, s.Config.ChartWidthPx, s.Config.ChartHeightPx)
	if err := s.renderChart(view, htmlSurface); err != nil {
		http.Error(w, "Failed to build snapshot chart: "+err.Error(), http.StatusInternalServerError)
		return
	}
	chartHTML, err := htmlSurface.RenderHTML()
	if err != nil {
		http.Error(w, "Failed to render snapshot page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	page := s.Pages.BuildChartPage(view, chartHTML)

	ctx := r.Context()
	takenAt := time.Now().UTC()
	pngPath, err := s.Snapshots.StoreSnapshot(ctx, "chart.png", png.Bytes(), takenAt)
	if err != nil {
		s.log.Error("failed to store snapshot image", err)
		http.Error(w, "Failed to store snapshot", http.StatusInternalServerError)
		return
	}
	htmlPath, err := s.Snapshots.StoreSnapshot(ctx, "index.html", []byte(page), takenAt)
	if err != nil {
		s.log.Error("failed to store snapshot page", err)
		http.Error(w, "Failed to store snapshot", http.StatusInternalServerError)
		return
	}

	s.log.Info("snapshot stored", map[string]interface{}{
		"symbol": view.Symbol,
		"png":    pngPath,
		"html":   htmlPath,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "stored",
		"png":    pngPath,
		"html":   htmlPath,
	})
}

// HandleFileProxy serves stored snapshot artifacts
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}
	// Prevent directory traversal
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := s.Snapshots.GetFile(r.Context(), filePath)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.ContentType(filePath))
	w.Write(data)
}
