package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/intelligent-username/Tachion/internal/config"
	"github.com/intelligent-username/Tachion/internal/models"
	"github.com/intelligent-username/Tachion/internal/storage"
	"github.com/intelligent-username/Tachion/internal/store"
)

type stubFetcher struct {
	history  []models.HistoryPoint
	forecast *models.ForecastSeries
	err      error
}

func (f *stubFetcher) FetchHistory(ctx context.Context, symbol string, class models.AssetClass) ([]models.HistoryPoint, error) {
	return f.history, f.err
}

func (f *stubFetcher) FetchPrediction(ctx context.Context, symbol string, class models.AssetClass, horizon int) (*models.ForecastSeries, error) {
	return f.forecast, f.err
}

func testHistory() []models.HistoryPoint {
	return []models.HistoryPoint{
		{Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100},
		{Timestamp: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Value: 102},
		{Timestamp: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Value: 101},
	}
}

func testForecast() *models.ForecastSeries {
	return &models.ForecastSeries{
		Timestamps:  []time.Time{time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)},
		Medians:     []float64{103},
		LowerBounds: []float64{101},
		UpperBounds: []float64{105},
		Metadata:    map[string]string{"model": "deepar_equities"},
	}
}

func newTestServer(t *testing.T, fetcher store.Fetcher) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:          "8981",
		SnapshotsDir:  t.TempDir(),
		ChartWidthPx:  900,
		ChartHeightPx: 420,
		RescaleMs:     750,
		RevealMs:      500,
	}
	snapshots, err := storage.NewLocalStore(cfg.SnapshotsDir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	srv := NewServer(cfg, store.New(fetcher), snapshots)
	t.Cleanup(func() { srv.Close() })
	return srv
}

// waitForHistory polls until the store has applied a history for symbol
func waitForHistory(t *testing.T, s *store.Store, symbol string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		view := s.Snapshot()
		if view.Symbol == symbol && len(view.History) > 0 && !view.Loading {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("history for %s never applied", symbol)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{})
	mux := srv.SetupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status = %d", rec.Code)
	}
}

func TestHandleSelectValidation(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{history: testHistory()})
	mux := srv.SetupRoutes()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", "{", http.StatusBadRequest},
		{"missing symbol", `{"asset_class":"equities"}`, http.StatusBadRequest},
		{"bad asset class", `{"symbol":"AAPL","asset_class":"bonds"}`, http.StatusBadRequest},
		{"valid", `{"symbol":"AAPL","asset_class":"equities"}`, http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/select", strings.NewReader(tt.body))
			mux.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandleSelectAppliesHistory(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{history: testHistory()})
	mux := srv.SetupRoutes()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/select",
		strings.NewReader(`{"symbol":"AAPL","asset_class":"equities"}`))
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}

	waitForHistory(t, srv.Store, "AAPL")
	view := srv.Store.Snapshot()
	if len(view.History) != 3 {
		t.Errorf("history length = %d", len(view.History))
	}
}

func TestHandlePredictWithoutAsset(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{})
	mux := srv.SetupRoutes()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"horizon":7}`))
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleRootNoAsset(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{})
	mux := srv.SetupRoutes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No asset selected") {
		t.Error("initial page missing its message")
	}
}

func TestHandleChartWithHistory(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{history: testHistory()})
	mux := srv.SetupRoutes()

	srv.Store.SetAsset(context.Background(), "AAPL", models.AssetEquities)
	waitForHistory(t, srv.Store, "AAPL")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "AAPL") {
		t.Error("chart page missing the symbol")
	}
	if !strings.Contains(body, "History") {
		t.Error("chart page missing the history series")
	}
}

func TestHandleSnapshot(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{history: testHistory(), forecast: testForecast()})
	mux := srv.SetupRoutes()

	// Nothing loaded yet
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/snapshot", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("empty snapshot status = %d, want %d", rec.Code, http.StatusConflict)
	}

	srv.Store.SetAsset(context.Background(), "AAPL", models.AssetEquities)
	waitForHistory(t, srv.Store, "AAPL")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/snapshot", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d (%s)", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"png", "html"} {
		path, ok := body[key]
		if !ok || path == "" {
			t.Fatalf("response missing %q path", key)
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/"+path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET /files/%s status = %d", path, rec.Code)
		}
	}
}

func TestHandleFileProxyTraversal(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{})
	mux := srv.SetupRoutes()

	// Hit the handler directly; the mux would clean the path first
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/files/x", nil)
	req.URL.Path = "/files/../secrets.txt"
	srv.HandleFileProxy(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("traversal request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/missing.html", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d", rec.Code)
	}
}
