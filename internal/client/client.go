package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/intelligent-username/Tachion/internal/logger"
	"github.com/intelligent-username/Tachion/internal/models"
)

// Client talks to the Tachion prediction backend. Pure request/response:
// no caching and no retries, superseding and error surfacing belong to
// the store.
type Client struct {
	http    *resty.Client
	baseURL string
	log     *logger.Logger
}

// New creates a client against the given base URL, e.g.
// "http://localhost:8000"
func New(baseURL string) *Client {
	http := resty.New()
	http.SetTimeout(30 * time.Second)

	return &Client{
		http:    http,
		baseURL: baseURL,
		log:     logger.GetGlobalLogger().WithComponent("client"),
	}
}

// historyResponse is the wire envelope of GET /api/history
type historyResponse struct {
	Data []historyPoint `json:"data"`
}

type historyPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// predictRequest is the wire body of POST /api/predict
type predictRequest struct {
	Symbol     string `json:"symbol"`
	AssetClass string `json:"asset_class"`
	Horizon    int    `json:"horizon"`
}

// predictResponse is the wire envelope of POST /api/predict
type predictResponse struct {
	Timestamps []string          `json:"timestamps"`
	Medians    []float64         `json:"medians"`
	Lower95s   []float64         `json:"lower_95s"`
	Upper95s   []float64         `json:"upper_95s"`
	Metadata   map[string]string `json:"metadata"`
}

// FetchHistory fetches the historical series for a symbol
func (c *Client) FetchHistory(ctx context.Context, symbol string, class models.AssetClass) ([]models.HistoryPoint, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"symbol":      symbol,
			"asset_class": string(class),
		}).
		Get(c.baseURL + "/api/history")

	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		return nil, &models.NetworkError{Op: "history", Status: resp.Status(), Code: resp.StatusCode()}
	}

	var body historyResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse history response: %w", err)
	}

	points := make([]models.HistoryPoint, 0, len(body.Data))
	for _, p := range body.Data {
		ts, err := parseTimestamp(p.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse history timestamp %q: %w", p.Timestamp, err)
		}
		points = append(points, models.HistoryPoint{Timestamp: ts, Value: p.Value})
	}

	c.log.Debug("fetched history", map[string]interface{}{
		"symbol": symbol,
		"class":  string(class),
		"points": len(points),
	})
	return points, nil
}

// FetchPrediction requests a forecast of horizon periods for a symbol
func (c *Client) FetchPrediction(ctx context.Context, symbol string, class models.AssetClass, horizon int) (*models.ForecastSeries, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(predictRequest{
			Symbol:     symbol,
			AssetClass: string(class),
			Horizon:    horizon,
		}).
		Post(c.baseURL + "/api/predict")

	if err != nil {
		return nil, fmt.Errorf("failed to fetch prediction for %s: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		return nil, &models.NetworkError{Op: "predict", Status: resp.Status(), Code: resp.StatusCode()}
	}

	var body predictResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse prediction response: %w", err)
	}

	forecast := &models.ForecastSeries{
		Timestamps:  make([]time.Time, 0, len(body.Timestamps)),
		Medians:     body.Medians,
		LowerBounds: body.Lower95s,
		UpperBounds: body.Upper95s,
		Metadata:    body.Metadata,
	}
	for _, raw := range body.Timestamps {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse forecast timestamp %q: %w", raw, err)
		}
		forecast.Timestamps = append(forecast.Timestamps, ts)
	}

	c.log.Debug("fetched prediction", map[string]interface{}{
		"symbol":  symbol,
		"horizon": horizon,
		"steps":   forecast.Len(),
	})
	return forecast, nil
}

// parseTimestamp accepts the ISO-8601 shapes the backend emits: full
// RFC3339, a bare datetime, a plain date, or a unix epoch in seconds.
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
