package models

// ViewState is the single session-wide view of the application: the
// selected asset, its history, the latest forecast, and fetch status.
// It is owned by the store; all mutation goes through SetAsset and
// RunPrediction there, never through direct field writes.
type ViewState struct {
	Symbol     string
	AssetClass AssetClass
	History    []HistoryPoint
	Forecast   *ForecastSeries
	Loading    bool
	Error      string
}

// HasAsset reports whether an asset has been selected
func (v *ViewState) HasAsset() bool {
	return v.Symbol != "" && v.AssetClass != ""
}

// Clone returns a deep copy safe to hand outside the store's lock
func (v *ViewState) Clone() ViewState {
	c := *v
	c.History = append([]HistoryPoint(nil), v.History...)
	c.Forecast = v.Forecast.Clone()
	return c
}
