package models

// MarketBar is a single fixed-resolution market observation. Windows are
// ordered oldest first and never mutated after acquisition.
type MarketBar struct {
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`
}

// BarWindow is a resolved trailing window for one symbol, as served to the
// chart endpoint.
type BarWindow struct {
	Symbol      string      `json:"symbol"`
	Granularity int         `json:"granularity"` // seconds per bar
	Bars        []MarketBar `json:"bars"`
	IsLiveData  bool        `json:"is_live_data"`
}

// Closes extracts the close series from a window, oldest first.
func Closes(bars []MarketBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume series from a window, oldest first.
func Volumes(bars []MarketBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
