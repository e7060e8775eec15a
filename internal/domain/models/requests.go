package models

// Requests for the signal HTTP endpoints. Defined in domain for consistency
// and reuse. Symbol is deliberately unvalidated here: malformed symbols are
// substituted downstream, never rejected.

type SignalRequest struct {
	Symbol      string `query:"symbol" json:"symbol"`
	N           int    `query:"n" json:"n" default:"128" validate:"gte=1,lte=300"`
	Granularity int    `query:"granularity" json:"granularity" default:"3600" validate:"oneof=60 300 900 3600 21600 86400"`
}

type SpectrumRequest struct {
	Symbol      string `query:"symbol" json:"symbol"`
	N           int    `query:"n" json:"n" default:"128" validate:"gte=1,lte=300"`
	Granularity int    `query:"granularity" json:"granularity" default:"3600" validate:"oneof=60 300 900 3600 21600 86400"`
}

type BarsRequest struct {
	Symbol      string `query:"symbol" json:"symbol"`
	N           int    `query:"n" json:"n" default:"128" validate:"gte=1,lte=300"`
	Granularity int    `query:"granularity" json:"granularity" default:"3600" validate:"oneof=60 300 900 3600 21600 86400"`
	End         string `query:"end" json:"end"` // RFC3339 or unix seconds; empty means now
}
