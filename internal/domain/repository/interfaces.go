package repository

import (
	"context"
	"time"

	"PhasePulse/internal/domain/models"
)

// BarSource resolves a trailing window of bars for a symbol, oldest first.
// end is the right edge of the window; the zero value means now. The
// returned window may be shorter than n when the upstream has less history.
type BarSource interface {
	FetchWindow(ctx context.Context, symbol string, n int, g Granularity, end time.Time) ([]models.MarketBar, error)
}

type Metrics interface {
	RecordSignal(symbol string, decision string)
	RecordFallback(symbol string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordDeviation(symbol string, e float64)
	RecordEquilibrium(symbol string, z float64)
}
