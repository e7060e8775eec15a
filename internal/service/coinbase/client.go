package coinbase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"PhasePulse/internal/domain/models"
	"PhasePulse/internal/domain/repository"
	"PhasePulse/internal/service/ratelimit"
	"PhasePulse/pkg/breaker"
	xhttp "PhasePulse/pkg/http"
	"PhasePulse/pkg/logger"
)

const limiterKey = "coinbase"

// Client fetches candle windows from the Coinbase Exchange REST API.
type Client struct {
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	brk     *breaker.Breaker
	logger  *logger.Logger
}

// New creates a Coinbase candle source.
func New(baseURL string, timeout time.Duration, lim *ratelimit.Limiter, brk *breaker.Breaker, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithUserAgent("phasepulse/1.0"),
		),
		limiter: lim,
		brk:     brk,
		logger:  log,
	}
}

// FetchWindow implements repository.BarSource. Candle rows arrive as
// [time, low, high, open, close, volume] with the newest row first; the
// returned window is oldest first. A zero end time means "up to now" and
// lets the API pick its own range.
func (c *Client) FetchWindow(ctx context.Context, symbol string, n int, g repository.Granularity, end time.Time) ([]models.MarketBar, error) {
	if n <= 0 {
		return nil, fmt.Errorf("coinbase candles %s: invalid window size %d", symbol, n)
	}

	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := map[string][]string{
		"granularity": {strconv.Itoa(int(g))},
	}
	if !end.IsZero() {
		start := end.Add(-time.Duration(n) * g.Duration())
		params["start"] = []string{start.UTC().Format(time.RFC3339)}
		params["end"] = []string{end.UTC().Format(time.RFC3339)}
	}

	var rows [][]float64
	_, err := c.brk.Execute(func() (interface{}, error) {
		reqErr := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         fmt.Sprintf("%s/products/%s/candles", c.baseURL, symbol),
			QueryParams: params,
		}, &rows)
		return nil, reqErr
	})
	if err != nil {
		return nil, fmt.Errorf("coinbase candles %s: %w", symbol, err)
	}

	if len(rows) > n {
		rows = rows[:n]
	}

	bars := make([]models.MarketBar, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < 6 {
			continue
		}
		bars = append(bars, models.MarketBar{
			Low:    row[1],
			High:   row[2],
			Close:  row[4],
			Volume: row[5],
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("coinbase candles %s: empty window", symbol)
	}

	c.logger.Debug("candle window fetched",
		logger.String("symbol", symbol),
		logger.Int("bars", len(bars)),
		logger.Int("granularity", int(g)),
	)
	return bars, nil
}
