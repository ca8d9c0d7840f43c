package collector

import (
	"context"
	"errors"
	"time"

	"ETFSwitch/internal/model"
)

// ErrDataUnavailable is returned when price history cannot be retrieved or parsed.
var ErrDataUnavailable = errors.New("price data unavailable")

// Fetcher defines the interface for retrieving daily bars.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error)
	Name() string
}
