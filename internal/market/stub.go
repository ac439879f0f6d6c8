package market

import (
	"context"

	"giniguardian/internal/model"
)

// StubFeed is the stand-in provider used when no real market data
// source is wired. Prices are deterministic per symbol.
type StubFeed struct{}

func (StubFeed) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	if symbol == "" {
		return model.Quote{}, ErrNotFound
	}
	return syntheticQuote(symbol), nil
}
