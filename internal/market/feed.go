// Package market provides cached access to the external price feed,
// plus ticker-name correction and watchlist valuation. The provider is
// a black box that may disappear at any time; callers always get a
// quote back, even if it has to be stale or synthetic.
package market

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"giniguardian/internal/logger"
	"giniguardian/internal/model"
)

// ErrNotFound means the provider does not know the symbol. This is a
// caller error, not a provider outage, and is never masked by fallback.
var ErrNotFound = errors.New("symbol not found")

const (
	quotePrefix     = "quote:"
	lastKnownPrefix = "quote:last:"
)

// Feed is the price feed contract.
type Feed interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
}

// CachedFeed wraps an upstream Feed with a short Redis TTL cache and a
// last-known/synthetic fallback chain.
type CachedFeed struct {
	upstream Feed
	client   *redis.Client
	ttl      time.Duration
}

func NewCachedFeed(upstream Feed, client *redis.Client, ttl time.Duration) *CachedFeed {
	return &CachedFeed{upstream: upstream, client: client, ttl: ttl}
}

// Quote returns the cached quote when fresh, otherwise refetches.
// Provider failure falls back to the last-known value, then to a
// synthetic quote. It never crashes the caller.
func (f *CachedFeed) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	if quote, ok := f.cached(ctx, quotePrefix+symbol); ok {
		return quote, nil
	}

	quote, err := f.upstream.Quote(ctx, symbol)
	if err == nil {
		f.cache(ctx, symbol, quote)
		return quote, nil
	}
	if errors.Is(err, ErrNotFound) {
		return model.Quote{}, err
	}

	logger.Warn().Err(err).Str("symbol", symbol).Msg("price feed unavailable, using fallback")

	if quote, ok := f.cached(ctx, lastKnownPrefix+symbol); ok {
		return quote, nil
	}
	return syntheticQuote(symbol), nil
}

func (f *CachedFeed) cached(ctx context.Context, key string) (model.Quote, bool) {
	data, err := f.client.Get(ctx, key).Result()
	if err != nil {
		return model.Quote{}, false
	}
	var quote model.Quote
	if err := sonic.UnmarshalString(data, &quote); err != nil {
		return model.Quote{}, false
	}
	return quote, true
}

func (f *CachedFeed) cache(ctx context.Context, symbol string, quote model.Quote) {
	data, err := sonic.MarshalString(quote)
	if err != nil {
		return
	}
	f.client.Set(ctx, quotePrefix+symbol, data, f.ttl)
	// The stale copy never expires; it is the outage fallback.
	f.client.Set(ctx, lastKnownPrefix+symbol, data, 0)
}

// syntheticQuote derives a deterministic stand-in price from the
// symbol so the UI keeps rendering during a provider outage.
func syntheticQuote(symbol string) model.Quote {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	price := 10000 + float64(h.Sum32()%90000)

	return model.Quote{
		Symbol:    symbol,
		Name:      fmt.Sprintf("%s (추정)", symbol),
		Price:     price,
		ChangePct: 0,
		FetchedAt: time.Now(),
	}
}
