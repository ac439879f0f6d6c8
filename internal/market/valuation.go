package market

import (
	"context"

	"giniguardian/internal/model"
)

// Position is a watchlist entry valued against the live feed.
type Position struct {
	Entry     model.WatchlistEntry `json:"entry"`
	Quote     model.Quote          `json:"quote"`
	Value     float64              `json:"value"`
	Profit    float64              `json:"profit"`
	ProfitPct float64              `json:"profit_pct"`
}

// Value computes current valuations for watchlist entries. Quotes come
// through the cached feed, so a provider outage degrades to stale or
// synthetic prices; unknown symbols keep their book value. The whole
// list always values, so there is no error to return.
func Value(ctx context.Context, feed Feed, entries []model.WatchlistEntry) []Position {
	positions := make([]Position, 0, len(entries))
	for _, entry := range entries {
		quote, err := feed.Quote(ctx, entry.Symbol)
		if err != nil {
			quote = model.Quote{Symbol: entry.Symbol, Name: entry.Name, Price: entry.BuyPrice}
		}

		cost := entry.BuyPrice * entry.Quantity
		value := quote.Price * entry.Quantity
		position := Position{
			Entry:  entry,
			Quote:  quote,
			Value:  value,
			Profit: value - cost,
		}
		if cost > 0 {
			position.ProfitPct = (value - cost) / cost * 100
		}
		positions = append(positions, position)
	}
	return positions
}
