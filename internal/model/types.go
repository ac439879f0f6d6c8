package model

import "time"

// ----------------------------------------------------
// ================ Classification ================

// Category is an emotional or behavioral classification assigned to
// user text by keyword matching.
type Category string

const (
	CategoryGreed   Category = "greed"
	CategoryPanic   Category = "panic"
	CategoryImpulse Category = "impulse"
	CategoryFOMO    Category = "fomo"
	CategoryDespair Category = "despair"
	CategoryAnger   Category = "anger"
	CategoryLoss    Category = "loss"
	CategoryAnxiety Category = "anxiety"

	// CategoryNeutral is the sentinel returned when no keyword matched.
	// A tag set is never empty.
	CategoryNeutral Category = "neutral"
)

// Categories lists every known category in the fixed iteration order
// used by the tagger. Neutral is excluded: it is a fallback, not a match.
var Categories = []Category{
	CategoryGreed,
	CategoryDespair,
	CategoryImpulse,
	CategoryFOMO,
	CategoryPanic,
	CategoryAnger,
	CategoryLoss,
	CategoryAnxiety,
}

func (c Category) Valid() bool {
	if c == CategoryNeutral {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// RiskLevel is the discretized bucket derived from the numeric risk score.
type RiskLevel string

const (
	RiskLow  RiskLevel = "low"
	RiskMid  RiskLevel = "mid"
	RiskHigh RiskLevel = "high"
)

// ----------------------------------------------------
// ================ Records ================

// Interaction is one user consultation. Records are append-only: created
// once per consultation, never updated, never deleted.
type Interaction struct {
	ID           int64      `json:"id"`
	SessionID    string     `json:"session_id"`
	InputText    string     `json:"input_text"`
	ReplyText    string     `json:"reply_text"`
	EmotionScore float64    `json:"emotion_score"`
	Risk         float64    `json:"risk"`
	RiskLevel    RiskLevel  `json:"risk_level"`
	Tags         []Category `json:"tags"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DangerousMoment is a denormalized copy of a high-risk interaction,
// kept separately for fast "worst moments" retrieval.
type DangerousMoment struct {
	InteractionID int64     `json:"interaction_id"`
	SessionID     string    `json:"session_id"`
	InputText     string    `json:"input_text"`
	Risk          float64   `json:"risk"`
	CreatedAt     time.Time `json:"created_at"`
}

// PatternOccurrence aggregates recurring consultation behavior by
// hour-of-day, day-of-week and purpose label.
type PatternOccurrence struct {
	Hour     int          `json:"hour"`
	Weekday  time.Weekday `json:"weekday"`
	Label    string       `json:"label"`
	Count    int          `json:"count"`
	LastSeen time.Time    `json:"last_seen"`
}

// WatchlistEntry is a user-held position. Valuation is recomputed on
// read from the price feed, never stored.
type WatchlistEntry struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	BuyPrice float64 `json:"buy_price"`
	Quantity float64 `json:"quantity"`
}

// Quote is a point-in-time price observation for a symbol.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ChangePct float64   `json:"change_pct"`
	FetchedAt time.Time `json:"fetched_at"`
}
