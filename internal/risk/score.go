// Package risk turns an emotion sub-score into the 0-10 weighted risk
// value and its discretized level. The volatility and news sub-scores
// are constant stand-ins so the overall score stays reproducible; they
// exist as extension points, not live inputs.
package risk

import (
	"math"

	"giniguardian/internal/model"
)

// Scorer combines sub-scores via a fixed weighted sum.
type Scorer struct {
	config model.RiskConfig
}

func NewScorer(config model.RiskConfig) *Scorer {
	return &Scorer{config: config}
}

// Score computes clamp(emotion*we + volatility*wv + news*wn, 0, 10)
// rounded to 2 decimal places. The emotion value is clamped to [0,10]
// before weighting; volatility and news come from config.
func (s *Scorer) Score(emotion float64) float64 {
	emotion = clamp(emotion, 0, 10)

	raw := emotion*s.config.EmotionWeight +
		s.config.Volatility*s.config.VolatilityWeight +
		s.config.News*s.config.NewsWeight

	return math.Round(clamp(raw, 0, 10)*100) / 100
}

// LevelFor discretizes a risk score. Thresholds are inclusive on the
// lower bound: exactly 6.5 is high, exactly 5.0 is mid.
func (s *Scorer) LevelFor(score float64) model.RiskLevel {
	switch {
	case score >= s.config.HighThreshold:
		return model.RiskHigh
	case score >= s.config.MidThreshold:
		return model.RiskMid
	default:
		return model.RiskLow
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
