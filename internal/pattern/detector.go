// Package pattern flags meta-behaviors over the interaction log:
// over-trading, revenge-trading, loss streaks and FOMO streaks. Every
// detector is a read-only query evaluated on demand.
package pattern

import (
	"context"
	"fmt"
	"sort"
	"time"

	"giniguardian/internal/history"
	"giniguardian/internal/model"
	"giniguardian/internal/taxonomy"
)

// Kind identifies a detector.
type Kind string

const (
	KindOverTrading  Kind = "over_trading"
	KindRevengeTrade Kind = "revenge_trading"
	KindLossStreak   Kind = "loss_streak"
	KindFOMOStreak   Kind = "fomo_streak"
)

// Severity orders detected findings for display.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMid      Severity = "mid"
)

// Fixed detection thresholds.
const (
	overTradingWindow = 72 * time.Hour
	overTradingCount  = 5
	revengeGap        = time.Hour
	lossStreakWindow  = 5
	lossStreakCount   = 3
	fomoStreakWindow  = 3
	fomoStreakCount   = 2
)

// Evidence carries the numbers behind a finding.
type Evidence struct {
	Count  int           `json:"count,omitempty"`
	Window time.Duration `json:"window,omitempty"`
	Gap    time.Duration `json:"gap,omitempty"`
}

// Finding is one detector's structured result.
type Finding struct {
	Kind     Kind     `json:"kind"`
	Detected bool     `json:"detected"`
	Severity Severity `json:"severity"`
	Evidence Evidence `json:"evidence"`
	Message  string   `json:"message"`
}

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMid:      2,
}

// Detector evaluates all pattern queries against a store.
type Detector struct {
	store history.Store
}

func NewDetector(store history.Store) *Detector {
	return &Detector{store: store}
}

// Evaluate runs every detector and returns the detected findings
// ordered by severity: revenge-trading first, FOMO streak last.
func (d *Detector) Evaluate(ctx context.Context, sessionID string, now time.Time) ([]Finding, error) {
	recent, err := d.store.Recent(ctx, sessionID, lossStreakWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent interactions: %w", err)
	}

	count, err := d.store.CountSince(ctx, sessionID, now.Add(-overTradingWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}

	all := []Finding{
		overTrading(count),
		revengeTrading(recent),
		lossStreak(recent),
		fomoStreak(recent),
	}

	var detected []Finding
	for _, f := range all {
		if f.Detected {
			detected = append(detected, f)
		}
	}
	sort.SliceStable(detected, func(i, j int) bool {
		return severityRank[detected[i].Severity] < severityRank[detected[j].Severity]
	})
	return detected, nil
}

// overTrading fires on 5 or more consultations inside 3 days.
func overTrading(count int) Finding {
	f := Finding{
		Kind:     KindOverTrading,
		Severity: SeverityHigh,
		Evidence: Evidence{Count: count, Window: overTradingWindow},
	}
	if count >= overTradingCount {
		f.Detected = true
		f.Message = fmt.Sprintf("3일 동안 %d번 상담했습니다. 과잉매매 패턴입니다. 이번 주는 관망이 답일 수 있어요.", count)
	}
	return f
}

// revengeTrading fires when a loss-flavored message is followed by
// another consultation within one hour. recent is newest first; exactly
// 60 minutes still counts, 61 does not.
func revengeTrading(recent []model.Interaction) Finding {
	f := Finding{Kind: KindRevengeTrade, Severity: SeverityCritical}
	if len(recent) < 2 {
		return f
	}

	newer, older := recent[0], recent[1]
	gap := newer.CreatedAt.Sub(older.CreatedAt)
	f.Evidence.Gap = gap

	if taxonomy.HasLoss(older.InputText) && gap <= revengeGap {
		f.Detected = true
		f.Message = "손실 직후 바로 다음 매매를 고민하고 있네요. 복수매매는 손실을 두 배로 만듭니다."
	}
	return f
}

// lossStreak fires when 3 of the last 5 inputs are loss-flavored.
func lossStreak(recent []model.Interaction) Finding {
	f := Finding{Kind: KindLossStreak, Severity: SeverityHigh}
	count := 0
	for _, i := range recent {
		if taxonomy.HasLoss(i.InputText) {
			count++
		}
	}
	f.Evidence.Count = count
	if count >= lossStreakCount {
		f.Detected = true
		f.Message = fmt.Sprintf("최근 5번 중 %d번이 손실 이야기입니다. 연속 손실 중에는 쉬는 것도 전략입니다.", count)
	}
	return f
}

// fomoStreak fires when 2 of the last 3 inputs carry FOMO triggers.
func fomoStreak(recent []model.Interaction) Finding {
	f := Finding{Kind: KindFOMOStreak, Severity: SeverityMid}
	window := recent
	if len(window) > fomoStreakWindow {
		window = window[:fomoStreakWindow]
	}

	count := 0
	for _, i := range window {
		if taxonomy.HasFOMO(i.InputText) {
			count++
		}
	}
	f.Evidence.Count = count
	if count >= fomoStreakCount {
		f.Detected = true
		f.Message = "놓칠까 봐 조급해하는 질문이 반복되고 있어요. 남의 수익은 내 손실의 이유가 되지 않습니다."
	}
	return f
}
