package pattern

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giniguardian/internal/history"
	"giniguardian/internal/model"
)

var now = time.Date(2026, 8, 26, 21, 0, 0, 0, time.UTC)

func detectorWith(t *testing.T, inputs ...timedInput) *Detector {
	t.Helper()
	store, err := history.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, in := range inputs {
		err := store.Append(ctx, &model.Interaction{
			SessionID: "s1",
			InputText: in.text,
			ReplyText: "reply",
			RiskLevel: model.RiskLow,
			Tags:      []model.Category{model.CategoryNeutral},
			CreatedAt: in.at,
		})
		require.NoError(t, err)
	}
	return NewDetector(store)
}

type timedInput struct {
	text string
	at   time.Time
}

func findingOf(findings []Finding, kind Kind) (Finding, bool) {
	for _, f := range findings {
		if f.Kind == kind {
			return f, true
		}
	}
	return Finding{}, false
}

func TestOverTradingBoundary(t *testing.T) {
	ctx := context.Background()

	// 4 consultations in 3 days: not detected.
	var four []timedInput
	for n := 0; n < 4; n++ {
		four = append(four, timedInput{"평범한 질문", now.Add(-time.Duration(n*10) * time.Hour)})
	}
	findings, err := detectorWith(t, four...).Evaluate(ctx, "s1", now)
	require.NoError(t, err)
	_, detected := findingOf(findings, KindOverTrading)
	assert.False(t, detected)

	// Exactly 5 within a 2-day window: detected with count 5.
	var five []timedInput
	for n := 0; n < 5; n++ {
		five = append(five, timedInput{"평범한 질문", now.Add(-time.Duration(n*8) * time.Hour)})
	}
	findings, err = detectorWith(t, five...).Evaluate(ctx, "s1", now)
	require.NoError(t, err)
	f, detected := findingOf(findings, KindOverTrading)
	require.True(t, detected)
	assert.Equal(t, 5, f.Evidence.Count)
	assert.Equal(t, SeverityHigh, f.Severity)
}

func TestRevengeTradingGapBoundary(t *testing.T) {
	ctx := context.Background()

	// Loss-flavored message followed 60 minutes later: detected.
	d := detectorWith(t,
		timedInput{"어제 완전히 털렸어요", now.Add(-60 * time.Minute)},
		timedInput{"다시 들어가도 될까요", now},
	)
	findings, err := d.Evaluate(ctx, "s1", now)
	require.NoError(t, err)
	f, detected := findingOf(findings, KindRevengeTrade)
	require.True(t, detected)
	assert.Equal(t, 60*time.Minute, f.Evidence.Gap)
	assert.Equal(t, SeverityCritical, f.Severity)

	// 61 minutes: not detected.
	d = detectorWith(t,
		timedInput{"어제 완전히 털렸어요", now.Add(-61 * time.Minute)},
		timedInput{"다시 들어가도 될까요", now},
	)
	findings, err = d.Evaluate(ctx, "s1", now)
	require.NoError(t, err)
	_, detected = findingOf(findings, KindRevengeTrade)
	assert.False(t, detected)
}

func TestRevengeTradingNeedsLossFlavor(t *testing.T) {
	d := detectorWith(t,
		timedInput{"날씨 얘기나 하죠", now.Add(-30 * time.Minute)},
		timedInput{"다시 들어가도 될까요", now},
	)
	findings, err := d.Evaluate(context.Background(), "s1", now)
	require.NoError(t, err)
	_, detected := findingOf(findings, KindRevengeTrade)
	assert.False(t, detected)
}

func TestLossStreak(t *testing.T) {
	d := detectorWith(t,
		timedInput{"또 손실이에요", now.Add(-5*time.Hour)},
		timedInput{"날씨가 좋네요", now.Add(-4*time.Hour)},
		timedInput{"계좌가 마이너스", now.Add(-3*time.Hour)},
		timedInput{"물렸어요 완전히", now.Add(-26*time.Hour)},
		timedInput{"오늘 점심 뭐 먹지", now},
	)
	findings, err := d.Evaluate(context.Background(), "s1", now)
	require.NoError(t, err)
	f, detected := findingOf(findings, KindLossStreak)
	require.True(t, detected)
	assert.Equal(t, 3, f.Evidence.Count)
}

func TestFOMOStreakLastThreeOnly(t *testing.T) {
	// Two FOMO inputs among the last three: detected.
	d := detectorWith(t,
		timedInput{"급등 놓쳤어요", now.Add(-3*time.Hour)},
		timedInput{"나만 없어 이 주식", now.Add(-2*time.Hour)},
		timedInput{"평범한 질문", now},
	)
	findings, err := d.Evaluate(context.Background(), "s1", now)
	require.NoError(t, err)
	f, detected := findingOf(findings, KindFOMOStreak)
	require.True(t, detected)
	assert.Equal(t, 2, f.Evidence.Count)
	assert.Equal(t, SeverityMid, f.Severity)

	// FOMO inputs older than the 3-message window do not count.
	d = detectorWith(t,
		timedInput{"급등 놓쳤어요", now.Add(-5*time.Hour)},
		timedInput{"나만 없어 이 주식", now.Add(-4*time.Hour)},
		timedInput{"평범한 질문 1", now.Add(-2*time.Hour)},
		timedInput{"평범한 질문 2", now.Add(-time.Hour)},
		timedInput{"평범한 질문 3", now},
	)
	findings, err = d.Evaluate(context.Background(), "s1", now)
	require.NoError(t, err)
	_, detected = findingOf(findings, KindFOMOStreak)
	assert.False(t, detected)
}

func TestSeverityOrdering(t *testing.T) {
	// Trip revenge (critical), over-trading (high) and FOMO (mid) at once.
	inputs := []timedInput{
		{"나만 없어서 급등주 사고 싶어요", now.Add(-30 * time.Minute)},
		{"털렸어요 다 잃었어요", now.Add(-10 * time.Minute)},
		{"놓치기 전에 사야 하나요", now},
		{"평범한 질문 1", now.Add(-20 * time.Hour)},
		{"평범한 질문 2", now.Add(-40 * time.Hour)},
	}
	findings, err := detectorWith(t, inputs...).Evaluate(context.Background(), "s1", now)
	require.NoError(t, err)
	require.NotEmpty(t, findings)

	for i := 1; i < len(findings); i++ {
		assert.LessOrEqual(t,
			severityRank[findings[i-1].Severity],
			severityRank[findings[i].Severity],
			"findings must be ordered most severe first")
	}
	assert.Equal(t, KindRevengeTrade, findings[0].Kind)
}
