package guardian

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giniguardian/internal/config"
	"giniguardian/internal/history"
	"giniguardian/internal/intervention"
	"giniguardian/internal/model"
	"giniguardian/internal/pattern"
	"giniguardian/internal/risk"
	"giniguardian/internal/taxonomy"
)

// stubAdvisor returns a canned reply or a canned failure.
type stubAdvisor struct {
	reply string
	err   error
	calls int
}

func (s *stubAdvisor) Advise(ctx context.Context, sessionID, userText string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testEngine(t *testing.T, advisor *stubAdvisor) (*Engine, history.Store) {
	t.Helper()
	store, err := history.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	scorer := risk.NewScorer(model.RiskConfig{
		EmotionWeight:    config.DefaultEmotionWeight,
		VolatilityWeight: config.DefaultVolatilityWeight,
		NewsWeight:       config.DefaultNewsWeight,
		Volatility:       config.DefaultVolatility,
		News:             config.DefaultNews,
		HighThreshold:    config.DefaultHighThreshold,
		MidThreshold:     config.DefaultMidThreshold,
	})
	return NewEngine(taxonomy.NewTagger(), scorer, advisor, store), store
}

func session(at time.Time) SessionContext {
	return SessionContext{SessionID: "s1", Now: func() time.Time { return at }}
}

var testNow = time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)

func TestConsultRejectsEmptyInput(t *testing.T) {
	advisor := &stubAdvisor{reply: "조언"}
	engine, store := testEngine(t, advisor)
	ctx := context.Background()

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := engine.Consult(ctx, session(testNow), input)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}

	// Nothing was logged and the service was never called.
	recent, err := store.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
	assert.Zero(t, advisor.calls)
}

func TestConsultNormalFlow(t *testing.T) {
	advisor := &stubAdvisor{reply: "분산 투자부터 생각해 보자.\n[emotion_score: 2.0]"}
	engine, store := testEngine(t, advisor)
	ctx := context.Background()

	result, err := engine.Consult(ctx, session(testNow), "장기 투자 포트폴리오를 짜고 싶어요")
	require.NoError(t, err)

	assert.Equal(t, intervention.ModeNormal, result.Mode)
	assert.Equal(t, []model.Category{model.CategoryNeutral}, result.Tags)
	assert.Equal(t, 2.0, result.EmotionScore)
	// 2*0.5 + 5*0.3 + 3*0.2 = 3.1
	assert.Equal(t, 3.1, result.Risk)
	assert.Equal(t, model.RiskLow, result.Level)
	assert.Equal(t, "분산 투자부터 생각해 보자.", result.Reply)
	assert.False(t, strings.Contains(result.Reply, "emotion_score"))
	assert.Nil(t, result.Gate)

	recent, err := store.Recent(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "분산 투자부터 생각해 보자.", recent[0].ReplyText)
	assert.True(t, recent[0].CreatedAt.Equal(testNow))
}

func TestConsultSoftWarning(t *testing.T) {
	advisor := &stubAdvisor{reply: "진정해. [emotion_score: 9]"}
	engine, _ := testEngine(t, advisor)

	// 9*0.5 + 5*0.3 + 3*0.2 = 6.6 → high → strong banner.
	result, err := engine.Consult(context.Background(), session(testNow), "계좌가 마이너스라 잠이 안 와요")
	require.NoError(t, err)

	assert.Equal(t, intervention.ModeSoftWarning, result.Mode)
	assert.Equal(t, intervention.BannerStrong, result.Banner)
	assert.Equal(t, model.RiskHigh, result.Level)
	assert.NotEmpty(t, result.Reply)
}

func TestConsultHardBlockWithholdsAdvice(t *testing.T) {
	advisor := &stubAdvisor{reply: "그래도 굳이 하겠다면... [emotion_score: 4]"}
	engine, _ := testEngine(t, advisor)

	// Greed + impulse tags; low numeric risk must not matter.
	result, err := engine.Consult(context.Background(), session(testNow), "지금 몰빵해서 다 사야겠어")
	require.NoError(t, err)

	assert.Equal(t, intervention.ModeHardBlock, result.Mode)
	assert.Empty(t, result.Reply, "advice is withheld while the gate is armed")
	require.NotNil(t, result.Gate)

	// Greed outranks impulse for template selection.
	assert.Equal(t, intervention.TemplateFor(model.CategoryGreed), result.Gate.Template())

	// The exact phrase releases the original advice.
	require.Error(t, result.Gate.Attempt("다른 말"))
	require.NoError(t, result.Gate.Attempt("분산투자"))
	reply, err := result.Gate.Proceed()
	require.NoError(t, err)
	assert.Equal(t, "그래도 굳이 하겠다면...", reply)
}

func TestConsultServiceFailureDegradesGracefully(t *testing.T) {
	advisor := &stubAdvisor{err: errors.New("connection refused")}
	engine, store := testEngine(t, advisor)
	ctx := context.Background()

	result, err := engine.Consult(ctx, session(testNow), "오늘 시장 어때요")
	require.NoError(t, err)

	assert.True(t, result.ServiceDown)
	// Labeled error message, never an empty reply.
	assert.Contains(t, result.Reply, "[상담 서비스 오류]")
	// Default emotion 5.0 → 5*0.5+5*0.3+3*0.2 = 4.6 → low.
	assert.Equal(t, 5.0, result.EmotionScore)
	assert.Equal(t, 4.6, result.Risk)
	assert.Equal(t, model.RiskLow, result.Level)

	// The interaction is still recorded.
	recent, err := store.Recent(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 5.0, recent[0].EmotionScore)
}

func TestConsultMissingMarkerUsesDefault(t *testing.T) {
	advisor := &stubAdvisor{reply: "마커 없는 답변"}
	engine, _ := testEngine(t, advisor)

	result, err := engine.Consult(context.Background(), session(testNow), "상담 부탁해요")
	require.NoError(t, err)
	assert.Equal(t, risk.DefaultEmotionScore, result.EmotionScore)
	assert.Equal(t, "마커 없는 답변", result.Reply)
}

func TestConsultDetectsOverTrading(t *testing.T) {
	advisor := &stubAdvisor{reply: "조언 [emotion_score: 1]"}
	engine, _ := testEngine(t, advisor)
	ctx := context.Background()

	// 5 consultations in a 2-day window; the 5th must trip the detector.
	var result *Consultation
	for n := 0; n < 5; n++ {
		at := testNow.Add(time.Duration(n) * 10 * time.Hour)
		var err error
		result, err = engine.Consult(ctx, session(at), "오늘도 매매 상담이요")
		require.NoError(t, err)
	}

	found := false
	for _, f := range result.Findings {
		if f.Kind == pattern.KindOverTrading {
			found = true
			assert.Equal(t, 5, f.Evidence.Count)
		}
	}
	assert.True(t, found, "over-trading must be detected on the 5th consultation")
}

func TestResolveGateRecordsOutcome(t *testing.T) {
	advisor := &stubAdvisor{reply: "조언 [emotion_score: 4]"}
	engine, store := testEngine(t, advisor)
	ctx := context.Background()

	result, err := engine.Consult(ctx, session(testNow), "단타로 질러 볼까")
	require.NoError(t, err)
	require.NotNil(t, result.Gate)

	result.Gate.Stop()
	require.NoError(t, engine.ResolveGate(ctx, session(testNow), result.Gate))

	patterns, err := store.HourlyPattern(ctx, "s1")
	require.NoError(t, err)

	found := false
	for _, p := range patterns {
		if p.Label == string(intervention.OutcomeIntervened) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolveGateRejectsUnresolved(t *testing.T) {
	advisor := &stubAdvisor{reply: "조언"}
	engine, _ := testEngine(t, advisor)

	result, err := engine.Consult(context.Background(), session(testNow), "몰빵 간다")
	require.NoError(t, err)
	require.NotNil(t, result.Gate)

	assert.Error(t, engine.ResolveGate(context.Background(), session(testNow), result.Gate))
}
