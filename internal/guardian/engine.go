// Package guardian is the top-level consultation flow: tag the input,
// score it, run the pattern detectors, pick an intervention, persist
// the interaction, and hand a structured result to the presentation
// layer.
package guardian

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"giniguardian/internal/history"
	"giniguardian/internal/intervention"
	"giniguardian/internal/llm"
	"giniguardian/internal/logger"
	"giniguardian/internal/model"
	"giniguardian/internal/pattern"
	"giniguardian/internal/risk"
	"giniguardian/internal/taxonomy"
)

// ErrEmptyInput rejects blank submissions before any processing;
// nothing is logged for them.
var ErrEmptyInput = errors.New("empty input")

// serviceDownReply is the clearly labeled stand-in shown when the
// generation service fails. Tagging, scoring and logging still run.
const serviceDownReply = "[상담 서비스 오류] 지금은 AI 조언을 불러올 수 없어요. 잠시 후 다시 시도해 주세요. 급한 매매 결정이라면, 연결이 안 되는 지금이 오히려 멈출 기회입니다."

// SessionContext carries per-call session state explicitly; the engine
// holds no ambient session globals.
type SessionContext struct {
	SessionID string
	Now       func() time.Time
}

func (s SessionContext) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Consultation is the structured result of one submission.
type Consultation struct {
	Reply        string
	Tags         []model.Category
	EmotionScore float64
	Risk         float64
	Level        model.RiskLevel
	Mode         intervention.Mode
	Banner       string
	Gate         *intervention.Gate
	Findings     []pattern.Finding
	ServiceDown  bool
}

// Engine wires the pipeline components.
type Engine struct {
	tagger   *taxonomy.Tagger
	scorer   *risk.Scorer
	advisor  llm.Advisor
	store    history.Store
	detector *pattern.Detector
}

func NewEngine(tagger *taxonomy.Tagger, scorer *risk.Scorer, advisor llm.Advisor, store history.Store) *Engine {
	return &Engine{
		tagger:   tagger,
		scorer:   scorer,
		advisor:  advisor,
		store:    store,
		detector: pattern.NewDetector(store),
	}
}

// Consult processes one user submission end to end. Each submission is
// handled synchronously and completely before the next is accepted.
func (e *Engine) Consult(ctx context.Context, session SessionContext, text string) (*Consultation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	// Tagging never depends on the generation service.
	tags := e.tagger.Tag(text)

	emotionScore := risk.DefaultEmotionScore
	reply := serviceDownReply
	serviceDown := false

	generated, err := e.advisor.Advise(ctx, session.SessionID, text)
	if err != nil {
		serviceDown = true
		logger.Warn().Err(err).Str("session_id", session.SessionID).Msg("advice generation failed")
	} else {
		if parsed, err := risk.ParseEmotionScore(generated); err != nil {
			logger.Debug().Err(err).Msg("emotion score marker missing, using default")
		} else {
			emotionScore = parsed
		}
		reply = risk.StripMarker(generated)
	}

	score := e.scorer.Score(emotionScore)
	level := e.scorer.LevelFor(score)

	interaction := &model.Interaction{
		SessionID:    session.SessionID,
		InputText:    text,
		ReplyText:    reply,
		EmotionScore: emotionScore,
		Risk:         score,
		RiskLevel:    level,
		Tags:         tags,
		CreatedAt:    session.now(),
	}
	if err := e.store.Append(ctx, interaction); err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}

	// Detectors run over the log including this consultation.
	findings, err := e.detector.Evaluate(ctx, session.SessionID, session.now())
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate patterns: %w", err)
	}

	result := &Consultation{
		Tags:         tags,
		EmotionScore: emotionScore,
		Risk:         score,
		Level:        level,
		Findings:     findings,
		ServiceDown:  serviceDown,
	}

	decision := intervention.Select(tags, level)
	result.Mode = decision.Mode
	switch decision.Mode {
	case intervention.ModeHardBlock:
		// The advice is withheld until the gate resolves.
		result.Gate = intervention.NewGate(decision.Template, reply)
	case intervention.ModeSoftWarning:
		result.Banner = decision.Banner
		result.Reply = reply
	default:
		result.Reply = reply
	}

	logger.Info().
		Str("session_id", session.SessionID).
		Str("mode", string(decision.Mode)).
		Str("risk_level", string(level)).
		Float64("risk", score).
		Int("findings", len(findings)).
		Msg("consultation processed")

	return result, nil
}

// ResolveGate records how a hard block ended so the outcome shows up
// in the behavior aggregates.
func (e *Engine) ResolveGate(ctx context.Context, session SessionContext, gate *intervention.Gate) error {
	outcome, resolved := gate.Resolved()
	if !resolved {
		return fmt.Errorf("gate is not resolved")
	}
	return e.store.RecordOutcome(ctx, session.SessionID, string(outcome), session.now())
}

// WorstMoments returns the session's highest-risk consultations.
func (e *Engine) WorstMoments(ctx context.Context, session SessionContext) ([]model.DangerousMoment, error) {
	return e.store.TopDangerous(ctx, session.SessionID, 5)
}
