// Package intervention decides how a consultation reply is delivered:
// passed through untouched, wrapped in a severity-scaled warning banner,
// or withheld behind a hard confirmation gate.
package intervention

import (
	"giniguardian/internal/model"
	"giniguardian/internal/taxonomy"
)

// Mode is the delivery decision for a single consultation.
type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeSoftWarning Mode = "soft_warning"
	ModeHardBlock   Mode = "hard_block"
)

// Decision carries the selected mode plus its presentation payload.
// Template is set only for hard blocks, Banner only for soft warnings.
type Decision struct {
	Mode     Mode
	Category model.Category
	Template *Template
	Banner   string
}

// Soft warning banners, two fixed variants.
const (
	BannerStrong = "🚨 지금 감정 상태가 매우 불안정합니다. 오늘은 매매 버튼에서 손을 떼세요."
	BannerMild   = "⚠️ 위험 신호가 감지됐어요. 주문 전에 한 번만 더 생각해 보세요."
)

// Select maps a tag set and risk level to a delivery decision. Any
// high-risk tag forces a hard block regardless of the numeric level;
// the template is keyed by the highest-precedence matching tag.
func Select(tags []model.Category, level model.RiskLevel) Decision {
	if category, ok := taxonomy.FirstHighRisk(tags); ok {
		return Decision{
			Mode:     ModeHardBlock,
			Category: category,
			Template: TemplateFor(category),
		}
	}

	switch level {
	case model.RiskHigh:
		return Decision{Mode: ModeSoftWarning, Banner: BannerStrong}
	case model.RiskMid:
		return Decision{Mode: ModeSoftWarning, Banner: BannerMild}
	default:
		return Decision{Mode: ModeNormal}
	}
}
