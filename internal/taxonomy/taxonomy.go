package taxonomy

import (
	"strings"

	"giniguardian/internal/model"
)

// Triggers maps each category to its literal trigger substrings. The
// lists mix colloquial Korean trading slang with English forms, carried
// over from the original warning dictionary. Matching is case-sensitive
// substring containment with no word-boundary checks: a trigger embedded
// in a longer word still fires. That is intentional behavior, not a bug
// to fix here.
var Triggers = map[model.Category][]string{
	model.CategoryGreed: {
		"몰빵", "올인", "풀매수", "대박", "한방", "따상", "all-in",
	},
	model.CategoryDespair: {
		"포기", "끝났", "망했", "희망이 없", "의미 없", "살기 싫",
	},
	model.CategoryImpulse: {
		"지금 당장", "사야겠", "사야 해", "질러", "빚투", "레버리지", "물타기", "단타",
	},
	model.CategoryFOMO: {
		"놓치", "나만 없", "남들은", "다들 샀", "급등", "지금 안 사면", "fomo", "FOMO",
	},
	model.CategoryPanic: {
		"폭락", "무서", "손절", "패닉", "떨어지고", "공포",
	},
	model.CategoryAnger: {
		"털렸", "빡치", "화가 나", "짜증", "열받",
	},
	model.CategoryLoss: {
		"손실", "잃었", "털렸", "마이너스", "물렸", "깡통", "반토막",
	},
	model.CategoryAnxiety: {
		"불안", "걱정", "잠이 안", "잠도 안", "초조",
	},
}

// HighRisk lists the categories that force a hard block, in template
// precedence order: when several match, the first one here picks the
// intervention template.
var HighRisk = []model.Category{
	model.CategoryGreed,
	model.CategoryDespair,
	model.CategoryImpulse,
	model.CategoryFOMO,
	model.CategoryPanic,
}

// Tagger classifies free text against the trigger table.
type Tagger struct {
	triggers map[model.Category][]string
}

// NewTagger creates a tagger over the default trigger table.
func NewTagger() *Tagger {
	return &Tagger{triggers: Triggers}
}

// Tag returns every category with at least one trigger occurring in
// text, in the fixed model.Categories order. Categories match
// independently, so one input can carry several tags. When nothing
// matches the result is the single neutral sentinel; the tag set is
// never empty. Pure, no side effects, no input length limit.
func (t *Tagger) Tag(text string) []model.Category {
	var tags []model.Category
	for _, category := range model.Categories {
		for _, trigger := range t.triggers[category] {
			if strings.Contains(text, trigger) {
				tags = append(tags, category)
				break
			}
		}
	}

	if len(tags) == 0 {
		return []model.Category{model.CategoryNeutral}
	}
	return tags
}

// HasLoss reports whether text carries a loss-flavored trigger. Used by
// the revenge-trading and loss-streak detectors.
func HasLoss(text string) bool {
	return matchesCategory(text, model.CategoryLoss)
}

// HasFOMO reports whether text carries a FOMO trigger.
func HasFOMO(text string) bool {
	return matchesCategory(text, model.CategoryFOMO)
}

func matchesCategory(text string, category model.Category) bool {
	for _, trigger := range Triggers[category] {
		if strings.Contains(text, trigger) {
			return true
		}
	}
	return false
}

// FirstHighRisk returns the highest-precedence high-risk category in
// tags, or neutral when none is present.
func FirstHighRisk(tags []model.Category) (model.Category, bool) {
	for _, hr := range HighRisk {
		for _, tag := range tags {
			if tag == hr {
				return hr, true
			}
		}
	}
	return model.CategoryNeutral, false
}
