package intervention

import "giniguardian/internal/model"

// Template is the scare-copy shown during a hard block. The user must
// retype UnlockPhrase verbatim before they may proceed anyway.
type Template struct {
	Title        string
	Body         []string
	Actions      []string
	UnlockPhrase string
}

// templates carries the per-category hard block copy. Tone follows the
// original warning dictionary: blunt, personal, no financial hedging.
var templates = map[model.Category]*Template{
	model.CategoryGreed: {
		Title: "🚨 탐욕 경보",
		Body: []string{
			"야 정신차려! 몰빵은 라면에 하고 주식은 분산해라.",
			"한 방을 노리는 순간 계좌는 장례식장으로 간다. 대박 났다는 사람 뒤에는 조용히 사라진 백 명이 있다.",
		},
		Actions: []string{
			"지금 주문창을 닫고 10분만 걸어라",
			"총 자산에서 이 종목 비중을 계산해 봐라",
			"내일 같은 가격이어도 살 건지 적어 봐라",
		},
		UnlockPhrase: "분산투자",
	},
	model.CategoryDespair: {
		Title: "🚨 번아웃 경보",
		Body: []string{
			"끝났다는 말부터 멈춰라. 계좌는 복구되지만 무너진 멘탈은 더 오래 간다.",
			"지금 필요한 건 매매가 아니라 휴식이다.",
		},
		Actions: []string{
			"오늘은 HTS를 끄고 아무것도 하지 마라",
			"신뢰할 수 있는 사람에게 상황을 말해 봐라",
			"손실 금액이 아니라 남은 금액을 적어 봐라",
		},
		UnlockPhrase: "휴식",
	},
	model.CategoryImpulse: {
		Title: "🚨 충동매매 경보",
		Body: []string{
			"지금 당장 사야 하는 주식은 세상에 없다. 물타기는 중독이고, 지금 물타면 더 깊이 빠진다.",
			"빚투는 절대 금지다. 가족들 생각해라 제발.",
		},
		Actions: []string{
			"주문 전에 24시간 대기 규칙을 지켜라",
			"이 매수의 근거를 세 줄로 적어 봐라",
			"레버리지 비율을 지금 확인해라",
		},
		UnlockPhrase: "원칙매매",
	},
	model.CategoryFOMO: {
		Title: "🚨 FOMO 경보",
		Body: []string{
			"남들이 샀다는 게 네가 사야 할 이유는 아니다. 급등한 차트는 이미 네 것이 아니다.",
			"놓친 버스는 보내라. 다음 버스는 반드시 온다.",
		},
		Actions: []string{
			"SNS와 종목 게시판을 1시간 꺼라",
			"그 종목의 한 달 전 가격을 확인해 봐라",
			"추격매수로 이익 본 기억이 있는지 세어 봐라",
		},
		UnlockPhrase: "기다림",
	},
	model.CategoryPanic: {
		Title: "🚨 공황 경보",
		Body: []string{
			"폭락장에서 내린 결정은 대부분 후회로 끝난다. 공포에 파는 사람이 바닥을 만든다.",
			"손절이 필요하면 계획표로 해라. 심장박동으로 하지 말고.",
		},
		Actions: []string{
			"심호흡 열 번, 물 한 잔",
			"매수 당시 적어 둔 시나리오를 다시 읽어라",
			"30분 뒤에도 같은 판단인지 확인해라",
		},
		UnlockPhrase: "침착",
	},
}

// TemplateFor returns the hard block template for a high-risk category.
// Unknown categories fall back to the impulse template so a block is
// never rendered empty.
func TemplateFor(category model.Category) *Template {
	if t, ok := templates[category]; ok {
		return t
	}
	return templates[model.CategoryImpulse]
}
