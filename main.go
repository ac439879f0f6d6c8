package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"giniguardian/internal/config"
	"giniguardian/internal/guardian"
	"giniguardian/internal/history"
	"giniguardian/internal/intervention"
	"giniguardian/internal/llm"
	"giniguardian/internal/logger"
	"giniguardian/internal/market"
	"giniguardian/internal/model"
	"giniguardian/internal/session"
	"giniguardian/internal/taxonomy"

	riskpkg "giniguardian/internal/risk"
)

const stopWord = "그만"

func main() {
	// .env is optional outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := history.OpenSQLite(cfg.Store.Path)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open history store")
		os.Exit(1)
	}
	defer store.Close()

	sessions, redisClient := buildSessionRepo(ctx, time.Duration(cfg.Session.TTLSeconds)*time.Second)

	var feed market.Feed = market.StubFeed{}
	if redisClient != nil {
		feed = market.NewCachedFeed(market.StubFeed{}, redisClient,
			time.Duration(cfg.Market.CacheTTLSeconds)*time.Second)
	}

	advisor, err := llm.NewChatAdvisor(ctx, cfg.LLM, sessions, session.NewRecentStrategy(cfg.Session.MaxTurns))
	if err != nil {
		logger.Error().Err(err).Msg("failed to create advisor")
		os.Exit(1)
	}

	engine := guardian.NewEngine(
		taxonomy.NewTagger(),
		riskpkg.NewScorer(cfg.Risk),
		advisor,
		store,
	)

	sess := guardian.SessionContext{SessionID: uuid.NewString()}

	fmt.Println("🛡️  GINI GUARDIAN — 과도한 투자로부터 당신을 지키는 AI 친구")
	fmt.Println("질문을 입력하세요. 명령: /watch add|list|rm, /price, /moments, /quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return
		case strings.HasPrefix(line, "/watch"):
			handleWatch(ctx, store, feed, line)
		case strings.HasPrefix(line, "/price"):
			handlePrice(ctx, feed, line)
		case line == "/moments":
			handleMoments(ctx, engine, sess)
		default:
			consult(ctx, engine, sess, scanner, line)
		}
	}
}

func buildSessionRepo(ctx context.Context, ttl time.Duration) (session.Repository, *redis.Client) {
	repo, err := session.NewRedisRepository(ctx, ttl)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory session context")
		return session.NewMemoryRepository(), nil
	}
	return repo, repo.Client()
}

func consult(ctx context.Context, engine *guardian.Engine, sess guardian.SessionContext, scanner *bufio.Scanner, text string) {
	result, err := engine.Consult(ctx, sess, text)
	if err != nil {
		if errors.Is(err, guardian.ErrEmptyInput) {
			fmt.Println("메시지를 입력해주세요.")
			return
		}
		fmt.Printf("오류: %v\n", err)
		return
	}

	for _, finding := range result.Findings {
		fmt.Printf("⚠️  [%s] %s\n", finding.Severity, finding.Message)
	}

	switch result.Mode {
	case intervention.ModeHardBlock:
		runGate(ctx, engine, sess, scanner, result.Gate)
	case intervention.ModeSoftWarning:
		fmt.Println(result.Banner)
		fmt.Println(result.Reply)
	default:
		fmt.Println(result.Reply)
	}

	fmt.Printf("(감정 %.1f · 위험도 %.2f · %s)\n", result.EmotionScore, result.Risk, result.Level)
}

// runGate drives the hard block loop: the advice stays withheld until
// the user either types the unlock phrase verbatim or gives up.
func runGate(ctx context.Context, engine *guardian.Engine, sess guardian.SessionContext, scanner *bufio.Scanner, gate *intervention.Gate) {
	t := gate.Template()
	fmt.Println(t.Title)
	for _, p := range t.Body {
		fmt.Println(p)
	}
	fmt.Println("지금 할 수 있는 것:")
	for _, a := range t.Actions {
		fmt.Println("  - " + a)
	}

	for {
		fmt.Printf("그래도 진행하려면 '%s'를 정확히 입력하세요. 멈추려면 '%s'.\n> ", t.UnlockPhrase, stopWord)
		if !scanner.Scan() {
			gate.Stop()
			break
		}
		entry := scanner.Text()

		if strings.TrimSpace(entry) == stopWord {
			gate.Stop()
			fmt.Println("잘 멈췄습니다. 오늘의 최고 수익은 하지 않은 매매입니다.")
			break
		}

		if err := gate.Attempt(entry); err != nil {
			fmt.Println("문구가 일치하지 않습니다. 다시 입력해 주세요.")
			continue
		}

		reply, err := gate.Proceed()
		if err != nil {
			continue
		}
		fmt.Println("기록해 둘게요: 경고를 읽고도 진행을 선택하셨습니다.")
		fmt.Println(reply)
		break
	}

	if err := engine.ResolveGate(ctx, sess, gate); err != nil {
		logger.Warn().Err(err).Msg("failed to record gate outcome")
	}
}

func handleWatch(ctx context.Context, store history.Store, feed market.Feed, line string) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		fmt.Println("사용법: /watch add <심볼> <이름> <매수가> <수량> | /watch list | /watch rm <심볼>")
		return
	}

	switch fields[1] {
	case "add":
		if len(fields) != 6 {
			fmt.Println("사용법: /watch add <심볼> <이름> <매수가> <수량>")
			return
		}
		price, err1 := strconv.ParseFloat(fields[4], 64)
		qty, err2 := strconv.ParseFloat(fields[5], 64)
		if err1 != nil || err2 != nil {
			fmt.Println("매수가와 수량은 숫자로 입력해 주세요.")
			return
		}
		entry := model.WatchlistEntry{Symbol: fields[2], Name: fields[3], BuyPrice: price, Quantity: qty}
		if err := store.AddWatch(ctx, entry); err != nil {
			fmt.Printf("추가 실패: %v\n", err)
			return
		}
		fmt.Printf("%s 추가됨\n", fields[2])

	case "list":
		entries, err := store.ListWatch(ctx)
		if err != nil {
			fmt.Printf("조회 실패: %v\n", err)
			return
		}
		for _, p := range market.Value(ctx, feed, entries) {
			fmt.Printf("%s (%s): 현재가 %.0f · 평가액 %.0f · 손익 %+.1f%%\n",
				p.Entry.Name, p.Entry.Symbol, p.Quote.Price, p.Value, p.ProfitPct)
		}

	case "rm":
		if len(fields) != 3 {
			fmt.Println("사용법: /watch rm <심볼>")
			return
		}
		if err := store.RemoveWatch(ctx, fields[2]); err != nil {
			fmt.Printf("삭제 실패: %v\n", err)
			return
		}
		fmt.Printf("%s 삭제됨\n", fields[2])
	}
}

func handlePrice(ctx context.Context, feed market.Feed, line string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		fmt.Println("사용법: /price <종목명>")
		return
	}

	symbol, confidence, ok := market.Correct(fields[1])
	if !ok {
		symbol = fields[1]
	} else if confidence < 1.0 {
		fmt.Printf("'%s'(으)로 찾았어요 (확신도 %.0f%%)\n", symbol, confidence*100)
	}

	quote, err := feed.Quote(ctx, symbol)
	if err != nil {
		fmt.Printf("시세를 찾을 수 없습니다: %v\n", err)
		return
	}
	fmt.Printf("%s: %.2f (%+.2f%%)\n", quote.Name, quote.Price, quote.ChangePct)
}

func handleMoments(ctx context.Context, engine *guardian.Engine, sess guardian.SessionContext) {
	moments, err := engine.WorstMoments(ctx, sess)
	if err != nil {
		fmt.Printf("조회 실패: %v\n", err)
		return
	}
	if len(moments) == 0 {
		fmt.Println("아직 고위험 순간이 없습니다. 계속 그렇게만 하세요.")
		return
	}
	for _, m := range moments {
		fmt.Printf("[위험 %.2f] %s — %s\n", m.Risk, m.CreatedAt.Format("01/02 15:04"), m.InputText)
	}
}
