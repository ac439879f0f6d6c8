package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"giniguardian/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and runs
// migrations. Use "file::memory:?cache=shared" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer keeps "most recent N" well-defined if a second
	// session ever shares the file.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ====================== Writes ======================

func (s *SQLiteStore) Append(ctx context.Context, interaction *model.Interaction) error {
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}
	if len(interaction.Tags) == 0 {
		interaction.Tags = []model.Category{model.CategoryNeutral}
	}

	tags, err := sonic.MarshalString(interaction.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO interactions
			(session_id, input_text, reply_text, emotion_score, risk, risk_level, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		interaction.SessionID, interaction.InputText, interaction.ReplyText,
		interaction.EmotionScore, interaction.Risk, string(interaction.RiskLevel),
		tags, interaction.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read insert id: %w", err)
	}
	interaction.ID = id

	// Only high-risk records are ever copied to dangerous_moments.
	if interaction.RiskLevel == model.RiskHigh {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO dangerous_moments
				(interaction_id, session_id, input_text, risk, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			id, interaction.SessionID, interaction.InputText,
			interaction.Risk, interaction.CreatedAt.UnixNano(),
		); err != nil {
			return fmt.Errorf("failed to insert dangerous moment: %w", err)
		}
	}

	if err := upsertOccurrence(ctx, tx, interaction.SessionID, "consultation", interaction.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) RecordOutcome(ctx context.Context, sessionID, label string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertOccurrence(ctx, tx, sessionID, label, at); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertOccurrence(ctx context.Context, tx *sql.Tx, sessionID, label string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO pattern_occurrences (session_id, hour, weekday, label, count, last_seen)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(session_id, hour, weekday, label)
		DO UPDATE SET count = count + 1, last_seen = excluded.last_seen`,
		sessionID, at.Hour(), int(at.Weekday()), label, at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pattern occurrence: %w", err)
	}
	return nil
}

// ====================== Reads ======================

func (s *SQLiteStore) Recent(ctx context.Context, sessionID string, n int) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, input_text, reply_text, emotion_score, risk, risk_level, tags, created_at
		FROM interactions
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		sessionID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent interactions: %w", err)
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, interaction)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) TopDangerous(ctx context.Context, sessionID string, limit int) ([]model.DangerousMoment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT interaction_id, session_id, input_text, risk, created_at
		FROM dangerous_moments
		WHERE session_id = ?
		ORDER BY risk DESC, created_at DESC
		LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query dangerous moments: %w", err)
	}
	defer rows.Close()

	var out []model.DangerousMoment
	for rows.Next() {
		var m model.DangerousMoment
		var createdAt int64
		if err := rows.Scan(&m.InteractionID, &m.SessionID, &m.InputText, &m.Risk, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan dangerous moment: %w", err)
		}
		m.CreatedAt = time.Unix(0, createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountSince(ctx context.Context, sessionID string, t time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM interactions
		WHERE session_id = ? AND created_at >= ?`,
		sessionID, t.UnixNano(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) HourlyPattern(ctx context.Context, sessionID string) ([]model.PatternOccurrence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hour, weekday, label, count, last_seen
		FROM pattern_occurrences
		WHERE session_id = ?
		ORDER BY count DESC, hour ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern occurrences: %w", err)
	}
	defer rows.Close()

	var out []model.PatternOccurrence
	for rows.Next() {
		var p model.PatternOccurrence
		var weekday int
		var lastSeen int64
		if err := rows.Scan(&p.Hour, &weekday, &p.Label, &p.Count, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan pattern occurrence: %w", err)
		}
		p.Weekday = time.Weekday(weekday)
		p.LastSeen = time.Unix(0, lastSeen)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ====================== Watchlist ======================

func (s *SQLiteStore) AddWatch(ctx context.Context, entry model.WatchlistEntry) error {
	if strings.TrimSpace(entry.Symbol) == "" || strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: symbol and name are required", ErrInvalidEntry)
	}
	if entry.BuyPrice <= 0 || entry.Quantity <= 0 {
		return fmt.Errorf("%w: buy price and quantity must be positive", ErrInvalidEntry)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watchlist (symbol, name, buy_price, quantity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			buy_price = excluded.buy_price,
			quantity = excluded.quantity`,
		entry.Symbol, entry.Name, entry.BuyPrice, entry.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListWatch(ctx context.Context) ([]model.WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, name, buy_price, quantity FROM watchlist ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	var out []model.WatchlistEntry
	for rows.Next() {
		var e model.WatchlistEntry
		if err := rows.Scan(&e.Symbol, &e.Name, &e.BuyPrice, &e.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) RemoveWatch(ctx context.Context, symbol string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM watchlist WHERE symbol = ?`, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return nil
}

// ====================== Helpers ======================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInteraction(row rowScanner) (model.Interaction, error) {
	var i model.Interaction
	var level, tags string
	var createdAt int64

	if err := row.Scan(&i.ID, &i.SessionID, &i.InputText, &i.ReplyText,
		&i.EmotionScore, &i.Risk, &level, &tags, &createdAt); err != nil {
		return i, fmt.Errorf("failed to scan interaction: %w", err)
	}

	i.RiskLevel = model.RiskLevel(level)
	if err := sonic.UnmarshalString(tags, &i.Tags); err != nil {
		return i, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	i.CreatedAt = time.Unix(0, createdAt)
	return i, nil
}
