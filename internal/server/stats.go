package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tikitak-server/internal/tictactoe"
)

// MatchStore records finished-match outcomes in Postgres. Rooms
// themselves are never persisted; only terminal results leave the
// process, and recording is best-effort so a database hiccup can never
// surface to players.
type MatchStore struct {
	pool *pgxpool.Pool
}

const matchSchema = `
CREATE TABLE IF NOT EXISTS match_results (
	id            BIGSERIAL PRIMARY KEY,
	room_id       TEXT        NOT NULL,
	is_tournament BOOLEAN     NOT NULL,
	winner        TEXT,
	draw          BOOLEAN     NOT NULL,
	players       JSONB       NOT NULL,
	finished_at   TIMESTAMPTZ NOT NULL
)`

// NewMatchStore connects to dsn and ensures the results table exists.
func NewMatchStore(ctx context.Context, dsn string) (*MatchStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect match store: %w", err)
	}
	if _, err := pool.Exec(ctx, matchSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init match store schema: %w", err)
	}
	return &MatchStore{pool: pool}, nil
}

// MatchResult is one finished game. Winner is nil on a draw.
type MatchResult struct {
	RoomID       string
	IsTournament bool
	Winner       *tictactoe.Symbol
	Draw         bool
	Players      []string
	FinishedAt   time.Time
}

// Record inserts one result row.
func (s *MatchStore) Record(ctx context.Context, result MatchResult) error {
	players, err := json.Marshal(result.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}

	var winner *string
	if result.Winner != nil {
		w := string(*result.Winner)
		winner = &w
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO match_results (room_id, is_tournament, winner, draw, players, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		result.RoomID, result.IsTournament, winner, result.Draw, players, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match result: %w", err)
	}
	return nil
}

// RecentResults returns the most recently finished matches, newest first.
func (s *MatchStore) RecentResults(ctx context.Context, limit int) ([]MatchResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT room_id, is_tournament, winner, draw, players, finished_at
		FROM match_results
		ORDER BY finished_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query match results: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var (
			result  MatchResult
			winner  *string
			players []byte
		)
		if err := rows.Scan(&result.RoomID, &result.IsTournament, &winner, &result.Draw, &players, &result.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match result: %w", err)
		}
		if winner != nil {
			symbol := tictactoe.Symbol(*winner)
			result.Winner = &symbol
		}
		if err := json.Unmarshal(players, &result.Players); err != nil {
			return nil, fmt.Errorf("decode players: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match results: %w", err)
	}
	return results, nil
}

// Close releases the connection pool.
func (s *MatchStore) Close() {
	s.pool.Close()
}

// matchResult captures a room's terminal outcome for the recorder.
// Caller must hold r.mu.
func (r *Room) matchResult(winner *tictactoe.Symbol) MatchResult {
	players := make([]string, 0, len(r.Assignments))
	for playerID := range r.Assignments {
		players = append(players, r.Participants[playerID].Nickname)
	}
	sort.Strings(players)

	return MatchResult{
		RoomID:       r.ID,
		IsTournament: r.IsTournament,
		Winner:       winner,
		Draw:         winner == nil,
		Players:      players,
		FinishedAt:   time.Now(),
	}
}
