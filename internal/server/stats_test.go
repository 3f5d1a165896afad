package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"tikitak-server/internal/tictactoe"
)

// startPostgres spins up a throwaway Postgres and returns a connected
// store. Skipped when Docker is unavailable.
func startPostgres(t *testing.T) *MatchStore {
	t.Helper()
	ctx := context.Background()

	// testcontainers panics (rather than returning an error) when no Docker
	// host can be discovered at all, which would bypass the skip below.
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("skipping, docker not available: %v", r)
		}
	}()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("matches"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("skipping, could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewMatchStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestMatchStoreRecordAndList(t *testing.T) {
	store := startPostgres(t)
	ctx := context.Background()

	winner := tictactoe.SymbolX
	first := MatchResult{
		RoomID:     "lobby",
		Winner:     &winner,
		Players:    []string{"Alice", "Bob"},
		FinishedAt: time.Now().Add(-time.Minute).UTC(),
	}
	second := MatchResult{
		RoomID:       "finals",
		IsTournament: true,
		Draw:         true,
		Players:      []string{"Cara", "Dan"},
		FinishedAt:   time.Now().UTC(),
	}

	require.NoError(t, store.Record(ctx, first))
	require.NoError(t, store.Record(ctx, second))

	results, err := store.RecentResults(ctx, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Newest first.
	assert.Equal(t, "finals", results[0].RoomID)
	assert.True(t, results[0].Draw)
	assert.Nil(t, results[0].Winner)
	assert.True(t, results[0].IsTournament)
	assert.Equal(t, []string{"Cara", "Dan"}, results[0].Players)

	assert.Equal(t, "lobby", results[1].RoomID)
	require.NotNil(t, results[1].Winner)
	assert.Equal(t, tictactoe.SymbolX, *results[1].Winner)
	assert.False(t, results[1].Draw)
}

func TestMatchStoreLimit(t *testing.T) {
	store := startPostgres(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		winner := tictactoe.SymbolO
		require.NoError(t, store.Record(ctx, MatchResult{
			RoomID:     "lobby",
			Winner:     &winner,
			Players:    []string{"Alice", "Bob"},
			FinishedAt: time.Now().UTC(),
		}))
	}

	results, err := store.RecentResults(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRoomMatchResultShape(t *testing.T) {
	room := NewRoom("lobby", RoomOptions{IsTournament: true})
	room.Assignments["p1"] = tictactoe.SymbolX
	room.Assignments["p2"] = tictactoe.SymbolO
	room.Participants["p1"] = Participant{Nickname: "Zoe", Role: RolePlayer}
	room.Participants["p2"] = Participant{Nickname: "Ana", Role: RolePlayer}
	room.Participants["w"] = Participant{Nickname: "Wynn", Role: RoleSpectator}

	winner := tictactoe.SymbolX
	room.mu.Lock()
	result := room.matchResult(&winner)
	room.mu.Unlock()

	assert.Equal(t, "lobby", result.RoomID)
	assert.True(t, result.IsTournament)
	assert.False(t, result.Draw)
	assert.Equal(t, []string{"Ana", "Zoe"}, result.Players, "players sorted, spectators excluded")

	room.mu.Lock()
	drawResult := room.matchResult(nil)
	room.mu.Unlock()
	assert.True(t, drawResult.Draw)
	assert.Nil(t, drawResult.Winner)
}
