package server

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type guestRecord struct {
	Nickname string
	Token    string
	IssuedAt time.Time
}

// AuthManager issues ephemeral guest identities and verifies tokens. The
// room core trusts Verify unconditionally and never manages guest
// lifecycle itself; entries expire after ttl via the sweep task.
type AuthManager struct {
	guests map[string]guestRecord // playerID -> record
	ttl    time.Duration
	mu     sync.RWMutex
}

// NewAuthManager creates an empty guest registry with the given entry
// lifetime.
func NewAuthManager(ttl time.Duration) *AuthManager {
	return &AuthManager{
		guests: make(map[string]guestRecord),
		ttl:    ttl,
	}
}

// Issue registers a guest and returns the identity the client presents on
// every connection. Nicknames are trimmed, capped at 16 characters and
// defaulted when blank.
func (a *AuthManager) Issue(nickname string) GuestResponse {
	nickname = strings.TrimSpace(nickname)
	if runes := []rune(nickname); len(runes) > 16 {
		nickname = string(runes[:16])
	}
	if nickname == "" {
		nickname = fmt.Sprintf("Guest-%d", rand.Intn(1000))
	}

	playerID := uuid.NewString()
	token := uuid.NewString()

	a.mu.Lock()
	a.guests[playerID] = guestRecord{
		Nickname: nickname,
		Token:    token,
		IssuedAt: time.Now(),
	}
	a.mu.Unlock()

	return GuestResponse{PlayerID: playerID, Nickname: nickname, Token: token}
}

// Verify is the capability the room core trusts: it reports whether
// playerID presented its issued token, and returns the registered
// nickname on success.
func (a *AuthManager) Verify(playerID, token string) (string, bool) {
	if playerID == "" || token == "" {
		return "", false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	record, ok := a.guests[playerID]
	if !ok || record.Token != token {
		return "", false
	}
	if a.ttl > 0 && time.Since(record.IssuedAt) > a.ttl {
		return "", false
	}
	return record.Nickname, true
}

// GuestCount reports the number of registered guests.
func (a *AuthManager) GuestCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.guests)
}

// Sweep removes expired guest entries and returns how many were dropped.
func (a *AuthManager) Sweep() int {
	if a.ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-a.ttl)

	a.mu.Lock()
	defer a.mu.Unlock()

	removed := 0
	for playerID, record := range a.guests {
		if record.IssuedAt.Before(cutoff) {
			delete(a.guests, playerID)
			removed++
		}
	}
	return removed
}
