package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Server struct {
	port        int
	startedAt   time.Time
	auth        *AuthManager
	rooms       *RoomManager
	rateLimiter *RateLimiter
	matches     *MatchStore
}

const (
	defaultPort            = 3001
	defaultGuestTTLMinutes = 120
	defaultRateLimit       = 30
	defaultRateWindow      = 10 * time.Second
)

// NewServer wires the auth, room and rate-limit managers from the
// environment and returns them behind a configured http.Server. Match
// recording is enabled only when DATABASE_URL is set; a store failure
// downgrades to a warning because rooms never depend on the database.
func NewServer() (*Server, *http.Server) {
	port := envInt("PORT", defaultPort)
	guestTTL := time.Duration(envInt("GUEST_TTL_MINUTES", defaultGuestTTLMinutes)) * time.Minute
	rateLimit := envInt("RATE_LIMIT_MESSAGES", defaultRateLimit)

	var matches *MatchStore
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := NewMatchStore(ctx, dsn)
		cancel()
		if err != nil {
			log.Printf("Warning: match recording disabled: %v", err)
		} else {
			matches = store
			log.Println("Match recording enabled")
		}
	}

	srv := &Server{
		port:        port,
		startedAt:   time.Now(),
		auth:        NewAuthManager(guestTTL),
		rooms:       NewRoomManager(matches),
		rateLimiter: NewRateLimiter(rateLimit, defaultRateWindow),
		matches:     matches,
	}

	go srv.guestSweepTask()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv, httpServer
}

// Shutdown releases resources that outlive the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.matches != nil {
		s.matches.Close()
	}
	return nil
}

// guestSweepTask expires stale guest identities every 10 minutes.
func (s *Server) guestSweepTask() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if removed := s.auth.Sweep(); removed > 0 {
			log.Printf("Guest sweep: removed %d expired guests", removed)
		}
	}
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
