package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/api/v1/auth/guest", s.guestAuthHandler)
	mux.HandleFunc("/api/v1/rooms", s.listRoomsHandler)
	mux.HandleFunc("/ws", s.websocketHandler)

	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{
		"name":    "tikitak-online-service",
		"message": "Service is up. Use /api/v1/auth/guest or /api/v1/rooms.",
		"version": "v1",
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(s.startedAt).Seconds()),
		"rooms":         s.rooms.RoomCount(),
		"guests":        s.auth.GuestCount(),
	})
}

// guestAuthHandler issues an ephemeral guest identity. This is the only
// credential issuance in the system; everything else just checks token
// possession.
func (s *Server) guestAuthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GuestRequest
	if r.Body != nil {
		// A missing or malformed body just means an anonymous guest.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	writeJSON(w, s.auth.Issue(req.Nickname))
}

func (s *Server) listRoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, RoomListResponse{Rooms: s.rooms.ListPublic()})
}

// websocketHandler is the connection gateway: it authenticates the
// handshake, joins the room, then relays typed frames to the room
// manager until the socket closes. Closing the socket is the leave
// signal; there is no other cancellation.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomID := query.Get("roomId")
	playerID := query.Get("playerId")
	token := query.Get("token")
	role := Role(query.Get("role"))
	if role != RoleSpectator {
		role = RolePlayer
	}
	isTournament := query.Get("tournament") == "true"

	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "server closing")

	ctx := r.Context()
	conn := newWSConn(socket)

	if roomID == "" || playerID == "" || token == "" {
		conn.Send(errorEvent("Missing connection parameters."))
		socket.Close(websocket.StatusPolicyViolation, "missing parameters")
		return
	}
	if err := ValidateRoomID(roomID); err != nil {
		conn.Send(errorEvent(err.Error()))
		socket.Close(websocket.StatusPolicyViolation, "invalid room id")
		return
	}

	nickname, ok := s.auth.Verify(playerID, token)
	if !ok {
		conn.Send(errorEvent(ErrUnauthorized.Error()))
		socket.Close(websocket.StatusPolicyViolation, "unauthorized")
		return
	}

	connectionID := uuid.NewString()
	defer s.rateLimiter.RemoveConnection(connectionID)

	opts := RoomOptions{IsPublic: true, IsTournament: isTournament}
	if _, err := s.rooms.Join(roomID, playerID, nickname, role, conn, opts); err != nil {
		conn.Send(errorEvent(err.Error()))
		socket.Close(websocket.StatusPolicyViolation, "join rejected")
		return
	}
	defer s.rooms.LeaveConn(roomID, playerID, conn)

	log.Printf("connection %s: %s joined room %s as %s", connectionID, playerID, roomID, role)

	for {
		msgType, data, err := socket.Read(ctx)
		if err != nil {
			return
		}
		if msgType != websocket.MessageText {
			continue
		}
		if !s.rateLimiter.Allow(connectionID) {
			conn.Send(errorEvent("RATE_LIMITED: too many messages"))
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			conn.Send(errorEvent("Unknown message format"))
			continue
		}

		switch msg.Type {
		case MsgGameMove:
			s.handleMove(conn, roomID, playerID, msg.Data)
		case MsgChatMessage:
			s.handleChat(conn, roomID, playerID, msg.Data)
		default:
			conn.Send(errorEvent("Unsupported message type"))
		}
	}
}

// handleMove enforces the boundary contract before the room manager sees
// the move: cellIndex must be an integer in [0,8].
func (s *Server) handleMove(conn RoomConn, roomID, playerID string, data json.RawMessage) {
	var req MoveRequest
	if err := json.Unmarshal(data, &req); err != nil || req.CellIndex == nil {
		conn.Send(errorEvent("Invalid move index"))
		return
	}
	cellIndex := *req.CellIndex
	if cellIndex < 0 || cellIndex > 8 {
		conn.Send(errorEvent("Invalid move index"))
		return
	}

	if err := s.rooms.ApplyMove(roomID, playerID, cellIndex); err != nil {
		conn.Send(errorEvent(err.Error()))
	}
}

// handleChat rejects empty messages at the boundary; content policy
// itself lives in the room manager.
func (s *Server) handleChat(conn RoomConn, roomID, playerID string, data json.RawMessage) {
	var req ChatRequest
	if err := json.Unmarshal(data, &req); err != nil || strings.TrimSpace(req.Text) == "" {
		conn.Send(errorEvent("Empty message"))
		return
	}

	if err := s.rooms.Chat(roomID, playerID, req.Text); err != nil {
		conn.Send(errorEvent(err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
