package handlers

import (
	"log"
	"net/http"

	"ripple-social/internal/engine/actors"
	"ripple-social/internal/websocket"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is enforced by the CORS layer; the handshake itself
		// accepts any origin that got this far.
		return true
	},
}

// HandleWebSocket authenticates the handshake, upgrades the connection and
// registers the client. The first frame the client receives is its current
// unread notification count.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}

		claims, err := s.Tokens.Validate(tokenString)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		userID := claims.UserID
		if userID == uuid.Nil {
			http.Error(w, "Invalid user ID in token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for user %s: %v", userID, err)
			return
		}

		client := websocket.NewClient(s.Hub, userID, conn)
		go client.WritePump()
		go client.ReadPump()

		// Initial unread push, off the handshake goroutine.
		go func() {
			result, err := s.ask(s.Engine.NotificationPID, &actors.GetUnreadCountMsg{UserID: userID})
			if err != nil {
				log.Printf("Initial unread count for user %s failed: %v", userID, err)
				return
			}
			if payload, ok := result.(*websocket.UnreadCountPayload); ok {
				s.Hub.PushToUser(userID, websocket.NewEvent(websocket.EventUnreadCount, payload))
			}
		}()
	}
}
