package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"ripple-social/internal/engine"
	"ripple-social/internal/middleware"
	"ripple-social/internal/utils"
	"ripple-social/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Hub            *websocket.Hub
	Tokens         *middleware.TokenManager
	Metrics        *utils.MetricsCollector
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(system *actor.ActorSystem, eng *engine.Engine, hub *websocket.Hub, tokens *middleware.TokenManager, metrics *utils.MetricsCollector) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Hub:            hub,
		Tokens:         tokens,
		Metrics:        metrics,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// ask sends a message to an actor and waits for the reply. An AppError
// coming back as the payload is returned as the error. Every request is
// counted and timed under the message's operation name.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	s.Metrics.IncrementRequests()
	startTime := time.Now()

	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	s.Metrics.AddOperationLatency(operationName(msg), time.Since(startTime))
	if err != nil {
		s.Metrics.IncrementErrors()
		return nil, utils.NewActorTimeoutError(pid.String())
	}
	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		return nil, appErr
	}
	return result, nil
}

// operationName derives a snake_case metrics key from a message type, e.g.
// *actors.CreateThreadMsg -> "create_thread".
func operationName(msg interface{}) string {
	name := fmt.Sprintf("%T", msg)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "Msg")

	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondAppError maps an error to its HTTP status. Anything that is not an
// AppError reads as an internal error without leaking detail.
func respondAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		respondJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]string{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}
	log.Printf("Unhandled handler error: %v", err)
	respondJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

// pathUUID extracts a UUID route variable.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.NewValidationError("invalid " + name)
	}
	return id, nil
}

// pageParams reads page/pageSize query parameters, defaulting to page 1 of 20.
func pageParams(r *http.Request) (int, int) {
	page := 1
	pageSize := 20
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// HandleHealth reports liveness plus a metrics snapshot.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "ok",
			"connectedUsers": s.Hub.ConnectedUsers(),
			"metrics":        s.Metrics.Snapshot(),
		})
	}
}
