package handlers

import (
	"encoding/json"
	"net/http"

	"ripple-social/internal/engine/actors"
	"ripple-social/internal/middleware"
	"ripple-social/internal/models"
)

// CreateThreadRequest represents a request to publish a new thread
type CreateThreadRequest struct {
	Content   string            `json:"content"`
	MediaURL  *string           `json:"mediaUrl,omitempty"`
	MediaKind *models.MediaKind `json:"mediaKind,omitempty"`
}

// UpdateThreadRequest carries an edited thread body
type UpdateThreadRequest struct {
	Content string `json:"content"`
}

// ModerateThreadRequest records a moderation outcome for a thread
type ModerateThreadRequest struct {
	Flagged bool `json:"flagged"`
}

// HandleCreateThread publishes a new thread for the authenticated user.
func (s *Server) HandleCreateThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, _ := middleware.GetUserIDFromContext(r.Context())

		var req CreateThreadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.CreateThreadMsg{
			AuthorID:  authorID,
			Content:   req.Content,
			MediaURL:  req.MediaURL,
			MediaKind: req.MediaKind,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleGetThread returns one thread enriched for the viewer.
func (s *Server) HandleGetThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.GetThreadMsg{
			ThreadID: threadID,
			ViewerID: middleware.ViewerID(r.Context()),
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleUpdateThread edits a thread's content.
func (s *Server) HandleUpdateThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, _ := middleware.GetUserIDFromContext(r.Context())
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		var req UpdateThreadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.UpdateThreadMsg{
			ThreadID:    threadID,
			RequesterID: requesterID,
			Content:     req.Content,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleDeleteThread removes a thread the requester authored.
func (s *Server) HandleDeleteThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, _ := middleware.GetUserIDFromContext(r.Context())
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.DeleteThreadMsg{
			ThreadID:    threadID,
			RequesterID: requesterID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleLikeThread records the user's like on a thread.
func (s *Server) HandleLikeThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.LikeThreadMsg{
			ThreadID: threadID,
			UserID:   userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleUnlikeThread removes the user's like from a thread.
func (s *Server) HandleUnlikeThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.UnlikeThreadMsg{
			ThreadID: threadID,
			UserID:   userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleRepostThread reposts a thread under the user's name.
func (s *Server) HandleRepostThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.RepostThreadMsg{
			SourceThreadID: threadID,
			UserID:         userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleUnrepostThread removes the user's repost of a thread.
func (s *Server) HandleUnrepostThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.UnrepostThreadMsg{
			SourceThreadID: threadID,
			UserID:         userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleModerateThread records a moderation outcome and notifies the author.
func (s *Server) HandleModerateThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID, _ := middleware.GetUserIDFromContext(r.Context())
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		var req ModerateThreadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.ThreadPID, &actors.ModerateThreadMsg{
			ThreadID:    threadID,
			ModeratorID: moderatorID,
			Flagged:     req.Flagged,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
