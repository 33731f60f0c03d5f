package handlers

import (
	"encoding/json"
	"net/http"

	"ripple-social/internal/engine/actors"
	"ripple-social/internal/middleware"

	"github.com/google/uuid"
)

// CreateReplyRequest represents a request to add a reply to a thread
type CreateReplyRequest struct {
	ParentID *uuid.UUID `json:"parentId,omitempty"`
	Content  string     `json:"content"`
}

// UpdateReplyRequest carries an edited reply body
type UpdateReplyRequest struct {
	Content string `json:"content"`
}

// HandleCreateReply adds a reply under a thread, optionally nested.
func (s *Server) HandleCreateReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, _ := middleware.GetUserIDFromContext(r.Context())
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		var req CreateReplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.ReplyPID, &actors.CreateReplyMsg{
			ThreadID: threadID,
			AuthorID: authorID,
			ParentID: req.ParentID,
			Content:  req.Content,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleGetThreadReplies returns the assembled reply tree of a thread.
func (s *Server) HandleGetThreadReplies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threadID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ReplyPID, &actors.GetThreadRepliesMsg{
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

// HandleUpdateReply edits a reply's content.
func (s *Server) HandleUpdateReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, _ := middleware.GetUserIDFromContext(r.Context())
		replyID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		var req UpdateReplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.ReplyPID, &actors.UpdateReplyMsg{
			ReplyID:     replyID,
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

// HandleDeleteReply removes a reply and its descendants.
func (s *Server) HandleDeleteReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, _ := middleware.GetUserIDFromContext(r.Context())
		replyID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ReplyPID, &actors.DeleteReplyMsg{
			ReplyID:     replyID,
			RequesterID: requesterID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleLikeReply records the user's like on a reply.
func (s *Server) HandleLikeReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		replyID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ReplyPID, &actors.LikeReplyMsg{
			ReplyID: replyID,
			UserID:  userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleUnlikeReply removes the user's like from a reply.
func (s *Server) HandleUnlikeReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		replyID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ReplyPID, &actors.UnlikeReplyMsg{
			ReplyID: replyID,
			UserID:  userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleRepostReply promotes a reply into a new thread under the user's name.
func (s *Server) HandleRepostReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		replyID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.ReplyPID, &actors.RepostReplyMsg{
			ReplyID: replyID,
			UserID:  userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, result)
	}
}
