package handlers

import (
	"encoding/json"
	"net/http"

	"ripple-social/internal/api"
	"ripple-social/internal/engine/actors"
	"ripple-social/internal/middleware"
	"ripple-social/internal/models"
)

// RegisterUserRequest represents a request to register a new user
type RegisterUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsPrivate   bool   `json:"isPrivate"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the mutable profile fields. Absent fields are
// left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	IsPrivate   *bool   `json:"isPrivate,omitempty"`
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.UserPID, &actors.RegisterUserMsg{
			Username:    req.Username,
			DisplayName: req.DisplayName,
			Email:       req.Email,
			Password:    req.Password,
			IsPrivate:   req.IsPrivate,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleUserLogin verifies credentials and issues a token.
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.UserPID, &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}

		user, ok := result.(*models.User)
		if !ok {
			respondJSON(w, http.StatusInternalServerError, &api.LoginResponse{Success: false, Error: "unexpected response"})
			return
		}

		token, err := s.Tokens.Generate(user.ID)
		if err != nil {
			respondJSON(w, http.StatusInternalServerError, &api.LoginResponse{Success: false, Error: "failed to issue token"})
			return
		}

		respondJSON(w, http.StatusOK, &api.LoginResponse{
			Success: true,
			Token:   token,
			UserID:  user.ID.String(),
		})
	}
}

// HandleGetProfile returns a user's profile with viewer follow annotations.
func (s *Server) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.UserPID, &actors.GetProfileMsg{
			UserID:   userID,
			ViewerID: middleware.ViewerID(r.Context()),
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleUpdateProfile updates the authenticated user's own profile.
func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.UserPID, &actors.UpdateProfileMsg{
			UserID:      userID,
			DisplayName: req.DisplayName,
			AvatarURL:   req.AvatarURL,
			IsPrivate:   req.IsPrivate,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleFollowUser creates a follow edge or request toward the target.
func (s *Server) HandleFollowUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, _ := middleware.GetUserIDFromContext(r.Context())
		targetID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.UserPID, &actors.FollowUserMsg{
			FollowerID:  followerID,
			FollowingID: targetID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleUnfollowUser removes the follow edge toward the target.
func (s *Server) HandleUnfollowUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, _ := middleware.GetUserIDFromContext(r.Context())
		targetID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.UserPID, &actors.UnfollowUserMsg{
			FollowerID:  followerID,
			FollowingID: targetID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleAcceptFollow accepts a pending request from the follower in the path.
func (s *Server) HandleAcceptFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		followerID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.UserPID, &actors.AcceptFollowMsg{
			UserID:     userID,
			FollowerID: followerID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleRejectFollow rejects a pending request from the follower in the path.
func (s *Server) HandleRejectFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		followerID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.UserPID, &actors.RejectFollowMsg{
			UserID:     userID,
			FollowerID: followerID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
