package handlers

import (
	"net/http"

	"ripple-social/internal/engine/actors"
	"ripple-social/internal/middleware"
)

// HandleExploreFeed returns the network-wide feed scoped to the viewer.
func (s *Server) HandleExploreFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pageParams(r)

		result, err := s.ask(s.Engine.FeedPID, &actors.GetExploreFeedMsg{
			ViewerID: middleware.ViewerID(r.Context()),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleHomeFeed returns the followed feed for the signed-in viewer.
func (s *Server) HandleHomeFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pageParams(r)

		result, err := s.ask(s.Engine.FeedPID, &actors.GetFollowedFeedMsg{
			ViewerID: middleware.ViewerID(r.Context()),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleAuthorFeed returns one author's threads, visibility permitting.
func (s *Server) HandleAuthorFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}
		page, pageSize := pageParams(r)

		result, err := s.ask(s.Engine.FeedPID, &actors.GetAuthorFeedMsg{
			AuthorID: authorID,
			ViewerID: middleware.ViewerID(r.Context()),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleSearchThreads returns threads whose content matches the query.
func (s *Server) HandleSearchThreads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pageParams(r)

		result, err := s.ask(s.Engine.FeedPID, &actors.SearchThreadsMsg{
			Query:    r.URL.Query().Get("q"),
			ViewerID: middleware.ViewerID(r.Context()),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
