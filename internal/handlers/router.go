package handlers

import (
	"net/http"

	"ripple-social/internal/middleware"

	"github.com/gorilla/mux"
)

// Router builds the full route table. Read surfaces accept anonymous
// viewers; everything that writes requires a valid token.
func (s *Server) Router(cors *middleware.CORSConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.CORSMiddleware(cors))

	r.HandleFunc("/health", s.HandleHealth()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.HandleWebSocket()).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", s.HandleUserRegistration()).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.HandleUserLogin()).Methods(http.MethodPost)

	// Anonymous-readable surfaces.
	read := r.NewRoute().Subrouter()
	read.Use(s.Tokens.OptionalAuthenticate)
	read.HandleFunc("/feeds/explore", s.HandleExploreFeed()).Methods(http.MethodGet)
	read.HandleFunc("/feeds/home", s.HandleHomeFeed()).Methods(http.MethodGet)
	read.HandleFunc("/search", s.HandleSearchThreads()).Methods(http.MethodGet)
	read.HandleFunc("/threads/{id}", s.HandleGetThread()).Methods(http.MethodGet)
	read.HandleFunc("/threads/{id}/replies", s.HandleGetThreadReplies()).Methods(http.MethodGet)
	read.HandleFunc("/users/{id}", s.HandleGetProfile()).Methods(http.MethodGet)
	read.HandleFunc("/users/{id}/threads", s.HandleAuthorFeed()).Methods(http.MethodGet)

	// Authenticated surfaces.
	auth := r.NewRoute().Subrouter()
	auth.Use(s.Tokens.Authenticate)
	auth.HandleFunc("/me", s.HandleUpdateProfile()).Methods(http.MethodPatch)

	auth.HandleFunc("/threads", s.HandleCreateThread()).Methods(http.MethodPost)
	auth.HandleFunc("/threads/{id}", s.HandleUpdateThread()).Methods(http.MethodPatch)
	auth.HandleFunc("/threads/{id}", s.HandleDeleteThread()).Methods(http.MethodDelete)
	auth.HandleFunc("/threads/{id}/like", s.HandleLikeThread()).Methods(http.MethodPost)
	auth.HandleFunc("/threads/{id}/like", s.HandleUnlikeThread()).Methods(http.MethodDelete)
	auth.HandleFunc("/threads/{id}/repost", s.HandleRepostThread()).Methods(http.MethodPost)
	auth.HandleFunc("/threads/{id}/repost", s.HandleUnrepostThread()).Methods(http.MethodDelete)
	auth.HandleFunc("/threads/{id}/moderate", s.HandleModerateThread()).Methods(http.MethodPost)
	auth.HandleFunc("/threads/{id}/replies", s.HandleCreateReply()).Methods(http.MethodPost)

	auth.HandleFunc("/replies/{id}", s.HandleUpdateReply()).Methods(http.MethodPatch)
	auth.HandleFunc("/replies/{id}", s.HandleDeleteReply()).Methods(http.MethodDelete)
	auth.HandleFunc("/replies/{id}/like", s.HandleLikeReply()).Methods(http.MethodPost)
	auth.HandleFunc("/replies/{id}/like", s.HandleUnlikeReply()).Methods(http.MethodDelete)
	auth.HandleFunc("/replies/{id}/repost", s.HandleRepostReply()).Methods(http.MethodPost)

	auth.HandleFunc("/users/{id}/follow", s.HandleFollowUser()).Methods(http.MethodPost)
	auth.HandleFunc("/users/{id}/follow", s.HandleUnfollowUser()).Methods(http.MethodDelete)
	auth.HandleFunc("/follow-requests/{id}/accept", s.HandleAcceptFollow()).Methods(http.MethodPost)
	auth.HandleFunc("/follow-requests/{id}/reject", s.HandleRejectFollow()).Methods(http.MethodPost)

	auth.HandleFunc("/notifications", s.HandleGetNotifications()).Methods(http.MethodGet)
	auth.HandleFunc("/notifications", s.HandleDeleteAllNotifications()).Methods(http.MethodDelete)
	auth.HandleFunc("/notifications/unread-count", s.HandleGetUnreadCount()).Methods(http.MethodGet)
	auth.HandleFunc("/notifications/read-all", s.HandleMarkAllNotificationsRead()).Methods(http.MethodPost)
	auth.HandleFunc("/notifications/{id}/read", s.HandleMarkNotificationRead()).Methods(http.MethodPost)
	auth.HandleFunc("/notifications/{id}", s.HandleDeleteNotification()).Methods(http.MethodDelete)

	return r
}
