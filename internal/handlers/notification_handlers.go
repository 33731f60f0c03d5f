package handlers

import (
	"net/http"

	"ripple-social/internal/engine/actors"
	"ripple-social/internal/middleware"
)

// HandleGetNotifications returns the recipient's notification page.
func (s *Server) HandleGetNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		page, pageSize := pageParams(r)

		result, err := s.ask(s.Engine.NotificationPID, &actors.GetNotificationsMsg{
			UserID:   userID,
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

// HandleGetUnreadCount returns the recipient's unread total.
func (s *Server) HandleGetUnreadCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())

		result, err := s.ask(s.Engine.NotificationPID, &actors.GetUnreadCountMsg{UserID: userID})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleMarkNotificationRead marks one notification as read.
func (s *Server) HandleMarkNotificationRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		notificationID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.NotificationPID, &actors.MarkNotificationReadMsg{
			NotificationID: notificationID,
			UserID:         userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleMarkAllNotificationsRead marks every unread notification as read.
func (s *Server) HandleMarkAllNotificationsRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())

		result, err := s.ask(s.Engine.NotificationPID, &actors.MarkAllNotificationsReadMsg{UserID: userID})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleDeleteNotification removes one notification.
func (s *Server) HandleDeleteNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		notificationID, err := pathUUID(r, "id")
		if err != nil {
			respondAppError(w, err)
			return
		}

		result, err := s.ask(s.Engine.NotificationPID, &actors.DeleteNotificationMsg{
			NotificationID: notificationID,
			UserID:         userID,
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleDeleteAllNotifications clears the recipient's notifications.
func (s *Server) HandleDeleteAllNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())

		result, err := s.ask(s.Engine.NotificationPID, &actors.DeleteAllNotificationsMsg{UserID: userID})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
