package actors

import (
	stdctx "context"
	"fmt"
	"log"
	"time"

	"ripple-social/internal/database"
	"ripple-social/internal/email"
	"ripple-social/internal/models"
	"ripple-social/internal/settings"
	"ripple-social/internal/utils"
	"ripple-social/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// dedupWindow collapses identical notifications fired in quick succession,
// e.g. a like toggled off and on.
const dedupWindow = 60 * time.Second

// Message types for NotificationActor
type (
	// DeliverNotificationMsg is fire-and-forget from the other actors. When
	// sent with RequestFuture it responds with the stored notification, or
	// nil when the event was suppressed or deduplicated into an existing row.
	DeliverNotificationMsg struct {
		Type        models.NotificationType `json:"type"`
		RecipientID uuid.UUID               `json:"recipientId"`
		SenderID    uuid.UUID               `json:"senderId"`
		ThreadID    *uuid.UUID              `json:"threadId,omitempty"`
		ReplyID     *uuid.UUID              `json:"replyId,omitempty"`
	}

	GetNotificationsMsg struct {
		UserID   uuid.UUID `json:"userId"`
		Page     int       `json:"page"`
		PageSize int       `json:"pageSize"`
	}

	GetUnreadCountMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	MarkNotificationReadMsg struct {
		NotificationID uuid.UUID `json:"notificationId"`
		UserID         uuid.UUID `json:"userId"`
	}

	MarkAllNotificationsReadMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	DeleteNotificationMsg struct {
		NotificationID uuid.UUID `json:"notificationId"`
		UserID         uuid.UUID `json:"userId"`
	}

	DeleteAllNotificationsMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	// CreateMentionNotificationsMsg fans out mention notifications for the
	// handles found in freshly published content.
	CreateMentionNotificationsMsg struct {
		AuthorID uuid.UUID  `json:"authorId"`
		Content  string     `json:"content"`
		ThreadID *uuid.UUID `json:"threadId,omitempty"`
		ReplyID  *uuid.UUID `json:"replyId,omitempty"`
	}
)

// EmailSink receives outbound mail. *email.Dispatcher satisfies it.
type EmailSink interface {
	Enqueue(msg email.Message)
}

// NotificationActor owns the fan-out pipeline: preference gate, dedup,
// persist, realtime push, email. Running it as a single actor serializes
// delivery, so the dedup check and the insert cannot race.
type NotificationActor struct {
	db       database.DBAdapter
	settings settings.Service
	pusher   Pusher
	emails   EmailSink
}

func NewNotificationActor(db database.DBAdapter, prefs settings.Service, pusher Pusher, emails EmailSink) actor.Actor {
	return &NotificationActor{
		db:       db,
		settings: prefs,
		pusher:   pusher,
		emails:   emails,
	}
}

func (a *NotificationActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("NotificationActor started with PID: %v", context.Self())

	case *DeliverNotificationMsg:
		a.handleDeliver(context, msg)

	case *GetNotificationsMsg:
		a.handleGetNotifications(context, msg)

	case *GetUnreadCountMsg:
		a.handleGetUnreadCount(context, msg)

	case *MarkNotificationReadMsg:
		a.handleMarkRead(context, msg)

	case *MarkAllNotificationsReadMsg:
		a.handleMarkAllRead(context, msg)

	case *DeleteNotificationMsg:
		a.handleDelete(context, msg)

	case *DeleteAllNotificationsMsg:
		a.handleDeleteAll(context, msg)

	case *CreateMentionNotificationsMsg:
		a.handleMentions(context, msg)

	default:
		log.Printf("NotificationActor: Unknown message type %T", msg)
	}
}

func (a *NotificationActor) handleDeliver(context actor.Context, msg *DeliverNotificationMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	stored, err := a.deliver(ctx, msg)
	if err != nil {
		a.respond(context, err)
		return
	}
	a.respond(context, stored)
}

// deliver runs the ordered pipeline for one notification and returns the
// stored row, or nil when the event was suppressed or absorbed by an
// existing row.
func (a *NotificationActor) deliver(ctx stdctx.Context, msg *DeliverNotificationMsg) (*models.Notification, error) {
	if !msg.Type.Valid() {
		log.Printf("Dropping notification with unknown type %q", msg.Type)
		return nil, nil
	}
	// Self-generated events never notify.
	if msg.RecipientID == msg.SenderID {
		return nil, nil
	}

	if !a.settings.Allows(msg.RecipientID, msg.Type, settings.ChannelInApp) {
		return nil, nil
	}

	candidate := &models.Notification{
		ID:          uuid.New(),
		Type:        msg.Type,
		RecipientID: msg.RecipientID,
		SenderID:    msg.SenderID,
		ThreadID:    msg.ThreadID,
		ReplyID:     msg.ReplyID,
		CreatedAt:   time.Now(),
	}

	// A recent identical notification absorbs this one: nothing is stored,
	// pushed or mailed. A failed lookup only disables dedup for this event;
	// delivery itself proceeds.
	existing, err := a.db.FindRecentNotification(ctx, candidate, candidate.CreatedAt.Add(-dedupWindow))
	if err == nil {
		return existing, nil
	}
	if !utils.IsErrorCode(err, utils.ErrNotFound) {
		log.Printf("Notification dedup lookup failed, delivering anyway: %v", err)
	}

	sender, err := a.db.GetUser(ctx, msg.SenderID)
	if err != nil {
		log.Printf("Dropping notification from unknown sender %s: %v", msg.SenderID, err)
		return nil, nil
	}
	candidate.SenderUsername = sender.Username

	if err := a.db.SaveNotification(ctx, candidate); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to save notification", err)
	}

	a.pusher.PushToUser(msg.RecipientID, websocket.NewEvent(websocket.EventNewNotification, candidate))
	a.pushUnreadCount(ctx, msg.RecipientID)
	a.maybeEmail(ctx, candidate, sender)

	return candidate, nil
}

func (a *NotificationActor) pushUnreadCount(ctx stdctx.Context, recipientID uuid.UUID) {
	count, err := a.db.CountUnreadNotifications(ctx, recipientID)
	if err != nil {
		log.Printf("Failed to count unread notifications for %s: %v", recipientID, err)
		return
	}
	a.pusher.PushToUser(recipientID, websocket.NewEvent(websocket.EventUnreadCount, websocket.UnreadCountPayload{Count: count}))
}

// maybeEmail queues an email copy when the recipient accepts this type on
// the email channel. Delivery failures stay inside the dispatcher.
func (a *NotificationActor) maybeEmail(ctx stdctx.Context, n *models.Notification, sender *models.User) {
	if a.emails == nil {
		return
	}
	if !a.settings.Allows(n.RecipientID, n.Type, settings.ChannelEmail) {
		return
	}
	recipient, err := a.db.GetUser(ctx, n.RecipientID)
	if err != nil {
		log.Printf("Skipping email for unknown recipient %s: %v", n.RecipientID, err)
		return
	}
	a.emails.Enqueue(email.Message{
		To:      recipient.Email,
		Subject: emailSubject(n),
		Body:    fmt.Sprintf("Hi %s,\n\n%s\n\nOpen Ripple to see the details.", recipient.DisplayName, emailSummary(n, sender.DisplayName)),
	})
}

func emailSubject(n *models.Notification) string {
	switch n.Type {
	case models.NotificationNewFollower:
		return "You have a new follower"
	case models.NotificationFollowRequest:
		return "New follow request"
	case models.NotificationFollowAccepted:
		return "Your follow request was accepted"
	case models.NotificationThreadLike, models.NotificationReplyLike:
		return "Someone liked your post"
	case models.NotificationThreadReply:
		return "New reply to your thread"
	case models.NotificationThreadRepost:
		return "Your thread was reposted"
	case models.NotificationMention:
		return "You were mentioned"
	default:
		return "New activity on Ripple"
	}
}

func emailSummary(n *models.Notification, senderName string) string {
	who := fmt.Sprintf("%s (@%s)", senderName, n.SenderUsername)
	switch n.Type {
	case models.NotificationNewFollower:
		return fmt.Sprintf("%s started following you.", who)
	case models.NotificationFollowRequest:
		return fmt.Sprintf("%s requested to follow you.", who)
	case models.NotificationFollowAccepted:
		return fmt.Sprintf("%s accepted your follow request.", who)
	case models.NotificationThreadLike:
		return fmt.Sprintf("%s liked your thread.", who)
	case models.NotificationReplyLike:
		return fmt.Sprintf("%s liked your reply.", who)
	case models.NotificationThreadReply:
		return fmt.Sprintf("%s replied to your thread.", who)
	case models.NotificationThreadRepost:
		return fmt.Sprintf("%s reposted your thread.", who)
	case models.NotificationMention:
		return fmt.Sprintf("%s mentioned you.", who)
	default:
		return fmt.Sprintf("%s interacted with your content.", who)
	}
}

func (a *NotificationActor) handleGetNotifications(context actor.Context, msg *GetNotificationsMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	page, pageSize := normalizePage(msg.Page, msg.PageSize)
	offset := (page - 1) * pageSize

	items, err := a.db.GetNotifications(ctx, msg.UserID, pageSize, offset)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to load notifications", err))
		return
	}
	total, err := a.db.CountNotifications(ctx, msg.UserID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to count notifications", err))
		return
	}

	context.Respond(&models.NotificationPage{
		Items:      items,
		Pagination: models.NewPagination(page, pageSize, total),
	})
}

func (a *NotificationActor) handleGetUnreadCount(context actor.Context, msg *GetUnreadCountMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	count, err := a.db.CountUnreadNotifications(ctx, msg.UserID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to count unread notifications", err))
		return
	}
	context.Respond(&websocket.UnreadCountPayload{Count: count})
}

func (a *NotificationActor) handleMarkRead(context actor.Context, msg *MarkNotificationReadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if err := a.db.MarkNotificationRead(ctx, msg.NotificationID, msg.UserID); err != nil {
		context.Respond(err)
		return
	}
	a.pushUnreadCount(ctx, msg.UserID)
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *NotificationActor) handleMarkAllRead(context actor.Context, msg *MarkAllNotificationsReadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	updated, err := a.db.MarkAllNotificationsRead(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	a.pushUnreadCount(ctx, msg.UserID)
	context.Respond(&models.StatusResponse{Success: true, Message: fmt.Sprintf("%d notifications marked read", updated)})
}

func (a *NotificationActor) handleDelete(context actor.Context, msg *DeleteNotificationMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if err := a.db.DeleteNotification(ctx, msg.NotificationID, msg.UserID); err != nil {
		context.Respond(err)
		return
	}
	a.pushUnreadCount(ctx, msg.UserID)
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *NotificationActor) handleDeleteAll(context actor.Context, msg *DeleteAllNotificationsMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	deleted, err := a.db.DeleteAllNotifications(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	a.pushUnreadCount(ctx, msg.UserID)
	context.Respond(&models.StatusResponse{Success: true, Message: fmt.Sprintf("%d notifications deleted", deleted)})
}

// handleMentions resolves every @handle in the content and runs the delivery
// pipeline per mentioned user. Handles that don't resolve, that name the
// author, or whose owner blocks mentions from the author are skipped; one
// bad handle never stops the rest.
func (a *NotificationActor) handleMentions(context actor.Context, msg *CreateMentionNotificationsMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	delivered := 0
	for _, handle := range ExtractMentions(msg.Content) {
		mentioned, err := a.db.GetUserByUsername(ctx, handle)
		if err != nil {
			if !utils.IsErrorCode(err, utils.ErrNotFound) {
				log.Printf("Mention lookup failed for @%s: %v", handle, err)
			}
			continue
		}
		if mentioned.ID == msg.AuthorID {
			continue
		}
		if !a.settings.AllowsMention(mentioned.ID, msg.AuthorID) {
			continue
		}

		if _, err := a.deliver(ctx, &DeliverNotificationMsg{
			Type:        models.NotificationMention,
			RecipientID: mentioned.ID,
			SenderID:    msg.AuthorID,
			ThreadID:    msg.ThreadID,
			ReplyID:     msg.ReplyID,
		}); err != nil {
			log.Printf("Mention delivery to @%s failed: %v", handle, err)
			continue
		}
		delivered++
	}

	a.respond(context, &models.StatusResponse{Success: true, Message: fmt.Sprintf("%d mention notifications delivered", delivered)})
}

// respond replies when the message came in as a request; fire-and-forget
// sends have no sender and the reply is dropped.
func (a *NotificationActor) respond(context actor.Context, response interface{}) {
	if context.Sender() != nil {
		context.Respond(response)
	}
}

// normalizePage clamps paging parameters to sane defaults.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
