package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"ripple-social/internal/database"
	"ripple-social/internal/models"
	"ripple-social/internal/utils"
	"ripple-social/internal/visibility"
	"ripple-social/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for ThreadActor
type (
	CreateThreadMsg struct {
		AuthorID  uuid.UUID         `json:"authorId"`
		Content   string            `json:"content"`
		MediaURL  *string           `json:"mediaUrl,omitempty"`
		MediaKind *models.MediaKind `json:"mediaKind,omitempty"`
	}

	GetThreadMsg struct {
		ThreadID uuid.UUID `json:"threadId"`
		ViewerID uuid.UUID `json:"viewerId"`
	}

	UpdateThreadMsg struct {
		ThreadID    uuid.UUID `json:"threadId"`
		RequesterID uuid.UUID `json:"requesterId"`
		Content     string    `json:"content"`
	}

	DeleteThreadMsg struct {
		ThreadID    uuid.UUID `json:"threadId"`
		RequesterID uuid.UUID `json:"requesterId"`
	}

	LikeThreadMsg struct {
		ThreadID uuid.UUID `json:"threadId"`
		UserID   uuid.UUID `json:"userId"`
	}

	UnlikeThreadMsg struct {
		ThreadID uuid.UUID `json:"threadId"`
		UserID   uuid.UUID `json:"userId"`
	}

	RepostThreadMsg struct {
		SourceThreadID uuid.UUID `json:"sourceThreadId"`
		UserID         uuid.UUID `json:"userId"`
	}

	UnrepostThreadMsg struct {
		SourceThreadID uuid.UUID `json:"sourceThreadId"`
		UserID         uuid.UUID `json:"userId"`
	}

	ModerateThreadMsg struct {
		ThreadID    uuid.UUID `json:"threadId"`
		ModeratorID uuid.UUID `json:"moderatorId"`
		Flagged     bool      `json:"flagged"`
	}
)

// ThreadActor manages thread operations
type ThreadActor struct {
	db            database.DBAdapter
	resolver      *visibility.Resolver
	pusher        Pusher
	notifications *actor.PID
}

func NewThreadActor(db database.DBAdapter, resolver *visibility.Resolver, pusher Pusher, notifications *actor.PID) actor.Actor {
	return &ThreadActor{
		db:            db,
		resolver:      resolver,
		pusher:        pusher,
		notifications: notifications,
	}
}

func (a *ThreadActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ThreadActor started with PID: %v", context.Self())

	case *CreateThreadMsg:
		a.handleCreateThread(context, msg)

	case *GetThreadMsg:
		a.handleGetThread(context, msg)

	case *UpdateThreadMsg:
		a.handleUpdateThread(context, msg)

	case *DeleteThreadMsg:
		a.handleDeleteThread(context, msg)

	case *LikeThreadMsg:
		a.handleLikeThread(context, msg)

	case *UnlikeThreadMsg:
		a.handleUnlikeThread(context, msg)

	case *RepostThreadMsg:
		a.handleRepostThread(context, msg)

	case *UnrepostThreadMsg:
		a.handleUnrepostThread(context, msg)

	case *ModerateThreadMsg:
		a.handleModerateThread(context, msg)

	default:
		log.Printf("ThreadActor: Unknown message type %T", msg)
	}
}

func validateThreadContent(content string, mediaURL *string, mediaKind *models.MediaKind) *utils.AppError {
	if len(content) > models.MaxContentLength {
		return utils.NewValidationError("content exceeds maximum length")
	}
	hasMedia := mediaURL != nil && *mediaURL != ""
	if strings.TrimSpace(content) == "" && !hasMedia {
		return utils.NewValidationError("content is required unless media is attached")
	}
	if hasMedia {
		if mediaKind == nil || !mediaKind.Valid() {
			return utils.NewValidationError("media kind must be image or video")
		}
	}
	return nil
}

func (a *ThreadActor) handleCreateThread(context actor.Context, msg *CreateThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if err := validateThreadContent(msg.Content, msg.MediaURL, msg.MediaKind); err != nil {
		context.Respond(err)
		return
	}

	thread := &models.Thread{
		ID:        uuid.New(),
		AuthorID:  msg.AuthorID,
		Content:   msg.Content,
		MediaURL:  msg.MediaURL,
		MediaKind: msg.MediaKind,
	}
	if err := a.db.SaveThread(ctx, thread); err != nil {
		context.Respond(err)
		return
	}

	threadID := thread.ID
	context.Send(a.notifications, &CreateMentionNotificationsMsg{
		AuthorID: msg.AuthorID,
		Content:  msg.Content,
		ThreadID: &threadID,
	})

	view, err := buildThreadView(ctx, a.db, msg.AuthorID, thread)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(view)
}

func (a *ThreadActor) handleGetThread(context actor.Context, msg *GetThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	thread, err := a.db.GetThread(ctx, msg.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := a.resolver.RequireView(ctx, msg.ViewerID, thread.AuthorID); err != nil {
		context.Respond(err)
		return
	}

	view, err := buildThreadView(ctx, a.db, msg.ViewerID, thread)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(view)
}

func (a *ThreadActor) handleUpdateThread(context actor.Context, msg *UpdateThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	thread, err := a.db.GetThread(ctx, msg.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	if thread.AuthorID != msg.RequesterID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the author can edit a thread", nil))
		return
	}
	if err := validateThreadContent(msg.Content, thread.MediaURL, thread.MediaKind); err != nil {
		context.Respond(err)
		return
	}

	thread.Content = msg.Content
	if err := a.db.SaveThread(ctx, thread); err != nil {
		context.Respond(err)
		return
	}

	view, err := buildThreadView(ctx, a.db, msg.RequesterID, thread)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(view)
}

func (a *ThreadActor) handleDeleteThread(context actor.Context, msg *DeleteThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	thread, err := a.db.GetThread(ctx, msg.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	if thread.AuthorID != msg.RequesterID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the author can delete a thread", nil))
		return
	}

	if err := a.db.DeleteThread(ctx, msg.ThreadID); err != nil {
		context.Respond(err)
		return
	}
	// Deleting a repost releases its slot in the source's counter.
	if thread.RepostOfThreadID != nil {
		if err := a.db.AdjustThreadCounters(ctx, *thread.RepostOfThreadID, 0, -1); err != nil {
			log.Printf("Failed to release repost counter on %s: %v", *thread.RepostOfThreadID, err)
		}
	}
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *ThreadActor) handleLikeThread(context actor.Context, msg *LikeThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	thread, err := a.db.GetThread(ctx, msg.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := a.resolver.RequireView(ctx, msg.UserID, thread.AuthorID); err != nil {
		context.Respond(err)
		return
	}

	if err := a.db.LikeThread(ctx, msg.UserID, msg.ThreadID); err != nil {
		context.Respond(err)
		return
	}
	thread.LikesCount++

	threadID := thread.ID
	context.Send(a.notifications, &DeliverNotificationMsg{
		Type:        models.NotificationThreadLike,
		RecipientID: thread.AuthorID,
		SenderID:    msg.UserID,
		ThreadID:    &threadID,
	})

	a.pusher.PushToTopic(thread.ID, websocket.NewEvent(websocket.EventNewLike, map[string]interface{}{
		"threadId": thread.ID,
		"userId":   msg.UserID,
	}))
	a.pushThreadUpdate(thread)

	context.Respond(thread)
}

func (a *ThreadActor) handleUnlikeThread(context actor.Context, msg *UnlikeThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if err := a.db.UnlikeThread(ctx, msg.UserID, msg.ThreadID); err != nil {
		context.Respond(err)
		return
	}

	thread, err := a.db.GetThread(ctx, msg.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	a.pushThreadUpdate(thread)
	context.Respond(thread)
}

// handleRepostThread creates the actor's repost of a thread. Reposting a
// repost flattens to the original source, so the "already reposted" check
// and the display path always key on the same thread.
func (a *ThreadActor) handleRepostThread(context actor.Context, msg *RepostThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	source, err := a.db.GetThread(ctx, msg.SourceThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := a.resolver.RequireView(ctx, msg.UserID, source.AuthorID); err != nil {
		context.Respond(err)
		return
	}

	targetID := source.RepostSourceID()
	target := source
	if targetID != source.ID {
		if target, err = a.db.GetThread(ctx, targetID); err != nil {
			context.Respond(err)
			return
		}
	}
	if target.AuthorID == msg.UserID {
		context.Respond(utils.NewConflictError("cannot repost your own thread"))
		return
	}

	repost := &models.Thread{
		ID:               uuid.New(),
		AuthorID:         msg.UserID,
		RepostOfThreadID: &targetID,
	}
	if err := a.db.SaveThread(ctx, repost); err != nil {
		if utils.IsErrorCode(err, utils.ErrDuplicate) {
			context.Respond(utils.NewConflictError("thread already reposted"))
			return
		}
		context.Respond(err)
		return
	}

	if err := a.db.AdjustThreadCounters(ctx, targetID, 0, 1); err != nil {
		log.Printf("Failed to bump repost counter on %s: %v", targetID, err)
	}

	context.Send(a.notifications, &DeliverNotificationMsg{
		Type:        models.NotificationThreadRepost,
		RecipientID: target.AuthorID,
		SenderID:    msg.UserID,
		ThreadID:    &targetID,
	})

	target.RepostsCount++
	a.pushThreadUpdate(target)

	view, err := buildThreadView(ctx, a.db, msg.UserID, repost)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(view)
}

func (a *ThreadActor) handleUnrepostThread(context actor.Context, msg *UnrepostThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	source, err := a.db.GetThread(ctx, msg.SourceThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	targetID := source.RepostSourceID()

	repost, err := a.db.FindRepostByAuthorAndSource(ctx, msg.UserID, targetID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := a.db.DeleteThread(ctx, repost.ID); err != nil {
		context.Respond(err)
		return
	}
	if err := a.db.AdjustThreadCounters(ctx, targetID, 0, -1); err != nil {
		log.Printf("Failed to release repost counter on %s: %v", targetID, err)
	}

	if target, err := a.db.GetThread(ctx, targetID); err == nil {
		a.pushThreadUpdate(target)
	}
	context.Respond(&models.StatusResponse{Success: true})
}

// handleModerateThread records a moderation outcome by notifying the author.
func (a *ThreadActor) handleModerateThread(context actor.Context, msg *ModerateThreadMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	moderator, err := a.db.GetUser(ctx, msg.ModeratorID)
	if err != nil {
		context.Respond(err)
		return
	}
	if !moderator.IsVerified {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "Only verified accounts can moderate content", nil))
		return
	}

	thread, err := a.db.GetThread(ctx, msg.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}

	notificationType := models.NotificationContentValidated
	if msg.Flagged {
		notificationType = models.NotificationContentFlagged
	}
	threadID := thread.ID
	context.Send(a.notifications, &DeliverNotificationMsg{
		Type:        notificationType,
		RecipientID: thread.AuthorID,
		SenderID:    msg.ModeratorID,
		ThreadID:    &threadID,
	})
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *ThreadActor) pushThreadUpdate(thread *models.Thread) {
	a.pusher.PushToTopic(thread.ID, websocket.NewEvent(websocket.EventThreadUpdate, websocket.ThreadUpdatePayload{
		ThreadID:     thread.ID.String(),
		LikesCount:   thread.LikesCount,
		RepliesCount: thread.RepliesCount,
		RepostsCount: thread.RepostsCount,
	}))
}
