package actors

import (
	stdctx "context"
	"fmt"
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

// Message types for ReplyActor
type (
	CreateReplyMsg struct {
		ThreadID uuid.UUID  `json:"threadId"`
		AuthorID uuid.UUID  `json:"authorId"`
		ParentID *uuid.UUID `json:"parentId,omitempty"`
		Content  string     `json:"content"`
	}

	UpdateReplyMsg struct {
		ReplyID     uuid.UUID `json:"replyId"`
		RequesterID uuid.UUID `json:"requesterId"`
		Content     string    `json:"content"`
	}

	DeleteReplyMsg struct {
		ReplyID     uuid.UUID `json:"replyId"`
		RequesterID uuid.UUID `json:"requesterId"`
	}

	LikeReplyMsg struct {
		ReplyID uuid.UUID `json:"replyId"`
		UserID  uuid.UUID `json:"userId"`
	}

	UnlikeReplyMsg struct {
		ReplyID uuid.UUID `json:"replyId"`
		UserID  uuid.UUID `json:"userId"`
	}

	GetThreadRepliesMsg struct {
		ThreadID uuid.UUID `json:"threadId"`
		ViewerID uuid.UUID `json:"viewerId"`
	}

	// RepostReplyMsg promotes a reply into a standalone thread authored by
	// the actor, carrying the reply's descendant conversation with it.
	RepostReplyMsg struct {
		ReplyID uuid.UUID `json:"replyId"`
		UserID  uuid.UUID `json:"userId"`
	}
)

// ReplyActor manages reply operations and tree assembly
type ReplyActor struct {
	db            database.DBAdapter
	resolver      *visibility.Resolver
	pusher        Pusher
	notifications *actor.PID
}

func NewReplyActor(db database.DBAdapter, resolver *visibility.Resolver, pusher Pusher, notifications *actor.PID) actor.Actor {
	return &ReplyActor{
		db:            db,
		resolver:      resolver,
		pusher:        pusher,
		notifications: notifications,
	}
}

func (a *ReplyActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ReplyActor started with PID: %v", context.Self())

	case *CreateReplyMsg:
		a.handleCreateReply(context, msg)

	case *UpdateReplyMsg:
		a.handleUpdateReply(context, msg)

	case *DeleteReplyMsg:
		a.handleDeleteReply(context, msg)

	case *LikeReplyMsg:
		a.handleLikeReply(context, msg)

	case *UnlikeReplyMsg:
		a.handleUnlikeReply(context, msg)

	case *GetThreadRepliesMsg:
		a.handleGetThreadReplies(context, msg)

	case *RepostReplyMsg:
		a.handleRepostReply(context, msg)

	default:
		log.Printf("ReplyActor: Unknown message type %T", msg)
	}
}

func (a *ReplyActor) handleCreateReply(context actor.Context, msg *CreateReplyMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if strings.TrimSpace(msg.Content) == "" {
		context.Respond(utils.NewValidationError("reply content is required"))
		return
	}
	if len(msg.Content) > models.MaxContentLength {
		context.Respond(utils.NewValidationError("content exceeds maximum length"))
		return
	}

	thread, err := a.db.GetThread(ctx, msg.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := a.resolver.RequireView(ctx, msg.AuthorID, thread.AuthorID); err != nil {
		context.Respond(err)
		return
	}

	var parent *models.Reply
	if msg.ParentID != nil {
		if parent, err = a.db.GetReply(ctx, *msg.ParentID); err != nil {
			context.Respond(err)
			return
		}
		if parent.ThreadID != msg.ThreadID {
			context.Respond(utils.NewValidationError("parent reply belongs to a different thread"))
			return
		}
	}

	reply := &models.Reply{
		ID:       uuid.New(),
		ThreadID: msg.ThreadID,
		AuthorID: msg.AuthorID,
		ParentID: msg.ParentID,
		Content:  msg.Content,
	}
	if err := a.db.SaveReply(ctx, reply); err != nil {
		context.Respond(err)
		return
	}
	if msg.ParentID == nil {
		if err := a.db.AdjustThreadCounters(ctx, msg.ThreadID, 1, 0); err != nil {
			log.Printf("Failed to bump reply counter on %s: %v", msg.ThreadID, err)
		}
		thread.RepliesCount++
	}

	threadID := msg.ThreadID
	replyID := reply.ID
	context.Send(a.notifications, &DeliverNotificationMsg{
		Type:        models.NotificationThreadReply,
		RecipientID: thread.AuthorID,
		SenderID:    msg.AuthorID,
		ThreadID:    &threadID,
		ReplyID:     &replyID,
	})
	// A nested reply also notifies the parent's author, unless that would
	// duplicate the thread-author notification.
	if parent != nil && parent.AuthorID != thread.AuthorID {
		context.Send(a.notifications, &DeliverNotificationMsg{
			Type:        models.NotificationThreadReply,
			RecipientID: parent.AuthorID,
			SenderID:    msg.AuthorID,
			ThreadID:    &threadID,
			ReplyID:     &replyID,
		})
	}
	context.Send(a.notifications, &CreateMentionNotificationsMsg{
		AuthorID: msg.AuthorID,
		Content:  msg.Content,
		ThreadID: &threadID,
		ReplyID:  &replyID,
	})

	a.pusher.PushToTopic(msg.ThreadID, websocket.NewEvent(websocket.EventNewReply, reply))
	a.pushThreadUpdate(thread)

	context.Respond(reply)
}

func (a *ReplyActor) handleUpdateReply(context actor.Context, msg *UpdateReplyMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	reply, err := a.db.GetReply(ctx, msg.ReplyID)
	if err != nil {
		context.Respond(err)
		return
	}
	if reply.AuthorID != msg.RequesterID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the author can edit a reply", nil))
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		context.Respond(utils.NewValidationError("reply content is required"))
		return
	}
	if len(msg.Content) > models.MaxContentLength {
		context.Respond(utils.NewValidationError("content exceeds maximum length"))
		return
	}

	reply.Content = msg.Content
	if err := a.db.SaveReply(ctx, reply); err != nil {
		context.Respond(err)
		return
	}
	context.Respond(reply)
}

// handleDeleteReply removes a reply and everything under it. The reply's
// author and the thread's author may both delete.
func (a *ReplyActor) handleDeleteReply(context actor.Context, msg *DeleteReplyMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	reply, err := a.db.GetReply(ctx, msg.ReplyID)
	if err != nil {
		context.Respond(err)
		return
	}
	thread, err := a.db.GetThread(ctx, reply.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	if reply.AuthorID != msg.RequesterID && thread.AuthorID != msg.RequesterID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "not allowed to delete this reply", nil))
		return
	}

	if err := a.db.DeleteReplySubtree(ctx, msg.ReplyID); err != nil {
		context.Respond(err)
		return
	}
	if reply.ParentID == nil {
		thread.RepliesCount--
	}
	a.pushThreadUpdate(thread)
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *ReplyActor) handleLikeReply(context actor.Context, msg *LikeReplyMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	reply, err := a.db.GetReply(ctx, msg.ReplyID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := a.resolver.RequireView(ctx, msg.UserID, reply.AuthorID); err != nil {
		context.Respond(err)
		return
	}

	if err := a.db.LikeReply(ctx, msg.UserID, msg.ReplyID); err != nil {
		context.Respond(err)
		return
	}
	reply.LikesCount++

	threadID := reply.ThreadID
	replyID := reply.ID
	context.Send(a.notifications, &DeliverNotificationMsg{
		Type:        models.NotificationReplyLike,
		RecipientID: reply.AuthorID,
		SenderID:    msg.UserID,
		ThreadID:    &threadID,
		ReplyID:     &replyID,
	})

	a.pusher.PushToTopic(reply.ThreadID, websocket.NewEvent(websocket.EventNewLike, map[string]interface{}{
		"threadId": reply.ThreadID,
		"replyId":  reply.ID,
		"userId":   msg.UserID,
	}))

	context.Respond(reply)
}

func (a *ReplyActor) handleUnlikeReply(context actor.Context, msg *UnlikeReplyMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if err := a.db.UnlikeReply(ctx, msg.UserID, msg.ReplyID); err != nil {
		context.Respond(err)
		return
	}
	reply, err := a.db.GetReply(ctx, msg.ReplyID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(reply)
}

func (a *ReplyActor) handleGetThreadReplies(context actor.Context, msg *GetThreadRepliesMsg) {
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

	replies, err := a.db.GetThreadReplies(ctx, msg.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	tree, err := BuildReplyTree(replies)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(tree)
}

// handleRepostReply promotes a reply into a new thread. The actor gets a
// quote thread in their own name; the reply's descendants are copied under
// it with their original authors and creation times, direct children
// becoming top-level.
func (a *ReplyActor) handleRepostReply(context actor.Context, msg *RepostReplyMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	reply, err := a.db.GetReply(ctx, msg.ReplyID)
	if err != nil {
		context.Respond(err)
		return
	}
	if reply.AuthorID == msg.UserID {
		context.Respond(utils.NewConflictError("cannot repost your own reply"))
		return
	}
	thread, err := a.db.GetThread(ctx, reply.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := a.resolver.RequireView(ctx, msg.UserID, thread.AuthorID); err != nil {
		context.Respond(err)
		return
	}

	allReplies, err := a.db.GetThreadReplies(ctx, reply.ThreadID)
	if err != nil {
		context.Respond(err)
		return
	}
	subtree, err := CollectSubtree(allReplies, msg.ReplyID)
	if err != nil {
		context.Respond(err)
		return
	}

	content := fmt.Sprintf("quoting @%s: %s", reply.AuthorUsername, reply.Content)
	if runes := []rune(content); len(runes) > models.MaxContentLength {
		content = string(runes[:models.MaxContentLength])
	}

	replyID := reply.ID
	newThread := &models.Thread{
		ID:              uuid.New(),
		AuthorID:        msg.UserID,
		Content:         content,
		RepostOfReplyID: &replyID,
	}

	// Count first-level copies before writing anything.
	firstLevel := 0
	for _, original := range subtree[1:] {
		if original.ParentID != nil && *original.ParentID == reply.ID {
			firstLevel++
		}
	}
	newThread.RepliesCount = firstLevel

	if err := a.db.SaveThread(ctx, newThread); err != nil {
		if utils.IsErrorCode(err, utils.ErrDuplicate) {
			context.Respond(utils.NewConflictError("reply already reposted"))
			return
		}
		context.Respond(err)
		return
	}

	// The subtree arrives parents-first, so every copy's parent mapping is
	// already known when its row is written. The reposted reply itself
	// became the thread; its children re-root as top-level.
	idMap := make(map[uuid.UUID]uuid.UUID, len(subtree))
	idMap[reply.ID] = uuid.Nil
	for _, original := range subtree[1:] {
		copyReply := &models.Reply{
			ID:        uuid.New(),
			ThreadID:  newThread.ID,
			AuthorID:  original.AuthorID,
			Content:   original.Content,
			CreatedAt: original.CreatedAt,
		}
		if mapped, ok := idMap[*original.ParentID]; ok && mapped != uuid.Nil {
			parentCopy := mapped
			copyReply.ParentID = &parentCopy
		}
		if err := a.db.SaveReply(ctx, copyReply); err != nil {
			context.Respond(err)
			return
		}
		idMap[original.ID] = copyReply.ID
	}

	newThreadID := newThread.ID
	context.Send(a.notifications, &DeliverNotificationMsg{
		Type:        models.NotificationThreadRepost,
		RecipientID: reply.AuthorID,
		SenderID:    msg.UserID,
		ThreadID:    &newThreadID,
		ReplyID:     &replyID,
	})

	view, err := buildThreadView(ctx, a.db, msg.UserID, newThread)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(view)
}

func (a *ReplyActor) pushThreadUpdate(thread *models.Thread) {
	a.pusher.PushToTopic(thread.ID, websocket.NewEvent(websocket.EventThreadUpdate, websocket.ThreadUpdatePayload{
		ThreadID:     thread.ID.String(),
		LikesCount:   thread.LikesCount,
		RepliesCount: thread.RepliesCount,
		RepostsCount: thread.RepostsCount,
	}))
}
