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

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for FeedActor
type (
	GetExploreFeedMsg struct {
		ViewerID uuid.UUID `json:"viewerId"`
		Page     int       `json:"page"`
		PageSize int       `json:"pageSize"`
	}

	GetFollowedFeedMsg struct {
		ViewerID uuid.UUID `json:"viewerId"`
		Page     int       `json:"page"`
		PageSize int       `json:"pageSize"`
	}

	GetAuthorFeedMsg struct {
		AuthorID uuid.UUID `json:"authorId"`
		ViewerID uuid.UUID `json:"viewerId"`
		Page     int       `json:"page"`
		PageSize int       `json:"pageSize"`
	}

	SearchThreadsMsg struct {
		Query    string    `json:"query"`
		ViewerID uuid.UUID `json:"viewerId"`
		Page     int       `json:"page"`
		PageSize int       `json:"pageSize"`
	}
)

// FeedActor composes viewer-specific thread pages. Privacy filtering lives
// in the queries, ahead of pagination; this actor adds the per-viewer
// enrichment on top.
type FeedActor struct {
	db       database.DBAdapter
	resolver *visibility.Resolver
}

func NewFeedActor(db database.DBAdapter, resolver *visibility.Resolver) actor.Actor {
	return &FeedActor{
		db:       db,
		resolver: resolver,
	}
}

func (a *FeedActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("FeedActor started with PID: %v", context.Self())

	case *GetExploreFeedMsg:
		a.handleExplore(context, msg)

	case *GetFollowedFeedMsg:
		a.handleFollowed(context, msg)

	case *GetAuthorFeedMsg:
		a.handleAuthorFeed(context, msg)

	case *SearchThreadsMsg:
		a.handleSearch(context, msg)

	default:
		log.Printf("FeedActor: Unknown message type %T", msg)
	}
}

func (a *FeedActor) handleExplore(context actor.Context, msg *GetExploreFeedMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	page, pageSize := normalizePage(msg.Page, msg.PageSize)
	offset := (page - 1) * pageSize

	threads, err := a.db.GetExploreThreads(ctx, pageSize, offset, msg.ViewerID)
	if err != nil {
		context.Respond(err)
		return
	}
	total, err := a.db.CountExploreThreads(ctx, msg.ViewerID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.respondPage(context, ctx, msg.ViewerID, threads, page, pageSize, total)
}

// handleFollowed composes the signed-in home feed. Without a viewer there is
// no follow graph to consult and the feed degrades to explore.
func (a *FeedActor) handleFollowed(context actor.Context, msg *GetFollowedFeedMsg) {
	if msg.ViewerID == uuid.Nil {
		a.handleExplore(context, &GetExploreFeedMsg{Page: msg.Page, PageSize: msg.PageSize})
		return
	}

	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	page, pageSize := normalizePage(msg.Page, msg.PageSize)
	offset := (page - 1) * pageSize

	threads, err := a.db.GetFollowedThreads(ctx, msg.ViewerID, pageSize, offset)
	if err != nil {
		context.Respond(err)
		return
	}
	total, err := a.db.CountFollowedThreads(ctx, msg.ViewerID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.respondPage(context, ctx, msg.ViewerID, threads, page, pageSize, total)
}

func (a *FeedActor) handleAuthorFeed(context actor.Context, msg *GetAuthorFeedMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if err := a.resolver.RequireView(ctx, msg.ViewerID, msg.AuthorID); err != nil {
		context.Respond(err)
		return
	}

	page, pageSize := normalizePage(msg.Page, msg.PageSize)
	offset := (page - 1) * pageSize

	threads, err := a.db.GetAuthorThreads(ctx, msg.AuthorID, pageSize, offset)
	if err != nil {
		context.Respond(err)
		return
	}
	total, err := a.db.CountAuthorThreads(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.respondPage(context, ctx, msg.ViewerID, threads, page, pageSize, total)
}

func (a *FeedActor) handleSearch(context actor.Context, msg *SearchThreadsMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	query := strings.TrimSpace(msg.Query)
	if query == "" {
		context.Respond(utils.NewValidationError("search query is required"))
		return
	}

	page, pageSize := normalizePage(msg.Page, msg.PageSize)
	offset := (page - 1) * pageSize

	threads, err := a.db.SearchThreads(ctx, query, pageSize, offset, msg.ViewerID)
	if err != nil {
		context.Respond(err)
		return
	}
	total, err := a.db.CountSearchThreads(ctx, query, msg.ViewerID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.respondPage(context, ctx, msg.ViewerID, threads, page, pageSize, total)
}

func (a *FeedActor) respondPage(context actor.Context, ctx stdctx.Context, viewerID uuid.UUID, threads []*models.Thread, page, pageSize, total int) {
	views, err := buildThreadViews(ctx, a.db, viewerID, threads)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(&models.ThreadPage{
		Items:      views,
		Pagination: models.NewPagination(page, pageSize, total),
	})
}
