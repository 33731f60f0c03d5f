package actors

import (
	stdctx "context"
	"log"

	"ripple-social/internal/database"
	"ripple-social/internal/models"

	"github.com/google/uuid"
)

// buildThreadViews enriches a page of threads for one viewer. All lookups
// are page-scoped batches: repost sources, authors, the viewer's liked set,
// the viewer's repost-source set and follow statuses are each one query.
// Repost indirection resolves exactly one level.
func buildThreadViews(ctx stdctx.Context, db database.DBAdapter, viewerID uuid.UUID, threads []*models.Thread) ([]*models.ThreadView, error) {
	views := make([]*models.ThreadView, 0, len(threads))
	if len(threads) == 0 {
		return views, nil
	}

	sourceIDs := []uuid.UUID{}
	sourceSeen := make(map[uuid.UUID]bool)
	for _, t := range threads {
		if t.RepostOfThreadID != nil && !sourceSeen[*t.RepostOfThreadID] {
			sourceSeen[*t.RepostOfThreadID] = true
			sourceIDs = append(sourceIDs, *t.RepostOfThreadID)
		}
	}

	sources, err := db.GetThreadsByIDs(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := []uuid.UUID{}
	authorSeen := make(map[uuid.UUID]bool)
	addAuthor := func(id uuid.UUID) {
		if !authorSeen[id] {
			authorSeen[id] = true
			authorIDs = append(authorIDs, id)
		}
	}
	likeIDs := make([]uuid.UUID, 0, len(threads)+len(sources))
	for _, t := range threads {
		addAuthor(t.AuthorID)
		likeIDs = append(likeIDs, t.ID)
	}
	for _, src := range sources {
		addAuthor(src.AuthorID)
		likeIDs = append(likeIDs, src.ID)
	}

	authors, err := db.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	liked, err := db.GetLikedThreadSet(ctx, viewerID, likeIDs)
	if err != nil {
		return nil, err
	}
	reposted, err := db.GetViewerRepostSources(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	followStatuses, err := db.GetFollowStatuses(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	authorView := func(authorID uuid.UUID) *models.AuthorView {
		author, ok := authors[authorID]
		if !ok {
			log.Printf("Thread references missing author %s", authorID)
			return nil
		}
		view := models.NewAuthorView(author)
		if status, ok := followStatuses[authorID]; ok {
			view.FollowStatus = status
			view.IsFollowing = status == models.FollowAccepted
		}
		return view
	}

	makeView := func(t *models.Thread) *models.ThreadView {
		return &models.ThreadView{
			Thread:     *t,
			Author:     authorView(t.AuthorID),
			IsLiked:    liked[t.ID],
			IsReposted: reposted[t.RepostSourceID()],
		}
	}

	for _, t := range threads {
		view := makeView(t)
		if t.RepostOfThreadID != nil {
			if src, ok := sources[*t.RepostOfThreadID]; ok {
				view.RepostOf = makeView(src)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// buildThreadView is the single-thread variant used outside feed pages.
func buildThreadView(ctx stdctx.Context, db database.DBAdapter, viewerID uuid.UUID, thread *models.Thread) (*models.ThreadView, error) {
	views, err := buildThreadViews(ctx, db, viewerID, []*models.Thread{thread})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}
