package actors

import (
	stdctx "context"
	"sort"
	"strings"
	"sync"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
)

// fakeDB is an in-memory DBAdapter with the same semantics as the Postgres
// implementation: privacy filtering ahead of pagination, repost uniqueness,
// at-most-one-like, AppError codes.
type fakeDB struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*models.User
	threads       map[uuid.UUID]*models.Thread
	replies       map[uuid.UUID]*models.Reply
	threadLikes   map[uuid.UUID]map[uuid.UUID]bool // userID -> thread set
	replyLikes    map[uuid.UUID]map[uuid.UUID]bool // userID -> reply set
	follows       map[[2]uuid.UUID]*models.Follow
	notifications []*models.Notification

	// When set, FindRecentNotification fails with this error.
	recentLookupErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:       make(map[uuid.UUID]*models.User),
		threads:     make(map[uuid.UUID]*models.Thread),
		replies:     make(map[uuid.UUID]*models.Reply),
		threadLikes: make(map[uuid.UUID]map[uuid.UUID]bool),
		replyLikes:  make(map[uuid.UUID]map[uuid.UUID]bool),
		follows:     make(map[[2]uuid.UUID]*models.Follow),
	}
}

func (f *fakeDB) Close(ctx stdctx.Context) error { return nil }

func (f *fakeDB) addUser(username string, private bool) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{
		ID:          uuid.New(),
		Username:    username,
		DisplayName: username,
		Email:       strings.ToLower(username) + "@example.com",
		IsPrivate:   private,
		CreatedAt:   time.Now(),
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeDB) addThread(author *models.User, content string, createdAt time.Time) *models.Thread {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &models.Thread{
		ID:        uuid.New(),
		AuthorID:  author.ID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	f.threads[t.ID] = t
	return t
}

func (f *fakeDB) addReply(thread *models.Thread, author *models.User, parentID *uuid.UUID, content string, createdAt time.Time) *models.Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &models.Reply{
		ID:        uuid.New(),
		ThreadID:  thread.ID,
		AuthorID:  author.ID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	f.replies[r.ID] = r
	return r
}

func (f *fakeDB) acceptedFollow(follower, following uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.follows[[2]uuid.UUID{follower, following}] = &models.Follow{
		FollowerID:  follower,
		FollowingID: following,
		Status:      models.FollowAccepted,
		CreatedAt:   time.Now(),
	}
}

// --- Users ---

func (f *fakeDB) GetUser(ctx stdctx.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "user not found", nil)
}

func (f *fakeDB) GetUserByEmail(ctx stdctx.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "user not found", nil)
}

func (f *fakeDB) GetUserByUsername(ctx stdctx.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "user not found", nil)
}

func (f *fakeDB) GetUsersByIDs(ctx stdctx.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[uuid.UUID]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			copied := *u
			result[id] = &copied
		}
	}
	return result, nil
}

func (f *fakeDB) SaveUser(ctx stdctx.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.ID != user.ID && (strings.EqualFold(existing.Username, user.Username) || existing.Email == user.Email) {
			return utils.NewAppError(utils.ErrDuplicate, "username or email already registered", nil)
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

// --- Threads ---

func (f *fakeDB) SaveThread(ctx stdctx.Context, thread *models.Thread) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.threads {
		if existing.ID == thread.ID {
			continue
		}
		if existing.AuthorID == thread.AuthorID {
			if thread.RepostOfThreadID != nil && existing.RepostOfThreadID != nil && *existing.RepostOfThreadID == *thread.RepostOfThreadID {
				return utils.NewAppError(utils.ErrDuplicate, "already reposted this source", nil)
			}
			if thread.RepostOfReplyID != nil && existing.RepostOfReplyID != nil && *existing.RepostOfReplyID == *thread.RepostOfReplyID {
				return utils.NewAppError(utils.ErrDuplicate, "already reposted this source", nil)
			}
		}
	}
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = time.Now()
	}
	thread.UpdatedAt = time.Now()
	copied := *thread
	f.threads[thread.ID] = &copied
	return nil
}

func (f *fakeDB) GetThread(ctx stdctx.Context, id uuid.UUID) (*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "thread not found", nil)
	}
	copied := *t
	if author, ok := f.users[t.AuthorID]; ok {
		copied.AuthorUsername = author.Username
	}
	return &copied, nil
}

func (f *fakeDB) GetThreadsByIDs(ctx stdctx.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Thread, error) {
	result := make(map[uuid.UUID]*models.Thread, len(ids))
	for _, id := range ids {
		if t, err := f.GetThread(ctx, id); err == nil {
			result[id] = t
		}
	}
	return result, nil
}

func (f *fakeDB) DeleteThread(ctx stdctx.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.threads[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "thread not found", nil)
	}
	delete(f.threads, id)
	for replyID, r := range f.replies {
		if r.ThreadID == id {
			delete(f.replies, replyID)
		}
	}
	return nil
}

func (f *fakeDB) AdjustThreadCounters(ctx stdctx.Context, id uuid.UUID, repliesDelta, repostsDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[id]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "thread not found when updating counters", nil)
	}
	t.RepliesCount += repliesDelta
	if t.RepliesCount < 0 {
		t.RepliesCount = 0
	}
	t.RepostsCount += repostsDelta
	if t.RepostsCount < 0 {
		t.RepostsCount = 0
	}
	return nil
}

func (f *fakeDB) FindRepostByAuthorAndSource(ctx stdctx.Context, authorID, sourceThreadID uuid.UUID) (*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.threads {
		if t.AuthorID == authorID && t.RepostOfThreadID != nil && *t.RepostOfThreadID == sourceThreadID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "repost not found", nil)
}

func (f *fakeDB) FindRepostByAuthorAndReply(ctx stdctx.Context, authorID, replyID uuid.UUID) (*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.threads {
		if t.AuthorID == authorID && t.RepostOfReplyID != nil && *t.RepostOfReplyID == replyID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "repost not found", nil)
}

// --- Likes ---

func (f *fakeDB) LikeThread(ctx stdctx.Context, userID, threadID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[threadID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "thread not found", nil)
	}
	if f.threadLikes[userID] == nil {
		f.threadLikes[userID] = make(map[uuid.UUID]bool)
	}
	if f.threadLikes[userID][threadID] {
		return utils.NewAppError(utils.ErrDuplicate, "thread already liked", nil)
	}
	f.threadLikes[userID][threadID] = true
	t.LikesCount++
	return nil
}

func (f *fakeDB) UnlikeThread(ctx stdctx.Context, userID, threadID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.threadLikes[userID][threadID] {
		return utils.NewAppError(utils.ErrNotFound, "like not found", nil)
	}
	delete(f.threadLikes[userID], threadID)
	if t, ok := f.threads[threadID]; ok && t.LikesCount > 0 {
		t.LikesCount--
	}
	return nil
}

func (f *fakeDB) GetLikedThreadSet(ctx stdctx.Context, userID uuid.UUID, threadIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	liked := make(map[uuid.UUID]bool)
	for _, id := range threadIDs {
		if f.threadLikes[userID][id] {
			liked[id] = true
		}
	}
	return liked, nil
}

func (f *fakeDB) GetViewerRepostSources(ctx stdctx.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sources := make(map[uuid.UUID]bool)
	for _, t := range f.threads {
		if t.AuthorID == userID && t.RepostOfThreadID != nil {
			sources[*t.RepostOfThreadID] = true
		}
	}
	return sources, nil
}

// --- Feeds ---

func (f *fakeDB) canSee(viewerID uuid.UUID, authorID uuid.UUID) bool {
	author, ok := f.users[authorID]
	if !ok {
		return false
	}
	if !author.IsPrivate || authorID == viewerID {
		return true
	}
	follow, ok := f.follows[[2]uuid.UUID{viewerID, authorID}]
	return ok && follow.Status == models.FollowAccepted
}

func (f *fakeDB) visibleThreads(viewerID uuid.UUID, extra func(*models.Thread) bool) []*models.Thread {
	visible := []*models.Thread{}
	for _, t := range f.threads {
		if !f.canSee(viewerID, t.AuthorID) {
			continue
		}
		if extra != nil && !extra(t) {
			continue
		}
		copied := *t
		if author, ok := f.users[t.AuthorID]; ok {
			copied.AuthorUsername = author.Username
		}
		visible = append(visible, &copied)
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible
}

func paginate(threads []*models.Thread, limit, offset int) []*models.Thread {
	if offset >= len(threads) {
		return []*models.Thread{}
	}
	end := offset + limit
	if end > len(threads) {
		end = len(threads)
	}
	return threads[offset:end]
}

func (f *fakeDB) GetExploreThreads(ctx stdctx.Context, limit, offset int, viewerID uuid.UUID) ([]*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return paginate(f.visibleThreads(viewerID, nil), limit, offset), nil
}

func (f *fakeDB) CountExploreThreads(ctx stdctx.Context, viewerID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visibleThreads(viewerID, nil)), nil
}

func (f *fakeDB) followedFilter(viewerID uuid.UUID) func(*models.Thread) bool {
	return func(t *models.Thread) bool {
		if t.AuthorID == viewerID {
			return true
		}
		if author, ok := f.users[t.AuthorID]; ok && !author.IsPrivate {
			return true
		}
		follow, ok := f.follows[[2]uuid.UUID{viewerID, t.AuthorID}]
		return ok && follow.Status == models.FollowAccepted
	}
}

func (f *fakeDB) GetFollowedThreads(ctx stdctx.Context, viewerID uuid.UUID, limit, offset int) ([]*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return paginate(f.visibleThreads(viewerID, f.followedFilter(viewerID)), limit, offset), nil
}

func (f *fakeDB) CountFollowedThreads(ctx stdctx.Context, viewerID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visibleThreads(viewerID, f.followedFilter(viewerID))), nil
}

func (f *fakeDB) GetAuthorThreads(ctx stdctx.Context, authorID uuid.UUID, limit, offset int) ([]*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Author feeds are pre-gated by the resolver, so no predicate here.
	authored := f.visibleThreads(authorID, func(t *models.Thread) bool { return t.AuthorID == authorID })
	return paginate(authored, limit, offset), nil
}

func (f *fakeDB) CountAuthorThreads(ctx stdctx.Context, authorID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.threads {
		if t.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeDB) SearchThreads(ctx stdctx.Context, query string, limit, offset int, viewerID uuid.UUID) ([]*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := f.visibleThreads(viewerID, func(t *models.Thread) bool {
		return strings.Contains(strings.ToLower(t.Content), strings.ToLower(query))
	})
	return paginate(matches, limit, offset), nil
}

func (f *fakeDB) CountSearchThreads(ctx stdctx.Context, query string, viewerID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visibleThreads(viewerID, func(t *models.Thread) bool {
		return strings.Contains(strings.ToLower(t.Content), strings.ToLower(query))
	})), nil
}

// --- Replies ---

func (f *fakeDB) SaveReply(ctx stdctx.Context, reply *models.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	reply.UpdatedAt = time.Now()
	copied := *reply
	f.replies[reply.ID] = &copied
	return nil
}

func (f *fakeDB) GetReply(ctx stdctx.Context, id uuid.UUID) (*models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.replies[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "reply not found", nil)
	}
	copied := *r
	if author, ok := f.users[r.AuthorID]; ok {
		copied.AuthorUsername = author.Username
	}
	return &copied, nil
}

func (f *fakeDB) GetThreadReplies(ctx stdctx.Context, threadID uuid.UUID) ([]*models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	replies := []*models.Reply{}
	for _, r := range f.replies {
		if r.ThreadID != threadID {
			continue
		}
		copied := *r
		if author, ok := f.users[r.AuthorID]; ok {
			copied.AuthorUsername = author.Username
		}
		replies = append(replies, &copied)
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies, nil
}

func (f *fakeDB) DeleteReplySubtree(ctx stdctx.Context, replyID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	root, ok := f.replies[replyID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "reply not found", nil)
	}
	doomed := map[uuid.UUID]bool{replyID: true}
	for changed := true; changed; {
		changed = false
		for _, r := range f.replies {
			if r.ParentID != nil && doomed[*r.ParentID] && !doomed[r.ID] {
				doomed[r.ID] = true
				changed = true
			}
		}
	}
	for id := range doomed {
		delete(f.replies, id)
	}
	if root.ParentID == nil {
		if t, ok := f.threads[root.ThreadID]; ok && t.RepliesCount > 0 {
			t.RepliesCount--
		}
	}
	return nil
}

func (f *fakeDB) LikeReply(ctx stdctx.Context, userID, replyID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.replies[replyID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "reply not found", nil)
	}
	if f.replyLikes[userID] == nil {
		f.replyLikes[userID] = make(map[uuid.UUID]bool)
	}
	if f.replyLikes[userID][replyID] {
		return utils.NewAppError(utils.ErrDuplicate, "reply already liked", nil)
	}
	f.replyLikes[userID][replyID] = true
	r.LikesCount++
	return nil
}

func (f *fakeDB) UnlikeReply(ctx stdctx.Context, userID, replyID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.replyLikes[userID][replyID] {
		return utils.NewAppError(utils.ErrNotFound, "like not found", nil)
	}
	delete(f.replyLikes[userID], replyID)
	if r, ok := f.replies[replyID]; ok && r.LikesCount > 0 {
		r.LikesCount--
	}
	return nil
}

// --- Follows ---

func (f *fakeDB) GetFollow(ctx stdctx.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if follow, ok := f.follows[[2]uuid.UUID{followerID, followingID}]; ok {
		copied := *follow
		return &copied, nil
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "follow not found", nil)
}

func (f *fakeDB) SaveFollow(ctx stdctx.Context, follow *models.Follow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *follow
	f.follows[[2]uuid.UUID{follow.FollowerID, follow.FollowingID}] = &copied
	return nil
}

func (f *fakeDB) DeleteFollow(ctx stdctx.Context, followerID, followingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{followerID, followingID}
	if _, ok := f.follows[key]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "follow not found", nil)
	}
	delete(f.follows, key)
	return nil
}

func (f *fakeDB) GetFollowStatuses(ctx stdctx.Context, followerID uuid.UUID, followingIDs []uuid.UUID) (map[uuid.UUID]models.FollowStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	statuses := make(map[uuid.UUID]models.FollowStatus)
	for _, id := range followingIDs {
		if follow, ok := f.follows[[2]uuid.UUID{followerID, id}]; ok {
			statuses[id] = follow.Status
		}
	}
	return statuses, nil
}

// --- Notifications ---

func (f *fakeDB) SaveNotification(ctx stdctx.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *n
	f.notifications = append(f.notifications, &copied)
	return nil
}

func sameSubject(a, b *models.Notification) bool {
	threadMatch := (a.ThreadID == nil && b.ThreadID == nil) ||
		(a.ThreadID != nil && b.ThreadID != nil && *a.ThreadID == *b.ThreadID)
	replyMatch := (a.ReplyID == nil && b.ReplyID == nil) ||
		(a.ReplyID != nil && b.ReplyID != nil && *a.ReplyID == *b.ReplyID)
	return threadMatch && replyMatch
}

func (f *fakeDB) FindRecentNotification(ctx stdctx.Context, n *models.Notification, since time.Time) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recentLookupErr != nil {
		return nil, f.recentLookupErr
	}
	for i := len(f.notifications) - 1; i >= 0; i-- {
		candidate := f.notifications[i]
		if candidate.RecipientID == n.RecipientID && candidate.SenderID == n.SenderID &&
			candidate.Type == n.Type && sameSubject(candidate, n) && !candidate.CreatedAt.Before(since) {
			copied := *candidate
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "no recent notification", nil)
}

func (f *fakeDB) GetNotifications(ctx stdctx.Context, recipientID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mine := []*models.Notification{}
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			copied := *n
			mine = append(mine, &copied)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	if offset >= len(mine) {
		return []*models.Notification{}, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], nil
}

func (f *fakeDB) CountNotifications(ctx stdctx.Context, recipientID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			count++
		}
	}
	return count, nil
}

func (f *fakeDB) CountUnreadNotifications(ctx stdctx.Context, recipientID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeDB) MarkNotificationRead(ctx stdctx.Context, id, recipientID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return utils.NewAppError(utils.ErrNotFound, "notification not found", nil)
}

func (f *fakeDB) MarkAllNotificationsRead(ctx stdctx.Context, recipientID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := 0
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (f *fakeDB) DeleteNotification(ctx stdctx.Context, id, recipientID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return nil
		}
	}
	return utils.NewAppError(utils.ErrNotFound, "notification not found", nil)
}

func (f *fakeDB) DeleteAllNotifications(ctx stdctx.Context, recipientID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.notifications[:0]
	deleted := 0
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return deleted, nil
}
