package actors

import (
	"fmt"
	"testing"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func askPage(t *testing.T, f *engineFixture, msg interface{}) *models.ThreadPage {
	t.Helper()
	result := ask(t, f.system, f.feeds, msg)
	page, ok := result.(*models.ThreadPage)
	require.True(t, ok, "expected *models.ThreadPage, got %T", result)
	return page
}

func TestExploreFeedFiltersPrivateAuthors(t *testing.T) {
	f := newEngineFixture(t)
	public := f.db.addUser("pub", false)
	private := f.db.addUser("priv", true)
	follower := f.db.addUser("friend", false)
	f.db.acceptedFollow(follower.ID, private.ID)

	f.db.addThread(public, "open post", treeBase)
	f.db.addThread(private, "closed post", treeBase.Add(time.Hour))

	// Anonymous viewers get the public subset, and totals match it.
	page := askPage(t, f, &GetExploreFeedMsg{ViewerID: uuid.Nil})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "open post", page.Items[0].Content)
	assert.Equal(t, 1, page.Pagination.TotalItems)

	// An accepted follower sees both, newest first.
	page = askPage(t, f, &GetExploreFeedMsg{ViewerID: follower.ID})
	require.Len(t, page.Items, 2)
	assert.Equal(t, "closed post", page.Items[0].Content)
	assert.Equal(t, 2, page.Pagination.TotalItems)

	// The private author always sees their own posts.
	page = askPage(t, f, &GetExploreFeedMsg{ViewerID: private.ID})
	assert.Equal(t, 2, page.Pagination.TotalItems)
}

func TestExploreFeedEnrichment(t *testing.T) {
	f := newEngineFixture(t)
	author := f.db.addUser("alice", false)
	viewer := f.db.addUser("bob", false)
	f.db.acceptedFollow(viewer.ID, author.ID)
	original := f.db.addThread(author, "source", treeBase)

	ask(t, f.system, f.threads, &LikeThreadMsg{ThreadID: original.ID, UserID: viewer.ID})
	ask(t, f.system, f.threads, &RepostThreadMsg{SourceThreadID: original.ID, UserID: viewer.ID})

	page := askPage(t, f, &GetExploreFeedMsg{ViewerID: viewer.ID})
	require.Len(t, page.Items, 2)

	var repostView, sourceView *models.ThreadView
	for _, item := range page.Items {
		if item.RepostOfThreadID != nil {
			repostView = item
		} else {
			sourceView = item
		}
	}
	require.NotNil(t, repostView)
	require.NotNil(t, sourceView)

	assert.True(t, sourceView.IsLiked)
	assert.True(t, sourceView.IsReposted)
	assert.True(t, sourceView.Author.IsFollowing)

	// The repost view resolves one level of indirection and shares the
	// viewer's annotations on the source.
	require.NotNil(t, repostView.RepostOf)
	assert.Equal(t, "source", repostView.RepostOf.Content)
	assert.True(t, repostView.RepostOf.IsLiked)
	assert.True(t, repostView.IsReposted)
	assert.Equal(t, "alice", repostView.RepostOf.AuthorUsername)
}

func TestFollowedFeedScopesToGraph(t *testing.T) {
	f := newEngineFixture(t)
	viewer := f.db.addUser("viewer", false)
	followed := f.db.addUser("followed", true)
	stranger := f.db.addUser("stranger", true)
	f.db.acceptedFollow(viewer.ID, followed.ID)

	f.db.addThread(followed, "from followed", treeBase)
	f.db.addThread(stranger, "from stranger", treeBase.Add(time.Hour))
	f.db.addThread(viewer, "own post", treeBase.Add(2*time.Hour))

	page := askPage(t, f, &GetFollowedFeedMsg{ViewerID: viewer.ID})
	require.Len(t, page.Items, 2)
	assert.Equal(t, "own post", page.Items[0].Content)
	assert.Equal(t, "from followed", page.Items[1].Content)
}

func TestFollowedFeedAnonymousDegradesToExplore(t *testing.T) {
	f := newEngineFixture(t)
	public := f.db.addUser("pub", false)
	f.db.addThread(public, "visible anywhere", treeBase)

	page := askPage(t, f, &GetFollowedFeedMsg{ViewerID: uuid.Nil})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "visible anywhere", page.Items[0].Content)
}

func TestAuthorFeedGatedByResolver(t *testing.T) {
	f := newEngineFixture(t)
	private := f.db.addUser("hermit", true)
	stranger := f.db.addUser("stranger", false)
	f.db.addThread(private, "hidden", treeBase)

	appErr := askErr(t, f.system, f.feeds, &GetAuthorFeedMsg{AuthorID: private.ID, ViewerID: stranger.ID})
	assert.Equal(t, utils.ErrPrivateContent, appErr.Code)

	page := askPage(t, f, &GetAuthorFeedMsg{AuthorID: private.ID, ViewerID: private.ID})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "hidden", page.Items[0].Content)
}

func TestSearchThreads(t *testing.T) {
	f := newEngineFixture(t)
	public := f.db.addUser("pub", false)
	private := f.db.addUser("priv", true)
	f.db.addThread(public, "gophers assemble", treeBase)
	f.db.addThread(public, "unrelated chatter", treeBase.Add(time.Minute))
	f.db.addThread(private, "secret gophers", treeBase.Add(2*time.Minute))

	appErr := askErr(t, f.system, f.feeds, &SearchThreadsMsg{Query: "   ", ViewerID: uuid.Nil})
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Case-insensitive match over the visible set only.
	page := askPage(t, f, &SearchThreadsMsg{Query: "GOPHERS", ViewerID: uuid.Nil})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "gophers assemble", page.Items[0].Content)

	page = askPage(t, f, &SearchThreadsMsg{Query: "gophers", ViewerID: private.ID})
	assert.Equal(t, 2, page.Pagination.TotalItems)
}

func TestFeedPagination(t *testing.T) {
	f := newEngineFixture(t)
	author := f.db.addUser("prolific", false)
	for i := 0; i < 5; i++ {
		f.db.addThread(author, fmt.Sprintf("post %d", i), treeBase.Add(time.Duration(i)*time.Minute))
	}

	page := askPage(t, f, &GetExploreFeedMsg{ViewerID: uuid.Nil, Page: 1, PageSize: 2})
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "post 4", page.Items[0].Content)
	assert.Equal(t, 5, page.Pagination.TotalItems)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasMore)

	page = askPage(t, f, &GetExploreFeedMsg{ViewerID: uuid.Nil, Page: 3, PageSize: 2})
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "post 0", page.Items[0].Content)
	assert.False(t, page.Pagination.HasMore)

	// Out-of-range pages are empty, not errors; junk parameters clamp.
	page = askPage(t, f, &GetExploreFeedMsg{ViewerID: uuid.Nil, Page: 9, PageSize: 2})
	assert.Empty(t, page.Items)

	page = askPage(t, f, &GetExploreFeedMsg{ViewerID: uuid.Nil, Page: -1, PageSize: 1000})
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
}
