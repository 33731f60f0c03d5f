package actors

import (
	"testing"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registerUser(t *testing.T, f *engineFixture, username, email, password string) *models.User {
	t.Helper()
	result := ask(t, f.system, f.users, &RegisterUserMsg{
		Username: username,
		Email:    email,
		Password: password,
	})
	user, ok := result.(*models.User)
	require.True(t, ok, "expected *models.User, got %T", result)
	return user
}

func TestRegisterUser(t *testing.T) {
	f := newEngineFixture(t)

	user := registerUser(t, f, "alice", "Alice@Example.com", "correct horse")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice", user.DisplayName)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("correct horse")))

	appErr := askErr(t, f.system, f.users, &RegisterUserMsg{Username: "has spaces", Email: "a@b.com", Password: "longenough"})
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	appErr = askErr(t, f.system, f.users, &RegisterUserMsg{Username: "bob", Email: "not-an-email", Password: "longenough"})
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	appErr = askErr(t, f.system, f.users, &RegisterUserMsg{Username: "bob", Email: "b@b.com", Password: "short"})
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	appErr = askErr(t, f.system, f.users, &RegisterUserMsg{Username: "ALICE", Email: "other@example.com", Password: "longenough"})
	assert.Equal(t, utils.ErrUserAlreadyExists, appErr.Code)
}

func TestLogin(t *testing.T) {
	f := newEngineFixture(t)
	registerUser(t, f, "alice", "alice@example.com", "correct horse")

	result := ask(t, f.system, f.users, &LoginMsg{Email: "Alice@Example.com", Password: "correct horse"})
	user, ok := result.(*models.User)
	require.True(t, ok, "expected *models.User, got %T", result)
	assert.Equal(t, "alice", user.Username)

	// Unknown email and wrong password are indistinguishable.
	wrongPassword := askErr(t, f.system, f.users, &LoginMsg{Email: "alice@example.com", Password: "wrong"})
	unknownEmail := askErr(t, f.system, f.users, &LoginMsg{Email: "ghost@example.com", Password: "correct horse"})
	assert.Equal(t, utils.ErrInvalidCredentials, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Message, unknownEmail.Message)
}

func TestFollowPublicUserAcceptsImmediately(t *testing.T) {
	f := newEngineFixture(t)
	follower := f.db.addUser("alice", false)
	target := f.db.addUser("bob", false)

	result := ask(t, f.system, f.users, &FollowUserMsg{FollowerID: follower.ID, FollowingID: target.ID})
	follow, ok := result.(*models.Follow)
	require.True(t, ok, "expected *models.Follow, got %T", result)
	assert.Equal(t, models.FollowAccepted, follow.Status)

	f.waitForNotification(t, target.ID, models.NotificationNewFollower)

	appErr := askErr(t, f.system, f.users, &FollowUserMsg{FollowerID: follower.ID, FollowingID: target.ID})
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)

	appErr = askErr(t, f.system, f.users, &FollowUserMsg{FollowerID: follower.ID, FollowingID: follower.ID})
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestFollowPrivateUserRequiresApproval(t *testing.T) {
	f := newEngineFixture(t)
	follower := f.db.addUser("alice", false)
	target := f.db.addUser("hermit", true)

	result := ask(t, f.system, f.users, &FollowUserMsg{FollowerID: follower.ID, FollowingID: target.ID})
	follow, ok := result.(*models.Follow)
	require.True(t, ok)
	assert.Equal(t, models.FollowPending, follow.Status)
	f.waitForNotification(t, target.ID, models.NotificationFollowRequest)

	// Pending does not grant visibility.
	thread := f.db.addThread(target, "private post", treeBase)
	appErr := askErr(t, f.system, f.threads, &GetThreadMsg{ThreadID: thread.ID, ViewerID: follower.ID})
	assert.Equal(t, utils.ErrPrivateContent, appErr.Code)

	result = ask(t, f.system, f.users, &AcceptFollowMsg{UserID: target.ID, FollowerID: follower.ID})
	accepted, ok := result.(*models.Follow)
	require.True(t, ok)
	assert.Equal(t, models.FollowAccepted, accepted.Status)
	f.waitForNotification(t, follower.ID, models.NotificationFollowAccepted)

	view := ask(t, f.system, f.threads, &GetThreadMsg{ThreadID: thread.ID, ViewerID: follower.ID})
	_, ok = view.(*models.ThreadView)
	assert.True(t, ok)

	// Accepting twice is a conflict.
	appErr = askErr(t, f.system, f.users, &AcceptFollowMsg{UserID: target.ID, FollowerID: follower.ID})
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)
}

func TestRejectFollowRemovesRequest(t *testing.T) {
	f := newEngineFixture(t)
	follower := f.db.addUser("alice", false)
	target := f.db.addUser("hermit", true)

	ask(t, f.system, f.users, &FollowUserMsg{FollowerID: follower.ID, FollowingID: target.ID})
	result := ask(t, f.system, f.users, &RejectFollowMsg{UserID: target.ID, FollowerID: follower.ID})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok)
	assert.True(t, status.Success)

	// The follower can ask again after a rejection.
	result = ask(t, f.system, f.users, &FollowUserMsg{FollowerID: follower.ID, FollowingID: target.ID})
	follow, ok := result.(*models.Follow)
	require.True(t, ok)
	assert.Equal(t, models.FollowPending, follow.Status)
}

func TestUnfollowRevokesVisibility(t *testing.T) {
	f := newEngineFixture(t)
	follower := f.db.addUser("alice", false)
	target := f.db.addUser("hermit", true)
	f.db.acceptedFollow(follower.ID, target.ID)
	thread := f.db.addThread(target, "was visible", treeBase)

	result := ask(t, f.system, f.threads, &GetThreadMsg{ThreadID: thread.ID, ViewerID: follower.ID})
	_, ok := result.(*models.ThreadView)
	require.True(t, ok)

	ask(t, f.system, f.users, &UnfollowUserMsg{FollowerID: follower.ID, FollowingID: target.ID})

	appErr := askErr(t, f.system, f.threads, &GetThreadMsg{ThreadID: thread.ID, ViewerID: follower.ID})
	assert.Equal(t, utils.ErrPrivateContent, appErr.Code)
}

func TestGetProfileAnnotations(t *testing.T) {
	f := newEngineFixture(t)
	viewer := f.db.addUser("alice", false)
	target := f.db.addUser("bob", true)
	f.db.acceptedFollow(viewer.ID, target.ID)

	result := ask(t, f.system, f.users, &GetProfileMsg{UserID: target.ID, ViewerID: viewer.ID})
	profile, ok := result.(*models.AuthorView)
	require.True(t, ok, "expected *models.AuthorView, got %T", result)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, models.FollowAccepted, profile.FollowStatus)

	// Anonymous viewers get the bare profile.
	result = ask(t, f.system, f.users, &GetProfileMsg{UserID: target.ID, ViewerID: uuid.Nil})
	profile, ok = result.(*models.AuthorView)
	require.True(t, ok)
	assert.False(t, profile.IsFollowing)
}

func TestUpdateProfile(t *testing.T) {
	f := newEngineFixture(t)
	user := f.db.addUser("alice", false)

	name := "Alice Q."
	private := true
	result := ask(t, f.system, f.users, &UpdateProfileMsg{UserID: user.ID, DisplayName: &name, IsPrivate: &private})
	updated, ok := result.(*models.User)
	require.True(t, ok)
	assert.Equal(t, "Alice Q.", updated.DisplayName)
	assert.True(t, updated.IsPrivate)

	empty := "   "
	appErr := askErr(t, f.system, f.users, &UpdateProfileMsg{UserID: user.ID, DisplayName: &empty})
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}
