package actors

import (
	stdctx "context"
	"log"
	"net/mail"
	"strings"
	"time"

	"ripple-social/internal/database"
	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for UserActor
type (
	RegisterUserMsg struct {
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		IsPrivate   bool   `json:"isPrivate"`
	}

	LoginMsg struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	GetProfileMsg struct {
		UserID   uuid.UUID `json:"userId"`
		ViewerID uuid.UUID `json:"viewerId"`
	}

	UpdateProfileMsg struct {
		UserID      uuid.UUID `json:"userId"`
		DisplayName *string   `json:"displayName,omitempty"`
		AvatarURL   *string   `json:"avatarUrl,omitempty"`
		IsPrivate   *bool     `json:"isPrivate,omitempty"`
	}

	FollowUserMsg struct {
		FollowerID  uuid.UUID `json:"followerId"`
		FollowingID uuid.UUID `json:"followingId"`
	}

	UnfollowUserMsg struct {
		FollowerID  uuid.UUID `json:"followerId"`
		FollowingID uuid.UUID `json:"followingId"`
	}

	// AcceptFollowMsg is issued by the followed (private) account.
	AcceptFollowMsg struct {
		UserID     uuid.UUID `json:"userId"`
		FollowerID uuid.UUID `json:"followerId"`
	}

	RejectFollowMsg struct {
		UserID     uuid.UUID `json:"userId"`
		FollowerID uuid.UUID `json:"followerId"`
	}
)

// UserActor manages accounts and the follow graph. All durable state lives
// in the database; the actor serializes the follow state transitions.
type UserActor struct {
	db            database.DBAdapter
	notifications *actor.PID
}

func NewUserActor(db database.DBAdapter, notifications *actor.PID) actor.Actor {
	return &UserActor{
		db:            db,
		notifications: notifications,
	}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("UserActor started with PID: %v", context.Self())

	case *RegisterUserMsg:
		a.handleRegister(context, msg)

	case *LoginMsg:
		a.handleLogin(context, msg)

	case *GetProfileMsg:
		a.handleGetProfile(context, msg)

	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)

	case *FollowUserMsg:
		a.handleFollow(context, msg)

	case *UnfollowUserMsg:
		a.handleUnfollow(context, msg)

	case *AcceptFollowMsg:
		a.handleAcceptFollow(context, msg)

	case *RejectFollowMsg:
		a.handleRejectFollow(context, msg)

	default:
		log.Printf("UserActor: Unknown message type %T", msg)
	}
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	username := strings.TrimSpace(msg.Username)
	if username == "" || len(username) > 50 {
		context.Respond(utils.NewValidationError("username must be 1-50 characters"))
		return
	}
	if mentionPattern.FindString("@"+username) != "@"+username {
		context.Respond(utils.NewValidationError("username may only contain letters, digits and underscores"))
		return
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		context.Respond(utils.NewValidationError("invalid email address"))
		return
	}
	if len(msg.Password) < 8 {
		context.Respond(utils.NewValidationError("password must be at least 8 characters"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrExternalService, "failed to hash password", err))
		return
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       username,
		DisplayName:    strings.TrimSpace(msg.DisplayName),
		Email:          strings.ToLower(strings.TrimSpace(msg.Email)),
		HashedPassword: string(hashed),
		IsPrivate:      msg.IsPrivate,
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}

	if err := a.db.SaveUser(ctx, user); err != nil {
		if utils.IsErrorCode(err, utils.ErrDuplicate) {
			context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "username or email already registered", err))
			return
		}
		context.Respond(err)
		return
	}
	context.Respond(user)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	user, err := a.db.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(msg.Email)))
	if err != nil {
		// Same response for unknown email and wrong password.
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid credentials", nil))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid credentials", nil))
		return
	}
	context.Respond(user)
}

func (a *UserActor) handleGetProfile(context actor.Context, msg *GetProfileMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	user, err := a.db.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	profile := models.NewAuthorView(user)
	if msg.ViewerID != uuid.Nil && msg.ViewerID != msg.UserID {
		if follow, err := a.db.GetFollow(ctx, msg.ViewerID, msg.UserID); err == nil {
			profile.FollowStatus = follow.Status
			profile.IsFollowing = follow.Status == models.FollowAccepted
		}
	}
	context.Respond(profile)
}

func (a *UserActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	user, err := a.db.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	if msg.DisplayName != nil {
		name := strings.TrimSpace(*msg.DisplayName)
		if name == "" || len(name) > 100 {
			context.Respond(utils.NewValidationError("display name must be 1-100 characters"))
			return
		}
		user.DisplayName = name
	}
	if msg.AvatarURL != nil {
		user.AvatarURL = *msg.AvatarURL
	}
	if msg.IsPrivate != nil {
		user.IsPrivate = *msg.IsPrivate
	}

	if err := a.db.SaveUser(ctx, user); err != nil {
		context.Respond(err)
		return
	}
	context.Respond(user)
}

// handleFollow creates the follow edge. Public targets accept immediately;
// private targets get a pending request. Each path notifies the target with
// its own type.
func (a *UserActor) handleFollow(context actor.Context, msg *FollowUserMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if msg.FollowerID == msg.FollowingID {
		context.Respond(utils.NewValidationError("cannot follow yourself"))
		return
	}
	target, err := a.db.GetUser(ctx, msg.FollowingID)
	if err != nil {
		context.Respond(err)
		return
	}

	if existing, err := a.db.GetFollow(ctx, msg.FollowerID, msg.FollowingID); err == nil {
		if existing.Status == models.FollowAccepted {
			context.Respond(utils.NewConflictError("already following"))
		} else {
			context.Respond(utils.NewConflictError("follow request already pending"))
		}
		return
	} else if !utils.IsErrorCode(err, utils.ErrNotFound) {
		context.Respond(err)
		return
	}

	follow := &models.Follow{
		FollowerID:  msg.FollowerID,
		FollowingID: msg.FollowingID,
		Status:      models.FollowAccepted,
	}
	notificationType := models.NotificationNewFollower
	if target.IsPrivate {
		follow.Status = models.FollowPending
		notificationType = models.NotificationFollowRequest
	}

	if err := a.db.SaveFollow(ctx, follow); err != nil {
		context.Respond(err)
		return
	}

	context.Send(a.notifications, &DeliverNotificationMsg{
		Type:        notificationType,
		RecipientID: msg.FollowingID,
		SenderID:    msg.FollowerID,
	})
	context.Respond(follow)
}

func (a *UserActor) handleUnfollow(context actor.Context, msg *UnfollowUserMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	if err := a.db.DeleteFollow(ctx, msg.FollowerID, msg.FollowingID); err != nil {
		context.Respond(err)
		return
	}
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *UserActor) handleAcceptFollow(context actor.Context, msg *AcceptFollowMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	follow, err := a.db.GetFollow(ctx, msg.FollowerID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if follow.Status != models.FollowPending {
		context.Respond(utils.NewConflictError("follow request is not pending"))
		return
	}

	follow.Status = models.FollowAccepted
	if err := a.db.SaveFollow(ctx, follow); err != nil {
		context.Respond(err)
		return
	}

	context.Send(a.notifications, &DeliverNotificationMsg{
		Type:        models.NotificationFollowAccepted,
		RecipientID: msg.FollowerID,
		SenderID:    msg.UserID,
	})
	context.Respond(follow)
}

func (a *UserActor) handleRejectFollow(context actor.Context, msg *RejectFollowMsg) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
	defer cancel()

	follow, err := a.db.GetFollow(ctx, msg.FollowerID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if follow.Status != models.FollowPending {
		context.Respond(utils.NewConflictError("follow request is not pending"))
		return
	}

	if err := a.db.DeleteFollow(ctx, msg.FollowerID, msg.UserID); err != nil {
		context.Respond(err)
		return
	}
	context.Respond(&models.StatusResponse{Success: true})
}
