package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	DisplayName    string    `json:"displayName" db:"display_name"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"password_hash"`
	AvatarURL      string    `json:"avatarUrl" db:"avatar_url"`
	IsPrivate      bool      `json:"isPrivate" db:"is_private"`
	IsVerified     bool      `json:"isVerified" db:"is_verified"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// AuthorView is the author block attached to threads and replies in feed
// responses, carrying the viewer-specific follow annotations.
type AuthorView struct {
	ID           uuid.UUID    `json:"id"`
	Username     string       `json:"username"`
	DisplayName  string       `json:"displayName"`
	AvatarURL    string       `json:"avatarUrl"`
	IsVerified   bool         `json:"isVerified"`
	IsPrivate    bool         `json:"isPrivate"`
	IsFollowing  bool         `json:"isFollowing"`
	FollowStatus FollowStatus `json:"followStatus,omitempty"`
}

// NewAuthorView builds the author block without viewer annotations; the feed
// composer fills IsFollowing/FollowStatus from its page-scoped lookup.
func NewAuthorView(u *User) *AuthorView {
	return &AuthorView{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsVerified:  u.IsVerified,
		IsPrivate:   u.IsPrivate,
	}
}
