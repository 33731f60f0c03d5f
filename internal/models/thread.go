package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxContentLength bounds thread and reply bodies.
const MaxContentLength = 500

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaVideo
}

type Thread struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	AuthorID         uuid.UUID  `json:"authorId" db:"author_id"`
	AuthorUsername   string     `json:"authorUsername" db:"author_username"` // joined from users
	Content          string     `json:"content" db:"content"`
	MediaURL         *string    `json:"mediaUrl,omitempty" db:"media_url"`
	MediaKind        *MediaKind `json:"mediaKind,omitempty" db:"media_kind"`
	LikesCount       int        `json:"likesCount" db:"likes_count"`
	RepliesCount     int        `json:"repliesCount" db:"replies_count"`
	RepostsCount     int        `json:"repostsCount" db:"reposts_count"`
	RepostOfThreadID *uuid.UUID `json:"repostedFrom,omitempty" db:"repost_of_thread_id"`
	RepostOfReplyID  *uuid.UUID `json:"repostedFromReply,omitempty" db:"repost_of_reply_id"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsRepost reports whether the thread is a repost of a thread or of a reply.
func (t *Thread) IsRepost() bool {
	return t.RepostOfThreadID != nil || t.RepostOfReplyID != nil
}

// RepostSourceID is the identity a viewer's "already reposted" check keys on:
// the thread's repost source when it is itself a repost, otherwise the thread.
func (t *Thread) RepostSourceID() uuid.UUID {
	if t.RepostOfThreadID != nil {
		return *t.RepostOfThreadID
	}
	return t.ID
}

// ThreadView is a thread enriched for a specific viewer. RepostOf resolves
// exactly one level of repost indirection and is never nested further.
type ThreadView struct {
	Thread
	Author     *AuthorView `json:"author,omitempty"`
	IsLiked    bool        `json:"isLiked"`
	IsReposted bool        `json:"isReposted"`
	RepostOf   *ThreadView `json:"repostOf,omitempty"`
}
