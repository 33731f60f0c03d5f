package models

import (
	"time"

	"github.com/google/uuid"
)

type Reply struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ThreadID       uuid.UUID  `json:"threadId" db:"thread_id"`
	AuthorID       uuid.UUID  `json:"authorId" db:"author_id"`
	AuthorUsername string     `json:"authorUsername" db:"author_username"` // joined from users
	ParentID       *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`  // nil for top-level replies
	Content        string     `json:"content" db:"content"`
	LikesCount     int        `json:"likesCount" db:"likes_count"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// ReplyNode is a reply with its assembled children. RepliesCount counts
// immediate children only, not the full subtree.
type ReplyNode struct {
	Reply
	RepliesCount int          `json:"repliesCount"`
	Children     []*ReplyNode `json:"children"`
}
