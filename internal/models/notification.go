package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationNewFollower      NotificationType = "new_follower"
	NotificationFollowRequest    NotificationType = "follow_request"
	NotificationFollowAccepted   NotificationType = "follow_accepted"
	NotificationThreadLike       NotificationType = "thread_like"
	NotificationReplyLike        NotificationType = "reply_like"
	NotificationThreadReply      NotificationType = "thread_reply"
	NotificationThreadRepost     NotificationType = "thread_repost"
	NotificationMention          NotificationType = "mention"
	NotificationContentValidated NotificationType = "content_validated"
	NotificationContentFlagged   NotificationType = "content_flagged"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationNewFollower, NotificationFollowRequest, NotificationFollowAccepted,
		NotificationThreadLike, NotificationReplyLike, NotificationThreadReply,
		NotificationThreadRepost, NotificationMention,
		NotificationContentValidated, NotificationContentFlagged:
		return true
	}
	return false
}

type Notification struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	Type           NotificationType `json:"type" db:"type"`
	RecipientID    uuid.UUID        `json:"recipientId" db:"recipient_id"`
	SenderID       uuid.UUID        `json:"senderId" db:"sender_id"`
	SenderUsername string           `json:"senderUsername" db:"sender_username"` // joined from users
	ThreadID       *uuid.UUID       `json:"threadId,omitempty" db:"thread_id"`
	ReplyID        *uuid.UUID       `json:"replyId,omitempty" db:"reply_id"`
	IsRead         bool             `json:"isRead" db:"is_read"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}
