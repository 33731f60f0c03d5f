package models

import (
	"time"

	"github.com/google/uuid"
)

type FollowStatus string

const (
	FollowPending  FollowStatus = "pending"
	FollowAccepted FollowStatus = "accepted"
)

type Follow struct {
	FollowerID  uuid.UUID    `json:"followerId" db:"follower_id"`
	FollowingID uuid.UUID    `json:"followingId" db:"following_id"`
	Status      FollowStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}
