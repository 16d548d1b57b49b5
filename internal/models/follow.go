package models

import (
	"time"
)

// Follow is a directed edge in the social graph. The ordered pair
// (FollowerID, FollowedID) is unique; the edge exists only between a
// successful follow and the matching unfollow.
type Follow struct {
	FollowerID string    `json:"follower_id" db:"follower_id"`
	FollowedID string    `json:"followed_id" db:"followed_id"`
	FollowedAt time.Time `json:"followed_at" db:"followed_at"`
}
