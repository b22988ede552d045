package models

import (
	"time"
)

// Follow represents a directed follow edge: follower observes followee's
// activity. Uniqueness and irreflexivity are storage-enforced: the ordered
// pair is the primary key and a check constraint rejects self-edges.
type Follow struct {
	FollowerID int64     `gorm:"primaryKey;column:follower_id;check:follows_no_self,follower_id <> followee_id"`
	FolloweeID int64     `gorm:"primaryKey;column:followee_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Followee *User `gorm:"foreignKey:FolloweeID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
