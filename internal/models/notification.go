package models

import (
	"database/sql"
	"time"
)

// Notification represents one recorded event for a recipient. Rows are
// immutable after creation except for the read flag.
type Notification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	RecipientID int64     `gorm:"not null;index:notifs_ix1,priority:1;column:recipient_id"`
	ActorID     int64     `gorm:"not null;column:actor_id"`
	Verb        string    `gorm:"type:varchar(255);not null;column:verb"`
	Kind        int16     `gorm:"type:smallint;not null;column:kind"`
	IsRead      bool      `gorm:"not null;default:false;index:notifs_ix1,priority:2;column:is_read"`
	CreatedAt   time.Time `gorm:"not null;index:notifs_ix1,priority:3,sort:desc;column:created_at"`

	// Tagged target reference: discriminator plus id, both null when the
	// notification has no target.
	TargetKind sql.NullString `gorm:"type:varchar(20);column:target_kind"`
	TargetID   sql.NullInt64  `gorm:"column:target_id"`

	// Relationships
	Recipient *User `gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE"`
	Actor     *User `gorm:"foreignKey:ActorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// Notification kind constants
const (
	KindLike    int16 = 1
	KindComment int16 = 2
	KindFollow  int16 = 3
	KindMention int16 = 4
	KindPost    int16 = 5
)

// Target kind discriminators
const (
	TargetPost    = "post"
	TargetComment = "comment"
)
