package models

import (
	"database/sql"
	"time"
)

// User represents a user identity
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username  string    `gorm:"type:varchar(150);not null;uniqueIndex:users_ux1;column:username"`
	Email     string    `gorm:"type:varchar(254);not null;default:'';column:email"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Profile fields
	Bio          sql.NullString `gorm:"type:varchar(500);column:bio"`
	ProfileImage string         `gorm:"type:varchar(1024);not null;default:'';column:profile_image"`

	// Social stats, maintained in the same transaction as edge writes
	Followers int64 `gorm:"not null;default:0;column:followers"`
	Following int64 `gorm:"not null;default:0;column:following"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
