package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSession backs an issued access token.
type UserSession struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string    `gorm:"column:session_id;uniqueIndex;not null" json:"session_id"`
	UserData  JSONB     `gorm:"column:user_data;type:jsonb" json:"user_data"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

func (s *UserSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsExpired returns true if the session expiry has passed.
func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
