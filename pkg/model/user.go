package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Base
	OrganizationID *uuid.UUID `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	Email          string     `gorm:"column:email" json:"email"`
	Name           string     `gorm:"column:name" json:"name"`
	PasswordHash   string     `gorm:"column:password_hash" json:"-"`
	Role           Role       `gorm:"column:role" json:"role"`
	Active         bool       `gorm:"column:active" json:"active"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// BelongsTo reports whether the user is a member of the organization.
func (u *User) BelongsTo(orgID uuid.UUID) bool {
	return u.OrganizationID != nil && *u.OrganizationID == orgID
}

type Session struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid" json:"user_id"`
	IP         string    `gorm:"column:ip" json:"ip"`
	UserAgent  string    `gorm:"column:user_agent" json:"user_agent"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastSeenAt time.Time `gorm:"column:last_seen_at" json:"last_seen_at"`
	ExpiresAt  time.Time `gorm:"column:expires_at" json:"expires_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// Expired reports whether the session is past its absolute lifetime or has
// been idle longer than idle.
func (s *Session) Expired(now time.Time, idle time.Duration) bool {
	if !now.Before(s.ExpiresAt) {
		return true
	}
	return idle > 0 && now.Sub(s.LastSeenAt) > idle
}
