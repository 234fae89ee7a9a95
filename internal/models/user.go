package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role distinguishes the two principal kinds. It is assigned at registration
// and never changed through self-service; only the operator CLI may set it.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
)

// Known reports whether the role is one of the recognized values.
func (r Role) Known() bool {
	return r == RoleCitizen || r == RoleStaff
}

// User represents an account in the system, either a citizen or a staff
// officer. Department membership lives on the Profile, not here.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         Role   `gorm:"type:text;not null;default:'citizen'" json:"role"`
	// IsActive is flipped by the operator CLI; reactivation emits an
	// account_activated notification event.
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates the account UUID if the ID is not already set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// FullName returns the display name used in notification payloads.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
