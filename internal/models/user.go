package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

// Toggled returns the opposite account type.
func (r Role) Toggled() Role {
	if r == RoleClient {
		return RoleFreelancer
	}
	return RoleClient
}

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleFreelancer
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`

	Password string `gorm:"not null" json:"-"`

	VerifyCode       string    `gorm:"type:varchar(6)" json:"-"`
	VerifyCodeExpiry time.Time `json:"-"`
	IsVerified       bool      `gorm:"default:false" json:"is_verified"`

	UserType Role `gorm:"type:varchar(20);not null;default:'client';index" json:"user_type"`

	// Linked third-party sign-in providers, e.g. ["google"]
	Providers datatypes.JSON `json:"providers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
