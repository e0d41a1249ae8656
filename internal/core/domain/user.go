package domain

import (
	"time"

	"midway/pkg/validation"
)

type UserID string

// User is an account: staff member or client.
type User struct {
	ID           UserID    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:varchar(16);index;not null"`
	Phone        string    `json:"phone,omitempty"`
	Active       bool      `json:"active" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"not null"`
}

func (User) TableName() string { return "users" }

func (u *User) GetID() string          { return string(u.ID) }
func (u *User) SetID(id string)        { u.ID = UserID(id) }
func (u *User) OwnerID() string        { return string(u.ID) }
func (u *User) SetOwnerID(string)      {}
func (u *User) StatusValue() string    { return string(u.Role) }
func (u *User) CreatedTime() time.Time { return u.CreatedAt }
func (u *User) Stamp(now time.Time)    { stamp(&u.CreatedAt, &u.UpdatedAt, now) }
func (u *User) Clone() *User           { c := *u; return &c }

func (u *User) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check("email", validation.ValidateEmail(u.Email))
	fe.Require("name", u.Name)
	if _, ok := ParseRole(string(u.Role)); !ok {
		fe["role"] = "role must be one of ADMIN, MANAGER, CLEANER, CLIENT"
	}
	return fe.Err()
}

// Principal returns the identity this user authenticates as.
func (u *User) Principal() *Principal {
	return &Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}
