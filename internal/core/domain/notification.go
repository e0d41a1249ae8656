package domain

import (
	"time"

	"midway/pkg/validation"
)

// Notification is a message addressed to a single user.
type Notification struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message" gorm:"not null"`
	Type      string    `json:"type,omitempty"`
	Read      bool      `json:"read" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) GetID() string          { return n.ID }
func (n *Notification) SetID(id string)        { n.ID = id }
func (n *Notification) OwnerID() string        { return n.UserID }
func (n *Notification) SetOwnerID(id string)   { n.UserID = id }
func (n *Notification) CreatedTime() time.Time { return n.CreatedAt }
func (n *Notification) Stamp(now time.Time)    { stamp(&n.CreatedAt, &n.UpdatedAt, now) }
func (n *Notification) Clone() *Notification   { c := *n; return &c }

func (n *Notification) StatusValue() string {
	if n.Read {
		return "READ"
	}
	return "UNREAD"
}

func (n *Notification) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("title", n.Title)
	fe.Require("message", n.Message)
	return fe.Err()
}
