package domain

import (
	"time"

	"midway/pkg/validation"
)

// Feedback is a client's rating of a completed booking.
type Feedback struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ClientID  string    `json:"clientId" gorm:"type:varchar(36);index;not null"`
	BookingID string    `json:"bookingId" gorm:"type:varchar(36);index;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"index;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Feedback) TableName() string { return "feedback" }

func (f *Feedback) GetID() string          { return f.ID }
func (f *Feedback) SetID(id string)        { f.ID = id }
func (f *Feedback) OwnerID() string        { return f.ClientID }
func (f *Feedback) SetOwnerID(id string)   { f.ClientID = id }
func (f *Feedback) StatusValue() string    { return "" }
func (f *Feedback) CreatedTime() time.Time { return f.CreatedAt }
func (f *Feedback) Stamp(now time.Time)    { stamp(&f.CreatedAt, &f.UpdatedAt, now) }
func (f *Feedback) Clone() *Feedback       { c := *f; return &c }

func (f *Feedback) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("bookingId", f.BookingID)
	fe.Check("rating", validation.ValidateRange(float64(f.Rating), 1, 5, "rating"))
	return fe.Err()
}
