package domain

import (
	"time"

	"midway/pkg/validation"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is a client's request for a service at a location.
type Booking struct {
	ID          string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	ClientID    string        `json:"clientId" gorm:"type:varchar(36);index;not null"`
	ServiceID   string        `json:"serviceId" gorm:"type:varchar(36);not null"`
	LocationID  string        `json:"locationId" gorm:"type:varchar(36);not null"`
	ScheduledAt time.Time     `json:"scheduledAt" gorm:"not null"`
	Status      BookingStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"index;not null"`
	UpdatedAt   time.Time     `json:"updatedAt" gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) GetID() string          { return b.ID }
func (b *Booking) SetID(id string)        { b.ID = id }
func (b *Booking) OwnerID() string        { return b.ClientID }
func (b *Booking) SetOwnerID(id string)   { b.ClientID = id }
func (b *Booking) StatusValue() string    { return string(b.Status) }
func (b *Booking) CreatedTime() time.Time { return b.CreatedAt }
func (b *Booking) Clone() *Booking        { c := *b; return &c }

func (b *Booking) Stamp(now time.Time) {
	if b.Status == "" {
		b.Status = BookingPending
	}
	stamp(&b.CreatedAt, &b.UpdatedAt, now)
}

func (b *Booking) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("serviceId", b.ServiceID)
	fe.Require("locationId", b.LocationID)
	if b.ScheduledAt.IsZero() {
		fe["scheduledAt"] = "scheduledAt is required"
	}
	if b.Status != "" {
		fe.Check("status", validation.ValidateOneOf(string(b.Status), []string{
			string(BookingPending), string(BookingConfirmed), string(BookingCompleted), string(BookingCancelled),
		}, "status"))
	}
	return fe.Err()
}
