package domain

import (
	"time"

	"midway/pkg/validation"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment records money received (or expected) for a booking.
type Payment struct {
	ID        string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	ClientID  string        `json:"clientId" gorm:"type:varchar(36);index;not null"`
	BookingID string        `json:"bookingId" gorm:"type:varchar(36);index;not null"`
	Amount    float64       `json:"amount" gorm:"not null"`
	Method    string        `json:"method,omitempty"`
	Status    PaymentStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	CreatedAt time.Time     `json:"createdAt" gorm:"index;not null"`
	UpdatedAt time.Time     `json:"updatedAt" gorm:"not null"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) GetID() string          { return p.ID }
func (p *Payment) SetID(id string)        { p.ID = id }
func (p *Payment) OwnerID() string        { return p.ClientID }
func (p *Payment) SetOwnerID(id string)   { p.ClientID = id }
func (p *Payment) StatusValue() string    { return string(p.Status) }
func (p *Payment) CreatedTime() time.Time { return p.CreatedAt }
func (p *Payment) Clone() *Payment        { c := *p; return &c }

func (p *Payment) Stamp(now time.Time) {
	if p.Status == "" {
		p.Status = PaymentPending
	}
	stamp(&p.CreatedAt, &p.UpdatedAt, now)
}

func (p *Payment) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("bookingId", p.BookingID)
	fe.Check("amount", validation.ValidatePositive(p.Amount, "amount"))
	if p.Status != "" {
		fe.Check("status", validation.ValidateOneOf(string(p.Status), []string{
			string(PaymentPending), string(PaymentCompleted), string(PaymentFailed), string(PaymentRefunded),
		}, "status"))
	}
	return fe.Err()
}
