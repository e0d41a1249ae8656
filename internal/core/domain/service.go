package domain

import (
	"time"

	"midway/pkg/validation"
)

// Service is an offering in the company catalogue.
type Service struct {
	ID              string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price" gorm:"not null"`
	DurationMinutes int       `json:"durationMinutes" gorm:"not null"`
	Active          bool      `json:"active" gorm:"not null"`
	CreatedAt       time.Time `json:"createdAt" gorm:"index;not null"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"not null"`
}

func (Service) TableName() string { return "services" }

func (s *Service) GetID() string          { return s.ID }
func (s *Service) SetID(id string)        { s.ID = id }
func (s *Service) OwnerID() string        { return "" }
func (s *Service) SetOwnerID(string)      {}
func (s *Service) CreatedTime() time.Time { return s.CreatedAt }
func (s *Service) Stamp(now time.Time)    { stamp(&s.CreatedAt, &s.UpdatedAt, now) }
func (s *Service) Clone() *Service        { c := *s; return &c }

func (s *Service) StatusValue() string {
	if s.Active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

func (s *Service) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("name", s.Name)
	if s.Price < 0 {
		fe["price"] = "price must not be negative"
	}
	fe.Check("durationMinutes", validation.ValidatePositive(float64(s.DurationMinutes), "durationMinutes"))
	return fe.Err()
}
