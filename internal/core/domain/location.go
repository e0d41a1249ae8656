package domain

import (
	"time"

	"midway/pkg/validation"
)

// Location is a site the company services.
type Location struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Address   string    `json:"address" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null"`
	Size      int       `json:"size" gorm:"not null"` // square feet
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"index;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Location) TableName() string { return "locations" }

func (l *Location) GetID() string          { return l.ID }
func (l *Location) SetID(id string)        { l.ID = id }
func (l *Location) OwnerID() string        { return "" }
func (l *Location) SetOwnerID(string)      {}
func (l *Location) StatusValue() string    { return l.Type }
func (l *Location) CreatedTime() time.Time { return l.CreatedAt }
func (l *Location) Stamp(now time.Time)    { stamp(&l.CreatedAt, &l.UpdatedAt, now) }
func (l *Location) Clone() *Location       { c := *l; return &c }

func (l *Location) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("name", l.Name)
	fe.Require("address", l.Address)
	fe.Require("type", l.Type)
	if l.Size <= 0 {
		fe["size"] = "size is required"
	}
	return fe.Err()
}
