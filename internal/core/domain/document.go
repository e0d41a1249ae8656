package domain

import (
	"time"

	"midway/pkg/validation"
)

// Document is metadata for a file shared with a user; the blob lives elsewhere.
type Document struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	URL       string    `json:"url" gorm:"not null"`
	Type      string    `json:"type,omitempty"`
	SizeBytes int64     `json:"sizeBytes,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"index;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) GetID() string          { return d.ID }
func (d *Document) SetID(id string)        { d.ID = id }
func (d *Document) OwnerID() string        { return d.UserID }
func (d *Document) SetOwnerID(id string)   { d.UserID = id }
func (d *Document) StatusValue() string    { return d.Type }
func (d *Document) CreatedTime() time.Time { return d.CreatedAt }
func (d *Document) Stamp(now time.Time)    { stamp(&d.CreatedAt, &d.UpdatedAt, now) }
func (d *Document) Clone() *Document       { c := *d; return &c }

func (d *Document) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("name", d.Name)
	fe.Require("url", d.URL)
	return fe.Err()
}
