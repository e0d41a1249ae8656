package domain

import "time"

// Entity is implemented by every record served through the generic data
// access layer. OwnerID is empty for company-wide records.
type Entity interface {
	GetID() string
	SetID(id string)
	OwnerID() string
	SetOwnerID(id string)
	StatusValue() string
	CreatedTime() time.Time
	Stamp(now time.Time)
	Validate() error
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
