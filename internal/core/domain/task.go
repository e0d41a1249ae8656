package domain

import (
	"time"

	"midway/pkg/validation"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

// Task is a unit of cleaning work at a location, optionally assigned to a cleaner.
type Task struct {
	ID          string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	LocationID  string     `json:"locationId" gorm:"type:varchar(36);index;not null"`
	AssigneeID  string     `json:"assigneeId,omitempty" gorm:"type:varchar(36);index"`
	Status      TaskStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index;not null"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"not null"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) GetID() string          { return t.ID }
func (t *Task) SetID(id string)        { t.ID = id }
func (t *Task) OwnerID() string        { return t.AssigneeID }
func (t *Task) SetOwnerID(id string)   { t.AssigneeID = id }
func (t *Task) StatusValue() string    { return string(t.Status) }
func (t *Task) CreatedTime() time.Time { return t.CreatedAt }
func (t *Task) Clone() *Task           { c := *t; return &c }

func (t *Task) Stamp(now time.Time) {
	if t.Status == "" {
		t.Status = TaskPending
	}
	stamp(&t.CreatedAt, &t.UpdatedAt, now)
}

func (t *Task) Validate() error {
	fe := validation.FieldErrors{}
	fe.Require("title", t.Title)
	fe.Require("locationId", t.LocationID)
	if t.Status != "" {
		fe.Check("status", validation.ValidateOneOf(string(t.Status),
			[]string{string(TaskPending), string(TaskInProgress), string(TaskCompleted)}, "status"))
	}
	return fe.Err()
}
