package task

import (
	"fmt"
	"time"
)

// MinTitleLength is the minimum number of characters in a task title.
const MinTitleLength = 5

// Status represents the state of a task.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// ParseStatus validates a status value. An empty value yields the default,
// StatusPending.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusPending, nil
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown task status %q", s)
	}
}

// Importance represents how important a task is.
type Importance string

const (
	ImportanceNone   Importance = "None"
	ImportanceLow    Importance = "Low"
	ImportanceMedium Importance = "Medium"
	ImportanceHigh   Importance = "High"
)

// ParseImportance validates an importance value. An empty value yields the
// default, ImportanceNone.
func ParseImportance(s string) (Importance, error) {
	switch Importance(s) {
	case "":
		return ImportanceNone, nil
	case ImportanceNone, ImportanceLow, ImportanceMedium, ImportanceHigh:
		return Importance(s), nil
	default:
		return "", fmt.Errorf("unknown task importance %q", s)
	}
}

// Task represents a unit of work. UserID is the owning user and ProjectID the
// project the task is filed under; both are nullable weak references by id.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Title       string     `gorm:"not null;type:text" json:"title"`
	Status      Status     `gorm:"type:text;default:Pending" json:"status"`
	Importance  Importance `gorm:"type:text;default:None" json:"importance"`
	DueDate     time.Time  `json:"due_date"`
	Description string     `gorm:"type:text" json:"description"`
	UserID      *string    `gorm:"type:text" json:"user"`
	ProjectID   *string    `gorm:"type:text" json:"project"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
