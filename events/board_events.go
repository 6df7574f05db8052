// Package events defines the typed domain events emitted by the board
// module. Publishing is best-effort: a failed publish is logged and never
// fails the operation that triggered it.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.board.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"board", "TaskCreated", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted, directly or by a
// project-delete cascade.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.board.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"board", "TaskDeleted", "v1",
)

// ProjectCreatedEvent is emitted when a new project is created.
type ProjectCreatedEvent struct {
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	CreatorID string    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectCreatedV1 is the typed event definition for project creation.
// Subject: events.board.v1.project-created
var ProjectCreatedV1 = helper.EventDefinition[ProjectCreatedEvent](
	"board", "ProjectCreated", "v1",
)

// ProjectDeletedEvent is emitted when a project is deleted, directly or
// because a user-delete cascade left it empty.
type ProjectDeletedEvent struct {
	ProjectID string    `json:"project_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// ProjectDeletedV1 is the typed event definition for project deletion.
// Subject: events.board.v1.project-deleted
var ProjectDeletedV1 = helper.EventDefinition[ProjectDeletedEvent](
	"board", "ProjectDeleted", "v1",
)

// UserDeletedEvent is emitted when a user account and its links are removed.
type UserDeletedEvent struct {
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// UserDeletedV1 is the typed event definition for user deletion.
// Subject: events.board.v1.user-deleted
var UserDeletedV1 = helper.EventDefinition[UserDeletedEvent](
	"board", "UserDeleted", "v1",
)
