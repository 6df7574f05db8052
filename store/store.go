// Package store persists User, Task and Project records. It owns the
// canonical record for each entity; relationship fields are plain id sets
// with no foreign-key enforcement, so callers (the board module) are
// responsible for keeping both sides of each link in sync.
package store

import (
	"context"
	"errors"

	"github.com/example/taskhub/domain/project"
	"github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/domain/user"
)

var (
	// ErrUserNotFound is returned when a user id or username does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when a task id does not resolve.
	ErrTaskNotFound = errors.New("task not found")
	// ErrProjectNotFound is returned when a project id does not resolve.
	ErrProjectNotFound = errors.New("project not found")
	// ErrUsernameTaken is returned when inserting a user whose username exists.
	ErrUsernameTaken = errors.New("username already taken")
)

// TaskFilter narrows ListTasks by field equality. Nil fields match anything.
type TaskFilter struct {
	UserID    *string
	ProjectID *string
}

// Store is the persistence contract consumed by the auth, board and query
// modules. Delete operations are silent when the id is absent; updates of a
// missing record fail with the kind's not-found error.
type Store interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
	ListUsers(ctx context.Context) ([]*user.User, error)
	InsertUser(ctx context.Context, u *user.User) error
	UpdateUser(ctx context.Context, u *user.User) error
	DeleteUser(ctx context.Context, id string) error

	GetTask(ctx context.Context, id string) (*task.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*task.Task, error)
	InsertTask(ctx context.Context, t *task.Task) error
	UpdateTask(ctx context.Context, t *task.Task) error
	DeleteTask(ctx context.Context, id string) error

	GetProject(ctx context.Context, id string) (*project.Project, error)
	ListProjects(ctx context.Context) ([]*project.Project, error)
	InsertProject(ctx context.Context, p *project.Project) error
	UpdateProject(ctx context.Context, p *project.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Reset removes every record. It backs the test-only reset endpoint.
	Reset(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}
