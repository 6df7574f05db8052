package board

import "time"

// CreateTaskRequest is the request for the create-task service. Status and
// Importance fall back to their enumeration defaults when empty; DueDate
// falls back to the creation time.
type CreateTaskRequest struct {
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status,omitempty"`
	Importance  string     `json:"importance,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// TaskResponse is the service response carrying a task.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Importance  string    `json:"importance"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
	UserID      *string   `json:"user"`
	ProjectID   *string   `json:"project"`
}

// ReassignTaskOwnerRequest is the request for the reassign-task-owner service.
type ReassignTaskOwnerRequest struct {
	TaskID    string `json:"task_id"`
	NewUserID string `json:"new_user_id"`
}

// SetTaskStatusRequest is the request for the set-task-status service.
type SetTaskStatusRequest struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// UpdateTaskRequest is the request for the update-task service. Nil fields
// are left unchanged.
type UpdateTaskRequest struct {
	TaskID      string     `json:"task_id"`
	Title       *string    `json:"title,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Importance  *string    `json:"importance,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// DeleteTaskRequest is the request for the delete-task service.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for the delete-task service.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// CreateProjectRequest is the request for the create-project service.
type CreateProjectRequest struct {
	CreatorID   string `json:"creator_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ProjectResponse is the service response carrying a project.
type ProjectResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
	Tasks       []string `json:"tasks"`
}

// AddUserToProjectRequest is the request for the add-user-to-project service.
type AddUserToProjectRequest struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
}

// AddTaskToProjectRequest is the request for the add-task-to-project service.
type AddTaskToProjectRequest struct {
	ProjectID string `json:"project_id"`
	TaskID    string `json:"task_id"`
}

// RemoveAllTasksRequest is the request for the remove-all-tasks-from-project
// service.
type RemoveAllTasksRequest struct {
	ProjectID string `json:"project_id"`
}

// DeleteProjectRequest is the request for the delete-project service.
type DeleteProjectRequest struct {
	ProjectID string `json:"project_id"`
}

// DeleteProjectResponse is the response for the delete-project service.
type DeleteProjectResponse struct {
	Deleted bool `json:"deleted"`
}

// DeleteUserRequest is the request for the delete-user service.
type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

// DeleteUserResponse is the response for the delete-user service.
type DeleteUserResponse struct {
	Deleted bool `json:"deleted"`
}

// ResetRequest is the request for the reset service (test support).
type ResetRequest struct{}

// ResetResponse is the response for the reset service.
type ResetResponse struct {
	Reset bool `json:"reset"`
}
