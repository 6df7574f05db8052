package api

import "time"

// RegisterRequest is the HTTP request for registering a user.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the HTTP request for logging in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the HTTP request for refreshing tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateTaskRequest is the HTTP request for creating a task. The owner is
// the authenticated user; it is never taken from the body.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Status      string     `json:"status,omitempty"`
	Importance  string     `json:"importance,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// UpdateTaskRequest is the HTTP request for updating a task. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Importance  *string    `json:"importance,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// CreateProjectRequest is the HTTP request for creating a project. The
// creator is the authenticated user.
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
