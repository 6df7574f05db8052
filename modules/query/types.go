package query

import "time"

// UserView is the outward shape of a user: the credential hash is structurally
// absent from every projection.
type UserView struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Projects []string `json:"projects"`
	Tasks    []string `json:"tasks"`
}

// TaskView is the outward shape of a task with id-valued references.
type TaskView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Importance  string    `json:"importance"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
	UserID      *string   `json:"user"`
	ProjectID   *string   `json:"project"`
}

// ProjectView is the outward shape of a project with id-valued references.
type ProjectView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
	Tasks       []string `json:"tasks"`
}

// ProjectSummary is the whitelisted expansion of a project reference.
type ProjectSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
}

// UserSummary is the whitelisted expansion of a user reference.
type UserSummary struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Projects []string `json:"projects"`
	Tasks    []string `json:"tasks"`
}

// TaskSummary is the whitelisted expansion of a task reference.
type TaskSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Importance  string    `json:"importance"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
	ProjectID   *string   `json:"project"`
}

// TaskWithProject is a task whose project reference is expanded.
type TaskWithProject struct {
	TaskView
	Project *ProjectSummary `json:"project"`
}

// TaskWithUser is a task whose owner reference is expanded.
type TaskWithUser struct {
	TaskView
	User *UserSummary `json:"user"`
}

// UserWithTasks is a user whose task set is expanded; each task carries its
// own expanded project, mirroring the nested expansion of the original API.
type UserWithTasks struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	Projects []string          `json:"projects"`
	Tasks    []TaskWithProject `json:"tasks"`
}

// UserWithProjects is a user whose project set is expanded.
type UserWithProjects struct {
	ID       string           `json:"id"`
	Username string           `json:"username"`
	Projects []ProjectSummary `json:"projects"`
	Tasks    []string         `json:"tasks"`
}

// ProjectWithUsers is a project whose member set is expanded.
type ProjectWithUsers struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Users       []UserSummary `json:"users"`
	Tasks       []string      `json:"tasks"`
}

// ProjectWithTasks is a project whose task set is expanded.
type ProjectWithTasks struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Users       []string      `json:"users"`
	Tasks       []TaskSummary `json:"tasks"`
}

// ListRequest is the empty request shared by the list services.
type ListRequest struct{}

// ListUsersResponse is the response for the list-users service.
type ListUsersResponse struct {
	Items []UserView `json:"items"`
}

// ListUsersWithTasksResponse is the response for list-users-with-tasks.
type ListUsersWithTasksResponse struct {
	Items []UserWithTasks `json:"items"`
}

// ListUsersWithProjectsResponse is the response for list-users-with-projects.
type ListUsersWithProjectsResponse struct {
	Items []UserWithProjects `json:"items"`
}

// ListTasksResponse is the response for the list-tasks service.
type ListTasksResponse struct {
	Items []TaskView `json:"items"`
}

// ListTasksWithUserResponse is the response for list-tasks-with-user.
type ListTasksWithUserResponse struct {
	Items []TaskWithUser `json:"items"`
}

// ListTasksWithProjectResponse is the response for list-tasks-with-project.
type ListTasksWithProjectResponse struct {
	Items []TaskWithProject `json:"items"`
}

// ListProjectsResponse is the response for the list-projects service.
type ListProjectsResponse struct {
	Items []ProjectView `json:"items"`
}

// ListProjectsWithUsersResponse is the response for list-projects-with-users.
type ListProjectsWithUsersResponse struct {
	Items []ProjectWithUsers `json:"items"`
}

// ListProjectsWithTasksResponse is the response for list-projects-with-tasks.
type ListProjectsWithTasksResponse struct {
	Items []ProjectWithTasks `json:"items"`
}
