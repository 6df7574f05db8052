package api

import (
	"encoding/json"
	"log"
	"strings"

	domain "github.com/example/taskhub/domain/user"
	"github.com/example/taskhub/modules/auth"
	"github.com/example/taskhub/modules/board"
	"github.com/example/taskhub/modules/query"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer  mono.ServiceContainer
	boardContainer mono.ServiceContainer
	queryContainer mono.ServiceContainer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, boardContainer, queryContainer mono.ServiceContainer) *Handlers {
	return &Handlers{
		authContainer:  authContainer,
		boardContainer: boardContainer,
		queryContainer: queryContainer,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	authReq := auth.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "register",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	authReq := auth.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "login",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{RefreshToken: req.RefreshToken}
	var resp auth.RefreshResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "refresh-token",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateTask handles task creation. The owner is the authenticated user.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "token missing",
			Message: "User not authenticated",
		})
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	boardReq := board.CreateTaskRequest{
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Status:      req.Status,
		Importance:  req.Importance,
		DueDate:     req.DueDate,
		Description: req.Description,
	}
	var resp board.TaskResponse

	if err := callBoard(h, c, "create-task", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ReassignTaskOwner moves a task to a different owner.
func (h *Handlers) ReassignTaskOwner(c *fiber.Ctx) error {
	boardReq := board.ReassignTaskOwnerRequest{
		TaskID:    c.Params("id"),
		NewUserID: c.Params("userId"),
	}
	var resp board.TaskResponse

	if err := callBoard(h, c, "reassign-task-owner", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// SetTaskStatus changes a task's status.
func (h *Handlers) SetTaskStatus(c *fiber.Ctx) error {
	boardReq := board.SetTaskStatusRequest{
		TaskID: c.Params("id"),
		Status: c.Params("status"),
	}
	var resp board.TaskResponse

	if err := callBoard(h, c, "set-task-status", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// FileTaskUnderProject links a task into a project from the task side.
func (h *Handlers) FileTaskUnderProject(c *fiber.Ctx) error {
	boardReq := board.AddTaskToProjectRequest{
		TaskID:    c.Params("id"),
		ProjectID: c.Params("projectId"),
	}
	var resp board.ProjectResponse

	if err := callBoard(h, c, "add-task-to-project", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask applies a partial update to a task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	boardReq := board.UpdateTaskRequest{
		TaskID:      c.Params("id"),
		Title:       req.Title,
		Status:      req.Status,
		Importance:  req.Importance,
		DueDate:     req.DueDate,
		Description: req.Description,
	}
	var resp board.TaskResponse

	if err := callBoard(h, c, "update-task", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask removes a task and its back-references.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	boardReq := board.DeleteTaskRequest{TaskID: c.Params("id")}
	var resp board.DeleteTaskResponse

	if err := callBoard(h, c, "delete-task", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateProject handles project creation. The creator is the authenticated
// user and becomes the first member.
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "token missing",
			Message: "User not authenticated",
		})
	}

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	boardReq := board.CreateProjectRequest{
		CreatorID:   claims.UserID,
		Title:       req.Title,
		Description: req.Description,
	}
	var resp board.ProjectResponse

	if err := callBoard(h, c, "create-project", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AddUserToProject enrolls a user as a project member.
func (h *Handlers) AddUserToProject(c *fiber.Ctx) error {
	boardReq := board.AddUserToProjectRequest{
		ProjectID: c.Params("id"),
		UserID:    c.Params("userId"),
	}
	var resp board.ProjectResponse

	if err := callBoard(h, c, "add-user-to-project", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// AddTaskToProject files a task under a project from the project side.
func (h *Handlers) AddTaskToProject(c *fiber.Ctx) error {
	boardReq := board.AddTaskToProjectRequest{
		ProjectID: c.Params("id"),
		TaskID:    c.Params("taskId"),
	}
	var resp board.ProjectResponse

	if err := callBoard(h, c, "add-task-to-project", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// RemoveAllTasks detaches every task from a project.
func (h *Handlers) RemoveAllTasks(c *fiber.Ctx) error {
	boardReq := board.RemoveAllTasksRequest{ProjectID: c.Params("id")}
	var resp board.ProjectResponse

	if err := callBoard(h, c, "remove-all-tasks-from-project", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteProject removes a project and cascades to its tasks.
func (h *Handlers) DeleteProject(c *fiber.Ctx) error {
	boardReq := board.DeleteProjectRequest{ProjectID: c.Params("id")}
	var resp board.DeleteProjectResponse

	if err := callBoard(h, c, "delete-project", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteUser removes a user and cascades to their tasks and projects.
func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	boardReq := board.DeleteUserRequest{UserID: c.Params("id")}
	var resp board.DeleteUserResponse

	if err := callBoard(h, c, "delete-user", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Reset wipes every record. Only routed when the app runs in test mode.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	boardReq := board.ResetRequest{}
	var resp board.ResetResponse

	if err := callBoard(h, c, "reset", &boardReq, &resp); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers returns all users without credentials.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	var resp query.ListUsersResponse
	if err := callQuery(h, c, "list-users", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

// ListUsersWithTasks returns all users with their task sets expanded.
func (h *Handlers) ListUsersWithTasks(c *fiber.Ctx) error {
	var resp query.ListUsersWithTasksResponse
	if err := callQuery(h, c, "list-users-with-tasks", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

// ListUsersWithProjects returns all users with their project sets expanded.
func (h *Handlers) ListUsersWithProjects(c *fiber.Ctx) error {
	var resp query.ListUsersWithProjectsResponse
	if err := callQuery(h, c, "list-users-with-projects", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

// ListTasks returns all tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	var resp query.ListTasksResponse
	if err := callQuery(h, c, "list-tasks", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

// ListTasksWithUser returns all tasks with their owner expanded.
func (h *Handlers) ListTasksWithUser(c *fiber.Ctx) error {
	var resp query.ListTasksWithUserResponse
	if err := callQuery(h, c, "list-tasks-with-user", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

// ListTasksWithProject returns all tasks with their project expanded.
func (h *Handlers) ListTasksWithProject(c *fiber.Ctx) error {
	var resp query.ListTasksWithProjectResponse
	if err := callQuery(h, c, "list-tasks-with-project", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

// ListProjects returns all projects.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	var resp query.ListProjectsResponse
	if err := callQuery(h, c, "list-projects", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

// ListProjectsWithUsers returns all projects with members expanded.
func (h *Handlers) ListProjectsWithUsers(c *fiber.Ctx) error {
	var resp query.ListProjectsWithUsersResponse
	if err := callQuery(h, c, "list-projects-with-users", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

// ListProjectsWithTasks returns all projects with tasks expanded.
func (h *Handlers) ListProjectsWithTasks(c *fiber.Ctx) error {
	var resp query.ListProjectsWithTasksResponse
	if err := callQuery(h, c, "list-projects-with-tasks", &resp); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Items)
}

func callBoard[T any](h *Handlers, c *fiber.Ctx, service string, req any, resp *T) error {
	return helper.CallRequestReplyService(
		c.UserContext(), h.boardContainer, service,
		json.Marshal, json.Unmarshal, req, resp,
	)
}

func callQuery[T any](h *Handlers, c *fiber.Ctx, service string, resp *T) error {
	req := query.ListRequest{}
	return helper.CallRequestReplyService(
		c.UserContext(), h.queryContainer, service,
		json.Marshal, json.Unmarshal, &req, resp,
	)
}

// handleServiceError maps service errors to HTTP responses. Errors cross the
// bus as flat strings, so matching is by known message fragments rather than
// errors.Is.
func (h *Handlers) handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "validation failed"),
		strings.Contains(errStr, "username must be at least"),
		strings.Contains(errStr, "password is required"),
		strings.Contains(errStr, "password must be at most"),
		strings.Contains(errStr, "unknown task status"),
		strings.Contains(errStr, "unknown task importance"):
		return badRequest(c, messageOf(errStr))
	case strings.Contains(errStr, "already exists"),
		strings.Contains(errStr, "already taken"):
		// Duplicate usernames are reported as invalid input, same as a
		// too-short username.
		return badRequest(c, "Username is already taken")
	case strings.Contains(errStr, "invalid username or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid username or password",
		})
	case strings.Contains(errStr, "does not resolve to an existing user"),
		strings.Contains(errStr, "already a member"),
		strings.Contains(errStr, "already in the project"),
		strings.Contains(errStr, "not a member of the project"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: messageOf(errStr),
		})
	case strings.Contains(errStr, "not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: messageOf(errStr),
		})
	default:
		// Log the actual error but don't expose it to the client
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// messageOf strips transport wrapping so the client sees only the service's
// own message.
func messageOf(errStr string) string {
	if i := strings.LastIndex(errStr, ": "); i >= 0 {
		return errStr[i+2:]
	}
	return errStr
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}
