package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/taskhub/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app            *fiber.App
	addr           string
	authContainer  mono.ServiceContainer
	boardContainer mono.ServiceContainer
	queryContainer mono.ServiceContainer
	authAdapter    auth.AuthPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on addr.
func NewModule(addr string) *APIModule {
	return &APIModule{addr: addr}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "board", "query"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "board":
		m.boardContainer = container
	case "query":
		m.queryContainer = container
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil || m.boardContainer == nil || m.queryContainer == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	// Add middleware
	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	// Start server in goroutine
	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.boardContainer, m.queryContainer)
	requireAuth := AuthMiddleware(m.authAdapter)

	// Health check endpoint
	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	api := m.app.Group("/api")

	api.Post("/login", handlers.Login)
	api.Post("/login/refresh", handlers.Refresh)

	users := api.Group("/users")
	users.Post("/", handlers.Register)
	users.Get("/", handlers.ListUsers)
	users.Get("/tasks", handlers.ListUsersWithTasks)
	users.Get("/projects", handlers.ListUsersWithProjects)
	users.Delete("/:id", handlers.DeleteUser)

	tasks := api.Group("/tasks")
	tasks.Post("/", requireAuth, handlers.CreateTask)
	tasks.Get("/", handlers.ListTasks)
	tasks.Get("/user", handlers.ListTasksWithUser)
	tasks.Get("/project", handlers.ListTasksWithProject)
	tasks.Patch("/user/:id/:userId", handlers.ReassignTaskOwner)
	tasks.Patch("/project/:id/:projectId", handlers.FileTaskUnderProject)
	tasks.Patch("/status/:id/:status", handlers.SetTaskStatus)
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)

	projects := api.Group("/projects")
	projects.Post("/", requireAuth, handlers.CreateProject)
	projects.Get("/", handlers.ListProjects)
	projects.Get("/users", handlers.ListProjectsWithUsers)
	projects.Get("/tasks", handlers.ListProjectsWithTasks)
	projects.Patch("/user/:id/:userId", handlers.AddUserToProject)
	projects.Patch("/task/:id/:taskId", handlers.AddTaskToProject)
	projects.Patch("/removeTasks/:id", handlers.RemoveAllTasks)
	projects.Delete("/:id", handlers.DeleteProject)

	// Wipe endpoint for end-to-end test runs only.
	if os.Getenv("APP_ENV") == "test" {
		api.Post("/testing/reset", handlers.Reset)
	}
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
