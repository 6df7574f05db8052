package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskhub/modules/api"
	"github.com/example/taskhub/modules/auth"
	"github.com/example/taskhub/modules/board"
	"github.com/example/taskhub/modules/query"
	"github.com/example/taskhub/store"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== TaskHub ===")

	dbPath := envOr("TASKHUB_DB_PATH", "taskhub.db")
	httpAddr := envOr("TASKHUB_HTTP_ADDR", ":3000")

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule(st))
	app.Register(board.NewModule(st))
	app.Register(query.NewModule(st))
	app.Register(api.NewModule(httpAddr))

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(httpAddr)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
			"store": func(_ context.Context) error {
				return st.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printStartupInfo(addr string) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost%s):", addr)
	log.Println("")
	log.Println("  POST   /api/users                          - Register a new user")
	log.Println("  POST   /api/login                          - Login and get tokens")
	log.Println("  POST   /api/login/refresh                  - Refresh access token")
	log.Println("  GET    /api/users                          - List users")
	log.Println("  GET    /api/users/tasks                    - List users with tasks")
	log.Println("  GET    /api/users/projects                 - List users with projects")
	log.Println("  DELETE /api/users/:id                      - Delete a user")
	log.Println("  POST   /api/tasks                          - Create a task (Bearer token)")
	log.Println("  GET    /api/tasks                          - List tasks")
	log.Println("  GET    /api/tasks/user                     - List tasks with owner")
	log.Println("  GET    /api/tasks/project                  - List tasks with project")
	log.Println("  PATCH  /api/tasks/user/:id/:userId         - Reassign task owner")
	log.Println("  PATCH  /api/tasks/project/:id/:projectId   - File task under project")
	log.Println("  PATCH  /api/tasks/status/:id/:status       - Set task status")
	log.Println("  PUT    /api/tasks/:id                      - Update a task")
	log.Println("  DELETE /api/tasks/:id                      - Delete a task")
	log.Println("  POST   /api/projects                       - Create a project (Bearer token)")
	log.Println("  GET    /api/projects                       - List projects")
	log.Println("  GET    /api/projects/users                 - List projects with members")
	log.Println("  GET    /api/projects/tasks                 - List projects with tasks")
	log.Println("  PATCH  /api/projects/user/:id/:userId      - Add member to project")
	log.Println("  PATCH  /api/projects/task/:id/:taskId      - Add task to project")
	log.Println("  PATCH  /api/projects/removeTasks/:id       - Remove all tasks from project")
	log.Println("  DELETE /api/projects/:id                   - Delete a project")
	log.Println("  GET    /health                             - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
