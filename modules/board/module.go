// Package board is the relationship engine. It owns every link between
// users, tasks and projects: creation, linking, unlinking, reassignment and
// the delete cascades. No other module mutates a relationship set.
package board

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskhub/events"
	"github.com/example/taskhub/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// BoardModule provides the relationship engine services.
type BoardModule struct {
	engine   *Engine
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*BoardModule)(nil)
var _ mono.ServiceProviderModule = (*BoardModule)(nil)
var _ mono.EventEmitterModule = (*BoardModule)(nil)
var _ mono.HealthCheckableModule = (*BoardModule)(nil)

// NewModule creates a new BoardModule on the given store handle.
func NewModule(st store.Store) *BoardModule {
	return &BoardModule{
		engine: NewEngine(st),
	}
}

// Name returns the module name.
func (m *BoardModule) Name() string {
	return "board"
}

// SetEventBus receives the application event bus.
func (m *BoardModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *BoardModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
		events.ProjectCreatedV1.ToBase(),
		events.ProjectDeletedV1.ToBase(),
		events.UserDeletedV1.ToBase(),
	}
}

// Start initializes the board module.
func (m *BoardModule) Start(_ context.Context) error {
	if m.engine == nil || m.engine.store == nil {
		return fmt.Errorf("store dependency not set")
	}
	if m.eventBus == nil {
		log.Println("[board] Warning: eventBus not set, events will not be published")
	}
	log.Println("[board] Module started")
	return nil
}

// Stop shuts down the module. The store handle is owned by main.
func (m *BoardModule) Stop(_ context.Context) error {
	log.Println("[board] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *BoardModule) Health(ctx context.Context) mono.HealthStatus {
	if err := m.engine.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *BoardModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"create-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-task", json.Unmarshal, json.Marshal, m.createTask)
		}},
		{"reassign-task-owner", func() error {
			return helper.RegisterTypedRequestReplyService(container, "reassign-task-owner", json.Unmarshal, json.Marshal, m.reassignTaskOwner)
		}},
		{"set-task-status", func() error {
			return helper.RegisterTypedRequestReplyService(container, "set-task-status", json.Unmarshal, json.Marshal, m.setTaskStatus)
		}},
		{"update-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-task", json.Unmarshal, json.Marshal, m.updateTask)
		}},
		{"delete-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask)
		}},
		{"create-project", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-project", json.Unmarshal, json.Marshal, m.createProject)
		}},
		{"add-user-to-project", func() error {
			return helper.RegisterTypedRequestReplyService(container, "add-user-to-project", json.Unmarshal, json.Marshal, m.addUserToProject)
		}},
		{"add-task-to-project", func() error {
			return helper.RegisterTypedRequestReplyService(container, "add-task-to-project", json.Unmarshal, json.Marshal, m.addTaskToProject)
		}},
		{"remove-all-tasks-from-project", func() error {
			return helper.RegisterTypedRequestReplyService(container, "remove-all-tasks-from-project", json.Unmarshal, json.Marshal, m.removeAllTasks)
		}},
		{"delete-project", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-project", json.Unmarshal, json.Marshal, m.deleteProject)
		}},
		{"delete-user", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-user", json.Unmarshal, json.Marshal, m.deleteUser)
		}},
		{"reset", func() error {
			return helper.RegisterTypedRequestReplyService(container, "reset", json.Unmarshal, json.Marshal, m.reset)
		}},
	}

	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[board] Registered %d services", len(services))
	return nil
}
