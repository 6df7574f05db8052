// Package query is the projection layer: read-only views of users, tasks and
// projects with related entities expanded to whitelisted fields. It never
// mutates the store and never serializes credential material.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskhub/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// QueryModule provides the projection services.
type QueryModule struct {
	projector *Projector
}

// Compile-time interface checks.
var _ mono.Module = (*QueryModule)(nil)
var _ mono.ServiceProviderModule = (*QueryModule)(nil)
var _ mono.HealthCheckableModule = (*QueryModule)(nil)

// NewModule creates a new QueryModule on the given store handle.
func NewModule(st store.Store) *QueryModule {
	return &QueryModule{
		projector: NewProjector(st),
	}
}

// Name returns the module name.
func (m *QueryModule) Name() string {
	return "query"
}

// Start initializes the query module.
func (m *QueryModule) Start(_ context.Context) error {
	if m.projector == nil || m.projector.store == nil {
		return fmt.Errorf("store dependency not set")
	}
	log.Println("[query] Module started")
	return nil
}

// Stop shuts down the module.
func (m *QueryModule) Stop(_ context.Context) error {
	log.Println("[query] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *QueryModule) Health(ctx context.Context) mono.HealthStatus {
	if err := m.projector.store.Ping(ctx); err != nil {
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
func (m *QueryModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"list-users", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-users", json.Unmarshal, json.Marshal, m.listUsers)
		}},
		{"list-users-with-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-users-with-tasks", json.Unmarshal, json.Marshal, m.listUsersWithTasks)
		}},
		{"list-users-with-projects", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-users-with-projects", json.Unmarshal, json.Marshal, m.listUsersWithProjects)
		}},
		{"list-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks)
		}},
		{"list-tasks-with-user", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks-with-user", json.Unmarshal, json.Marshal, m.listTasksWithUser)
		}},
		{"list-tasks-with-project", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-tasks-with-project", json.Unmarshal, json.Marshal, m.listTasksWithProject)
		}},
		{"list-projects", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-projects", json.Unmarshal, json.Marshal, m.listProjects)
		}},
		{"list-projects-with-users", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-projects-with-users", json.Unmarshal, json.Marshal, m.listProjectsWithUsers)
		}},
		{"list-projects-with-tasks", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-projects-with-tasks", json.Unmarshal, json.Marshal, m.listProjectsWithTasks)
		}},
	}

	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[query] Registered %d services", len(services))
	return nil
}
