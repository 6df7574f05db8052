package board

import (
	"context"
	"log"
	"time"

	"github.com/example/taskhub/domain/project"
	"github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/events"
	"github.com/go-monolith/mono"
)

// createTask handles the create-task service request.
func (m *BoardModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.engine.CreateTask(ctx, req)
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			OwnerID:   req.OwnerID,
			CreatedAt: time.Now(),
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[board] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// reassignTaskOwner handles the reassign-task-owner service request.
func (m *BoardModule) reassignTaskOwner(ctx context.Context, req ReassignTaskOwnerRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.engine.ReassignTaskOwner(ctx, req.TaskID, req.NewUserID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// setTaskStatus handles the set-task-status service request.
func (m *BoardModule) setTaskStatus(ctx context.Context, req SetTaskStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.engine.SetTaskStatus(ctx, req.TaskID, req.Status)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// updateTask handles the update-task service request.
func (m *BoardModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.engine.UpdateTask(ctx, req)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// deleteTask handles the delete-task service request.
func (m *BoardModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.engine.DeleteTask(ctx, req.TaskID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}

	m.publishTaskDeleted(req.TaskID)

	return DeleteTaskResponse{Deleted: true}, nil
}

// createProject handles the create-project service request.
func (m *BoardModule) createProject(ctx context.Context, req CreateProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.engine.CreateProject(ctx, req)
	if err != nil {
		return ProjectResponse{}, err
	}

	if m.eventBus != nil {
		event := events.ProjectCreatedEvent{
			ProjectID: p.ID,
			Title:     p.Title,
			CreatorID: req.CreatorID,
			CreatedAt: time.Now(),
		}
		if err := events.ProjectCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[board] Warning: failed to publish ProjectCreated event for project %s: %v", p.ID, err)
		}
	}

	return toProjectResponse(p), nil
}

// addUserToProject handles the add-user-to-project service request.
func (m *BoardModule) addUserToProject(ctx context.Context, req AddUserToProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.engine.AddUserToProject(ctx, req.ProjectID, req.UserID)
	if err != nil {
		return ProjectResponse{}, err
	}
	return toProjectResponse(p), nil
}

// addTaskToProject handles the add-task-to-project service request.
func (m *BoardModule) addTaskToProject(ctx context.Context, req AddTaskToProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.engine.AddTaskToProject(ctx, req.ProjectID, req.TaskID)
	if err != nil {
		return ProjectResponse{}, err
	}
	return toProjectResponse(p), nil
}

// removeAllTasks handles the remove-all-tasks-from-project service request.
func (m *BoardModule) removeAllTasks(ctx context.Context, req RemoveAllTasksRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.engine.RemoveAllTasksFromProject(ctx, req.ProjectID)
	if err != nil {
		return ProjectResponse{}, err
	}
	return toProjectResponse(p), nil
}

// deleteProject handles the delete-project service request.
func (m *BoardModule) deleteProject(ctx context.Context, req DeleteProjectRequest, _ *mono.Msg) (DeleteProjectResponse, error) {
	deletedTasks, err := m.engine.DeleteProject(ctx, req.ProjectID)
	if err != nil {
		return DeleteProjectResponse{Deleted: false}, err
	}

	for _, taskID := range deletedTasks {
		m.publishTaskDeleted(taskID)
	}
	m.publishProjectDeleted(req.ProjectID)

	return DeleteProjectResponse{Deleted: true}, nil
}

// deleteUser handles the delete-user service request.
func (m *BoardModule) deleteUser(ctx context.Context, req DeleteUserRequest, _ *mono.Msg) (DeleteUserResponse, error) {
	deletedProjects, err := m.engine.DeleteUser(ctx, req.UserID)
	if err != nil {
		return DeleteUserResponse{Deleted: false}, err
	}

	for _, projectID := range deletedProjects {
		m.publishProjectDeleted(projectID)
	}
	if m.eventBus != nil {
		event := events.UserDeletedEvent{
			UserID:    req.UserID,
			DeletedAt: time.Now(),
		}
		if err := events.UserDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[board] Warning: failed to publish UserDeleted event for user %s: %v", req.UserID, err)
		}
	}

	return DeleteUserResponse{Deleted: true}, nil
}

// reset handles the reset service request (test support).
func (m *BoardModule) reset(ctx context.Context, _ ResetRequest, _ *mono.Msg) (ResetResponse, error) {
	if err := m.engine.store.Reset(ctx); err != nil {
		return ResetResponse{Reset: false}, err
	}
	return ResetResponse{Reset: true}, nil
}

func (m *BoardModule) publishTaskDeleted(taskID string) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskDeletedEvent{
		TaskID:    taskID,
		DeletedAt: time.Now(),
	}
	if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[board] Warning: failed to publish TaskDeleted event for task %s: %v", taskID, err)
	}
}

func (m *BoardModule) publishProjectDeleted(projectID string) {
	if m.eventBus == nil {
		return
	}
	event := events.ProjectDeletedEvent{
		ProjectID: projectID,
		DeletedAt: time.Now(),
	}
	if err := events.ProjectDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[board] Warning: failed to publish ProjectDeleted event for project %s: %v", projectID, err)
	}
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Status:      string(t.Status),
		Importance:  string(t.Importance),
		DueDate:     t.DueDate,
		Description: t.Description,
		UserID:      t.UserID,
		ProjectID:   t.ProjectID,
	}
}

// toProjectResponse converts a domain Project to a ProjectResponse.
func toProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Users:       p.Users,
		Tasks:       p.Tasks,
	}
}
