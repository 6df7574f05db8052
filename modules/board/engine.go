package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskhub/domain/project"
	"github.com/example/taskhub/domain/relation"
	"github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/store"
	"github.com/google/uuid"
)

// Engine owns both sides of every link between users, tasks and projects.
// The store enforces no foreign-key constraints, so every mutation here
// updates the forward reference and the back-reference together, in a fixed
// order. Inside cascades, a missing secondary entity is an advisory no-op:
// the cascade continues past it.
//
// There is no cross-request locking and no transaction around the multi-step
// writes; a concurrent reader can observe a transiently detached link. That
// is an accepted limitation of the store model.
type Engine struct {
	store store.Store
}

// NewEngine creates an Engine on the given store handle.
func NewEngine(st store.Store) *Engine {
	return &Engine{store: st}
}

// CreateTask validates the task fields, creates the task owned by ownerID
// and appends the task id to the owner's task set.
func (e *Engine) CreateTask(ctx context.Context, req CreateTaskRequest) (*task.Task, error) {
	if len(req.Title) < task.MinTitleLength {
		return nil, newValidationError("title", fmt.Sprintf("must be at least %d characters", task.MinTitleLength))
	}

	status, err := task.ParseStatus(req.Status)
	if err != nil {
		return nil, newValidationError("status", err.Error())
	}
	importance, err := task.ParseImportance(req.Importance)
	if err != nil {
		return nil, newValidationError("importance", err.Error())
	}

	owner, err := e.store.GetUser(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrOwnerUnknown
		}
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	dueDate := time.Now()
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	t := &task.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Status:      status,
		Importance:  importance,
		DueDate:     dueDate,
		Description: req.Description,
		UserID:      &owner.ID,
	}

	if err := e.store.InsertTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	owner.Tasks.Add(t.ID)
	if err := e.store.UpdateUser(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to link task to owner: %w", err)
	}

	return t, nil
}

// ReassignTaskOwner moves a task to a new owner: the task id leaves the
// previous owner's task set, joins the new owner's set, and the task's user
// reference is updated. A previous owner that no longer exists is skipped.
func (e *Engine) ReassignTaskOwner(ctx context.Context, taskID, newUserID string) (*task.Task, error) {
	t, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	newOwner, err := e.store.GetUser(ctx, newUserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrOwnerUnknown
		}
		return nil, fmt.Errorf("failed to resolve new owner: %w", err)
	}

	if t.UserID != nil && *t.UserID != newUserID {
		if err := e.detachTaskFromOwner(ctx, *t.UserID, t.ID); err != nil {
			return nil, err
		}
	}

	t.UserID = &newOwner.ID
	if err := e.store.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to reassign task: %w", err)
	}

	if newOwner.Tasks.Add(t.ID) {
		if err := e.store.UpdateUser(ctx, newOwner); err != nil {
			return nil, fmt.Errorf("failed to link task to new owner: %w", err)
		}
	}

	return t, nil
}

// SetTaskStatus applies a status change as a typed single-field update.
func (e *Engine) SetTaskStatus(ctx context.Context, taskID, status string) (*task.Task, error) {
	parsed, err := task.ParseStatus(status)
	if err != nil {
		return nil, newValidationError("status", err.Error())
	}

	t, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	t.Status = parsed
	if err := e.store.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	return t, nil
}

// UpdateTask applies a typed partial update: only the provided fields change.
func (e *Engine) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*task.Task, error) {
	t, err := e.store.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if len(*req.Title) < task.MinTitleLength {
			return nil, newValidationError("title", fmt.Sprintf("must be at least %d characters", task.MinTitleLength))
		}
		t.Title = *req.Title
	}
	if req.Status != nil {
		status, err := task.ParseStatus(*req.Status)
		if err != nil {
			return nil, newValidationError("status", err.Error())
		}
		t.Status = status
	}
	if req.Importance != nil {
		importance, err := task.ParseImportance(*req.Importance)
		if err != nil {
			return nil, newValidationError("importance", err.Error())
		}
		t.Importance = importance
	}
	if req.DueDate != nil {
		t.DueDate = *req.DueDate
	}
	if req.Description != nil {
		t.Description = *req.Description
	}

	if err := e.store.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// DeleteTask detaches the task from its owner's task set, then from its
// project's task set, then deletes the record. A missing owner or project is
// skipped.
func (e *Engine) DeleteTask(ctx context.Context, taskID string) error {
	t, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if t.UserID != nil {
		if err := e.detachTaskFromOwner(ctx, *t.UserID, t.ID); err != nil {
			return err
		}
	}

	if t.ProjectID != nil {
		if err := e.detachTaskFromProject(ctx, *t.ProjectID, t.ID); err != nil {
			return err
		}
	}

	if err := e.store.DeleteTask(ctx, t.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// CreateProject validates the project fields and creates it with the creator
// as first member, appending the project id to the creator's project set.
func (e *Engine) CreateProject(ctx context.Context, req CreateProjectRequest) (*project.Project, error) {
	if len(req.Title) < project.MinTitleLength {
		return nil, newValidationError("title", fmt.Sprintf("must be at least %d characters", project.MinTitleLength))
	}

	creator, err := e.store.GetUser(ctx, req.CreatorID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrCreatorUnknown
		}
		return nil, fmt.Errorf("failed to resolve creator: %w", err)
	}

	p := &project.Project{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Users:       relation.IDSet{creator.ID},
		Tasks:       relation.IDSet{},
	}

	if err := e.store.InsertProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	creator.Projects.Add(p.ID)
	if err := e.store.UpdateUser(ctx, creator); err != nil {
		return nil, fmt.Errorf("failed to link project to creator: %w", err)
	}

	return p, nil
}

// AddUserToProject adds a user to a project's member set and the project to
// the user's project set. Duplicate membership is rejected and leaves both
// sides unchanged.
func (e *Engine) AddUserToProject(ctx context.Context, projectID, userID string) (*project.Project, error) {
	p, err := e.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	u, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.Users.Contains(u.ID) {
		return nil, ErrDuplicateMember
	}

	p.Users.Add(u.ID)
	u.Projects.Add(p.ID)

	if err := e.store.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to add user to project: %w", err)
	}
	if err := e.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to add project to user: %w", err)
	}

	return p, nil
}

// AddTaskToProject files a task under a project. The task's owner must
// already be a project member, and the project must not already list the
// task. Moving a task between projects removes it from the previous
// project's task set so the link stays consistent on both sides.
func (e *Engine) AddTaskToProject(ctx context.Context, projectID, taskID string) (*project.Project, error) {
	p, err := e.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	t, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if t.UserID == nil || !p.Users.Contains(*t.UserID) {
		return nil, ErrOwnerNotMember
	}
	if p.Tasks.Contains(t.ID) {
		return nil, ErrDuplicateTask
	}

	if t.ProjectID != nil && *t.ProjectID != p.ID {
		if err := e.detachTaskFromProject(ctx, *t.ProjectID, t.ID); err != nil {
			return nil, err
		}
	}

	p.Tasks.Add(t.ID)
	t.ProjectID = &p.ID

	if err := e.store.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to add task to project: %w", err)
	}
	if err := e.store.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to link project to task: %w", err)
	}

	return p, nil
}

// RemoveAllTasksFromProject clears the project's task set and nulls the
// project reference on every task that was listed. The tasks themselves
// survive. Returns the updated project.
func (e *Engine) RemoveAllTasksFromProject(ctx context.Context, projectID string) (*project.Project, error) {
	p, err := e.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	removed := p.Tasks
	p.Tasks = relation.IDSet{}
	if err := e.store.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to clear project task set: %w", err)
	}

	for _, taskID := range removed {
		t, err := e.store.GetTask(ctx, taskID)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load task %s: %w", taskID, err)
		}
		t.ProjectID = nil
		if err := e.store.UpdateTask(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to unlink task %s: %w", taskID, err)
		}
	}

	return p, nil
}

// DeleteProject deletes every task filed under the project (detaching each
// from its owner's task set first), removes the project id from every
// member's project set, then deletes the project record.
func (e *Engine) DeleteProject(ctx context.Context, projectID string) ([]string, error) {
	p, err := e.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := e.store.ListTasks(ctx, store.TaskFilter{ProjectID: &p.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	deletedTasks := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.UserID != nil {
			if err := e.detachTaskFromOwner(ctx, *t.UserID, t.ID); err != nil {
				return nil, err
			}
		}
		if err := e.store.DeleteTask(ctx, t.ID); err != nil {
			return nil, fmt.Errorf("failed to delete task %s: %w", t.ID, err)
		}
		deletedTasks = append(deletedTasks, t.ID)
	}

	for _, memberID := range p.Users {
		u, err := e.store.GetUser(ctx, memberID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load member %s: %w", memberID, err)
		}
		if u.Projects.Remove(p.ID) {
			if err := e.store.UpdateUser(ctx, u); err != nil {
				return nil, fmt.Errorf("failed to unlink project from member %s: %w", memberID, err)
			}
		}
	}

	if err := e.store.DeleteProject(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}

	return deletedTasks, nil
}

// DeleteUser runs the user-delete cascade: every owned task survives with a
// nulled owner reference, the user leaves every project's member set, and a
// project left with no members and no tasks is deleted outright. Missing
// tasks or projects along the way are skipped.
func (e *Engine) DeleteUser(ctx context.Context, userID string) ([]string, error) {
	u, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := e.store.ListTasks(ctx, store.TaskFilter{UserID: &u.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}
	for _, t := range tasks {
		t.UserID = nil
		if err := e.store.UpdateTask(ctx, t); err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to orphan task %s: %w", t.ID, err)
		}
	}

	deletedProjects := make([]string, 0)
	for _, projectID := range u.Projects {
		p, err := e.store.GetProject(ctx, projectID)
		if err != nil {
			if errors.Is(err, store.ErrProjectNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load project %s: %w", projectID, err)
		}

		if !p.Users.Remove(u.ID) {
			continue
		}
		if p.Empty() {
			if err := e.store.DeleteProject(ctx, p.ID); err != nil {
				return nil, fmt.Errorf("failed to delete empty project %s: %w", p.ID, err)
			}
			deletedProjects = append(deletedProjects, p.ID)
			continue
		}
		if err := e.store.UpdateProject(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to update project %s: %w", p.ID, err)
		}
	}

	if err := e.store.DeleteUser(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return deletedProjects, nil
}

// detachTaskFromOwner removes taskID from the task set of the given user.
// A missing user is an advisory no-op.
func (e *Engine) detachTaskFromOwner(ctx context.Context, userID, taskID string) error {
	u, err := e.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load owner %s: %w", userID, err)
	}
	if u.Tasks.Remove(taskID) {
		if err := e.store.UpdateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to detach task from owner %s: %w", userID, err)
		}
	}
	return nil
}

// detachTaskFromProject removes taskID from the task set of the given
// project. A missing project is an advisory no-op.
func (e *Engine) detachTaskFromProject(ctx context.Context, projectID, taskID string) error {
	p, err := e.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load project %s: %w", projectID, err)
	}
	if p.Tasks.Remove(taskID) {
		if err := e.store.UpdateProject(ctx, p); err != nil {
			return fmt.Errorf("failed to detach task from project %s: %w", projectID, err)
		}
	}
	return nil
}
