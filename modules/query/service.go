package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/taskhub/domain/project"
	"github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/domain/user"
	"github.com/example/taskhub/store"
	"github.com/go-monolith/mono"
)

// Projector answers read requests that expand related entities. Expansions
// are pure joins over the id sets maintained by the board module: nothing is
// cached and nothing is mutated, every call re-reads the store. A dangling
// id (the referenced entity no longer exists) is skipped, not an error.
type Projector struct {
	store store.Store
}

// NewProjector creates a Projector on the given store handle.
func NewProjector(st store.Store) *Projector {
	return &Projector{store: st}
}

// ListUsers returns all users without expansion.
func (p *Projector) ListUsers(ctx context.Context) ([]UserView, error) {
	users, err := p.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]UserView, 0, len(users))
	for _, u := range users {
		items = append(items, toUserView(u))
	}
	return items, nil
}

// ListUsersWithTasks returns all users with their task sets expanded; each
// expanded task carries its own expanded project.
func (p *Projector) ListUsersWithTasks(ctx context.Context) ([]UserWithTasks, error) {
	users, err := p.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]UserWithTasks, 0, len(users))
	for _, u := range users {
		tasks := make([]TaskWithProject, 0, len(u.Tasks))
		for _, taskID := range u.Tasks {
			t, err := p.store.GetTask(ctx, taskID)
			if err != nil {
				if errors.Is(err, store.ErrTaskNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to expand task %s: %w", taskID, err)
			}

			expanded := TaskWithProject{TaskView: toTaskView(t)}
			if t.ProjectID != nil {
				summary, err := p.projectSummary(ctx, *t.ProjectID)
				if err != nil {
					return nil, err
				}
				expanded.Project = summary
			}
			tasks = append(tasks, expanded)
		}

		items = append(items, UserWithTasks{
			ID:       u.ID,
			Username: u.Username,
			Projects: u.Projects,
			Tasks:    tasks,
		})
	}
	return items, nil
}

// ListUsersWithProjects returns all users with their project sets expanded.
func (p *Projector) ListUsersWithProjects(ctx context.Context) ([]UserWithProjects, error) {
	users, err := p.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]UserWithProjects, 0, len(users))
	for _, u := range users {
		projects := make([]ProjectSummary, 0, len(u.Projects))
		for _, projectID := range u.Projects {
			summary, err := p.projectSummary(ctx, projectID)
			if err != nil {
				return nil, err
			}
			if summary != nil {
				projects = append(projects, *summary)
			}
		}

		items = append(items, UserWithProjects{
			ID:       u.ID,
			Username: u.Username,
			Projects: projects,
			Tasks:    u.Tasks,
		})
	}
	return items, nil
}

// ListTasks returns all tasks without expansion.
func (p *Projector) ListTasks(ctx context.Context) ([]TaskView, error) {
	tasks, err := p.store.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	items := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, toTaskView(t))
	}
	return items, nil
}

// ListTasksWithUser returns all tasks with the owner reference expanded.
func (p *Projector) ListTasksWithUser(ctx context.Context) ([]TaskWithUser, error) {
	tasks, err := p.store.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	items := make([]TaskWithUser, 0, len(tasks))
	for _, t := range tasks {
		expanded := TaskWithUser{TaskView: toTaskView(t)}
		if t.UserID != nil {
			u, err := p.store.GetUser(ctx, *t.UserID)
			if err != nil {
				if !errors.Is(err, store.ErrUserNotFound) {
					return nil, fmt.Errorf("failed to expand user %s: %w", *t.UserID, err)
				}
			} else {
				summary := toUserSummary(u)
				expanded.User = &summary
			}
		}
		items = append(items, expanded)
	}
	return items, nil
}

// ListTasksWithProject returns all tasks with the project reference expanded.
func (p *Projector) ListTasksWithProject(ctx context.Context) ([]TaskWithProject, error) {
	tasks, err := p.store.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	items := make([]TaskWithProject, 0, len(tasks))
	for _, t := range tasks {
		expanded := TaskWithProject{TaskView: toTaskView(t)}
		if t.ProjectID != nil {
			summary, err := p.projectSummary(ctx, *t.ProjectID)
			if err != nil {
				return nil, err
			}
			expanded.Project = summary
		}
		items = append(items, expanded)
	}
	return items, nil
}

// ListProjects returns all projects without expansion.
func (p *Projector) ListProjects(ctx context.Context) ([]ProjectView, error) {
	projects, err := p.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	items := make([]ProjectView, 0, len(projects))
	for _, pr := range projects {
		items = append(items, toProjectView(pr))
	}
	return items, nil
}

// ListProjectsWithUsers returns all projects with member sets expanded.
func (p *Projector) ListProjectsWithUsers(ctx context.Context) ([]ProjectWithUsers, error) {
	projects, err := p.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	items := make([]ProjectWithUsers, 0, len(projects))
	for _, pr := range projects {
		users := make([]UserSummary, 0, len(pr.Users))
		for _, userID := range pr.Users {
			u, err := p.store.GetUser(ctx, userID)
			if err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to expand user %s: %w", userID, err)
			}
			users = append(users, toUserSummary(u))
		}

		items = append(items, ProjectWithUsers{
			ID:          pr.ID,
			Title:       pr.Title,
			Description: pr.Description,
			Users:       users,
			Tasks:       pr.Tasks,
		})
	}
	return items, nil
}

// ListProjectsWithTasks returns all projects with task sets expanded.
func (p *Projector) ListProjectsWithTasks(ctx context.Context) ([]ProjectWithTasks, error) {
	projects, err := p.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	items := make([]ProjectWithTasks, 0, len(projects))
	for _, pr := range projects {
		tasks := make([]TaskSummary, 0, len(pr.Tasks))
		for _, taskID := range pr.Tasks {
			t, err := p.store.GetTask(ctx, taskID)
			if err != nil {
				if errors.Is(err, store.ErrTaskNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to expand task %s: %w", taskID, err)
			}
			tasks = append(tasks, toTaskSummary(t))
		}

		items = append(items, ProjectWithTasks{
			ID:          pr.ID,
			Title:       pr.Title,
			Description: pr.Description,
			Users:       pr.Users,
			Tasks:       tasks,
		})
	}
	return items, nil
}

// projectSummary expands a project reference; a dangling id yields nil.
func (p *Projector) projectSummary(ctx context.Context, projectID string) (*ProjectSummary, error) {
	pr, err := p.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to expand project %s: %w", projectID, err)
	}
	return &ProjectSummary{
		ID:          pr.ID,
		Title:       pr.Title,
		Description: pr.Description,
		Tasks:       pr.Tasks,
	}, nil
}

func toUserView(u *user.User) UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Projects: u.Projects,
		Tasks:    u.Tasks,
	}
}

func toUserSummary(u *user.User) UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Projects: u.Projects,
		Tasks:    u.Tasks,
	}
}

func toTaskView(t *task.Task) TaskView {
	return TaskView{
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

func toTaskSummary(t *task.Task) TaskSummary {
	return TaskSummary{
		ID:          t.ID,
		Title:       t.Title,
		Status:      string(t.Status),
		Importance:  string(t.Importance),
		DueDate:     t.DueDate,
		Description: t.Description,
		ProjectID:   t.ProjectID,
	}
}

func toProjectView(p *project.Project) ProjectView {
	return ProjectView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Users:       p.Users,
		Tasks:       p.Tasks,
	}
}

// service handlers

func (m *QueryModule) listUsers(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListUsersResponse, error) {
	items, err := m.projector.ListUsers(ctx)
	if err != nil {
		return ListUsersResponse{}, err
	}
	return ListUsersResponse{Items: items}, nil
}

func (m *QueryModule) listUsersWithTasks(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListUsersWithTasksResponse, error) {
	items, err := m.projector.ListUsersWithTasks(ctx)
	if err != nil {
		return ListUsersWithTasksResponse{}, err
	}
	return ListUsersWithTasksResponse{Items: items}, nil
}

func (m *QueryModule) listUsersWithProjects(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListUsersWithProjectsResponse, error) {
	items, err := m.projector.ListUsersWithProjects(ctx)
	if err != nil {
		return ListUsersWithProjectsResponse{}, err
	}
	return ListUsersWithProjectsResponse{Items: items}, nil
}

func (m *QueryModule) listTasks(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListTasksResponse, error) {
	items, err := m.projector.ListTasks(ctx)
	if err != nil {
		return ListTasksResponse{}, err
	}
	return ListTasksResponse{Items: items}, nil
}

func (m *QueryModule) listTasksWithUser(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListTasksWithUserResponse, error) {
	items, err := m.projector.ListTasksWithUser(ctx)
	if err != nil {
		return ListTasksWithUserResponse{}, err
	}
	return ListTasksWithUserResponse{Items: items}, nil
}

func (m *QueryModule) listTasksWithProject(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListTasksWithProjectResponse, error) {
	items, err := m.projector.ListTasksWithProject(ctx)
	if err != nil {
		return ListTasksWithProjectResponse{}, err
	}
	return ListTasksWithProjectResponse{Items: items}, nil
}

func (m *QueryModule) listProjects(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListProjectsResponse, error) {
	items, err := m.projector.ListProjects(ctx)
	if err != nil {
		return ListProjectsResponse{}, err
	}
	return ListProjectsResponse{Items: items}, nil
}

func (m *QueryModule) listProjectsWithUsers(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListProjectsWithUsersResponse, error) {
	items, err := m.projector.ListProjectsWithUsers(ctx)
	if err != nil {
		return ListProjectsWithUsersResponse{}, err
	}
	return ListProjectsWithUsersResponse{Items: items}, nil
}

func (m *QueryModule) listProjectsWithTasks(ctx context.Context, _ ListRequest, _ *mono.Msg) (ListProjectsWithTasksResponse, error) {
	items, err := m.projector.ListProjectsWithTasks(ctx)
	if err != nil {
		return ListProjectsWithTasksResponse{}, err
	}
	return ListProjectsWithTasksResponse{Items: items}, nil
}
