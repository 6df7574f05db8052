package board

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/example/taskhub/domain/project"
	"github.com/example/taskhub/domain/relation"
	"github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/domain/user"
	"github.com/example/taskhub/store"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestEngine creates an Engine on an in-memory SQLite database.
func setupTestEngine(t *testing.T) (*Engine, store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&user.User{}, &task.Task{}, &project.Project{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	st := store.NewGorm(db)
	return NewEngine(st), st
}

// mustUser inserts a user directly into the store.
func mustUser(t *testing.T, st store.Store, username string) *user.User {
	t.Helper()

	u := &user.User{
		ID:       uuid.New().String(),
		Username: username,
		Projects: relation.IDSet{},
		Tasks:    relation.IDSet{},
	}
	if err := st.InsertUser(context.Background(), u); err != nil {
		t.Fatalf("failed to insert user %s: %v", username, err)
	}
	return u
}

func mustTask(t *testing.T, e *Engine, ownerID, title string) *task.Task {
	t.Helper()

	tk, err := e.CreateTask(context.Background(), CreateTaskRequest{
		OwnerID: ownerID,
		Title:   title,
	})
	if err != nil {
		t.Fatalf("failed to create task %q: %v", title, err)
	}
	return tk
}

func mustProject(t *testing.T, e *Engine, creatorID, title string) *project.Project {
	t.Helper()

	p, err := e.CreateProject(context.Background(), CreateProjectRequest{
		CreatorID: creatorID,
		Title:     title,
	})
	if err != nil {
		t.Fatalf("failed to create project %q: %v", title, err)
	}
	return p
}

func reloadUser(t *testing.T, st store.Store, id string) *user.User {
	t.Helper()
	u, err := st.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload user %s: %v", id, err)
	}
	return u
}

func reloadTask(t *testing.T, st store.Store, id string) *task.Task {
	t.Helper()
	tk, err := st.GetTask(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload task %s: %v", id, err)
	}
	return tk
}

func reloadProject(t *testing.T, st store.Store, id string) *project.Project {
	t.Helper()
	p, err := st.GetProject(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload project %s: %v", id, err)
	}
	return p
}

func TestEngine_CreateTask(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()
	owner := mustUser(t, st, "alice1")

	t.Run("defaults applied", func(t *testing.T) {
		before := time.Now()
		tk, err := e.CreateTask(ctx, CreateTaskRequest{
			OwnerID: owner.ID,
			Title:   "write the report",
		})
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}

		if tk.Status != task.StatusPending {
			t.Errorf("expected default status %q, got %q", task.StatusPending, tk.Status)
		}
		if tk.Importance != task.ImportanceNone {
			t.Errorf("expected default importance %q, got %q", task.ImportanceNone, tk.Importance)
		}
		if tk.DueDate.Before(before) {
			t.Errorf("expected due date to default to creation time, got %v", tk.DueDate)
		}
		if tk.UserID == nil || *tk.UserID != owner.ID {
			t.Errorf("expected owner reference %q, got %v", owner.ID, tk.UserID)
		}

		// The owner's task set gains the new id.
		if !reloadUser(t, st, owner.ID).Tasks.Contains(tk.ID) {
			t.Error("expected task id in owner's task set")
		}
	})

	t.Run("explicit fields honored", func(t *testing.T) {
		due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
		tk, err := e.CreateTask(ctx, CreateTaskRequest{
			OwnerID:     owner.ID,
			Title:       "deploy the service",
			Status:      "In Progress",
			Importance:  "High",
			DueDate:     &due,
			Description: "before the demo",
		})
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
		if tk.Status != task.StatusInProgress || tk.Importance != task.ImportanceHigh {
			t.Errorf("expected explicit status/importance, got %q/%q", tk.Status, tk.Importance)
		}
		if !tk.DueDate.Equal(due) {
			t.Errorf("expected due date %v, got %v", due, tk.DueDate)
		}
	})

	t.Run("title too short", func(t *testing.T) {
		_, err := e.CreateTask(ctx, CreateTaskRequest{OwnerID: owner.ID, Title: "abcd"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}

		// Nothing is written on rejection.
		tasks, err := st.ListTasks(ctx, store.TaskFilter{})
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		for _, tk := range tasks {
			if tk.Title == "abcd" {
				t.Error("expected rejected task to not be stored")
			}
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := e.CreateTask(ctx, CreateTaskRequest{
			OwnerID: owner.ID,
			Title:   "valid title",
			Status:  "Done",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := e.CreateTask(ctx, CreateTaskRequest{OwnerID: "missing", Title: "valid title"})
		if !errors.Is(err, ErrOwnerUnknown) {
			t.Errorf("expected ErrOwnerUnknown, got %v", err)
		}
	})
}

func TestEngine_ReassignTaskOwner(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	alice := mustUser(t, st, "alice1")
	bob := mustUser(t, st, "bobby")
	tk := mustTask(t, e, alice.ID, "shared chore")

	t.Run("moves both sides", func(t *testing.T) {
		moved, err := e.ReassignTaskOwner(ctx, tk.ID, bob.ID)
		if err != nil {
			t.Fatalf("ReassignTaskOwner() error = %v", err)
		}
		if moved.UserID == nil || *moved.UserID != bob.ID {
			t.Errorf("expected new owner %q, got %v", bob.ID, moved.UserID)
		}

		if reloadUser(t, st, alice.ID).Tasks.Contains(tk.ID) {
			t.Error("expected task to leave previous owner's task set")
		}
		if !reloadUser(t, st, bob.ID).Tasks.Contains(tk.ID) {
			t.Error("expected task in new owner's task set")
		}
	})

	t.Run("reassign to current owner is stable", func(t *testing.T) {
		if _, err := e.ReassignTaskOwner(ctx, tk.ID, bob.ID); err != nil {
			t.Fatalf("ReassignTaskOwner() error = %v", err)
		}
		u := reloadUser(t, st, bob.ID)
		count := 0
		for _, id := range u.Tasks {
			if id == tk.ID {
				count++
			}
		}
		if count != 1 {
			t.Errorf("expected task id to appear exactly once, got %d", count)
		}
	})

	t.Run("unknown new owner", func(t *testing.T) {
		_, err := e.ReassignTaskOwner(ctx, tk.ID, "missing")
		if !errors.Is(err, ErrOwnerUnknown) {
			t.Errorf("expected ErrOwnerUnknown, got %v", err)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := e.ReassignTaskOwner(ctx, "missing", bob.ID)
		if !errors.Is(err, store.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestEngine_SetTaskStatus(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	owner := mustUser(t, st, "alice1")
	tk := mustTask(t, e, owner.ID, "status fixture")

	t.Run("valid transition", func(t *testing.T) {
		updated, err := e.SetTaskStatus(ctx, tk.ID, "Completed")
		if err != nil {
			t.Fatalf("SetTaskStatus() error = %v", err)
		}
		if updated.Status != task.StatusCompleted {
			t.Errorf("expected status %q, got %q", task.StatusCompleted, updated.Status)
		}
		if reloadTask(t, st, tk.ID).Status != task.StatusCompleted {
			t.Error("expected status change to persist")
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := e.SetTaskStatus(ctx, tk.ID, "Done")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := e.SetTaskStatus(ctx, "missing", "Pending")
		if !errors.Is(err, store.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestEngine_UpdateTask(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	owner := mustUser(t, st, "alice1")
	tk := mustTask(t, e, owner.ID, "original title")

	t.Run("partial update leaves other fields", func(t *testing.T) {
		importance := "Medium"
		updated, err := e.UpdateTask(ctx, UpdateTaskRequest{
			TaskID:     tk.ID,
			Importance: &importance,
		})
		if err != nil {
			t.Fatalf("UpdateTask() error = %v", err)
		}
		if updated.Importance != task.ImportanceMedium {
			t.Errorf("expected importance %q, got %q", task.ImportanceMedium, updated.Importance)
		}
		if updated.Title != "original title" {
			t.Errorf("expected title untouched, got %q", updated.Title)
		}
		if updated.UserID == nil || *updated.UserID != owner.ID {
			t.Error("expected owner reference untouched by partial update")
		}
	})

	t.Run("short title rejected", func(t *testing.T) {
		short := "abc"
		_, err := e.UpdateTask(ctx, UpdateTaskRequest{TaskID: tk.ID, Title: &short})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if reloadTask(t, st, tk.ID).Title != "original title" {
			t.Error("expected title unchanged after rejected update")
		}
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := e.UpdateTask(ctx, UpdateTaskRequest{TaskID: "missing"})
		if !errors.Is(err, store.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestEngine_DeleteTask(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	owner := mustUser(t, st, "alice1")
	p := mustProject(t, e, owner.ID, "cleanup target")
	tk := mustTask(t, e, owner.ID, "doomed task")
	if _, err := e.AddTaskToProject(ctx, p.ID, tk.ID); err != nil {
		t.Fatalf("AddTaskToProject() error = %v", err)
	}

	if err := e.DeleteTask(ctx, tk.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}

	if _, err := st.GetTask(ctx, tk.ID); !errors.Is(err, store.ErrTaskNotFound) {
		t.Errorf("expected task record gone, got %v", err)
	}
	if reloadUser(t, st, owner.ID).Tasks.Contains(tk.ID) {
		t.Error("expected task id removed from owner's task set")
	}
	if reloadProject(t, st, p.ID).Tasks.Contains(tk.ID) {
		t.Error("expected task id removed from project's task set")
	}

	t.Run("missing task", func(t *testing.T) {
		if err := e.DeleteTask(ctx, "missing"); !errors.Is(err, store.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestEngine_CreateProject(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()
	creator := mustUser(t, st, "alice1")

	t.Run("creator becomes first member", func(t *testing.T) {
		p, err := e.CreateProject(ctx, CreateProjectRequest{
			CreatorID:   creator.ID,
			Title:       "Infra",
			Description: "platform work",
		})
		if err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}

		if !p.Users.Contains(creator.ID) {
			t.Error("expected creator in project member set")
		}
		if len(p.Tasks) != 0 {
			t.Errorf("expected empty task set, got %v", p.Tasks)
		}
		if !reloadUser(t, st, creator.ID).Projects.Contains(p.ID) {
			t.Error("expected project id in creator's project set")
		}
	})

	t.Run("title too short", func(t *testing.T) {
		_, err := e.CreateProject(ctx, CreateProjectRequest{CreatorID: creator.ID, Title: "abcd"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown creator", func(t *testing.T) {
		_, err := e.CreateProject(ctx, CreateProjectRequest{CreatorID: "missing", Title: "valid title"})
		if !errors.Is(err, ErrCreatorUnknown) {
			t.Errorf("expected ErrCreatorUnknown, got %v", err)
		}
	})
}

func TestEngine_AddUserToProject(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	alice := mustUser(t, st, "alice1")
	bob := mustUser(t, st, "bobby")
	p := mustProject(t, e, alice.ID, "Infra")

	t.Run("links both sides", func(t *testing.T) {
		updated, err := e.AddUserToProject(ctx, p.ID, bob.ID)
		if err != nil {
			t.Fatalf("AddUserToProject() error = %v", err)
		}
		if !updated.Users.Contains(bob.ID) {
			t.Error("expected user in project member set")
		}
		if !reloadUser(t, st, bob.ID).Projects.Contains(p.ID) {
			t.Error("expected project in user's project set")
		}
	})

	t.Run("duplicate member leaves both sides unchanged", func(t *testing.T) {
		beforeProject := reloadProject(t, st, p.ID)
		beforeUser := reloadUser(t, st, bob.ID)

		_, err := e.AddUserToProject(ctx, p.ID, bob.ID)
		if !errors.Is(err, ErrDuplicateMember) {
			t.Fatalf("expected ErrDuplicateMember, got %v", err)
		}

		if got := len(reloadProject(t, st, p.ID).Users); got != len(beforeProject.Users) {
			t.Errorf("expected member set cardinality %d, got %d", len(beforeProject.Users), got)
		}
		if got := len(reloadUser(t, st, bob.ID).Projects); got != len(beforeUser.Projects) {
			t.Errorf("expected project set cardinality %d, got %d", len(beforeUser.Projects), got)
		}
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := e.AddUserToProject(ctx, "missing", bob.ID)
		if !errors.Is(err, store.ErrProjectNotFound) {
			t.Errorf("expected ErrProjectNotFound, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := e.AddUserToProject(ctx, p.ID, "missing")
		if !errors.Is(err, store.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestEngine_AddTaskToProject(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	alice := mustUser(t, st, "alice1")
	bob := mustUser(t, st, "bobby")
	p := mustProject(t, e, alice.ID, "Infra")
	tk := mustTask(t, e, alice.ID, "member task")

	t.Run("links both sides", func(t *testing.T) {
		updated, err := e.AddTaskToProject(ctx, p.ID, tk.ID)
		if err != nil {
			t.Fatalf("AddTaskToProject() error = %v", err)
		}
		if !updated.Tasks.Contains(tk.ID) {
			t.Error("expected task in project task set")
		}
		got := reloadTask(t, st, tk.ID)
		if got.ProjectID == nil || *got.ProjectID != p.ID {
			t.Errorf("expected project reference %q, got %v", p.ID, got.ProjectID)
		}
	})

	t.Run("duplicate task rejected", func(t *testing.T) {
		_, err := e.AddTaskToProject(ctx, p.ID, tk.ID)
		if !errors.Is(err, ErrDuplicateTask) {
			t.Errorf("expected ErrDuplicateTask, got %v", err)
		}
	})

	t.Run("owner must be a member", func(t *testing.T) {
		outsiderTask := mustTask(t, e, bob.ID, "outsider task")
		_, err := e.AddTaskToProject(ctx, p.ID, outsiderTask.ID)
		if !errors.Is(err, ErrOwnerNotMember) {
			t.Fatalf("expected ErrOwnerNotMember, got %v", err)
		}
		if reloadProject(t, st, p.ID).Tasks.Contains(outsiderTask.ID) {
			t.Error("expected rejected task to stay out of the project task set")
		}
	})

	t.Run("ownerless task rejected", func(t *testing.T) {
		orphan := mustTask(t, e, alice.ID, "soon orphaned")
		loaded := reloadTask(t, st, orphan.ID)
		loaded.UserID = nil
		if err := st.UpdateTask(ctx, loaded); err != nil {
			t.Fatalf("UpdateTask() error = %v", err)
		}

		_, err := e.AddTaskToProject(ctx, p.ID, orphan.ID)
		if !errors.Is(err, ErrOwnerNotMember) {
			t.Errorf("expected ErrOwnerNotMember for ownerless task, got %v", err)
		}
	})

	t.Run("moving cleans the previous project", func(t *testing.T) {
		other := mustProject(t, e, alice.ID, "Second project")

		moved, err := e.AddTaskToProject(ctx, other.ID, tk.ID)
		if err != nil {
			t.Fatalf("AddTaskToProject() error = %v", err)
		}
		if !moved.Tasks.Contains(tk.ID) {
			t.Error("expected task in new project task set")
		}
		if reloadProject(t, st, p.ID).Tasks.Contains(tk.ID) {
			t.Error("expected task removed from previous project task set")
		}
		got := reloadTask(t, st, tk.ID)
		if got.ProjectID == nil || *got.ProjectID != other.ID {
			t.Errorf("expected project reference %q, got %v", other.ID, got.ProjectID)
		}
	})
}

func TestEngine_RemoveAllTasksFromProject(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	alice := mustUser(t, st, "alice1")
	p := mustProject(t, e, alice.ID, "busy project")

	taskIDs := make([]string, 0, 3)
	for _, title := range []string{"first chore", "second chore", "third chore"} {
		tk := mustTask(t, e, alice.ID, title)
		if _, err := e.AddTaskToProject(ctx, p.ID, tk.ID); err != nil {
			t.Fatalf("AddTaskToProject() error = %v", err)
		}
		taskIDs = append(taskIDs, tk.ID)
	}

	cleared, err := e.RemoveAllTasksFromProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("RemoveAllTasksFromProject() error = %v", err)
	}
	if len(cleared.Tasks) != 0 {
		t.Errorf("expected cleared task set in returned project, got %v", cleared.Tasks)
	}

	if got := len(reloadProject(t, st, p.ID).Tasks); got != 0 {
		t.Errorf("expected empty project task set, got %d entries", got)
	}
	for _, id := range taskIDs {
		tk := reloadTask(t, st, id)
		if tk.ProjectID != nil {
			t.Errorf("expected task %s project reference to be nulled", id)
		}
		if tk.UserID == nil || *tk.UserID != alice.ID {
			t.Errorf("expected task %s to keep its owner", id)
		}
	}
}

func TestEngine_DeleteProjectCascade(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	alice := mustUser(t, st, "alice1")
	bob := mustUser(t, st, "bobby")
	p := mustProject(t, e, alice.ID, "Infra")
	if _, err := e.AddUserToProject(ctx, p.ID, bob.ID); err != nil {
		t.Fatalf("AddUserToProject() error = %v", err)
	}

	projectTask := mustTask(t, e, alice.ID, "filed task")
	if _, err := e.AddTaskToProject(ctx, p.ID, projectTask.ID); err != nil {
		t.Fatalf("AddTaskToProject() error = %v", err)
	}
	unrelatedTask := mustTask(t, e, alice.ID, "survives deletion")

	deleted, err := e.DeleteProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}

	if len(deleted) != 1 || deleted[0] != projectTask.ID {
		t.Errorf("expected deleted task list [%s], got %v", projectTask.ID, deleted)
	}

	if _, err := st.GetProject(ctx, p.ID); !errors.Is(err, store.ErrProjectNotFound) {
		t.Errorf("expected project gone, got %v", err)
	}
	if _, err := st.GetTask(ctx, projectTask.ID); !errors.Is(err, store.ErrTaskNotFound) {
		t.Errorf("expected filed task gone, got %v", err)
	}
	if _, err := st.GetTask(ctx, unrelatedTask.ID); err != nil {
		t.Errorf("expected unrelated task to survive, got %v", err)
	}

	reloadedAlice := reloadUser(t, st, alice.ID)
	if reloadedAlice.Tasks.Contains(projectTask.ID) {
		t.Error("expected deleted task removed from owner's task set")
	}
	if !reloadedAlice.Tasks.Contains(unrelatedTask.ID) {
		t.Error("expected unrelated task to stay in owner's task set")
	}
	if reloadedAlice.Projects.Contains(p.ID) {
		t.Error("expected project removed from creator's project set")
	}
	if reloadUser(t, st, bob.ID).Projects.Contains(p.ID) {
		t.Error("expected project removed from member's project set")
	}

	t.Run("missing project", func(t *testing.T) {
		_, err := e.DeleteProject(ctx, "missing")
		if !errors.Is(err, store.ErrProjectNotFound) {
			t.Errorf("expected ErrProjectNotFound, got %v", err)
		}
	})
}

func TestEngine_DeleteUserCascade(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	alice := mustUser(t, st, "alice1")
	bob := mustUser(t, st, "bobby")

	soloProject := mustProject(t, e, alice.ID, "solo project")
	sharedProject := mustProject(t, e, alice.ID, "shared project")
	if _, err := e.AddUserToProject(ctx, sharedProject.ID, bob.ID); err != nil {
		t.Fatalf("AddUserToProject() error = %v", err)
	}

	orphanedTask := mustTask(t, e, alice.ID, "left behind")

	deletedProjects, err := e.DeleteUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	if _, err := st.GetUser(ctx, alice.ID); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected user gone, got %v", err)
	}

	// Owned tasks survive with a nulled owner reference.
	tk := reloadTask(t, st, orphanedTask.ID)
	if tk.UserID != nil {
		t.Errorf("expected orphaned task owner to be nulled, got %v", *tk.UserID)
	}

	// A project left with no members and no tasks is deleted outright.
	if len(deletedProjects) != 1 || deletedProjects[0] != soloProject.ID {
		t.Errorf("expected deleted project list [%s], got %v", soloProject.ID, deletedProjects)
	}
	if _, err := st.GetProject(ctx, soloProject.ID); !errors.Is(err, store.ErrProjectNotFound) {
		t.Errorf("expected solo project gone, got %v", err)
	}

	// A project with remaining members survives without the deleted user.
	shared := reloadProject(t, st, sharedProject.ID)
	if shared.Users.Contains(alice.ID) {
		t.Error("expected deleted user removed from shared project member set")
	}
	if !shared.Users.Contains(bob.ID) {
		t.Error("expected remaining member untouched")
	}

	t.Run("missing user", func(t *testing.T) {
		_, err := e.DeleteUser(ctx, "missing")
		if !errors.Is(err, store.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

// TestEngine_ProjectWorkflow drives a full project lifecycle through the
// engine and checks that every link stays consistent on both sides.
func TestEngine_ProjectWorkflow(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()

	alice := mustUser(t, st, "alice1")
	bob := mustUser(t, st, "bobby")

	infra := mustProject(t, e, alice.ID, "Infra")
	if _, err := e.AddUserToProject(ctx, infra.ID, bob.ID); err != nil {
		t.Fatalf("AddUserToProject() error = %v", err)
	}

	tk := mustTask(t, e, bob.ID, "provision servers")
	if _, err := e.AddTaskToProject(ctx, infra.ID, tk.ID); err != nil {
		t.Fatalf("AddTaskToProject() error = %v", err)
	}

	// Reassigning the task keeps the project link while moving the owner link.
	if _, err := e.ReassignTaskOwner(ctx, tk.ID, alice.ID); err != nil {
		t.Fatalf("ReassignTaskOwner() error = %v", err)
	}

	got := reloadTask(t, st, tk.ID)
	if got.UserID == nil || *got.UserID != alice.ID {
		t.Errorf("expected owner %q, got %v", alice.ID, got.UserID)
	}
	if got.ProjectID == nil || *got.ProjectID != infra.ID {
		t.Errorf("expected project %q, got %v", infra.ID, got.ProjectID)
	}
	if reloadUser(t, st, bob.ID).Tasks.Contains(tk.ID) {
		t.Error("expected task removed from previous owner's task set")
	}
	if !reloadUser(t, st, alice.ID).Tasks.Contains(tk.ID) {
		t.Error("expected task in new owner's task set")
	}
	if !reloadProject(t, st, infra.ID).Tasks.Contains(tk.ID) {
		t.Error("expected task to stay in project task set across reassignment")
	}

	// Deleting bob leaves the project with alice and the task intact.
	if _, err := e.DeleteUser(ctx, bob.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	survived := reloadProject(t, st, infra.ID)
	if survived.Users.Contains(bob.ID) {
		t.Error("expected bob removed from project member set")
	}
	if !survived.Tasks.Contains(tk.ID) {
		t.Error("expected project task set untouched by member deletion")
	}
}

// assertLinkConsistency reloads every record and checks that all
// relationship links hold on both sides: project member sets mirror user
// project sets, task ownership mirrors user task sets, task filing mirrors
// project task sets, and no id set carries duplicates or dangling ids.
func assertLinkConsistency(t *testing.T, st store.Store, step int) {
	t.Helper()
	ctx := context.Background()

	users, err := st.ListUsers(ctx)
	if err != nil {
		t.Fatalf("step %d: ListUsers() error = %v", step, err)
	}
	tasks, err := st.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		t.Fatalf("step %d: ListTasks() error = %v", step, err)
	}
	projects, err := st.ListProjects(ctx)
	if err != nil {
		t.Fatalf("step %d: ListProjects() error = %v", step, err)
	}

	userByID := make(map[string]*user.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	taskByID := make(map[string]*task.Task, len(tasks))
	for _, tk := range tasks {
		taskByID[tk.ID] = tk
	}
	projectByID := make(map[string]*project.Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}

	noDuplicates := func(kind, id string, set relation.IDSet) {
		seen := make(map[string]bool, len(set))
		for _, member := range set {
			if seen[member] {
				t.Errorf("step %d: %s %s lists %s twice", step, kind, id, member)
			}
			seen[member] = true
		}
	}

	for _, u := range users {
		noDuplicates("user", u.ID, u.Projects)
		noDuplicates("user", u.ID, u.Tasks)
		for _, projectID := range u.Projects {
			p, ok := projectByID[projectID]
			if !ok {
				t.Errorf("step %d: user %s references missing project %s", step, u.ID, projectID)
				continue
			}
			if !p.Users.Contains(u.ID) {
				t.Errorf("step %d: user %s lists project %s but the project does not list the user", step, u.ID, projectID)
			}
		}
		for _, taskID := range u.Tasks {
			tk, ok := taskByID[taskID]
			if !ok {
				t.Errorf("step %d: user %s references missing task %s", step, u.ID, taskID)
				continue
			}
			if tk.UserID == nil || *tk.UserID != u.ID {
				t.Errorf("step %d: user %s lists task %s but the task's owner is %v", step, u.ID, taskID, tk.UserID)
			}
		}
	}

	for _, tk := range tasks {
		if tk.UserID != nil {
			owner, ok := userByID[*tk.UserID]
			if !ok {
				t.Errorf("step %d: task %s references missing owner %s", step, tk.ID, *tk.UserID)
			} else if !owner.Tasks.Contains(tk.ID) {
				t.Errorf("step %d: task %s names owner %s but the owner's task set omits it", step, tk.ID, *tk.UserID)
			}
		}
		if tk.ProjectID != nil {
			p, ok := projectByID[*tk.ProjectID]
			if !ok {
				t.Errorf("step %d: task %s references missing project %s", step, tk.ID, *tk.ProjectID)
			} else if !p.Tasks.Contains(tk.ID) {
				t.Errorf("step %d: task %s names project %s but the project's task set omits it", step, tk.ID, *tk.ProjectID)
			}
		}
	}

	for _, p := range projects {
		noDuplicates("project", p.ID, p.Users)
		noDuplicates("project", p.ID, p.Tasks)
		for _, memberID := range p.Users {
			member, ok := userByID[memberID]
			if !ok {
				t.Errorf("step %d: project %s references missing member %s", step, p.ID, memberID)
				continue
			}
			if !member.Projects.Contains(p.ID) {
				t.Errorf("step %d: project %s lists member %s but the member does not list the project", step, p.ID, memberID)
			}
		}
		for _, taskID := range p.Tasks {
			tk, ok := taskByID[taskID]
			if !ok {
				t.Errorf("step %d: project %s references missing task %s", step, p.ID, taskID)
				continue
			}
			if tk.ProjectID == nil || *tk.ProjectID != p.ID {
				t.Errorf("step %d: project %s lists task %s but the task's project is %v", step, p.ID, taskID, tk.ProjectID)
			}
		}
	}
}

// TestEngine_RandomizedLinkConsistency drives the engine with a seeded
// random interleaving of every mutating operation and checks link
// consistency over the whole database after each step. A failure report
// names the first step that broke a link, which together with the fixed
// seed makes the run reproducible.
func TestEngine_RandomizedLinkConsistency(t *testing.T) {
	e, st := setupTestEngine(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(20260830))

	const steps = 300

	var userIDs, taskIDs, projectIDs []string

	pick := func(ids []string) string {
		return ids[rng.Intn(len(ids))]
	}
	remove := func(ids []string, id string) []string {
		for i, candidate := range ids {
			if candidate == id {
				return append(ids[:i], ids[i+1:]...)
			}
		}
		return ids
	}

	// Seed a handful of users so the relationship ops have someone to act on.
	for i := 0; i < 3; i++ {
		u := mustUser(t, st, fmt.Sprintf("seed-user-%d", i))
		userIDs = append(userIDs, u.ID)
	}

	for step := 0; step < steps; step++ {
		switch op := rng.Intn(10); {
		case op == 0: // new user
			u := mustUser(t, st, fmt.Sprintf("user-%04d", step))
			userIDs = append(userIDs, u.ID)

		case op == 1 && len(userIDs) > 0: // new project
			p, err := e.CreateProject(ctx, CreateProjectRequest{
				CreatorID: pick(userIDs),
				Title:     fmt.Sprintf("project-%04d", step),
			})
			if err != nil {
				t.Fatalf("step %d: CreateProject() error = %v", step, err)
			}
			projectIDs = append(projectIDs, p.ID)

		case op == 2 && len(userIDs) > 0: // new task
			tk, err := e.CreateTask(ctx, CreateTaskRequest{
				OwnerID: pick(userIDs),
				Title:   fmt.Sprintf("task-%04d", step),
			})
			if err != nil {
				t.Fatalf("step %d: CreateTask() error = %v", step, err)
			}
			taskIDs = append(taskIDs, tk.ID)

		case op == 3 && len(userIDs) > 0 && len(projectIDs) > 0: // add member
			_, err := e.AddUserToProject(ctx, pick(projectIDs), pick(userIDs))
			if err != nil && !errors.Is(err, ErrDuplicateMember) {
				t.Fatalf("step %d: AddUserToProject() error = %v", step, err)
			}

		case op == 4 && len(taskIDs) > 0 && len(projectIDs) > 0: // file task
			_, err := e.AddTaskToProject(ctx, pick(projectIDs), pick(taskIDs))
			if err != nil && !errors.Is(err, ErrOwnerNotMember) && !errors.Is(err, ErrDuplicateTask) {
				t.Fatalf("step %d: AddTaskToProject() error = %v", step, err)
			}

		case op == 5 && len(taskIDs) > 0 && len(userIDs) > 0: // reassign owner
			if _, err := e.ReassignTaskOwner(ctx, pick(taskIDs), pick(userIDs)); err != nil {
				t.Fatalf("step %d: ReassignTaskOwner() error = %v", step, err)
			}

		case op == 6 && len(projectIDs) > 0: // clear project tasks
			p, err := e.RemoveAllTasksFromProject(ctx, pick(projectIDs))
			if err != nil {
				t.Fatalf("step %d: RemoveAllTasksFromProject() error = %v", step, err)
			}
			if len(p.Tasks) != 0 {
				t.Fatalf("step %d: cleared project still lists tasks %v", step, p.Tasks)
			}

		case op == 7 && len(taskIDs) > 0: // delete task
			id := pick(taskIDs)
			if err := e.DeleteTask(ctx, id); err != nil {
				t.Fatalf("step %d: DeleteTask() error = %v", step, err)
			}
			taskIDs = remove(taskIDs, id)

		case op == 8 && len(projectIDs) > 0: // delete project cascade
			id := pick(projectIDs)
			deletedTasks, err := e.DeleteProject(ctx, id)
			if err != nil {
				t.Fatalf("step %d: DeleteProject() error = %v", step, err)
			}
			projectIDs = remove(projectIDs, id)
			for _, taskID := range deletedTasks {
				taskIDs = remove(taskIDs, taskID)
			}

		case op == 9 && len(userIDs) > 1: // delete user cascade, keep one alive
			id := pick(userIDs)
			deletedProjects, err := e.DeleteUser(ctx, id)
			if err != nil {
				t.Fatalf("step %d: DeleteUser() error = %v", step, err)
			}
			userIDs = remove(userIDs, id)
			for _, projectID := range deletedProjects {
				projectIDs = remove(projectIDs, projectID)
			}
		}

		assertLinkConsistency(t, st, step)
	}
}
