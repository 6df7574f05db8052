package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/taskhub/domain/project"
	"github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Gorm implements Store on a GORM-managed SQLite database.
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

// Open opens (or creates) the SQLite database at path and migrates the
// schema. The returned handle is owned by the caller: acquire it at process
// start, pass it to the modules that need it, and Close it at shutdown.
func Open(path string) (*Gorm, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&user.User{}, &task.Task{}, &project.Project{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Gorm{db: db}, nil
}

// NewGorm wraps an already-open GORM handle. Used by tests with an in-memory
// database.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// GetUser finds a user by id.
func (s *Gorm) GetUser(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	result := s.db.WithContext(ctx).First(&u, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &u, nil
}

// GetUserByUsername finds a user by username.
func (s *Gorm) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	result := s.db.WithContext(ctx).First(&u, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &u, nil
}

// ListUsers returns all users.
func (s *Gorm) ListUsers(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	if result := s.db.WithContext(ctx).Find(&users); result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// InsertUser creates a new user record.
func (s *Gorm) InsertUser(ctx context.Context, u *user.User) error {
	result := s.db.WithContext(ctx).Create(u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return result.Error
	}
	return nil
}

// UpdateUser persists a loaded-and-mutated user record. Updating a record
// that no longer exists fails with ErrUserNotFound.
func (s *Gorm) UpdateUser(ctx context.Context, u *user.User) error {
	result := s.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", u.ID).Select("*").Updates(u)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user record. Absent ids are silently ignored.
func (s *Gorm) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&user.User{}, "id = ?", id).Error
}

// GetTask finds a task by id.
func (s *Gorm) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	result := s.db.WithContext(ctx).First(&t, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &t, nil
}

// ListTasks returns all tasks matching filter.
func (s *Gorm) ListTasks(ctx context.Context, filter TaskFilter) ([]*task.Task, error) {
	query := s.db.WithContext(ctx)
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var tasks []*task.Task
	if result := query.Find(&tasks); result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// InsertTask creates a new task record.
func (s *Gorm) InsertTask(ctx context.Context, t *task.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// UpdateTask persists a loaded-and-mutated task record. Updating a record
// that no longer exists fails with ErrTaskNotFound.
func (s *Gorm) UpdateTask(ctx context.Context, t *task.Task) error {
	result := s.db.WithContext(ctx).Model(&task.Task{}).
		Where("id = ?", t.ID).Select("*").Updates(t)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task record. Absent ids are silently ignored.
func (s *Gorm) DeleteTask(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id).Error
}

// GetProject finds a project by id.
func (s *Gorm) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	result := s.db.WithContext(ctx).First(&p, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, result.Error
	}
	return &p, nil
}

// ListProjects returns all projects.
func (s *Gorm) ListProjects(ctx context.Context) ([]*project.Project, error) {
	var projects []*project.Project
	if result := s.db.WithContext(ctx).Find(&projects); result.Error != nil {
		return nil, result.Error
	}
	return projects, nil
}

// InsertProject creates a new project record.
func (s *Gorm) InsertProject(ctx context.Context, p *project.Project) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// UpdateProject persists a loaded-and-mutated project record. Updating a
// record that no longer exists fails with ErrProjectNotFound.
func (s *Gorm) UpdateProject(ctx context.Context, p *project.Project) error {
	result := s.db.WithContext(ctx).Model(&project.Project{}).
		Where("id = ?", p.ID).Select("*").Updates(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// DeleteProject removes a project record. Absent ids are silently ignored.
func (s *Gorm) DeleteProject(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&project.Project{}, "id = ?", id).Error
}

// Reset removes every record from every table.
func (s *Gorm) Reset(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	for _, model := range []any{&task.Task{}, &project.Project{}, &user.User{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("failed to reset store: %w", err)
		}
	}
	return nil
}

// Ping checks the underlying database connection.
func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying database connection.
func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
