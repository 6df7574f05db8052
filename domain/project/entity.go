package project

import (
	"github.com/example/taskhub/domain/relation"
)

// MinTitleLength is the minimum number of characters in a project title.
const MinTitleLength = 5

// Project groups tasks and member users. Users and Tasks hold ids of related
// entities; the board module keeps them consistent with the back-references
// on User and Task.
type Project struct {
	ID          string         `gorm:"primaryKey;type:text" json:"id"`
	Title       string         `gorm:"not null;type:text" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Users       relation.IDSet `gorm:"type:text" json:"users"`
	Tasks       relation.IDSet `gorm:"type:text" json:"tasks"`
}

// TableName returns the table name for the Project entity.
func (Project) TableName() string {
	return "projects"
}

// Empty reports whether the project has neither members nor tasks. A project
// left empty by a user-delete cascade is removed entirely.
func (p *Project) Empty() bool {
	return len(p.Users) == 0 && len(p.Tasks) == 0
}
