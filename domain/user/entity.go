package user

import (
	"github.com/example/taskhub/domain/relation"
)

// MinUsernameLength is the minimum number of characters in a username.
const MinUsernameLength = 5

// User represents a registered account. PasswordHash is internal only and is
// never serialized. Projects and Tasks hold ids of related entities; the
// board module keeps them consistent with the other side of each link.
type User struct {
	ID           string         `gorm:"primaryKey;type:text" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null;type:text" json:"username"`
	PasswordHash string         `gorm:"not null;type:text" json:"-"`
	Projects     relation.IDSet `gorm:"type:text" json:"projects"`
	Tasks        relation.IDSet `gorm:"type:text" json:"tasks"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims carries the identity resolved from a bearer token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// TokenPair represents access and refresh tokens issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}
