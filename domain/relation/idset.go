// Package relation provides the id-based relationship set shared by all
// entities. Links between users, tasks and projects are weak references by
// id; both sides of every link are kept in sync by the board module, not by
// the database.
package relation

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDSet is a set of entity ids with stable insertion order. Membership is
// keyed by id: Add refuses duplicates so a relationship set never holds the
// same id twice.
type IDSet []string

// Contains reports whether id is in the set.
func (s IDSet) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id to the set. It returns false if the id is already present.
func (s *IDSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove deletes id from the set. It returns false if the id was not present.
func (s *IDSet) Remove(id string) bool {
	for i, v := range *s {
		if v == id {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Value implements driver.Valuer. The set is stored as a JSON array in a
// TEXT column.
func (s IDSet) Value() (driver.Value, error) {
	if s == nil {
		s = IDSet{}
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal id set: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *IDSet) Scan(value any) error {
	if value == nil {
		*s = IDSet{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported id set column type %T", value)
	}

	if len(data) == 0 {
		*s = IDSet{}
		return nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("failed to unmarshal id set: %w", err)
	}
	*s = IDSet(ids)
	return nil
}

// GormDataType tells GORM to persist the set as text.
func (IDSet) GormDataType() string {
	return "text"
}
