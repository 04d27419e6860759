package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// InWriteOrder returns rows in the order the collection was saved.
type InWriteOrder struct{}

func (s InWriteOrder) Apply(db *gorm.DB) *gorm.DB {
	return OrderBy{Field: "position"}.Apply(db)
}
