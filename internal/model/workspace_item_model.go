package model

import (
	"time"

	"gorm.io/datatypes"
)

// WorkspaceItem stores the common columns of an item. Everything specific to the item
// kind lives in Payload.
type WorkspaceItem struct {
	Id        string         `gorm:"type:varchar(80);primaryKey"`
	Position  int            `gorm:"not null;index"`
	Name      string         `gorm:"type:text;not null"`
	Kind      string         `gorm:"type:varchar(32);not null;index"`
	ParentId  *string        `gorm:"type:varchar(80);index"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime:false"`
}

func (WorkspaceItem) TableName() string {
	return "workspace_items"
}
