package model

import "time"

type ActivityLog struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	WorkspaceID uint64 `gorm:"column:workspace_id;not null;index" json:"workspace_id,omitempty"`

	ActorID uint64 `gorm:"column:actor_id;not null" json:"actor_id,omitempty"`

	Action string `gorm:"column:action;type:varchar(32);not null" json:"action,omitempty"` // item.create / item.pin / ...

	ItemID uint64 `gorm:"column:item_id;index" json:"item_id,omitempty"`

	Detail string `gorm:"column:detail;type:text" json:"detail,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (ActivityLog) TableName() string {
	return "activity_log"
}
