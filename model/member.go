package model

import "time"

type WorkspaceMember struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	WorkspaceID uint64    `gorm:"column:workspace_id;not null;uniqueIndex:uk_workspace_user,priority:1" json:"workspace_id,omitempty"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	UserID uint64 `gorm:"column:user_id;not null;uniqueIndex:uk_workspace_user,priority:2" json:"user_id,omitempty"`
	User   User   `gorm:"foreignKey:UserID;references:ID" json:"-"`

	Role string `gorm:"column:role;type:varchar(16);not null" json:"role,omitempty"` // owner / admin / member

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (WorkspaceMember) TableName() string {
	return "workspace_member"
}
