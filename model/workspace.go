package model

import (
	"time"

	"gorm.io/gorm"
)

type Workspace struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	Name string `gorm:"column:name;size:120;not null" json:"name,omitempty"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index" json:"owner_id,omitempty"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID" json:"-"`

	// StorageUsedBytes is a cached aggregate over the workspace's file assets.
	// It is mutated only through the quota ledger's conditional updates.
	StorageUsedBytes int64 `gorm:"column:storage_used_bytes;not null;default:0" json:"storage_used_bytes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the database table name.
func (Workspace) TableName() string {
	return "workspace"
}
