package model

import "time"

const (
	ItemTypeDrop = "drop"
	ItemTypeLink = "link"
	ItemTypeNote = "note"
)

type Item struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	WorkspaceID uint64    `gorm:"column:workspace_id;not null;index" json:"workspace_id,omitempty"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index" json:"owner_id,omitempty"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID" json:"-"`

	Type string `gorm:"column:type;type:varchar(16);not null" json:"type,omitempty"` // drop / link / note

	Title   string `gorm:"column:title;size:255;not null" json:"title,omitempty"`
	Content string `gorm:"column:content;type:text" json:"content,omitempty"`
	URL     string `gorm:"column:url;size:2048" json:"url,omitempty"`

	// Tags is the comma-joined, lower-cased tag set.
	Tags string `gorm:"column:tags;size:512" json:"tags,omitempty"`

	IsPinned bool `gorm:"column:is_pinned;not null;default:false" json:"is_pinned"`

	ExpireAt *time.Time `gorm:"column:expire_at;index" json:"expire_at,omitempty"`

	AssetID *uint64    `gorm:"column:asset_id;index" json:"asset_id,omitempty"`
	Asset   *FileAsset `gorm:"foreignKey:AssetID;references:ID" json:"asset,omitempty"`

	TrashedAt *time.Time `gorm:"column:trashed_at;index" json:"trashed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Item) TableName() string {
	return "item"
}

// IsTrashed reports whether the item carries a trash marker.
func (i *Item) IsTrashed() bool {
	return i.TrashedAt != nil
}
