package model

import "time"

type FileAsset struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	WorkspaceID uint64 `gorm:"column:workspace_id;not null;index" json:"workspace_id,omitempty"`

	UploaderID uint64 `gorm:"column:uploader_id;not null" json:"uploader_id,omitempty"`

	FileName string `gorm:"column:file_name;size:255;not null" json:"file_name,omitempty"`

	BucketName string `gorm:"column:bucket_name;size:64;not null" json:"-"`
	ObjectName string `gorm:"column:object_name;size:512;not null" json:"-"`

	MimeType string `gorm:"column:mime_type;size:128;not null;default:'application/octet-stream'" json:"mime_type,omitempty"`

	Size int64 `gorm:"column:size;not null" json:"size,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (FileAsset) TableName() string {
	return "file_asset"
}
