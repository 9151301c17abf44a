package dto

import (
	"time"

	"DropDock/model"
)

// ItemListResponse is one page of items.
type ItemListResponse struct {
	Items []model.Item `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
}

// DownloadLinkResponse carries a minted signed URL.
type DownloadLinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PurgeResponse reports bytes freed by a purge.
type PurgeResponse struct {
	FreedBytes int64 `json:"freed_bytes"`
}
