package dto

// CreateItemRequest is the multipart/form payload for creating an item. The
// file part, when present, is read from the request form directly.
type CreateItemRequest struct {
	Type     string   `form:"type" binding:"required"`
	Title    string   `form:"title" binding:"required,max=255"`
	Content  string   `form:"content"`
	URL      string   `form:"url" binding:"omitempty,max=2048"`
	Tags     []string `form:"tags"`
	ExpireAt int64    `form:"expire_at"` // unix seconds, 0 means tier default
}

// ItemListRequest pages through visible items.
type ItemListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Type     string `form:"type" binding:"omitempty,oneof=drop link note"`
	Tag      string `form:"tag"`
}

// Normalize clamps paging to sane values.
func (r *ItemListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 || r.PageSize > 100 {
		r.PageSize = 20
	}
}

// ItemSearchRequest runs a text scan over title, content and tags.
type ItemSearchRequest struct {
	Query    string `form:"q" binding:"required,min=1,max=128"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Normalize clamps paging to sane values.
func (r *ItemSearchRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 || r.PageSize > 100 {
		r.PageSize = 20
	}
}

// DownloadLinkRequest asks for a signed link with an optional custom TTL.
type DownloadLinkRequest struct {
	TTLSeconds int64 `json:"ttl_seconds" binding:"omitempty,min=1"`
}

// ActivityListRequest pages through the workspace activity log.
type ActivityListRequest struct {
	Limit int `form:"limit"`
}
