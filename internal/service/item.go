package service

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"DropDock/config"
	"DropDock/internal/apperr"
	"DropDock/internal/dto"
	"DropDock/internal/repo"
	"DropDock/internal/storage"
	"DropDock/model"
	"DropDock/utils"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

const itemListCacheTTL = 2 * time.Minute

// FileUpload carries the bytes and metadata of an incoming drop file.
type FileUpload struct {
	Reader   io.Reader
	FileName string
	MimeType string
	Size     int64
}

// CreateItemInput describes a new item. File is only meaningful for drops.
type CreateItemInput struct {
	WorkspaceID uint64
	OwnerID     uint64
	Type        string
	Title       string
	Content     string
	URL         string
	Tags        []string
	ExpireAt    *time.Time
	File        *FileUpload
}

// NormalizeTags lower-cases, trims, dedupes and sorts a tag set into its
// stored comma-joined form.
func NormalizeTags(tags []string) string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// buildAssetObjectName builds the storage-relative path for a new asset.
func buildAssetObjectName(workspaceID uint64, token string) string {
	return fmt.Sprintf("assets/%d/%s", workspaceID, token)
}

func invalidateItemCaches(workspaceID uint64) {
	_ = utils.InvalidateItemListCache(context.Background(), workspaceID)
}

// CreateItem creates an item, charging quota exactly once when a file is
// attached. On any failure after the reservation the charge is rolled back.
func CreateItem(ctx context.Context, input CreateItemInput) (*model.Item, error) {
	switch input.Type {
	case model.ItemTypeDrop:
	case model.ItemTypeLink:
		if input.URL == "" {
			return nil, apperr.Wrap(nil, apperr.ErrValidation.Code, apperr.ErrValidation.Status, "link item requires url")
		}
		if input.File != nil {
			return nil, apperr.Wrap(nil, apperr.ErrValidation.Code, apperr.ErrValidation.Status, "link item cannot carry a file")
		}
	case model.ItemTypeNote:
		if input.File != nil {
			return nil, apperr.Wrap(nil, apperr.ErrValidation.Code, apperr.ErrValidation.Status, "note item cannot carry a file")
		}
	default:
		return nil, apperr.Wrap(nil, apperr.ErrValidation.Code, apperr.ErrValidation.Status, "unknown item type: "+input.Type)
	}

	workspace, err := GetWorkspace(input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	limits, err := WorkspaceLimits(workspace)
	if err != nil {
		return nil, err
	}

	expireAt := input.ExpireAt
	if expireAt == nil && limits.RetentionDays > 0 {
		deadline := time.Now().AddDate(0, 0, limits.RetentionDays)
		expireAt = &deadline
	}

	var reserved int64
	if input.File != nil {
		if limits.MaxFileSizeBytes > 0 && input.File.Size > limits.MaxFileSizeBytes {
			return nil, apperr.ErrFileTooLarge
		}
		if err := ReserveQuota(input.WorkspaceID, input.File.Size, limits.StorageLimitBytes); err != nil {
			return nil, err
		}
		reserved = input.File.Size
	}

	var asset *model.FileAsset
	var objectName string
	if input.File != nil {
		if storage.Default == nil {
			_ = ReleaseQuota(input.WorkspaceID, reserved)
			return nil, fmt.Errorf("storage not initialized")
		}
		objectName = buildAssetObjectName(input.WorkspaceID, utils.GetToken())
		mimeType := input.File.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		if err := storage.Default.PutObject(
			ctx,
			config.AppConfig.BucketName,
			objectName,
			input.File.Reader,
			input.File.Size,
			storage.PutOptions{ContentType: mimeType},
		); err != nil {
			_ = ReleaseQuota(input.WorkspaceID, reserved)
			return nil, err
		}
		asset = &model.FileAsset{
			WorkspaceID: input.WorkspaceID,
			UploaderID:  input.OwnerID,
			FileName:    input.File.FileName,
			BucketName:  config.AppConfig.BucketName,
			ObjectName:  objectName,
			MimeType:    mimeType,
			Size:        input.File.Size,
		}
	}

	item := &model.Item{
		WorkspaceID: input.WorkspaceID,
		OwnerID:     input.OwnerID,
		Type:        input.Type,
		Title:       input.Title,
		Content:     input.Content,
		URL:         input.URL,
		Tags:        NormalizeTags(input.Tags),
		ExpireAt:    expireAt,
	}

	err = repo.Db.Transaction(func(tx *gorm.DB) error {
		if asset != nil {
			if err := tx.Create(asset).Error; err != nil {
				return err
			}
			item.AssetID = &asset.ID
		}
		return tx.Create(item).Error
	})
	if err != nil {
		if asset != nil {
			_ = storage.Default.RemoveObject(ctx, config.AppConfig.BucketName, objectName)
		}
		_ = ReleaseQuota(input.WorkspaceID, reserved)
		return nil, err
	}
	item.Asset = asset

	invalidateItemCaches(input.WorkspaceID)
	RecordActivity(ctx, input.WorkspaceID, input.OwnerID, ActionItemCreate, item.ID, item.Title)
	return item, nil
}

// GetItem loads an item with its asset, regardless of trash state.
func GetItem(workspaceID, itemID uint64) (*model.Item, error) {
	var item model.Item
	err := repo.Db.Preload("Asset").
		Where("id = ? AND workspace_id = ?", itemID, workspaceID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// PinItem exempts an item from expiry sweeping.
func PinItem(ctx context.Context, workspaceID, itemID uint64, actorID uint64) error {
	res := repo.Db.Model(&model.Item{}).
		Where("id = ? AND workspace_id = ? AND trashed_at IS NULL", itemID, workspaceID).
		Update("is_pinned", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	invalidateItemCaches(workspaceID)
	RecordActivity(ctx, workspaceID, actorID, ActionItemPin, itemID, "")
	return nil
}

// UnpinItem makes an item eligible for expiry again. Unpinning an item whose
// expiry already passed does not delete it here; the next sweep does.
func UnpinItem(ctx context.Context, workspaceID, itemID uint64, actorID uint64) error {
	res := repo.Db.Model(&model.Item{}).
		Where("id = ? AND workspace_id = ? AND is_pinned = ?", itemID, workspaceID, true).
		Update("is_pinned", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := GetItem(workspaceID, itemID); err != nil {
			return err
		}
		return apperr.Wrap(nil, apperr.ErrConflict.Code, apperr.ErrConflict.Status, "item is not pinned")
	}
	invalidateItemCaches(workspaceID)
	RecordActivity(ctx, workspaceID, actorID, ActionItemUnpin, itemID, "")
	return nil
}

// TrashItem soft-deletes an item. The bytes stay billed until purge.
func TrashItem(ctx context.Context, workspaceID, itemID uint64, actorID uint64) error {
	now := time.Now()
	res := repo.Db.Model(&model.Item{}).
		Where("id = ? AND workspace_id = ? AND trashed_at IS NULL", itemID, workspaceID).
		Update("trashed_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := GetItem(workspaceID, itemID); err != nil {
			return err
		}
		return apperr.Wrap(nil, apperr.ErrConflict.Code, apperr.ErrConflict.Status, "item already trashed")
	}
	invalidateItemCaches(workspaceID)
	RecordActivity(ctx, workspaceID, actorID, ActionItemTrash, itemID, "")
	return nil
}

// RestoreItem clears the trash marker.
func RestoreItem(ctx context.Context, workspaceID, itemID uint64, actorID uint64) error {
	res := repo.Db.Model(&model.Item{}).
		Where("id = ? AND workspace_id = ? AND trashed_at IS NOT NULL", itemID, workspaceID).
		Update("trashed_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := GetItem(workspaceID, itemID); err != nil {
			return err
		}
		return apperr.Wrap(nil, apperr.ErrConflict.Code, apperr.ErrConflict.Status, "item is not trashed")
	}
	invalidateItemCaches(workspaceID)
	RecordActivity(ctx, workspaceID, actorID, ActionItemRestore, itemID, "")
	return nil
}

// destroyItem removes an item's bytes and records in the fixed order: bytes
// first, then records. If the byte deletion fails nothing else proceeds, so
// the worst partial state is orphaned bytes with no record, never a record
// pointing at missing bytes.
func destroyItem(ctx context.Context, item *model.Item) (freedBytes int64, hadFile bool, err error) {
	if item.Asset != nil {
		if storage.Default == nil {
			return 0, false, fmt.Errorf("storage not initialized")
		}
		if err := storage.Default.RemoveObject(ctx, item.Asset.BucketName, item.Asset.ObjectName); err != nil {
			return 0, false, err
		}
		freedBytes = item.Asset.Size
		hadFile = true
	}
	err = repo.Db.Transaction(func(tx *gorm.DB) error {
		if item.Asset != nil {
			if err := tx.Delete(&model.FileAsset{}, item.Asset.ID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Item{}, item.ID).Error
	})
	if err != nil {
		return 0, hadFile, err
	}
	return freedBytes, hadFile, nil
}

// PurgeItem permanently removes an item and refunds its quota. Purging an id
// that is already gone is a no-op, not an error, so a retried purge never
// double-releases quota.
func PurgeItem(ctx context.Context, workspaceID, itemID uint64, actorID uint64) (freedBytes int64, err error) {
	item, err := GetItem(workspaceID, itemID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	freedBytes, _, err = destroyItem(ctx, item)
	if err != nil {
		return 0, err
	}
	if freedBytes > 0 {
		if err := ReleaseQuota(workspaceID, freedBytes); err != nil {
			return freedBytes, err
		}
	}
	invalidateItemCaches(workspaceID)
	RecordActivity(ctx, workspaceID, actorID, ActionItemPurge, itemID, "")
	return freedBytes, nil
}

// visibleScope limits a query to items that belong in normal views: not
// trashed, and not past expiry unless pinned.
func visibleScope(db *gorm.DB, workspaceID uint64) *gorm.DB {
	return db.Where("workspace_id = ? AND trashed_at IS NULL", workspaceID).
		Where("expire_at IS NULL OR expire_at > ? OR is_pinned = ?", time.Now(), true)
}

// ListItems returns a page of visible items, pinned first.
func ListItems(workspaceID uint64, req *dto.ItemListRequest) ([]model.Item, int64, error) {
	if cached, ok := utils.GetItemListFromCache(
		context.Background(),
		workspaceID,
		req.Type,
		req.Tag,
		req.Page,
		req.PageSize,
	); ok {
		return cached.Items, cached.Total, nil
	}

	query := visibleScope(repo.Db.Model(&model.Item{}), workspaceID)
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.Tag != "" {
		query = query.Where("tags LIKE ?", "%"+strings.ToLower(strings.TrimSpace(req.Tag))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Item
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Asset").
		Order("is_pinned DESC, created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	_ = utils.SetItemListToCache(
		context.Background(),
		workspaceID,
		req.Type,
		req.Tag,
		req.Page,
		req.PageSize,
		&utils.ItemListCache{Items: items, Total: total},
		itemListCacheTTL,
	)

	return items, total, nil
}

// SearchItems runs a filtered scan over title, content and tags.
func SearchItems(workspaceID uint64, req *dto.ItemSearchRequest) ([]model.Item, int64, error) {
	pattern := "%" + strings.TrimSpace(req.Query) + "%"
	query := visibleScope(repo.Db.Model(&model.Item{}), workspaceID).
		Where("title LIKE ? OR content LIKE ? OR tags LIKE ?", pattern, pattern, strings.ToLower(pattern))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Item
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Asset").
		Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListTrash returns trashed items, newest first.
func ListTrash(workspaceID uint64) ([]model.Item, error) {
	var items []model.Item
	err := repo.Db.Preload("Asset").
		Where("workspace_id = ? AND trashed_at IS NOT NULL", workspaceID).
		Order("trashed_at DESC").
		Find(&items).Error
	return items, err
}

// EmptyTrash purges every trashed item in a workspace. Failures on single
// items are skipped; the leftovers stay in the trash for a retry.
func EmptyTrash(ctx context.Context, workspaceID, actorID uint64) (*SweepResult, error) {
	items, err := ListTrash(workspaceID)
	if err != nil {
		return nil, err
	}
	result := &SweepResult{}
	var freed int64
	for i := range items {
		item := &items[i]
		bytes, hadFile, err := destroyItem(ctx, item)
		if err != nil {
			utils.S().Warnw("empty trash item fail", "item_id", item.ID, "err", err)
			continue
		}
		result.ItemsDeleted++
		if hadFile {
			result.FilesDeleted++
			result.BytesFreed += bytes
			freed += bytes
		}
	}
	if freed > 0 {
		if err := ReleaseQuota(workspaceID, freed); err != nil {
			return result, err
		}
	}
	invalidateItemCaches(workspaceID)
	RecordActivity(ctx, workspaceID, actorID, ActionItemPurge, 0, "trash emptied")
	return result, nil
}

// CreateDownloadLink mints a signed URL for an item's file asset.
func CreateDownloadLink(workspaceID, itemID uint64, ttl time.Duration) (*dto.DownloadLinkResponse, error) {
	item, err := GetItem(workspaceID, itemID)
	if err != nil {
		return nil, err
	}
	if item.IsTrashed() {
		return nil, apperr.ErrNotFound
	}
	if item.AssetID == nil || item.Asset == nil {
		return nil, apperr.Wrap(nil, apperr.ErrValidation.Code, apperr.ErrValidation.Status, "item has no file")
	}
	if ttl <= 0 {
		ttl = config.AppConfig.DownloadTTL
	}
	if max := config.AppConfig.MaxLinkTTL; max > 0 && ttl > max {
		ttl = max
	}
	token, expiresAt := utils.MintDownloadToken(*item.AssetID, ttl)
	return &dto.DownloadLinkResponse{
		URL:       utils.BuildDownloadURL(*item.AssetID, token, expiresAt),
		ExpiresAt: time.Unix(expiresAt, 0),
	}, nil
}

// GetAssetByID loads a file asset record.
func GetAssetByID(assetID uint64) (*model.FileAsset, error) {
	var asset model.FileAsset
	if err := repo.Db.Where("id = ?", assetID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}
