package service

import (
	"context"
	"time"

	"DropDock/config"
	"DropDock/internal/repo"
	"DropDock/model"
	"DropDock/utils"

	"golang.org/x/time/rate"
)

// SweepResult reports what one sweep pass removed.
type SweepResult struct {
	ItemsDeleted int   `json:"items_deleted"`
	FilesDeleted int   `json:"files_deleted"`
	BytesFreed   int64 `json:"bytes_freed"`
}

// Sweep deletes expired unpinned items in one bounded pass. A failure on one
// item is logged and skipped so the rest of the batch still drains; the item
// stays in place for the next pass. Quota refunds are accumulated per
// workspace and applied after the loop, and object deletions are paced by a
// rate limiter to keep the sweep from hammering the object store.
func Sweep(ctx context.Context) (*SweepResult, error) {
	batchLimit := config.AppConfig.SweepBatchLimit
	if batchLimit <= 0 {
		batchLimit = 500
	}

	var expired []model.Item
	err := repo.Db.Preload("Asset").
		Where("expire_at IS NOT NULL AND expire_at <= ? AND is_pinned = ?", time.Now(), false).
		Order("expire_at ASC").
		Limit(batchLimit).
		Find(&expired).Error
	if err != nil {
		return nil, err
	}

	deleteRate := rate.Limit(config.AppConfig.SweepDeleteRate)
	if deleteRate <= 0 {
		deleteRate = rate.Inf
	}
	limiter := rate.NewLimiter(deleteRate, config.AppConfig.SweepDeleteBurst)

	result := &SweepResult{}
	freed := make(map[uint64]int64)
	touched := make(map[uint64]struct{})

	for i := range expired {
		item := &expired[i]
		if item.Asset != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}
		bytes, hadFile, err := destroyItem(ctx, item)
		if err != nil {
			utils.S().Warnw("sweep item fail",
				"item_id", item.ID,
				"workspace_id", item.WorkspaceID,
				"err", err,
			)
			continue
		}
		result.ItemsDeleted++
		if hadFile {
			result.FilesDeleted++
			result.BytesFreed += bytes
			freed[item.WorkspaceID] += bytes
		}
		touched[item.WorkspaceID] = struct{}{}
		RecordActivity(ctx, item.WorkspaceID, 0, ActionItemExpire, item.ID, "")
	}

	if err := ReleaseQuotaBatch(freed); err != nil {
		utils.S().Errorw("sweep quota release fail", "err", err)
	}
	for workspaceID := range touched {
		invalidateItemCaches(workspaceID)
	}

	utils.S().Infow("sweep done",
		"items_deleted", result.ItemsDeleted,
		"files_deleted", result.FilesDeleted,
		"bytes_freed", result.BytesFreed,
	)
	return result, nil
}
