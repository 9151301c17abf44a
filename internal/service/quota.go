package service

import (
	"errors"
	"fmt"

	"DropDock/internal/apperr"
	"DropDock/internal/repo"
	"DropDock/model"

	"gorm.io/gorm"
)

// ReserveQuota charges bytes against a workspace's storage counter, but only
// when the result stays within limit. The check and the increment are one
// conditional UPDATE so that two concurrent uploads cannot both pass a stale
// read and jointly overshoot the ceiling.
func ReserveQuota(workspaceID uint64, bytes, limit int64) error {
	if bytes < 0 {
		return fmt.Errorf("negative reservation: %d", bytes)
	}
	if bytes == 0 {
		return nil
	}
	res := repo.Db.Model(&model.Workspace{}).
		Where("id = ? AND storage_used_bytes + ? <= ?", workspaceID, bytes, limit).
		UpdateColumn("storage_used_bytes", gorm.Expr("storage_used_bytes + ?", bytes))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var workspace model.Workspace
		if err := repo.Db.Select("id").Where("id = ?", workspaceID).First(&workspace).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		return apperr.ErrQuotaExceeded
	}
	return nil
}

// ReleaseQuota refunds bytes to a workspace's storage counter, floored at
// zero. A retried cleanup may release twice; the floor keeps the counter from
// going negative.
func ReleaseQuota(workspaceID uint64, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	return repo.Db.Model(&model.Workspace{}).
		Where("id = ?", workspaceID).
		UpdateColumn(
			"storage_used_bytes",
			gorm.Expr("CASE WHEN storage_used_bytes >= ? THEN storage_used_bytes - ? ELSE 0 END", bytes, bytes),
		).Error
}

// ReleaseQuotaBatch applies accumulated refunds, one UPDATE per workspace.
func ReleaseQuotaBatch(freed map[uint64]int64) error {
	for workspaceID, bytes := range freed {
		if err := ReleaseQuota(workspaceID, bytes); err != nil {
			return err
		}
	}
	return nil
}

// GetStorageUsed reads the cached aggregate counter.
func GetStorageUsed(workspaceID uint64) (int64, error) {
	var workspace model.Workspace
	if err := repo.Db.Select("id", "storage_used_bytes").Where("id = ?", workspaceID).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.ErrNotFound
		}
		return 0, err
	}
	return workspace.StorageUsedBytes, nil
}
