package service

import (
	"context"
	"errors"
	"time"

	"DropDock/config"
	"DropDock/internal/apperr"
	"DropDock/internal/rbac"
	"DropDock/internal/repo"
	"DropDock/model"
	"DropDock/utils"

	"gorm.io/gorm"
)

const memberRoleCacheTTL = 5 * time.Minute

// GetMemberRole resolves a user's role in a workspace. Non-members get
// NotFound so that workspace existence is not leaked to outsiders.
func GetMemberRole(workspaceID, userID uint64) (rbac.Role, error) {
	if cached, ok := utils.GetMemberRoleFromCache(context.Background(), workspaceID, userID); ok {
		role := rbac.Role(cached)
		if role.Valid() {
			return role, nil
		}
	}
	var member model.WorkspaceMember
	err := repo.Db.
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.ErrNotFound
		}
		return "", err
	}
	role := rbac.Role(member.Role)
	if !role.Valid() {
		return "", apperr.ErrForbidden
	}
	_ = utils.SetMemberRoleToCache(context.Background(), workspaceID, userID, member.Role, memberRoleCacheTTL)
	return role, nil
}

// GetWorkspace loads a workspace by id.
func GetWorkspace(workspaceID uint64) (*model.Workspace, error) {
	var workspace model.Workspace
	if err := repo.Db.Where("id = ?", workspaceID).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// WorkspaceLimits returns the tier ceilings for a workspace, keyed by the
// owner's subscription tier. Tiers are supplied by the tier table; this side
// only enforces the numbers.
func WorkspaceLimits(workspace *model.Workspace) (config.TierLimits, error) {
	var owner model.User
	if err := repo.Db.Where("id = ?", workspace.OwnerID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return config.TierLimits{}, apperr.ErrNotFound
		}
		return config.TierLimits{}, err
	}
	return config.LimitsForTier(owner.Tier), nil
}

// WorkspaceUsage summarizes quota consumption for a workspace.
type WorkspaceUsage struct {
	Tier           string  `json:"tier"`
	UsedBytes      int64   `json:"used_bytes"`
	LimitBytes     int64   `json:"limit_bytes"`
	AvailableBytes int64   `json:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent"`
}

// GetWorkspaceUsage reports used/limit/available bytes for a workspace.
func GetWorkspaceUsage(workspaceID uint64) (*WorkspaceUsage, error) {
	workspace, err := GetWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	limits, err := WorkspaceLimits(workspace)
	if err != nil {
		return nil, err
	}
	usage := &WorkspaceUsage{
		Tier:       limits.Name,
		UsedBytes:  workspace.StorageUsedBytes,
		LimitBytes: limits.StorageLimitBytes,
	}
	if available := limits.StorageLimitBytes - workspace.StorageUsedBytes; available > 0 {
		usage.AvailableBytes = available
	}
	if limits.StorageLimitBytes > 0 {
		usage.UsagePercent = float64(workspace.StorageUsedBytes) / float64(limits.StorageLimitBytes) * 100
	}
	return usage, nil
}
