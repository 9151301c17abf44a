package handler

import (
	"DropDock/internal/dto"
	"DropDock/internal/rbac"
	"DropDock/internal/service"
	"DropDock/utils"

	"github.com/gin-gonic/gin"
)

// ListTrash returns the workspace's trashed items.
func ListTrash(c *gin.Context) {
	if err := rbac.Check(memberRole(c), rbac.CapViewItems); err != nil {
		utils.Fail(c, err)
		return
	}
	items, err := service.ListTrash(workspaceID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, items)
}

// RestoreItem moves an item out of the trash.
func RestoreItem(c *gin.Context) {
	id, ok := checkItemMutation(c)
	if !ok {
		return
	}
	if err := service.RestoreItem(c.Request.Context(), workspaceID(c), id, actorID(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, nil)
}

// PurgeItem permanently deletes an item and refunds its quota. Purging an id
// that no longer exists succeeds.
func PurgeItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	item, err := service.GetItem(workspaceID(c), id)
	if err == nil {
		if err := rbac.CanMutateItem(memberRole(c), actorID(c), item.OwnerID); err != nil {
			utils.Fail(c, err)
			return
		}
	}
	freed, err := service.PurgeItem(c.Request.Context(), workspaceID(c), id, actorID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.PurgeResponse{FreedBytes: freed})
}

// EmptyTrash purges everything in the trash in one call.
func EmptyTrash(c *gin.Context) {
	if err := rbac.Check(memberRole(c), rbac.CapEmptyTrash); err != nil {
		utils.Fail(c, err)
		return
	}
	result, err := service.EmptyTrash(c.Request.Context(), workspaceID(c), actorID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result)
}
