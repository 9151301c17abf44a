package handler

import (
	"net/http"
	"strconv"

	"DropDock/internal/dto"
	"DropDock/internal/rbac"
	"DropDock/internal/service"
	"DropDock/utils"

	"github.com/gin-gonic/gin"
)

// WorkspaceContext resolves the caller's membership in the :workspaceID path
// segment and stores the id and role for downstream handlers. Non-members get
// 404, not 403, so probing ids reveals nothing.
func WorkspaceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, err := strconv.ParseUint(c.Param("workspaceID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
			c.Abort()
			return
		}
		userID := c.GetUint64("user_id")
		role, err := service.GetMemberRole(workspaceID, userID)
		if err != nil {
			utils.Fail(c, err)
			c.Abort()
			return
		}
		c.Set("workspace_id", workspaceID)
		c.Set("role", role)
		c.Next()
	}
}

func workspaceID(c *gin.Context) uint64 {
	return c.GetUint64("workspace_id")
}

func actorID(c *gin.Context) uint64 {
	return c.GetUint64("user_id")
}

func memberRole(c *gin.Context) rbac.Role {
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(rbac.Role); ok {
			return role
		}
	}
	return ""
}

// GetWorkspaceUsage reports quota consumption for the workspace.
func GetWorkspaceUsage(c *gin.Context) {
	if err := rbac.Check(memberRole(c), rbac.CapViewUsage); err != nil {
		utils.Fail(c, err)
		return
	}
	usage, err := service.GetWorkspaceUsage(workspaceID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, usage)
}

// ListActivity returns recent workspace activity.
func ListActivity(c *gin.Context) {
	if err := rbac.Check(memberRole(c), rbac.CapViewItems); err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logs, err := service.ListActivity(workspaceID(c), req.Limit)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, logs)
}
