package router

import (
	"DropDock/internal/handler"
	"DropDock/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		// Signed URLs are the whole credential here, no session.
		api.GET("/files/:assetID", handler.DownloadFile)

		admin := api.Group("/admin")
		admin.Use(utils.SweepAuthMiddleware())
		{
			admin.POST("/sweep", handler.TriggerSweep)
		}

		auth := api.Group("")
		auth.Use(utils.AuthMiddleware())

		workspace := auth.Group("/workspaces/:workspaceID")
		workspace.Use(handler.WorkspaceContext())
		{
			workspace.GET("/usage", handler.GetWorkspaceUsage)
			workspace.GET("/activity", handler.ListActivity)

			items := workspace.Group("/items")
			{
				items.POST("", handler.CreateItem)
				items.GET("", handler.ListItems)
				items.GET("/search", handler.SearchItems)
				items.POST("/:itemID/pin", handler.PinItem)
				items.POST("/:itemID/unpin", handler.UnpinItem)
				items.POST("/:itemID/trash", handler.TrashItem)
				items.POST("/:itemID/link", handler.CreateDownloadLink)
			}

			trash := workspace.Group("/trash")
			{
				trash.GET("", handler.ListTrash)
				trash.POST("/:itemID/restore", handler.RestoreItem)
				trash.DELETE("/:itemID", handler.PurgeItem)
				trash.DELETE("", handler.EmptyTrash)
			}
		}
	}
	return r
}
