package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"DropDock/internal/apperr"
	"DropDock/internal/service"
	"DropDock/internal/storage"
	"DropDock/utils"

	"github.com/gin-gonic/gin"
)

// DownloadFile serves an asset's bytes to anyone holding a valid signed URL.
// No session is required; the token and expiry in the query are the whole
// credential. Verification happens before any storage or database access on
// the asset content.
func DownloadFile(c *gin.Context) {
	assetID, err := strconv.ParseUint(c.Param("assetID"), 10, 64)
	if err != nil {
		utils.Fail(c, apperr.ErrUnauthorized)
		return
	}
	token := c.Query("token")
	expires := c.Query("expires")
	if !utils.VerifyDownloadToken(assetID, token, expires) {
		utils.Fail(c, apperr.ErrUnauthorized)
		return
	}

	asset, err := service.GetAssetByID(assetID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if storage.Default == nil {
		utils.Fail(c, apperr.ErrInternal)
		return
	}
	object, info, err := storage.Default.GetObject(c.Request.Context(), asset.BucketName, asset.ObjectName)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer object.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = asset.MimeType
	}
	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=\"%s\"", utils.SanitizeHeaderFilename(asset.FileName)),
		"Cache-Control":       "private, max-age=60",
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, object, headers)
}
