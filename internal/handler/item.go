package handler

import (
	"net/http"
	"strconv"
	"time"

	"DropDock/internal/dto"
	"DropDock/internal/rbac"
	"DropDock/internal/service"
	"DropDock/utils"

	"github.com/gin-gonic/gin"
)

func itemID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("itemID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}

// checkItemMutation loads the item and resolves whether the caller may touch
// it. Members only touch their own items.
func checkItemMutation(c *gin.Context) (uint64, bool) {
	id, ok := itemID(c)
	if !ok {
		return 0, false
	}
	item, err := service.GetItem(workspaceID(c), id)
	if err != nil {
		utils.Fail(c, err)
		return 0, false
	}
	if err := rbac.CanMutateItem(memberRole(c), actorID(c), item.OwnerID); err != nil {
		utils.Fail(c, err)
		return 0, false
	}
	return id, true
}

// CreateItem creates a drop, link or note. Drops may carry a multipart file.
func CreateItem(c *gin.Context) {
	if err := rbac.CanCreateItem(memberRole(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.CreateItemInput{
		WorkspaceID: workspaceID(c),
		OwnerID:     actorID(c),
		Type:        req.Type,
		Title:       req.Title,
		Content:     req.Content,
		URL:         req.URL,
		Tags:        req.Tags,
	}
	if req.ExpireAt > 0 {
		expireAt := time.Unix(req.ExpireAt, 0)
		if expireAt.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expire_at is in the past"})
			return
		}
		input.ExpireAt = &expireAt
	}

	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			utils.Fail(c, err)
			return
		}
		defer file.Close()
		input.File = &service.FileUpload{
			Reader:   file,
			FileName: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Size:     fileHeader.Size,
		}
	}

	item, err := service.CreateItem(c.Request.Context(), input)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, item)
}

// ListItems returns a page of visible items.
func ListItems(c *gin.Context) {
	if err := rbac.Check(memberRole(c), rbac.CapViewItems); err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.ItemListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Normalize()
	items, total, err := service.ListItems(workspaceID(c), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.ItemListResponse{Items: items, Total: total, Page: req.Page})
}

// SearchItems scans title, content and tags.
func SearchItems(c *gin.Context) {
	if err := rbac.Check(memberRole(c), rbac.CapViewItems); err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.ItemSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Normalize()
	items, total, err := service.SearchItems(workspaceID(c), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.ItemListResponse{Items: items, Total: total, Page: req.Page})
}

// PinItem exempts an item from expiry.
func PinItem(c *gin.Context) {
	id, ok := checkItemMutation(c)
	if !ok {
		return
	}
	if err := service.PinItem(c.Request.Context(), workspaceID(c), id, actorID(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, nil)
}

// UnpinItem makes an item expirable again.
func UnpinItem(c *gin.Context) {
	id, ok := checkItemMutation(c)
	if !ok {
		return
	}
	if err := service.UnpinItem(c.Request.Context(), workspaceID(c), id, actorID(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, nil)
}

// TrashItem soft-deletes an item.
func TrashItem(c *gin.Context) {
	id, ok := checkItemMutation(c)
	if !ok {
		return
	}
	if err := service.TrashItem(c.Request.Context(), workspaceID(c), id, actorID(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, nil)
}

// CreateDownloadLink mints a time-limited signed URL for an item's file.
func CreateDownloadLink(c *gin.Context) {
	if err := rbac.Check(memberRole(c), rbac.CapViewItems); err != nil {
		utils.Fail(c, err)
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req dto.DownloadLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	link, err := service.CreateDownloadLink(workspaceID(c), id, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, link)
}
