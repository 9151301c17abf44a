package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"DropDock/internal/apperr"
	"DropDock/internal/dto"
	"DropDock/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, "alpha,beta", NormalizeTags([]string{" Beta", "alpha", "beta", ""}))
	assert.Equal(t, "", NormalizeTags(nil))
	assert.Equal(t, "one", NormalizeTags([]string{"ONE", "one ", " One"}))
}

func createDrop(t *testing.T, workspaceID, ownerID uint64, content string, expireAt *time.Time) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), CreateItemInput{
		WorkspaceID: workspaceID,
		OwnerID:     ownerID,
		Type:        model.ItemTypeDrop,
		Title:       "drop " + content,
		ExpireAt:    expireAt,
		File: &FileUpload{
			Reader:   strings.NewReader(content),
			FileName: "note.txt",
			MimeType: "text/plain",
			Size:     int64(len(content)),
		},
	})
	require.NoError(t, err)
	return item
}

func TestCreateNoteItem(t *testing.T) {
	setupTestDB(t)
	workspace, owner := seedWorkspace(t, "free")

	item, err := CreateItem(context.Background(), CreateItemInput{
		WorkspaceID: workspace.ID,
		OwnerID:     owner.ID,
		Type:        model.ItemTypeNote,
		Title:       "shopping",
		Content:     "milk, eggs",
		Tags:        []string{"Home", "todo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "home,todo", item.Tags)
	assert.Nil(t, item.AssetID)

	// Free tier applies its retention window when no expiry is given.
	require.NotNil(t, item.ExpireAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *item.ExpireAt, time.Minute)

	used, err := GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestCreateNoteWithFileRejected(t *testing.T) {
	setupTestDB(t)
	workspace, owner := seedWorkspace(t, "free")

	_, err := CreateItem(context.Background(), CreateItemInput{
		WorkspaceID: workspace.ID,
		OwnerID:     owner.ID,
		Type:        model.ItemTypeNote,
		Title:       "note",
		File:        &FileUpload{Reader: strings.NewReader("x"), FileName: "x", Size: 1},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrValidation.Code, apperr.FromError(err).Code)
}

func TestCreateLinkRequiresURL(t *testing.T) {
	setupTestDB(t)
	workspace, owner := seedWorkspace(t, "free")

	_, err := CreateItem(context.Background(), CreateItemInput{
		WorkspaceID: workspace.ID,
		OwnerID:     owner.ID,
		Type:        model.ItemTypeLink,
		Title:       "no url",
	})
	require.Error(t, err)

	item, err := CreateItem(context.Background(), CreateItemInput{
		WorkspaceID: workspace.ID,
		OwnerID:     owner.ID,
		Type:        model.ItemTypeLink,
		Title:       "docs",
		URL:         "https://example.com/docs",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ItemTypeLink, item.Type)
}

func TestCreateDropChargesQuota(t *testing.T) {
	setupTestDB(t)
	fs := setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "pro")

	item := createDrop(t, workspace.ID, owner.ID, "hello world", nil)
	require.NotNil(t, item.Asset)
	assert.True(t, fs.has(item.Asset.BucketName, item.Asset.ObjectName))

	// Pro tier has no retention window, so no default expiry either.
	assert.Nil(t, item.ExpireAt)

	used, err := GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello world")), used)
}

func TestCreateDropFileTooLarge(t *testing.T) {
	setupTestDB(t)
	setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "free")

	_, err := CreateItem(context.Background(), CreateItemInput{
		WorkspaceID: workspace.ID,
		OwnerID:     owner.ID,
		Type:        model.ItemTypeDrop,
		Title:       "huge",
		File: &FileUpload{
			Reader:   strings.NewReader(""),
			FileName: "huge.bin",
			Size:     51 * mb,
		},
	})
	assert.ErrorIs(t, err, apperr.ErrFileTooLarge)

	// Nothing was charged.
	used, err := GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestTrashRestoreLifecycle(t *testing.T) {
	setupTestDB(t)
	setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	item := createDrop(t, workspace.ID, owner.ID, "payload", nil)

	require.NoError(t, TrashItem(ctx, workspace.ID, item.ID, owner.ID))
	err := TrashItem(ctx, workspace.ID, item.ID, owner.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrConflict.Code, apperr.FromError(err).Code)

	// Trashed items keep billing their bytes.
	used, err := GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len("payload")), used)

	require.NoError(t, RestoreItem(ctx, workspace.ID, item.ID, owner.ID))
	err = RestoreItem(ctx, workspace.ID, item.ID, owner.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrConflict.Code, apperr.FromError(err).Code)
}

func TestPinUnpin(t *testing.T) {
	setupTestDB(t)
	workspace, owner := seedWorkspace(t, "free")
	ctx := context.Background()

	item, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID,
		OwnerID:     owner.ID,
		Type:        model.ItemTypeNote,
		Title:       "keep me",
	})
	require.NoError(t, err)

	require.NoError(t, PinItem(ctx, workspace.ID, item.ID, owner.ID))
	got, err := GetItem(workspace.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)

	require.NoError(t, UnpinItem(ctx, workspace.ID, item.ID, owner.ID))
	err = UnpinItem(ctx, workspace.ID, item.ID, owner.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrConflict.Code, apperr.FromError(err).Code)

	assert.ErrorIs(t, PinItem(ctx, workspace.ID, 9999, owner.ID), apperr.ErrNotFound)
}

func TestPurgeReleasesQuotaOnce(t *testing.T) {
	setupTestDB(t)
	fs := setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	item := createDrop(t, workspace.ID, owner.ID, "purgeme", nil)
	objectName := item.Asset.ObjectName
	bucketName := item.Asset.BucketName

	freed, err := PurgeItem(ctx, workspace.ID, item.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len("purgeme")), freed)
	assert.False(t, fs.has(bucketName, objectName))

	used, err := GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Zero(t, used)

	// Purging the same id again is a no-op, not a second refund.
	freed, err = PurgeItem(ctx, workspace.ID, item.ID, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, freed)

	used, err = GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestPurgeKeepsItemWhenStorageFails(t *testing.T) {
	setupTestDB(t)
	fs := setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	item := createDrop(t, workspace.ID, owner.ID, "sticky", nil)
	fs.failRemove[item.Asset.ObjectName] = true

	_, err := PurgeItem(ctx, workspace.ID, item.ID, owner.ID)
	require.Error(t, err)

	// Item record and quota are untouched so the purge can be retried.
	_, err = GetItem(workspace.ID, item.ID)
	require.NoError(t, err)
	used, err := GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len("sticky")), used)
}

func TestListItemsHidesExpiredUnlessPinned(t *testing.T) {
	setupTestDB(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	fresh, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "fresh", ExpireAt: &future,
	})
	require.NoError(t, err)
	expired, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "expired", ExpireAt: &past,
	})
	require.NoError(t, err)
	pinnedExpired, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "pinned expired", ExpireAt: &past,
	})
	require.NoError(t, err)
	require.NoError(t, PinItem(ctx, workspace.ID, pinnedExpired.ID, owner.ID))

	req := &dto.ItemListRequest{Page: 1, PageSize: 10}
	items, total, err := ListItems(workspace.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	ids := make(map[uint64]bool, len(items))
	for _, item := range items {
		ids[item.ID] = true
	}
	assert.True(t, ids[fresh.ID])
	assert.True(t, ids[pinnedExpired.ID])
	assert.False(t, ids[expired.ID])
}

func TestListItemsFilters(t *testing.T) {
	setupTestDB(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	_, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "recipe", Tags: []string{"cooking"},
	})
	require.NoError(t, err)
	_, err = CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeLink, Title: "blog", URL: "https://example.com", Tags: []string{"reading"},
	})
	require.NoError(t, err)

	items, total, err := ListItems(workspace.ID, &dto.ItemListRequest{Page: 1, PageSize: 10, Type: model.ItemTypeLink})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "blog", items[0].Title)

	items, total, err = ListItems(workspace.ID, &dto.ItemListRequest{Page: 1, PageSize: 10, Tag: "cooking"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "recipe", items[0].Title)
}

func TestSearchItems(t *testing.T) {
	setupTestDB(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	_, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "meeting notes", Content: "quarterly review",
	})
	require.NoError(t, err)
	_, err = CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "unrelated", Content: "nothing here",
	})
	require.NoError(t, err)

	items, total, err := SearchItems(workspace.ID, &dto.ItemSearchRequest{Query: "quarterly", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "meeting notes", items[0].Title)
}

func TestListTrash(t *testing.T) {
	setupTestDB(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	item, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "bin me",
	})
	require.NoError(t, err)
	require.NoError(t, TrashItem(ctx, workspace.ID, item.ID, owner.ID))

	trashed, err := ListTrash(workspace.ID)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, item.ID, trashed[0].ID)

	// Trashed items disappear from the normal listing.
	_, total, err := ListItems(workspace.ID, &dto.ItemListRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEmptyTrash(t *testing.T) {
	setupTestDB(t)
	setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	first := createDrop(t, workspace.ID, owner.ID, "aaaa", nil)
	second := createDrop(t, workspace.ID, owner.ID, "bb", nil)
	require.NoError(t, TrashItem(ctx, workspace.ID, first.ID, owner.ID))
	require.NoError(t, TrashItem(ctx, workspace.ID, second.ID, owner.ID))

	result, err := EmptyTrash(ctx, workspace.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsDeleted)
	assert.Equal(t, int64(6), result.BytesFreed)

	used, err := GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestCreateDownloadLink(t *testing.T) {
	setupTestDB(t)
	setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	drop := createDrop(t, workspace.ID, owner.ID, "linkable", nil)

	link, err := CreateDownloadLink(workspace.ID, drop.ID, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, link.URL, "token=")
	assert.True(t, link.ExpiresAt.After(time.Now()))

	note, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "no file",
	})
	require.NoError(t, err)
	_, err = CreateDownloadLink(workspace.ID, note.ID, time.Minute)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrValidation.Code, apperr.FromError(err).Code)

	// Trashed items do not mint links.
	require.NoError(t, TrashItem(ctx, workspace.ID, drop.ID, owner.ID))
	_, err = CreateDownloadLink(workspace.ID, drop.ID, time.Minute)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
