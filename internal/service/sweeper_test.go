package service

import (
	"context"
	"testing"
	"time"

	"DropDock/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepDeletesExpiredItems(t *testing.T) {
	setupTestDB(t)
	fs := setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "pro")

	past := time.Now().Add(-time.Hour)
	first := createDrop(t, workspace.ID, owner.ID, "aaaa", &past)
	second := createDrop(t, workspace.ID, owner.ID, "bbbbbb", &past)
	third := createDrop(t, workspace.ID, owner.ID, "cc", &past)

	// The second item's object refuses to delete; the sweep must skip it and
	// still drain the rest of the batch.
	fs.failRemove[second.Asset.ObjectName] = true

	result, err := Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsDeleted)
	assert.Equal(t, 2, result.FilesDeleted)
	assert.Equal(t, int64(6), result.BytesFreed)

	// The failed item survives intact for the next pass.
	survivor, err := GetItem(workspace.ID, second.ID)
	require.NoError(t, err)
	require.NotNil(t, survivor.Asset)

	_, err = GetItem(workspace.ID, first.ID)
	require.Error(t, err)
	_, err = GetItem(workspace.ID, third.ID)
	require.Error(t, err)

	// Quota reflects only the two successful deletions.
	used, err := GetStorageUsed(workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len("bbbbbb")), used)
}

func TestSweepSkipsPinnedAndUnexpired(t *testing.T) {
	setupTestDB(t)
	setupFakeStore(t)
	workspace, owner := seedWorkspace(t, "pro")
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	pinned := createDrop(t, workspace.ID, owner.ID, "pinned", &past)
	require.NoError(t, PinItem(ctx, workspace.ID, pinned.ID, owner.ID))

	fresh := createDrop(t, workspace.ID, owner.ID, "fresh", &future)
	forever, err := CreateItem(ctx, CreateItemInput{
		WorkspaceID: workspace.ID, OwnerID: owner.ID,
		Type: model.ItemTypeNote, Title: "no expiry",
	})
	require.NoError(t, err)

	result, err := Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.ItemsDeleted)

	for _, id := range []uint64{pinned.ID, fresh.ID, forever.ID} {
		_, err := GetItem(workspace.ID, id)
		require.NoError(t, err)
	}
}

func TestSweepRefundsPerWorkspace(t *testing.T) {
	setupTestDB(t)
	setupFakeStore(t)
	first, owner := seedWorkspace(t, "pro")
	second := seedExtraWorkspace(t, "neighbor")

	past := time.Now().Add(-time.Minute)
	createDrop(t, first.ID, owner.ID, "xxxx", &past)
	createDrop(t, second.ID, owner.ID, "yyyyyyyy", &past)

	result, err := Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsDeleted)

	used, err := GetStorageUsed(first.ID)
	require.NoError(t, err)
	assert.Zero(t, used)
	used, err = GetStorageUsed(second.ID)
	require.NoError(t, err)
	assert.Zero(t, used)
}
