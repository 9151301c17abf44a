package service

import (
	"context"
	"encoding/json"
	"time"

	"DropDock/internal/mq"
	"DropDock/internal/repo"
	"DropDock/model"
	"DropDock/utils"
)

const (
	ActionItemCreate  = "item.create"
	ActionItemPin     = "item.pin"
	ActionItemUnpin   = "item.unpin"
	ActionItemTrash   = "item.trash"
	ActionItemRestore = "item.restore"
	ActionItemPurge   = "item.purge"
	ActionItemExpire  = "item.expire"
)

// ActivityMessage is the wire form of an activity event.
type ActivityMessage struct {
	WorkspaceID uint64    `json:"workspace_id"`
	ActorID     uint64    `json:"actor_id"`
	Action      string    `json:"action"`
	ItemID      uint64    `json:"item_id,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Retries     int       `json:"retries,omitempty"`
}

// RecordActivity emits an activity event. Events go through RabbitMQ so the
// request path does not wait on the log table; when the broker is down the
// event is written straight to the database instead of being dropped.
func RecordActivity(ctx context.Context, workspaceID, actorID uint64, action string, itemID uint64, detail string) {
	msg := ActivityMessage{
		WorkspaceID: workspaceID,
		ActorID:     actorID,
		Action:      action,
		ItemID:      itemID,
		Detail:      detail,
		OccurredAt:  time.Now(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		utils.S().Errorw("marshal activity fail", "action", action, "err", err)
		return
	}
	client, err := mq.GetPublisher()
	if err == nil {
		if err = client.PublishActivity(ctx, body); err == nil {
			return
		}
	}
	utils.S().Debugw("publish activity fail, writing direct", "action", action, "err", err)
	if err := SaveActivity(&msg); err != nil {
		utils.S().Errorw("save activity fail", "action", action, "err", err)
	}
}

// SaveActivity persists one activity event.
func SaveActivity(msg *ActivityMessage) error {
	record := model.ActivityLog{
		WorkspaceID: msg.WorkspaceID,
		ActorID:     msg.ActorID,
		Action:      msg.Action,
		ItemID:      msg.ItemID,
		Detail:      msg.Detail,
		CreatedAt:   msg.OccurredAt,
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	return repo.Db.Create(&record).Error
}

// ListActivity returns recent activity for a workspace, newest first.
func ListActivity(workspaceID uint64, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []model.ActivityLog
	err := repo.Db.
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
