package worker

import (
	"context"
	"encoding/json"
	"time"

	"DropDock/config"
	"DropDock/internal/mq"
	"DropDock/internal/service"
	"DropDock/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

const maxRetries = 3

var retryDelays = []time.Duration{5 * time.Second, 30 * time.Second, 2 * time.Minute}

// RunActivityWorker consumes activity events and writes them to the log
// table. Poison messages are retried through the delay queue and parked in
// the DLQ after maxRetries. Blocks until ctx is cancelled or the channel dies.
func RunActivityWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 8
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueActivity,
		"activity-worker",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.ActivityWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	sem := make(chan struct{}, concurrency)

	utils.S().Infow("activity worker started", "prefetch", prefetch, "concurrency", concurrency)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleDelivery(ctx, client, d)
			}(delivery)
		}
	}
}

func handleDelivery(ctx context.Context, client *mq.Client, d amqp.Delivery) {
	var msg service.ActivityMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		utils.S().Errorw("bad activity payload", "err", err)
		_ = client.PublishDLQ(ctx, d.Body)
		_ = d.Ack(false)
		return
	}

	if err := saveWithRetryRouting(ctx, client, &msg, d.Body); err != nil {
		utils.S().Errorw("activity routing fail", "action", msg.Action, "err", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

func saveWithRetryRouting(ctx context.Context, client *mq.Client, msg *service.ActivityMessage, raw []byte) error {
	saveErr := service.SaveActivity(msg)
	if saveErr == nil {
		return nil
	}
	utils.S().Warnw("activity save fail", "action", msg.Action, "retries", msg.Retries, "err", saveErr)

	if msg.Retries >= maxRetries {
		utils.S().Warnw("activity exhausted retries, parking",
			"action", msg.Action,
			"workspace_id", msg.WorkspaceID,
			"retries", msg.Retries,
		)
		return client.PublishDLQ(ctx, raw)
	}

	delay := retryDelays[len(retryDelays)-1]
	if msg.Retries < len(retryDelays) {
		delay = retryDelays[msg.Retries]
	}
	msg.Retries++
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return client.PublishRetry(ctx, body, delay)
}
