package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"DropDock/config"
	"DropDock/internal/repo"
	"DropDock/internal/worker"
	"DropDock/utils"
)

// main runs the activity log consumer. It reconnects on broker failure and
// exits cleanly on SIGINT/SIGTERM.
func main() {
	config.InitConfig()
	utils.InitLogger()
	repo.InitMysql()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		err := worker.RunActivityWorker(ctx)
		if ctx.Err() != nil {
			utils.S().Infow("activity worker stopped")
			return
		}
		utils.S().Errorw("activity worker exited, reconnecting", "err", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}
