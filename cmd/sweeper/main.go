package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"DropDock/config"
	"DropDock/internal/repo"
	"DropDock/internal/service"
	"DropDock/internal/storage"
	"DropDock/utils"
)

const sweepLockKey = "sweep:lock"

// main runs the expiry sweeper on a fixed interval. The Redis lock keeps
// multiple sweeper replicas, and the manual HTTP trigger, from sweeping the
// same batch at once.
func main() {
	config.InitConfig()
	utils.InitLogger()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	utils.InitCacheManager()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := config.AppConfig.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	utils.S().Infow("sweeper started", "interval", interval)
	runSweep(ctx)
	for {
		select {
		case <-ctx.Done():
			utils.S().Infow("sweeper stopped")
			return
		case <-ticker.C:
			runSweep(ctx)
		}
	}
}

func runSweep(ctx context.Context) {
	lock := repo.NewRedisLock(repo.Redis, sweepLockKey, config.AppConfig.SweepLockTTL)
	if err := lock.Lock(ctx); err != nil {
		if err == repo.ErrLockBusy {
			utils.S().Debugw("sweep skipped, lock busy")
			return
		}
		utils.S().Errorw("sweep lock fail", "err", err)
		return
	}
	defer func() {
		_ = lock.Unlock(ctx)
	}()

	if _, err := service.Sweep(ctx); err != nil {
		utils.S().Errorw("sweep fail", "err", err)
	}
}
