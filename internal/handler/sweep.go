package handler

import (
	"DropDock/config"
	"DropDock/internal/apperr"
	"DropDock/internal/repo"
	"DropDock/internal/service"
	"DropDock/utils"

	"github.com/gin-gonic/gin"
)

const sweepLockKey = "sweep:lock"

// TriggerSweep runs one expiry sweep on demand. A Redis lock keeps the manual
// trigger and the scheduled sweeper from running the same pass twice.
func TriggerSweep(c *gin.Context) {
	if repo.Redis != nil {
		lock := repo.NewRedisLock(repo.Redis, sweepLockKey, config.AppConfig.SweepLockTTL)
		if err := lock.Lock(c.Request.Context()); err != nil {
			if err == repo.ErrLockBusy {
				utils.Fail(c, apperr.Wrap(nil, apperr.ErrConflict.Code, apperr.ErrConflict.Status, "sweep already running"))
				return
			}
			utils.Fail(c, err)
			return
		}
		defer func() {
			_ = lock.Unlock(c.Request.Context())
		}()
	}

	result, err := service.Sweep(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result)
}
