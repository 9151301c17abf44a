package main

import (
	"DropDock/config"
	"DropDock/internal/repo"
	"DropDock/internal/storage"
	"DropDock/router"
	"DropDock/utils"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	utils.InitLogger()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitMinio()
	utils.InitCacheManager()

	router := router.InitRouter()

	router.Run(":8000")
}
