package main

import (
	"edulearn/config"
	"edulearn/database"
	"edulearn/logger"
	"edulearn/routers"
	"edulearn/utils"
	"edulearn/utils/media"
	"log"

	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer logger.Sync()

	database.ConnectDb()
	media.Init(config.AppConfig)

	if scheduler := utils.InitializeEnrollmentScheduler(); scheduler != nil {
		defer scheduler.Stop()
	}

	app := routers.New()

	logger.Log.Info("Server is running", zap.String("port", config.AppConfig.Port))
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
