// @title We Rise 后端 API
// @version 1.0
// @description We Rise / PO-Path 学习路径服务：会话、学习路径、导师分配与课程筛选。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"werise_backend/internal/app"
	"werise_backend/internal/config"
	"werise_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	watch := flag.Bool("watch", true, "配置文件变更后热更新")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		if err := application.WatchConfig(*configDir); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}

	application.Run()
}
