package main

import (
	"situations-party-be/internal/api/http"
	"situations-party-be/internal/config"
	"situations-party-be/internal/logger"
	"situations-party-be/internal/service"
	"situations-party-be/internal/service/cardpool"
	"situations-party-be/internal/state"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.GetConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)
	defer zap.L().Sync()

	// 加载卡池
	pool, err := cardpool.Load(cfg.CardPoolPath)
	if err != nil {
		zap.L().Fatal("加载卡池失败", zap.String("path", cfg.CardPoolPath), zap.Error(err))
	}

	roomSvc := service.NewRoomService(pool, pool, service.RoomConfig{
		Rules:       cfg.Rules(),
		IdleTimeout: cfg.IdleTimeout(),
	})
	defer roomSvc.Close()

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		pool,
		roomSvc,
	)

	// 启动服务器
	http.RunServer(appState)
}
