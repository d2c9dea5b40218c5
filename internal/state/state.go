package state

import (
	"situations-party-be/internal/config"
	"situations-party-be/internal/service"
	"situations-party-be/internal/service/cardpool"
)

type AppState struct {
	Cfg     *config.AppConfig
	Pool    *cardpool.Pool
	RoomSvc *service.RoomService
}

func NewAppState(
	cfg *config.AppConfig,
	pool *cardpool.Pool,
	roomSvc *service.RoomService,
) *AppState {
	return &AppState{
		Cfg:     cfg,
		Pool:    pool,
		RoomSvc: roomSvc,
	}
}
