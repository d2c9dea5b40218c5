package dto

import "situations-party-be/internal/service/game"

// 加入和离开都只需要玩家 ID，显示名可以为空
type JoinRoomRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type JoinRoomResponse struct {
	RoomID string          `json:"room_id"`
	Joiner game.JoinResult `json:"joiner"`
}

type UserRequest struct {
	UserID string `json:"user_id"`
}
