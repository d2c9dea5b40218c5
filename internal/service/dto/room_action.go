package dto

import "situations-party-be/internal/service/game"

type SubmitAnswerRequest struct {
	UserID string    `json:"user_id"`
	Card   game.Card `json:"card"`
}

// Index 是回答在提交顺序中的下标
type PickWinnerRequest struct {
	UserID string `json:"user_id"`
	Index  int    `json:"index"`
}

// WebSocket 连接的第一条消息
type JoinGameRequest struct {
	RoomID      string `json:"room_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}
