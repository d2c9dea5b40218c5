package dto

import "situations-party-be/internal/service/game"

type CreateRoomRequest struct {
	CreatorID   string `json:"creator_id"`
	CreatorName string `json:"creator_name"`
}

type CreateRoomResponse struct {
	RoomID  string          `json:"room_id"`
	Creator game.JoinResult `json:"creator"`
}

type ScoresResponse struct {
	RoomID string            `json:"room_id"`
	Scores []game.ScoreEntry `json:"scores"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
