package websocket

import (
	"encoding/json"

	"situations-party-be/internal/service/dto"
	"situations-party-be/internal/service/game"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_JOIN_GAME     = "JoinGame"
	REQ_START_GAME    = "StartGame"
	REQ_SUBMIT_ANSWER = "SubmitAnswer"
	REQ_PICK_WINNER   = "PickWinner"
	REQ_SNAPSHOT      = "Snapshot"
	REQ_LEAVE_GAME    = "LeaveGame"
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`
}

// 连接建立后玩家身份已知，后续请求只携带动作参数
type SubmitAnswerData struct {
	Card game.Card `json:"card"`
}

type PickWinnerData struct {
	Index int `json:"index"`
}

func tryUnwrap[T any](wrapper RequestWrapper, reqType string) *T {
	if wrapper.ReqType != reqType {
		return nil
	}

	var data T

	if len(wrapper.Data) == 0 {
		return &data
	}

	if err := json.Unmarshal(wrapper.Data, &data); err != nil {
		zap.L().Error(
			"解析请求数据失败",
			zap.String("request_type", reqType),
			zap.Error(err),
		)
		return nil
	}

	return &data
}

func TryUnwrapJoinGameRequest(wrapper RequestWrapper) *dto.JoinGameRequest {
	return tryUnwrap[dto.JoinGameRequest](wrapper, REQ_JOIN_GAME)
}

func TryUnwrapSubmitAnswerRequest(wrapper RequestWrapper) *SubmitAnswerData {
	return tryUnwrap[SubmitAnswerData](wrapper, REQ_SUBMIT_ANSWER)
}

func TryUnwrapPickWinnerRequest(wrapper RequestWrapper) *PickWinnerData {
	return tryUnwrap[PickWinnerData](wrapper, REQ_PICK_WINNER)
}

// 响应类型
const (
	RESP_ERROR = "Error"

	RESP_JOIN_GAME     = "JoinGame"
	RESP_START_GAME    = "StartGame"
	RESP_SUBMIT_ANSWER = "SubmitAnswer"
	RESP_ROUND_RESULT  = "RoundResult"
	RESP_SNAPSHOT      = "Snapshot"
	RESP_LEAVE_GAME    = "LeaveGame"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data,omitempty"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
