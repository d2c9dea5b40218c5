package http

import (
	"context"
	"errors"

	"situations-party-be/internal/service"
	"situations-party-be/internal/service/dto"
	"situations-party-be/internal/service/game"

	"github.com/kataras/iris/v12"
)

// statusOf 把业务错误映射为 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, game.ErrUnknownPlayer):
		return iris.StatusNotFound

	case errors.Is(err, service.ErrEmptyRoomID),
		errors.Is(err, game.ErrInvalidPlayer),
		errors.Is(err, game.ErrInvalidCard),
		errors.Is(err, game.ErrIndexOutOfRange):
		return iris.StatusBadRequest

	case errors.Is(err, game.ErrNotYourTurn):
		return iris.StatusForbidden

	case errors.Is(err, game.ErrInvalidState),
		errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrNotJudging),
		errors.Is(err, game.ErrDuplicateAnswer),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrNoSituation),
		errors.Is(err, service.ErrRoomClosed):
		return iris.StatusConflict

	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return iris.StatusServiceUnavailable
	}

	return iris.StatusInternalServerError
}

func writeError(ctx iris.Context, err error) {
	ctx.StatusCode(statusOf(err))
	ctx.JSON(dto.ErrorResponse{
		Error: err.Error(),
	})
}

func writeBadRequest(ctx iris.Context) {
	ctx.StatusCode(iris.StatusBadRequest)
	ctx.JSON(dto.ErrorResponse{
		Error: "请求参数无效",
	})
}
