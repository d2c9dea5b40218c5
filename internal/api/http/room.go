package http

import (
	"situations-party-be/internal/service/dto"
	"situations-party-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

func CreateRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.CreateRoomRequest

		if err := ctx.ReadJSON(&req); err != nil {
			writeBadRequest(ctx)
			return
		}

		roomID, creator, err := appState.RoomSvc.CreateRoom(ctx.Request().Context(), req.CreatorID, req.CreatorName)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(dto.CreateRoomResponse{
			RoomID:  roomID,
			Creator: creator,
		})
	}
}

func JoinRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.JoinRoomRequest

		if err := ctx.ReadJSON(&req); err != nil {
			writeBadRequest(ctx)
			return
		}

		roomID := ctx.Params().Get("room_id")

		res, err := appState.RoomSvc.Join(ctx.Request().Context(), roomID, req.UserID, req.DisplayName)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(dto.JoinRoomResponse{
			RoomID: roomID,
			Joiner: res,
		})
	}
}

func StartGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		snap, err := appState.RoomSvc.Start(ctx.Request().Context(), ctx.Params().Get("room_id"))
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(snap)
	}
}

func SubmitAnswer(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.SubmitAnswerRequest

		if err := ctx.ReadJSON(&req); err != nil {
			writeBadRequest(ctx)
			return
		}

		res, err := appState.RoomSvc.SubmitAnswer(
			ctx.Request().Context(),
			ctx.Params().Get("room_id"),
			req.UserID,
			req.Card,
		)
		if err != nil {
			zap.L().Debug(
				"回答被拒绝",
				zap.String("room_id", ctx.Params().Get("room_id")),
				zap.String("user_id", req.UserID),
				zap.Error(err),
			)
			writeError(ctx, err)
			return
		}

		ctx.JSON(res)
	}
}

func PickWinner(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.PickWinnerRequest

		if err := ctx.ReadJSON(&req); err != nil {
			writeBadRequest(ctx)
			return
		}

		res, err := appState.RoomSvc.PickWinner(
			ctx.Request().Context(),
			ctx.Params().Get("room_id"),
			req.UserID,
			req.Index,
		)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(res)
	}
}

func LeaveRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.UserRequest

		if err := ctx.ReadJSON(&req); err != nil {
			writeBadRequest(ctx)
			return
		}

		if err := appState.RoomSvc.Leave(ctx.Request().Context(), ctx.Params().Get("room_id"), req.UserID); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.StatusCode(iris.StatusNoContent)
	}
}

func ResetRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		if err := appState.RoomSvc.Reset(ctx.Request().Context(), ctx.Params().Get("room_id")); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.StatusCode(iris.StatusNoContent)
	}
}

// GetSnapshot 返回房间快照，只包含 user_id 对应玩家自己的手牌
func GetSnapshot(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		snap, err := appState.RoomSvc.Snapshot(
			ctx.Request().Context(),
			ctx.Params().Get("room_id"),
			ctx.URLParam("user_id"),
		)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(snap)
	}
}

func GetScores(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.Params().Get("room_id")

		scores, err := appState.RoomSvc.Scores(ctx.Request().Context(), roomID)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(dto.ScoresResponse{
			RoomID: roomID,
			Scores: scores,
		})
	}
}

func DisposeRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		if err := appState.RoomSvc.Dispose(ctx.Params().Get("room_id")); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.StatusCode(iris.StatusNoContent)
	}
}
