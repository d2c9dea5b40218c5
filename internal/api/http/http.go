package http

import (
	"fmt"

	"situations-party-be/internal/api/http/websocket"
	"situations-party-be/internal/state"

	"github.com/kataras/iris/v12"
)

func NewApp(appState *state.AppState) *iris.Application {
	app := iris.Default()

	api := app.Party("/api/v1")

	api.Post("/rooms/create", CreateRoom(appState))
	api.Delete("/rooms/{room_id}", DisposeRoom(appState))

	room := api.Party("/rooms/{room_id}")

	room.Post("/join", JoinRoom(appState))
	room.Post("/start", StartGame(appState))
	room.Post("/answer", SubmitAnswer(appState))
	room.Post("/winner", PickWinner(appState))
	room.Post("/leave", LeaveRoom(appState))
	room.Post("/reset", ResetRoom(appState))

	room.Get("/snapshot", GetSnapshot(appState))
	room.Get("/scores", GetScores(appState))

	api.Get("/ws/join", websocket.JoinGame(appState))

	return app
}

func RunServer(appState *state.AppState) {
	app := NewApp(appState)

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	app.Listen(addr)
}
