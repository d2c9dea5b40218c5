package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"situations-party-be/internal/config"
	"situations-party-be/internal/service"
	"situations-party-be/internal/service/cardpool"
	"situations-party-be/internal/service/dto"
	"situations-party-be/internal/service/game"
	"situations-party-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawResponse struct {
	RespType string          `json:"response_type"`
	Data     json.RawMessage `json:"data"`
	ErrMsg   string          `json:"error_message"`
}

func newTestState(t *testing.T) *state.AppState {
	t.Helper()

	answers := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		answers = append(answers, fmt.Sprintf("answer-%02d", i))
	}

	pool, err := cardpool.New([]string{"s1", "s2"}, answers)
	require.NoError(t, err)

	svc := service.NewRoomService(pool, pool, service.RoomConfig{
		SessionOptions: []game.Option{game.WithRand(rand.New(rand.NewPCG(5, 6)))},
	})
	t.Cleanup(svc.Close)

	return state.NewAppState(&config.AppConfig{WsActionsPerSecond: 100, WsActionBurst: 100}, pool, svc)
}

func TestSessionHandle(t *testing.T) {
	appState := newTestState(t)
	svc := appState.RoomSvc
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		_, err := svc.Join(ctx, "room", id, "")
		require.NoError(t, err)
	}

	a := &session{svc: svc, roomID: "room", userID: "a"}
	b := &session{svc: svc, roomID: "room", userID: "b"}

	resp := a.handle(ctx, RequestWrapper{ReqType: REQ_START_GAME})
	require.Equal(t, RESP_START_GAME, resp.RespType, resp.ErrMsg)

	resp = b.handle(ctx, RequestWrapper{ReqType: REQ_SNAPSHOT})
	require.Equal(t, RESP_SNAPSHOT, resp.RespType)
	snap := resp.Data.(game.Snapshot)
	require.Len(t, snap.Hand, game.HAND_SIZE)

	// 主持人不能回答
	data, _ := json.Marshal(SubmitAnswerData{Card: snap.Hand[0]})
	resp = a.handle(ctx, RequestWrapper{ReqType: REQ_SUBMIT_ANSWER, Data: data})
	assert.Equal(t, RESP_ERROR, resp.RespType)
	assert.Equal(t, game.ErrNotYourTurn.Error(), resp.ErrMsg)

	resp = b.handle(ctx, RequestWrapper{ReqType: REQ_SUBMIT_ANSWER, Data: data})
	require.Equal(t, RESP_SUBMIT_ANSWER, resp.RespType, resp.ErrMsg)
	assert.Equal(t, game.STAGE_JUDGING, resp.Data.(game.SubmitResult).Stage)

	resp = b.handle(ctx, RequestWrapper{ReqType: REQ_PICK_WINNER, Data: json.RawMessage(`{"index":0}`)})
	assert.Equal(t, RESP_ERROR, resp.RespType)

	resp = a.handle(ctx, RequestWrapper{ReqType: REQ_PICK_WINNER, Data: json.RawMessage(`{"index":0}`)})
	require.Equal(t, RESP_ROUND_RESULT, resp.RespType, resp.ErrMsg)
	assert.Equal(t, "b", resp.Data.(game.RoundResult).Winner.UserID)

	resp = a.handle(ctx, RequestWrapper{ReqType: REQ_JOIN_GAME})
	assert.Equal(t, RESP_ERROR, resp.RespType)

	resp = a.handle(ctx, RequestWrapper{ReqType: "Dance"})
	assert.Equal(t, RESP_ERROR, resp.RespType)

	resp = b.handle(ctx, RequestWrapper{ReqType: REQ_LEAVE_GAME})
	assert.Equal(t, RESP_LEAVE_GAME, resp.RespType)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/join"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(rawResponse) bool) rawResponse {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	for {
		var resp rawResponse
		require.NoError(t, conn.ReadJSON(&resp))

		if match(resp) {
			return resp
		}
	}
}

func ofType(respType string) func(rawResponse) bool {
	return func(r rawResponse) bool { return r.RespType == respType }
}

func joinMsg(roomID, userID string) RequestWrapper {
	data, _ := json.Marshal(dto.JoinGameRequest{RoomID: roomID, UserID: userID})
	return RequestWrapper{ReqType: REQ_JOIN_GAME, Data: data}
}

func TestJoinGame_OverWebSocket(t *testing.T) {
	appState := newTestState(t)

	app := iris.New()
	app.Get("/ws/join", JoinGame(appState))
	require.NoError(t, app.Build())

	srv := httptest.NewServer(app)
	defer srv.Close()

	alice := dial(t, srv)
	require.NoError(t, alice.WriteJSON(joinMsg("room", "alice")))
	resp := readUntil(t, alice, ofType(RESP_JOIN_GAME))

	var joined game.JoinResult
	require.NoError(t, json.Unmarshal(resp.Data, &joined))
	assert.True(t, joined.Added)

	bob := dial(t, srv)
	require.NoError(t, bob.WriteJSON(joinMsg("room", "bob")))
	readUntil(t, bob, ofType(RESP_JOIN_GAME))

	require.NoError(t, alice.WriteJSON(RequestWrapper{ReqType: REQ_START_GAME}))
	readUntil(t, alice, ofType(RESP_START_GAME))

	// 开局后 bob 会收到推送的快照
	resp = readUntil(t, bob, func(r rawResponse) bool {
		if r.RespType != RESP_SNAPSHOT {
			return false
		}
		var snap game.Snapshot
		return json.Unmarshal(r.Data, &snap) == nil && snap.Stage == game.STAGE_COLLECTING
	})

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Len(t, snap.Hand, game.HAND_SIZE)

	// 断开连接后玩家离开房间
	bob.Close()

	assert.Eventually(t, func() bool {
		snap, err := appState.RoomSvc.Snapshot(context.Background(), "room", "")
		if err != nil {
			return false
		}
		for _, p := range snap.Players {
			if p.UserID == "bob" {
				return p.Status == game.STATUS_LEFT
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)
}

func TestJoinGame_FirstMessageMustBeJoin(t *testing.T) {
	appState := newTestState(t)

	app := iris.New()
	app.Get("/ws/join", JoinGame(appState))
	require.NoError(t, app.Build())

	srv := httptest.NewServer(app)
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(RequestWrapper{ReqType: REQ_START_GAME}))

	resp := readUntil(t, conn, ofType(RESP_ERROR))
	assert.NotEmpty(t, resp.ErrMsg)
	assert.Equal(t, 0, appState.RoomSvc.RoomCount())
}
