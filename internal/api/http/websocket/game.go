package websocket

import (
	"context"
	"encoding/json"
	"time"

	"situations-party-be/internal/service"
	"situations-party-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// session 是一条已加入房间的连接
type session struct {
	svc    *service.RoomService
	roomID string
	userID string
}

// handle 执行一条请求并返回给该连接的响应
func (s *session) handle(ctx context.Context, wrapper RequestWrapper) ResponseWrapper {
	switch wrapper.ReqType {
	case REQ_START_GAME:
		if _, err := s.svc.Start(ctx, s.roomID); err != nil {
			return WrapErrResponse(err.Error())
		}
		snap, err := s.svc.Snapshot(ctx, s.roomID, s.userID)
		if err != nil {
			return WrapErrResponse(err.Error())
		}
		return WrapResponse(RESP_START_GAME, snap)

	case REQ_SUBMIT_ANSWER:
		req := TryUnwrapSubmitAnswerRequest(wrapper)
		if req == nil {
			return WrapErrResponse("无效的请求格式")
		}
		res, err := s.svc.SubmitAnswer(ctx, s.roomID, s.userID, req.Card)
		if err != nil {
			return WrapErrResponse(err.Error())
		}
		return WrapResponse(RESP_SUBMIT_ANSWER, res)

	case REQ_PICK_WINNER:
		req := TryUnwrapPickWinnerRequest(wrapper)
		if req == nil {
			return WrapErrResponse("无效的请求格式")
		}
		res, err := s.svc.PickWinner(ctx, s.roomID, s.userID, req.Index)
		if err != nil {
			return WrapErrResponse(err.Error())
		}
		return WrapResponse(RESP_ROUND_RESULT, res)

	case REQ_SNAPSHOT:
		snap, err := s.svc.Snapshot(ctx, s.roomID, s.userID)
		if err != nil {
			return WrapErrResponse(err.Error())
		}
		return WrapResponse(RESP_SNAPSHOT, snap)

	case REQ_LEAVE_GAME:
		if err := s.svc.Leave(ctx, s.roomID, s.userID); err != nil {
			return WrapErrResponse(err.Error())
		}
		return WrapResponse(RESP_LEAVE_GAME, nil)

	case REQ_JOIN_GAME:
		return WrapErrResponse("已经加入房间")
	}

	return WrapErrResponse("未知的请求类型")
}

// readJoin 读取并处理连接的第一条消息，必须是 JoinGame
func readJoin(ctx context.Context, conn *websocket.Conn, svc *service.RoomService) (*session, ResponseWrapper, bool) {
	conn.SetReadDeadline(time.Now().Add(JOIN_TIMEOUT))

	_, msg, err := conn.ReadMessage()
	if err != nil {
		zap.L().Error("读取首次请求失败", zap.Error(err))
		return nil, ResponseWrapper{}, false
	}

	var wrapper RequestWrapper

	if err := json.Unmarshal(msg, &wrapper); err != nil {
		return nil, WrapErrResponse("无效的请求格式"), false
	}

	req := TryUnwrapJoinGameRequest(wrapper)
	if req == nil {
		return nil, WrapErrResponse("首次请求必须是 JoinGame"), false
	}

	res, err := svc.Join(ctx, req.RoomID, req.UserID, req.DisplayName)
	if err != nil {
		return nil, WrapErrResponse(err.Error()), false
	}

	s := &session{svc: svc, roomID: req.RoomID, userID: req.UserID}

	return s, WrapResponse(RESP_JOIN_GAME, res), true
}

func JoinGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		clientIP := ctx.RemoteAddr()

		connCtx, cancelConn := context.WithCancel(context.Background())
		defer cancelConn()

		sess, joinResp, ok := readJoin(connCtx, conn, appState.RoomSvc)
		if !ok {
			if joinResp.RespType != "" {
				conn.WriteJSON(joinResp)
			}
			zap.L().Warn("玩家加入失败", zap.String("client_ip", clientIP), zap.String("error", joinResp.ErrMsg))
			return
		}

		log := zap.L().With(
			zap.String("client_ip", clientIP),
			zap.String("room_id", sess.roomID),
			zap.String("user_id", sess.userID),
		)

		changed, cancelWatch, err := appState.RoomSvc.Watch(connCtx, sess.roomID)
		if err != nil {
			conn.WriteJSON(WrapErrResponse(err.Error()))
			return
		}
		defer cancelWatch()

		log.Info("玩家通过WebSocket加入房间")

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		respCh := make(chan ResponseWrapper, 16)
		respCh <- joinResp

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		writerExitCh := make(chan struct{})

		// 写入协程，连接上只有它会写
		go func() {
			defer close(writerExitCh)

			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			for {
				select {
				case <-writeDoneCh:
					// 发完已排队的响应再退出
					for {
						select {
						case resp := <-respCh:
							conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
							if err := conn.WriteJSON(resp); err != nil {
								return
							}
						default:
							log.Debug("WebSocket写入协程退出")
							return
						}
					}

				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						log.Error("发送心跳失败", zap.Error(err))
						conn.Close()
						return
					}

				case _, ok := <-changed:
					if !ok {
						// 房间已被销毁或清理
						conn.WriteJSON(WrapErrResponse(service.ErrRoomClosed.Error()))
						conn.Close()
						return
					}

					snap, err := appState.RoomSvc.Snapshot(connCtx, sess.roomID, sess.userID)
					if err != nil {
						continue
					}

					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
					if err := conn.WriteJSON(WrapResponse(RESP_SNAPSHOT, snap)); err != nil {
						log.Error("推送快照失败", zap.Error(err))
						conn.Close()
						return
					}

				case resp := <-respCh:
					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
					if err := conn.WriteJSON(resp); err != nil {
						log.Error("发送消息失败", zap.Error(err))
						conn.Close()
						return
					}

					log.Debug("发送消息", zap.String("response_type", resp.RespType))
				}
			}
		}()

		limiter := newLimiter(appState.Cfg.WsActionsPerSecond, appState.Cfg.WsActionBurst)

		send := func(resp ResponseWrapper) bool {
			select {
			case respCh <- resp:
				return true
			case <-writerExitCh:
				return false
			}
		}

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					log.Error("读取消息失败", zap.Error(err))
				}

				break
			}

			if !limiter.Allow() {
				if !send(WrapErrResponse("操作过于频繁，请稍后再试")) {
					break
				}
				continue
			}

			var wrapper RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				if !send(WrapErrResponse("无效的请求格式")) {
					break
				}
				continue
			}

			if !send(sess.handle(connCtx, wrapper)) {
				break
			}

			if wrapper.ReqType == REQ_LEAVE_GAME {
				break
			}
		}

		close(writeDoneCh)
		<-writerExitCh

		// 客户端断开连接，玩家离开房间
		leaveCtx, cancelLeave := context.WithTimeout(context.Background(), LEAVE_TIMEOUT)
		defer cancelLeave()

		if err := appState.RoomSvc.Leave(leaveCtx, sess.roomID, sess.userID); err != nil {
			log.Debug("断开连接时离开房间失败", zap.Error(err))
		}

		log.Info("WebSocket连接处理完成")
	}
}
