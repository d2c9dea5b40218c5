package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"situations-party-be/internal/service/game"

	"go.uber.org/zap"
)

var (
	ErrRoomNotFound = errors.New("房间不存在")
	ErrRoomClosed   = errors.New("房间已关闭")
	ErrEmptyRoomID  = errors.New("房间 ID 不能为空")
)

type RoomConfig struct {
	Rules game.Rules

	// 超过该时长没有任何操作的房间会被清理，0 表示不清理
	IdleTimeout time.Duration

	// 额外的 Session 选项，测试中用于固定随机源
	SessionOptions []game.Option
}

// RoomService 是房间 ID 到游戏会话的注册表。
// 每个房间由一个独立的 goroutine 持有，所有操作按到达顺序串行执行。
type RoomService struct {
	state *roomServiceState

	cards      game.CardSource
	situations game.SituationSource
	cfg        RoomConfig
}

type roomServiceState struct {
	mu sync.Mutex

	rooms map[string]*room

	cleanUpDone chan struct{}
	closeOnce   sync.Once
}

func NewRoomService(cards game.CardSource, situations game.SituationSource, cfg RoomConfig) *RoomService {
	state := &roomServiceState{
		rooms:       make(map[string]*room),
		cleanUpDone: make(chan struct{}),
	}

	rs := &RoomService{
		state:      state,
		cards:      cards,
		situations: situations,
		cfg:        cfg,
	}

	// 启动一个 goroutine 定期清理长时间无操作的房间
	if cfg.IdleTimeout > 0 {
		go rs.startCleanupLoop(time.Minute)
	}

	return rs
}

func (rs *RoomService) startCleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rs.state.cleanUpDone:
			return

		case now := <-ticker.C:
			if removed := rs.sweep(now); len(removed) > 0 {
				zap.S().Infof("清理了 %d 个空闲房间，剩余 %d 个", len(removed), rs.RoomCount())
			}
		}
	}
}

// sweep 清理在 now 之前已超时的房间
func (rs *RoomService) sweep(now time.Time) []string {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	removed := make([]string, 0)

	for roomID, r := range rs.state.rooms {
		if !isRoomIdle(r, now, rs.cfg.IdleTimeout) {
			continue
		}

		zap.S().Infof("房间 %s 长时间无操作，开始清理", roomID)

		delete(rs.state.rooms, roomID)
		r.close()
		removed = append(removed, roomID)
	}

	return removed
}

// Close 停止清理协程并关闭所有房间
func (rs *RoomService) Close() {
	rs.state.closeOnce.Do(func() {
		close(rs.state.cleanUpDone)
	})

	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for roomID, r := range rs.state.rooms {
		delete(rs.state.rooms, roomID)
		r.close()
	}
}

// getOrCreate 查找房间，不存在则创建。整个过程持有锁，同一个 ID 只会创建一个会话。
func (rs *RoomService) getOrCreate(roomID string) *room {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	if r, ok := rs.state.rooms[roomID]; ok {
		return r
	}

	opts := append([]game.Option{game.WithRules(rs.cfg.Rules)}, rs.cfg.SessionOptions...)
	session := game.NewSession(roomID, rs.cards, rs.situations, opts...)

	r := newRoom(roomID)
	rs.state.rooms[roomID] = r

	go r.loop(session)

	zap.S().Infof("房间 %s 已创建", roomID)

	return r
}

func (rs *RoomService) lookup(roomID string) (*room, error) {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	r, ok := rs.state.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return r, nil
}

// do 在房间协程中执行一次会改动状态的操作，执行后通知订阅者
func (rs *RoomService) do(ctx context.Context, roomID string, fn func(*game.Session)) error {
	r, err := rs.lookup(roomID)
	if err != nil {
		return err
	}

	return r.do(ctx, fn)
}

// view 在房间协程中执行只读操作
func (rs *RoomService) view(ctx context.Context, roomID string, fn func(*game.Session)) error {
	r, err := rs.lookup(roomID)
	if err != nil {
		return err
	}

	return r.view(ctx, fn)
}

// CreateRoom 生成一个新的房间 ID，并让创建者加入
func (rs *RoomService) CreateRoom(ctx context.Context, creatorID, creatorName string) (string, game.JoinResult, error) {
	if creatorID == "" {
		return "", game.JoinResult{}, game.ErrInvalidPlayer
	}

	roomID := GenShortID()

	res, err := rs.Join(ctx, roomID, creatorID, creatorName)
	if err != nil {
		return "", game.JoinResult{}, err
	}

	zap.S().Infof("房间 %s 由 %s 创建", roomID, creatorName)

	return roomID, res, nil
}

// Join 加入房间，房间不存在时自动创建
func (rs *RoomService) Join(ctx context.Context, roomID, userID, displayName string) (game.JoinResult, error) {
	if roomID == "" {
		return game.JoinResult{}, ErrEmptyRoomID
	}
	if userID == "" {
		return game.JoinResult{}, game.ErrInvalidPlayer
	}

	var (
		res    game.JoinResult
		opErr  error
		closed = true
	)

	// 房间可能在查找和投递之间被清理，此时重新创建一次
	for attempt := 0; attempt < 2 && closed; attempt++ {
		r := rs.getOrCreate(roomID)

		err := r.do(ctx, func(s *game.Session) {
			res, opErr = s.AddPlayer(userID, displayName)
		})
		if err != nil && !errors.Is(err, ErrRoomClosed) {
			return game.JoinResult{}, err
		}
		closed = errors.Is(err, ErrRoomClosed)
	}

	if closed {
		return game.JoinResult{}, ErrRoomClosed
	}

	return res, opErr
}

func (rs *RoomService) Start(ctx context.Context, roomID string) (game.Snapshot, error) {
	var (
		snap  game.Snapshot
		opErr error
	)

	err := rs.do(ctx, roomID, func(s *game.Session) {
		if opErr = s.Start(); opErr == nil {
			snap = s.Snapshot("")
		}
	})
	if err != nil {
		return game.Snapshot{}, err
	}

	return snap, opErr
}

func (rs *RoomService) SubmitAnswer(ctx context.Context, roomID, userID string, card game.Card) (game.SubmitResult, error) {
	var (
		res   game.SubmitResult
		opErr error
	)

	err := rs.do(ctx, roomID, func(s *game.Session) {
		res, opErr = s.SubmitAnswer(userID, card)
	})
	if err != nil {
		return game.SubmitResult{}, err
	}

	return res, opErr
}

// PickWinner 由主持人按提交顺序选出获胜回答
func (rs *RoomService) PickWinner(ctx context.Context, roomID, userID string, index int) (game.RoundResult, error) {
	var (
		res   game.RoundResult
		opErr error
	)

	err := rs.do(ctx, roomID, func(s *game.Session) {
		res, opErr = s.PickWinnerAs(userID, index)
	})
	if err != nil {
		return game.RoundResult{}, err
	}

	return res, opErr
}

func (rs *RoomService) Leave(ctx context.Context, roomID, userID string) error {
	var opErr error

	err := rs.do(ctx, roomID, func(s *game.Session) {
		opErr = s.RemovePlayer(userID)
	})
	if err != nil {
		return err
	}

	return opErr
}

func (rs *RoomService) Reset(ctx context.Context, roomID string) error {
	return rs.do(ctx, roomID, func(s *game.Session) {
		s.Reset()
	})
}

func (rs *RoomService) Snapshot(ctx context.Context, roomID, viewerID string) (game.Snapshot, error) {
	var snap game.Snapshot

	err := rs.view(ctx, roomID, func(s *game.Session) {
		snap = s.Snapshot(viewerID)
	})

	return snap, err
}

func (rs *RoomService) Scores(ctx context.Context, roomID string) ([]game.ScoreEntry, error) {
	var scores []game.ScoreEntry

	err := rs.view(ctx, roomID, func(s *game.Session) {
		scores = s.Scores()
	})

	return scores, err
}

// Watch 订阅房间的状态变化。每次改动状态的操作执行完毕后会收到一次通知，
// 房间关闭时通道被关闭。调用返回的 cancel 取消订阅。
func (rs *RoomService) Watch(ctx context.Context, roomID string) (<-chan struct{}, func(), error) {
	r, err := rs.lookup(roomID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan struct{}, 1)

	err = r.view(ctx, func(*game.Session) {
		r.watchers[ch] = struct{}{}
	})
	if err != nil {
		return nil, nil, err
	}

	cancel := func() {
		// 房间已关闭时 loop 会负责关闭通道
		_ = r.view(context.Background(), func(*game.Session) {
			if _, ok := r.watchers[ch]; ok {
				delete(r.watchers, ch)
				close(ch)
			}
		})
	}

	return ch, cancel, nil
}

// Dispose 销毁房间，之后对该房间的操作返回 ErrRoomNotFound
func (rs *RoomService) Dispose(roomID string) error {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	r, ok := rs.state.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}

	delete(rs.state.rooms, roomID)
	r.close()

	zap.S().Infof("房间 %s 已销毁", roomID)

	return nil
}

func (rs *RoomService) RoomCount() int {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	return len(rs.state.rooms)
}
