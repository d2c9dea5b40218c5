package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"situations-party-be/internal/service/game"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type roomCall struct {
	fn     func(*game.Session)
	notify bool
	done   chan struct{}
}

type room struct {
	id string

	reqCh     chan roomCall
	doneCh    chan struct{}
	closeOnce sync.Once

	lastActive atomic.Int64

	// 只在房间协程内访问
	watchers map[chan struct{}]struct{}
}

func newRoom(id string) *room {
	r := &room{
		id:       id,
		reqCh:    make(chan roomCall),
		doneCh:   make(chan struct{}),
		watchers: make(map[chan struct{}]struct{}),
	}
	r.touch(time.Now())

	return r
}

func (r *room) loop(session *game.Session) {
	defer func() {
		for ch := range r.watchers {
			close(ch)
		}

		zap.S().Infof("房间 %s 协程退出", r.id)
	}()

	for {
		select {
		case <-r.doneCh:
			return

		case call := <-r.reqCh:
			call.fn(session)
			r.touch(time.Now())
			close(call.done)

			if call.notify {
				r.notifyWatchers()
			}
		}
	}
}

func (r *room) notifyWatchers() {
	for ch := range r.watchers {
		select {
		case ch <- struct{}{}:
		default:
			// 已有未读取的通知，合并
		}
	}
}

func (r *room) do(ctx context.Context, fn func(*game.Session)) error {
	return r.submit(ctx, roomCall{fn: fn, notify: true, done: make(chan struct{})})
}

func (r *room) view(ctx context.Context, fn func(*game.Session)) error {
	return r.submit(ctx, roomCall{fn: fn, done: make(chan struct{})})
}

// submit 把调用投递给房间协程并等待执行完成。
// 投递成功后调用一定会被执行，所以这里不再响应 ctx。
func (r *room) submit(ctx context.Context, call roomCall) error {
	select {
	case r.reqCh <- call:
	case <-r.doneCh:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-call.done

	return nil
}

func (r *room) close() {
	r.closeOnce.Do(func() {
		close(r.doneCh)
	})
}

func (r *room) touch(now time.Time) {
	r.lastActive.Store(now.UnixNano())
}

func isRoomIdle(r *room, now time.Time, timeout time.Duration) bool {
	if r == nil {
		return true
	}

	if timeout <= 0 {
		return false
	}

	last := time.Unix(0, r.lastActive.Load())

	return now.Sub(last) > timeout
}

// GenShortID 生成 8 位的短 ID
func GenShortID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	s := id.String()

	return s[len(s)-8:]
}
