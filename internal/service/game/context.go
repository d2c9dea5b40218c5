package game

import (
	"math/rand/v2"
	"time"
)

// Session 是一个房间的回合状态机。
// 它本身不加锁，调用方必须保证同一房间的操作串行执行。
type Session struct {
	roomID     string
	rules      Rules
	cards      CardSource
	situations SituationSource
	rng        *rand.Rand

	stage     Stage
	handler   StageHandler
	players   []*Player
	seats     map[string]int // user_id -> players 下标
	hostIndex int
	round     int

	situation      Situation
	usedSituations map[Situation]struct{}

	// 按提交顺序排列，评选时按下标选择
	answers  []Answer
	answered map[string]struct{}

	scores map[string]int

	deck  *Deck
	hands *HandSet
}

type Option func(*Session)

func WithRules(rules Rules) Option {
	return func(s *Session) {
		s.rules = rules.normalized()
	}
}

// WithRand 指定洗牌和抽题所用的随机源，测试中用于复现
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func NewSession(roomID string, cards CardSource, situations SituationSource, opts ...Option) *Session {
	now := uint64(time.Now().UnixNano())

	s := &Session{
		roomID:         roomID,
		rules:          DefaultRules(),
		cards:          cards,
		situations:     situations,
		rng:            rand.New(rand.NewPCG(now, rand.Uint64())),
		stage:          STAGE_WAITING,
		handler:        newStageHandler(STAGE_WAITING),
		players:        make([]*Player, 0),
		seats:          make(map[string]int),
		hostIndex:      -1,
		usedSituations: make(map[Situation]struct{}),
		answers:        make([]Answer, 0),
		answered:       make(map[string]struct{}),
		scores:         make(map[string]int),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.deck = newDeck(s.rng)
	s.hands = newHandSet()

	return s
}

func (s *Session) RoomID() string {
	return s.roomID
}

func (s *Session) Stage() Stage {
	return s.stage
}

func (s *Session) Round() int {
	return s.round
}

func (s *Session) Rules() Rules {
	return s.rules
}

// Host 返回本轮主持人，未开局时返回 nil
func (s *Session) Host() *Player {
	if s.hostIndex < 0 || s.hostIndex >= len(s.players) {
		return nil
	}

	p := *s.players[s.hostIndex]
	return &p
}

func (s *Session) Player(userID string) (Player, bool) {
	idx, ok := s.seats[userID]
	if !ok {
		return Player{}, false
	}

	return *s.players[idx], true
}

func (s *Session) isHost(userID string) bool {
	idx, ok := s.seats[userID]
	return ok && idx == s.hostIndex
}

func (s *Session) countActive() int {
	n := 0
	for _, p := range s.players {
		if p.Status == STATUS_ACTIVE {
			n++
		}
	}

	return n
}

// answeringIDs 返回本轮需要回答的玩家（除主持人外的在局玩家），按加入顺序
func (s *Session) answeringIDs() []string {
	ids := make([]string, 0, len(s.players))
	for i, p := range s.players {
		if i == s.hostIndex || p.Status != STATUS_ACTIVE {
			continue
		}
		ids = append(ids, p.UserID)
	}

	return ids
}

// nextActive 从 from 之后循环查找下一个在局玩家的下标
func (s *Session) nextActive(from int) int {
	n := len(s.players)
	for step := 1; step <= n; step++ {
		idx := ((from+step)%n + n) % n
		if s.players[idx].Status == STATUS_ACTIVE {
			return idx
		}
	}

	return -1
}

func (s *Session) activatePending() {
	for _, p := range s.players {
		if p.Status == STATUS_PENDING {
			p.Status = STATUS_ACTIVE
		}
	}
}

// waitingAnswers 返回还没有提交回答的玩家。
// 牌堆不足时手牌为空的玩家无法回答，不再等待他们。
func (s *Session) waitingAnswers() []string {
	ids := make([]string, 0)
	for _, id := range s.answeringIDs() {
		if _, ok := s.answered[id]; ok {
			continue
		}
		if s.hands.Size(id) == 0 {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}

func (s *Session) answersComplete() bool {
	return len(s.answers) > 0 && len(s.waitingAnswers()) == 0
}

func (s *Session) answerCards() []Card {
	cards := make([]Card, 0, len(s.answers))
	for _, a := range s.answers {
		cards = append(cards, a.Card)
	}

	return cards
}

func (s *Session) clearAnswers() {
	s.answers = make([]Answer, 0)
	s.answered = make(map[string]struct{})
}

// returnAllCards 把所有手牌和未结算的回答放回弃牌堆
func (s *Session) returnAllCards() {
	for _, p := range s.players {
		s.deck.putBack(s.hands.collect(p.UserID)...)
	}
	s.deck.putBack(s.answerCards()...)
	s.clearAnswers()
}

// pickSituation 选出下一个未用过的情境，题库用尽时清空排除集合
func (s *Session) pickSituation() (Situation, error) {
	next, ok := s.situations.NextSituation(s.usedSituations, s.rng)
	if !ok {
		s.usedSituations = make(map[Situation]struct{})

		next, ok = s.situations.NextSituation(s.usedSituations, s.rng)
		if !ok {
			return "", ErrNoSituation
		}
	}

	s.usedSituations[next] = struct{}{}

	return next, nil
}
