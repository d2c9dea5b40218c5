package game

import (
	"sort"

	"go.uber.org/zap"
)

// AddPlayer 把玩家加入房间。已在房间中的玩家重复加入不做任何改动。
// 等待阶段加入的玩家立即在局；开局后加入的玩家从下一轮开始参与。
func (s *Session) AddPlayer(userID, displayName string) (JoinResult, error) {
	if userID == "" {
		return JoinResult{}, ErrInvalidPlayer
	}

	status := STATUS_PENDING
	if s.stage == STAGE_WAITING {
		status = STATUS_ACTIVE
	}

	if idx, ok := s.seats[userID]; ok {
		p := s.players[idx]
		if displayName != "" {
			p.DisplayName = displayName
		}

		if p.Status != STATUS_LEFT {
			return JoinResult{Player: *p, Stage: s.stage}, nil
		}

		// 离开后重新加入，保留原有座位和分数
		p.Status = status

		zap.L().Info(
			"玩家重新加入房间",
			zap.String("room_id", s.roomID),
			zap.String("user_id", userID),
			zap.String("status", string(status)),
		)

		return JoinResult{Player: *p, Added: true, Stage: s.stage}, nil
	}

	p := &Player{
		UserID:      userID,
		DisplayName: displayName,
		Status:      status,
	}

	s.seats[userID] = len(s.players)
	s.players = append(s.players, p)
	s.scores[userID] = 0

	zap.L().Info(
		"玩家加入房间",
		zap.String("room_id", s.roomID),
		zap.String("user_id", userID),
		zap.String("status", string(status)),
	)

	return JoinResult{Player: *p, Added: true, Stage: s.stage}, nil
}

// Start 开始游戏：确定主持人、选情境、发牌，进入收集阶段
func (s *Session) Start() error {
	if s.stage != STAGE_WAITING {
		return ErrAlreadyStarted
	}

	if s.countActive() < s.rules.MinPlayers {
		return ErrNotEnoughPlayers
	}

	host := s.hostIndex
	if host < 0 {
		host = s.nextActive(-1)
	} else if s.players[host].Status != STATUS_ACTIVE {
		host = s.nextActive(host)
	}

	situation, err := s.pickSituation()
	if err != nil {
		return err
	}

	s.hostIndex = host
	s.round++
	s.situation = situation
	s.clearAnswers()

	zap.L().Info(
		"游戏开始",
		zap.String("room_id", s.roomID),
		zap.String("host", s.players[host].UserID),
		zap.Int("round", s.round),
	)

	s.switchStage(STAGE_DEALING)

	return nil
}

// SubmitAnswer 记录一位玩家的回答。
// 收齐所有需要的回答的那一次调用会把房间切换到评选阶段。
func (s *Session) SubmitAnswer(userID string, card Card) (SubmitResult, error) {
	if s.stage != STAGE_COLLECTING {
		return SubmitResult{}, ErrNotCollecting
	}

	idx, ok := s.seats[userID]
	if !ok {
		return SubmitResult{}, ErrUnknownPlayer
	}

	if idx == s.hostIndex || s.players[idx].Status != STATUS_ACTIVE {
		return SubmitResult{}, ErrNotYourTurn
	}

	if _, ok := s.answered[userID]; ok {
		return SubmitResult{}, ErrDuplicateAnswer
	}

	if !s.hands.has(userID, card) {
		return SubmitResult{}, ErrInvalidCard
	}

	s.hands.take(userID, card)
	s.answers = append(s.answers, Answer{UserID: userID, Card: card})
	s.answered[userID] = struct{}{}

	zap.L().Debug(
		"收到回答",
		zap.String("room_id", s.roomID),
		zap.String("user_id", userID),
		zap.Int("submitted", len(s.answers)),
	)

	if s.answersComplete() {
		s.switchStage(STAGE_JUDGING)
	}

	return SubmitResult{
		Stage:     s.stage,
		Submitted: len(s.answers),
		Required:  s.required(),
	}, nil
}

// required 返回本轮应当收到的回答数（已提交 + 仍需提交）
func (s *Session) required() int {
	return len(s.answers) + len(s.waitingAnswers())
}

// PickWinner 按提交顺序选出获胜回答，胜者加一分并自动进入下一轮
func (s *Session) PickWinner(index int) (RoundResult, error) {
	if s.stage != STAGE_JUDGING {
		return RoundResult{}, ErrNotJudging
	}

	if index < 0 || index >= len(s.answers) {
		return RoundResult{}, ErrIndexOutOfRange
	}

	win := s.answers[index]
	s.scores[win.UserID]++

	result := RoundResult{
		Round:     s.round,
		Situation: s.situation,
		Winner:    *s.players[s.seats[win.UserID]],
		Answer:    win.Card,
		Answers:   append([]Answer(nil), s.answers...),
	}

	zap.L().Info(
		"本轮评选完成",
		zap.String("room_id", s.roomID),
		zap.Int("round", s.round),
		zap.String("winner", win.UserID),
	)

	s.switchStage(STAGE_SCORING)

	result.Scores = s.Scores()
	result.NextStage = s.stage
	result.NextRound = s.round
	result.NextHost = s.Host()

	return result, nil
}

// PickWinnerAs 与 PickWinner 相同，但只允许当前主持人评选
func (s *Session) PickWinnerAs(userID string, index int) (RoundResult, error) {
	if s.stage != STAGE_JUDGING {
		return RoundResult{}, ErrNotJudging
	}

	if !s.isHost(userID) {
		return RoundResult{}, ErrNotYourTurn
	}

	return s.PickWinner(index)
}

// RemovePlayer 把玩家标记为已离开：手牌回到弃牌堆，分数保留。
// 主持人离开或在局人数不足时，本轮作废，不计分。
func (s *Session) RemovePlayer(userID string) error {
	idx, ok := s.seats[userID]
	if !ok {
		return ErrUnknownPlayer
	}

	p := s.players[idx]
	if p.Status == STATUS_LEFT {
		return nil
	}

	inRound := s.stage == STAGE_COLLECTING || s.stage == STAGE_JUDGING
	wasHost := inRound && idx == s.hostIndex

	p.Status = STATUS_LEFT
	s.deck.putBack(s.hands.collect(userID)...)

	zap.L().Info(
		"玩家离开房间",
		zap.String("room_id", s.roomID),
		zap.String("user_id", userID),
		zap.String("stage", string(s.stage)),
	)

	if !inRound {
		return nil
	}

	if wasHost || s.countActive() < s.rules.MinPlayers {
		zap.L().Info(
			"本轮作废",
			zap.String("room_id", s.roomID),
			zap.Int("round", s.round),
			zap.Bool("host_left", wasHost),
		)
		s.advanceRound()
		return nil
	}

	// 有手牌的玩家都走了时，把空出来的牌补给剩下的人
	s.ensureAnswerable()

	if s.stage == STAGE_COLLECTING && s.answersComplete() {
		s.switchStage(STAGE_JUDGING)
	}

	return nil
}

// Reset 清空分数并回到等待阶段，玩家保留
func (s *Session) Reset() {
	for id := range s.scores {
		s.scores[id] = 0
	}

	s.switchStage(STAGE_WAITING)
	s.hostIndex = -1
	s.round = 0

	zap.L().Info("房间已重置", zap.String("room_id", s.roomID))
}

// Scores 按分数从高到低返回，同分按加入顺序
func (s *Session) Scores() []ScoreEntry {
	entries := make([]ScoreEntry, 0, len(s.players))
	for _, p := range s.players {
		entries = append(entries, ScoreEntry{Player: *p, Score: s.scores[p.UserID]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return entries
}
