package game

import (
	"go.uber.org/zap"
)

// 一局游戏循环经过以下阶段，没有终止阶段，直到房间被外部销毁：
// 1. 等待阶段（Waiting）：玩家加入，人数够了之后开始游戏
// 2. 发牌阶段（Dealing）：选情境、洗牌并给非主持人玩家发初始手牌
// 3. 收集阶段（Collecting）：非主持人玩家各提交一张回答卡
// 4. 评选阶段（Judging）：主持人按提交顺序选出最喜欢的回答
// 5. 计分阶段（Scoring）：胜者加一分，轮换主持人、补牌，进入下一轮
// 发牌和计分阶段只在触发它们的操作内部短暂停留
const (
	STAGE_WAITING    Stage = "Waiting"
	STAGE_DEALING    Stage = "Dealing"
	STAGE_COLLECTING Stage = "Collecting"
	STAGE_JUDGING    Stage = "Judging"
	STAGE_SCORING    Stage = "Scoring"
)

type Stage string

// StageHandler 是某个阶段的进入和离开动作。
// 各阶段允许的操作由 Session 的方法自行校验。
type StageHandler interface {
	Stage() Stage
	OnEnter(s *Session)
	OnExit(s *Session)
}

func newStageHandler(stage Stage) StageHandler {
	switch stage {
	case STAGE_WAITING:
		return waitStageHandler{}
	case STAGE_DEALING:
		return dealStageHandler{}
	case STAGE_COLLECTING:
		return collectStageHandler{}
	case STAGE_JUDGING:
		return judgeStageHandler{}
	case STAGE_SCORING:
		return scoreStageHandler{}
	}

	zap.L().Error("未知的游戏阶段", zap.String("stage", string(stage)))

	return waitStageHandler{}
}

// switchStage 执行当前阶段的 OnExit，切换后执行新阶段的 OnEnter
func (s *Session) switchStage(next Stage) {
	zap.L().Debug(
		"切换游戏阶段",
		zap.String("room_id", s.roomID),
		zap.String("from", string(s.stage)),
		zap.String("to", string(next)),
		zap.Int("round", s.round),
	)

	s.handler.OnExit(s)

	s.stage = next
	s.handler = newStageHandler(next)

	s.handler.OnEnter(s)
}

type waitStageHandler struct{}

func (waitStageHandler) Stage() Stage {
	return STAGE_WAITING
}

// 回到等待阶段时收回所有牌，分数和主持人轮换保留
func (waitStageHandler) OnEnter(s *Session) {
	s.returnAllCards()
	s.activatePending()
	s.situation = ""
}

func (waitStageHandler) OnExit(*Session) {}

type dealStageHandler struct{}

func (dealStageHandler) Stage() Stage {
	return STAGE_DEALING
}

func (dealStageHandler) OnEnter(s *Session) {
	answering := s.answeringIDs()

	s.deck.prepare(
		s.cards.Cards(),
		s.deck.takePlayed(),
		len(answering)*s.rules.HandSize,
	)
	s.hands.dealInitial(s.deck, answering, s.rules.HandSize)

	zap.L().Info(
		"发牌完成",
		zap.String("room_id", s.roomID),
		zap.Int("round", s.round),
		zap.Int("players", len(answering)),
		zap.Int("draw_pile", s.deck.DrawSize()),
	)

	s.switchStage(STAGE_COLLECTING)
}

func (dealStageHandler) OnExit(*Session) {}

type collectStageHandler struct{}

func (collectStageHandler) Stage() Stage {
	return STAGE_COLLECTING
}

func (collectStageHandler) OnEnter(s *Session) {
	s.ensureAnswerable()
}

func (collectStageHandler) OnExit(s *Session) {
	zap.L().Debug(
		"回答收集结束",
		zap.String("room_id", s.roomID),
		zap.Int("round", s.round),
		zap.Int("submitted", len(s.answers)),
	)
}

type judgeStageHandler struct{}

func (judgeStageHandler) Stage() Stage {
	return STAGE_JUDGING
}

func (judgeStageHandler) OnEnter(*Session) {}

func (judgeStageHandler) OnExit(*Session) {}

type scoreStageHandler struct{}

func (scoreStageHandler) Stage() Stage {
	return STAGE_SCORING
}

func (scoreStageHandler) OnEnter(s *Session) {
	s.advanceRound()
}

func (scoreStageHandler) OnExit(*Session) {}

// advanceRound 结算本轮的牌并开始下一轮
func (s *Session) advanceRound() {
	s.deck.retire(s.answerCards())
	s.clearAnswers()
	s.activatePending()

	if s.countActive() < s.rules.MinPlayers {
		zap.L().Info(
			"在局玩家不足，回到等待阶段",
			zap.String("room_id", s.roomID),
			zap.Int("active", s.countActive()),
		)
		s.switchStage(STAGE_WAITING)
		return
	}

	situation, err := s.pickSituation()
	if err != nil {
		zap.L().Error(
			"无法选出下一轮情境",
			zap.String("room_id", s.roomID),
			zap.Error(err),
		)
		s.switchStage(STAGE_WAITING)
		return
	}

	s.hostIndex = s.nextActive(s.hostIndex)
	s.round++
	s.situation = situation

	// 新主持人保留手牌，其余在局玩家补满
	s.hands.refill(s.deck, s.answeringIDs(), s.rules.HandSize)

	s.switchStage(STAGE_COLLECTING)
}

// ensureAnswerable 保证收集阶段至少有一位玩家能回答。
// 先从牌堆补牌；仍然没人有牌时，收回主持人的手牌再补，本轮主持人用不到手牌。
func (s *Session) ensureAnswerable() {
	if s.stage != STAGE_COLLECTING || len(s.answers) > 0 || len(s.waitingAnswers()) > 0 {
		return
	}

	answering := s.answeringIDs()
	s.hands.refill(s.deck, answering, s.rules.HandSize)

	if len(s.waitingAnswers()) == 0 && s.hostIndex >= 0 {
		s.deck.putBack(s.hands.collect(s.players[s.hostIndex].UserID)...)
		s.hands.refill(s.deck, answering, s.rules.HandSize)
	}

	zap.L().Info(
		"没有玩家能回答，重新补牌",
		zap.String("room_id", s.roomID),
		zap.Int("round", s.round),
		zap.Int("answering", len(s.waitingAnswers())),
	)
}
