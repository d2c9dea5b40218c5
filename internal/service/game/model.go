package game

import "math/rand/v2"

// 默认规则
const (
	HAND_SIZE   = 10
	MIN_PLAYERS = 2
)

// 玩家状态
const (
	STATUS_ACTIVE  PlayerStatus = "Active"
	STATUS_PENDING PlayerStatus = "Pending" // 开局后才加入，下一轮补牌时入局
	STATUS_LEFT    PlayerStatus = "Left"    // 已离开，仅保留分数
)

type PlayerStatus string

type Player struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Status      PlayerStatus `json:"status"`
}

// Card 是一张回答卡，按内容区分
type Card string

// Situation 是一轮的情境题目
type Situation string

// Answer 是某位玩家本轮提交、尚未进入弃牌堆的卡
type Answer struct {
	UserID string `json:"user_id"`
	Card   Card   `json:"card"`
}

type Rules struct {
	HandSize   int `json:"hand_size"`
	MinPlayers int `json:"min_players"`
}

func DefaultRules() Rules {
	return Rules{
		HandSize:   HAND_SIZE,
		MinPlayers: MIN_PLAYERS,
	}
}

func (r Rules) normalized() Rules {
	if r.HandSize <= 0 {
		r.HandSize = HAND_SIZE
	}
	if r.MinPlayers < MIN_PLAYERS {
		r.MinPlayers = MIN_PLAYERS
	}

	return r
}

// CardSource 提供整副回答卡
type CardSource interface {
	Cards() []Card
}

// SituationSource 在排除集合之外挑选下一个情境，没有可选时返回 false
type SituationSource interface {
	NextSituation(used map[Situation]struct{}, rng *rand.Rand) (Situation, bool)
}
