package game

type PlayerView struct {
	Player
	Score    int  `json:"score"`
	HandSize int  `json:"hand_size"`
	IsHost   bool `json:"is_host"`
	Answered bool `json:"answered"`
}

// Snapshot 是给某位玩家看的只读视图，只包含该玩家自己的手牌
type Snapshot struct {
	RoomID    string       `json:"room_id"`
	Stage     Stage        `json:"stage"`
	Round     int          `json:"round"`
	Host      *Player      `json:"host,omitempty"`
	Players   []PlayerView `json:"players"`
	Scores    []ScoreEntry `json:"scores"`
	Situation Situation    `json:"situation,omitempty"`
	Hand      []Card       `json:"hand"`
	Submitted int          `json:"submitted"`
	Required  int          `json:"required"`

	// 评选阶段按提交顺序展示回答卡，不带提交者
	Answers []Card `json:"answers,omitempty"`

	DrawPile    int `json:"draw_pile"`
	DiscardPile int `json:"discard_pile"`
}

func (s *Session) Snapshot(viewerID string) Snapshot {
	players := make([]PlayerView, 0, len(s.players))
	for i, p := range s.players {
		_, answered := s.answered[p.UserID]

		players = append(players, PlayerView{
			Player:   *p,
			Score:    s.scores[p.UserID],
			HandSize: s.hands.Size(p.UserID),
			IsHost:   i == s.hostIndex && s.stage != STAGE_WAITING,
			Answered: answered,
		})
	}

	snap := Snapshot{
		RoomID:      s.roomID,
		Stage:       s.stage,
		Round:       s.round,
		Players:     players,
		Scores:      s.Scores(),
		Situation:   s.situation,
		Hand:        s.hands.Hand(viewerID),
		DrawPile:    s.deck.DrawSize(),
		DiscardPile: s.deck.DiscardSize(),
	}

	if s.stage != STAGE_WAITING {
		snap.Host = s.Host()
		snap.Submitted = len(s.answers)
		snap.Required = s.required()
	}

	if s.stage == STAGE_JUDGING {
		snap.Answers = s.answerCards()
	}

	return snap
}
