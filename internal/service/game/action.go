package game

// JoinResult 中 Added 为 false 表示玩家已在房间中
type JoinResult struct {
	Player Player `json:"player"`
	Added  bool   `json:"added"`
	Stage  Stage  `json:"stage"`
}

type SubmitResult struct {
	Stage     Stage `json:"stage"`
	Submitted int   `json:"submitted"`
	Required  int   `json:"required"`
}

// RoundResult 描述一轮评选的结果。
// 调用方可以用 Situation 和 Answer 去生成内容，生成结果不会影响游戏状态。
type RoundResult struct {
	Round     int          `json:"round"`
	Situation Situation    `json:"situation"`
	Winner    Player       `json:"winner"`
	Answer    Card         `json:"answer"`
	Answers   []Answer     `json:"answers"`
	Scores    []ScoreEntry `json:"scores"`

	NextStage Stage   `json:"next_stage"`
	NextRound int     `json:"next_round"`
	NextHost  *Player `json:"next_host,omitempty"`
}

type ScoreEntry struct {
	Player Player `json:"player"`
	Score  int    `json:"score"`
}
