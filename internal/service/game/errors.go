package game

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughPlayers = errors.New("玩家数量不足")
	ErrAlreadyStarted   = errors.New("游戏已经开始")
	ErrInvalidState     = errors.New("当前阶段不允许该操作")
	ErrNotYourTurn      = errors.New("当前不是你的回合")
	ErrInvalidCard      = errors.New("这张卡不在你的手牌中")
	ErrDuplicateAnswer  = errors.New("本轮已经提交过回答")
	ErrNotJudging       = errors.New("当前不是评选阶段")
	ErrIndexOutOfRange  = errors.New("回答序号超出范围")
	ErrUnknownPlayer    = errors.New("玩家不在房间中")
	ErrInvalidPlayer    = errors.New("玩家 ID 不能为空")
	ErrNoSituation      = errors.New("没有可用的情境")

	ErrNotCollecting = fmt.Errorf("%w：当前不在收集回答阶段", ErrInvalidState)
)
