package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"situations-party-be/internal/service/game"

	"github.com/spf13/viper"
)

const CONFIG_FILE = "app_config"

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	CardPoolPath    string `mapstructure:"card_pool_path"`
	HandSize        int    `mapstructure:"hand_size"`
	MinPlayers      int    `mapstructure:"min_players"`
	RoomIdleMinutes int    `mapstructure:"room_idle_minutes"`

	// 每个 WebSocket 连接的入站消息限速
	WsActionsPerSecond float64 `mapstructure:"ws_actions_per_second"`
	WsActionBurst      int     `mapstructure:"ws_action_burst"`
}

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	config, err := LoadConfig(CONFIG_FILE)
	if err != nil {
		panic(err)
	}

	cfg = config

	return config
}

// LoadConfig 读取 json 配置文件，文件不存在时全部使用默认值
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("card_pool_path", "cards.yaml")
	v.SetDefault("hand_size", game.HAND_SIZE)
	v.SetDefault("min_players", game.MIN_PLAYERS)
	v.SetDefault("room_idle_minutes", 30)
	v.SetDefault("ws_actions_per_second", 5)
	v.SetDefault("ws_action_burst", 10)

	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return &config, nil
}

func (c *AppConfig) Rules() game.Rules {
	return game.Rules{
		HandSize:   c.HandSize,
		MinPlayers: c.MinPlayers,
	}
}

// IdleTimeout 为 0 表示不清理空闲房间
func (c *AppConfig) IdleTimeout() time.Duration {
	if c.RoomIdleMinutes <= 0 {
		return 0
	}

	return time.Duration(c.RoomIdleMinutes) * time.Minute
}
