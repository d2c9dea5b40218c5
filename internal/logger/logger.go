package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel 解析日志级别，无法识别时使用 info
func ParseLevel(logLevel string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return zap.InfoLevel
	}

	return lvl
}

func InitLogger(logLevel string) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level.SetLevel(ParseLevel(logLevel))

	lgr, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("构建日志器失败: %w", err))
	}

	zap.ReplaceGlobals(lgr)

	zap.L().Info("日志器初始化完成", zap.String("level", cfg.Level.String()))
}
