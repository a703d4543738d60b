package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"parcel/internal/config"
)

// NewLogger builds a JSON logger for production and a console logger otherwise.
func NewLogger(cfg config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}
