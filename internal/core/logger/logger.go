package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() *zap.Logger {
	return newLogger(zap.NewDevelopmentConfig())
}

func NewProductionLogger() *zap.Logger {
	return newLogger(zap.NewProductionConfig())
}

// ForEnv picks the production config for "production" and the development config otherwise.
func ForEnv(env string) *zap.Logger {
	if env == "production" {
		return NewProductionLogger()
	}
	return NewLogger()
}

func newLogger(loggerConfig zap.Config) *zap.Logger {
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := loggerConfig.Build()
	if nil != err {
		panic(err)
	}

	return logger
}
