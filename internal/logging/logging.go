// Package logging builds the planner's structured logger: a console
// sink plus an optional rotating file sink.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a *zap.SugaredLogger at the given level, writing to
// stderr and, if filePath is non-empty, also to a rotating log file.
func New(level string, filePath string) (*zap.SugaredLogger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), lvl),
	}

	if filePath != "" {
		rotator := &lumberjack.Logger{
			Filename: filePath,
			MaxSize:  100, // megabytes
			MaxAge:   28,  // days
			Compress: true,
		}
		fileEncoder := zapcore.NewJSONEncoder(encoderCfg)
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), lvl))
	}

	core := zapcore.NewTee(cores...)
	logger := zap.New(core)
	return logger.Sugar(), nil
}
