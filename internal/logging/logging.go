// Package logging builds the zap loggers used throughout the pipeline,
// rotating file output per component through lumberjack.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rotation policy: rotate at 10 MB, keep 30 files.
const (
	maxSizeMB  = 10
	maxBackups = 30
)

// New builds a zap.Logger for the named component (e.g. "fetch", "extract",
// "enrich"), writing structured JSON both to stdout and to a rotating file
// at logs/<component>.log. level selects the minimum enabled level
// ("DEBUG", "INFO", "WARN", "ERROR"); unrecognized values fall back to INFO.
func New(component string, level string) (*zap.Logger, error) {
	zapLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fmt.Sprintf("logs/%s.log", component),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   false,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, fileWriter, zapLevel),
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), zapLevel),
	)

	logger := zap.New(core, zap.AddCaller()).With(zap.String("component", component))
	return logger, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "", "INFO":
		return zapcore.InfoLevel, nil
	case "WARN", "WARNING":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, nil
	}
}
