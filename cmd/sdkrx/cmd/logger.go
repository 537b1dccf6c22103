package cmd

import (
	"strings"

	"go.uber.org/zap"
)

func setupLogger() (*zap.Logger, error) {
	level := logLevel

	if debug {
		level = "debug"
	} else if verbose && level == "info" {
		level = "debug"
	}

	var zapLevel zap.AtomicLevel
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn", "warning":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config := zap.NewProductionConfig()
	config.Level = zapLevel
	config.Development = debug
	// stdout carries events
	config.OutputPaths = []string{"stderr"}

	return config.Build()
}
