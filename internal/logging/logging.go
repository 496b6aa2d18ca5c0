// Package logging builds the zap logger used across the program. The
// terminal belongs to the UI, so records only ever go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv overrides the default level when no level is given explicitly.
const LevelEnv = "CYMATIC_LOG_LEVEL"

type Config struct {
	Path  string // log file; empty disables logging
	Level string // debug, info, warn or error
}

// DefaultConfig reads the level from CYMATIC_LOG_LEVEL, defaulting to info.
func DefaultConfig() Config {
	level := "info"
	if env := os.Getenv(LevelEnv); env != "" {
		level = env
	}
	return Config{Level: level}
}

// ParseLevel accepts the usual names case-insensitively, including "warning".
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// New returns a JSON file logger, or a no-op logger when cfg.Path is empty.
// The returned close function syncs and releases the file.
func New(cfg Config) (*zap.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Path == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}

	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", cfg.Path, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zap.NewAtomicLevelAt(level))
	logger := zap.New(core, zap.AddCaller()).Named("cymatic")

	closer := func() error {
		_ = logger.Sync()
		return file.Close()
	}
	return logger, closer, nil
}
