package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	_defaultMaxSize    = 100
	_defaultMaxBackups = 7
	_defaultMaxAge     = 30
)

type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel

	maxSize    int
	maxBackups int
	maxAge     int
	console    bool
	stdout     io.Writer
}

func NewZapLogger(cfg *config.Config, opts ...Option) (*ZapLogger, error) {
	const op = "logger.NewZapLogger"

	zl := &ZapLogger{
		level:      zap.NewAtomicLevelAt(zapcore.InfoLevel),
		maxSize:    _defaultMaxSize,
		maxBackups: _defaultMaxBackups,
		maxAge:     _defaultMaxAge,
		console:    cfg.Env == "local",
		stdout:     os.Stdout,
	}

	if level, err := zapcore.ParseLevel(cfg.Logger.Level); err == nil {
		zl.level.SetLevel(level)
	}
	if cfg.Logger.MaxSize > 0 {
		zl.maxSize = cfg.Logger.MaxSize
	}
	if cfg.Logger.MaxBackups > 0 {
		zl.maxBackups = cfg.Logger.MaxBackups
	}
	if cfg.Logger.MaxAge > 0 {
		zl.maxAge = cfg.Logger.MaxAge
	}

	for _, opt := range opts {
		opt(zl)
	}

	if err := zl.validate(); err != nil {
		return nil, fmt.Errorf("%s: validation: %w", op, err)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(zl.stdout), zl.level),
	}
	if zl.console {
		consoleConfig := encoderConfig()
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cores[0] = zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(zl.stdout), zl.level)
	}
	if cfg.Logger.Filename != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    zl.maxSize,
			MaxBackups: zl.maxBackups,
			MaxAge:     zl.maxAge,
			Compress:   true,
		}
		cores = append(cores,
			zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rotated), zl.level))
	}

	zl.logger = zap.New(zapcore.NewTee(cores...),
		zap.Fields(
			zap.String("service", cfg.App.Name),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.Env),
		),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zap.ErrorLevel),
	)

	return zl, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		FunctionKey:   zapcore.OmitKey,
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
}

func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

// Sync flushes buffered entries. Stdout sync errors are ignored by callers.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
