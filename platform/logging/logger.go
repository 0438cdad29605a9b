package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config описывает, как собрать logger для сервиса витрины
type Config struct {
	// ServiceName попадает в поле service каждой записи (storefront, checkout-tail)
	ServiceName string
	// Env окружение (local/docker)
	Env string
	// Level уровень логирования (debug/info/warn/error), по умолчанию info
	Level string
	// Format "json" или "console"; по умолчанию local=console, docker=json
	Format string
	// AddCaller добавлять ли file:line; для local включается автоматически
	AddCaller bool
	// Output куда писать; nil означает os.Stderr
	Output zapcore.WriteSyncer
}

// New создаёт zap.Logger по конфигу.
// Поля service и env добавляются ко всем записям.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = defaultFormat(cfg.Env)
	}
	if cfg.Env == "local" {
		cfg.AddCaller = true
	}
	if cfg.Output == nil {
		cfg.Output = zapcore.AddSync(os.Stderr)
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig())
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig())
	default:
		return nil, fmt.Errorf("invalid log format: %s (must be json/console)", cfg.Format)
	}

	core := zapcore.NewCore(encoder, cfg.Output, level)

	var opts []zap.Option
	if cfg.AddCaller {
		opts = append(opts, zap.AddCaller())
	}

	return zap.New(core, opts...).With(
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Env),
	), nil
}

// Sync дописывает буфер, игнорируя ошибки вида "sync /dev/stderr: invalid argument"
func Sync(log *zap.Logger) {
	_ = log.Sync()
}

func defaultFormat(env string) string {
	if env == "docker" {
		return "json"
	}
	return "console"
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", s)
}

// encoderConfig общий набор ключей для json и console форматов
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
