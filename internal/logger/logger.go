package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

// Init инициализирует глобальный логгер
// env: "development" - читаемый консольный вывод, иначе JSON для парсинга
func Init(env string) {
	var cfg zap.Config
	switch env {
	case "development":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "test":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	default:
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewExample()
	}
	base = l
	sugar = l.Sugar()
	zap.ReplaceGlobals(l)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync сбрасывает буферы (вызывать перед выходом)
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

func Debug(msg string, args ...any) {
	GetLogger().Debugw(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Infow(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warnw(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Errorw(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Errorw(msg, args...)
	Sync()
	os.Exit(1)
}

// With создает логгер с дополнительными полями
// Пример: logger.With("family_id", id).Info("rsvp submitted")
func With(args ...any) *zap.SugaredLogger {
	return GetLogger().With(args...)
}

// WithError создает логгер с полем error
func WithError(err error) *zap.SugaredLogger {
	return GetLogger().With(zap.Error(err))
}

// WorkerLog логирует операцию фонового воркера
func WorkerLog(worker, operation string, err error) {
	if err != nil {
		GetLogger().Errorw("worker operation failed", "worker", worker, "operation", operation, zap.Error(err))
		return
	}
	GetLogger().Debugw("worker operation completed", "worker", worker, "operation", operation)
}
