// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// Each binary writes lifecycle and error events to one JSON log per day
// under `<root>/logs/<app>-YYYY-MM-DD.log`.  When running in an
// interactive TTY the same events are teed, human-readable, to stdout.
// Rotation, compression, and retention are handled by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(logger.Options{Root: cfg.Paths.Root, App: "web", Level: cfg.Log.Level, Tee: tty})
//	if err != nil { … }
//	log.Infow("listening", "addr", addr)
//
// Notes
// -----
// • ISO-8601 timestamps and lowercase levels.
// • Errors are written to the same sink via `ErrorOutput`.
package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	Root  string // repo or install root; logs go to <Root>/logs
	App   string // file prefix, e.g. "web" or "api"
	Level string // debug | info | warn | error
	Tee   bool   // also write to stdout
}

// New returns a *zap.SugaredLogger and installs it as the process-wide
// default via zap.ReplaceGlobals.
func New(o Options) (*zap.SugaredLogger, error) {
	logDir := filepath.Join(o.Root, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	name := time.Now().Format("2006-01-02") + ".log"
	if o.App != "" {
		name = o.App + "-" + name
	}
	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, name),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}

	level := ParseLevel(o.Level)

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		NameKey:      "logger",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), level),
	}
	if o.Tee {
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
		zap.AddCaller(),
	)
	if o.App != "" {
		z = z.Named(o.App)
	}

	zap.ReplaceGlobals(z)

	s := z.Sugar()
	s.Infow("logger online", "tee", o.Tee, "level", level.String())
	return s, nil
}

// ParseLevel maps a config string to a zap level; unknown values mean info.
func ParseLevel(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// Bootstrap installs a console-only development logger so config loading
// can log before the file logger exists.
func Bootstrap() {
	z, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	zap.ReplaceGlobals(z)
}

// RunningInTTY returns true when stdout is a character device.
func RunningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
