package observability

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/san-kum/fluidbg/internal/config"
	"github.com/san-kum/fluidbg/internal/palette"
)

const colorReset = "\x1b[0m"

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
	// level is shared by every core so SetLevel and Quiet affect the live
	// logger.
	level = zap.NewAtomicLevel()
)

// Initialize builds the process logger once. Later calls are no-ops until
// ResetForTest.
func Initialize(cfg config.LoggerConfig, consoleWriter zapcore.WriteSyncer) {
	once.Do(func() {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		cores := []zapcore.Core{zapcore.NewCore(newEncoder(cfg), consoleWriter, level)}
		if cfg.LogFile != "" {
			rotating := &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
			// file entries are always JSON
			cores = append(cores, zapcore.NewCore(newEncoder(config.LoggerConfig{Format: "json"}), zapcore.AddSync(rotating), level))
		}

		opts := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
		if cfg.AddSource {
			opts = append(opts, zap.AddCaller())
		}

		logger := zap.New(zapcore.NewTee(cores...), opts...)
		if cfg.ServiceName != "" {
			logger = logger.Named(cfg.ServiceName)
		}
		globalLogger.Store(logger)
		zap.ReplaceGlobals(logger)
	})
}

// InitializeLogger logs to stderr so stdout stays free for data URIs and
// JSON output.
func InitializeLogger(cfg config.LoggerConfig) {
	Initialize(cfg, zapcore.Lock(os.Stderr))
}

// SetLevel changes the level of the running logger.
func SetLevel(name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	level.SetLevel(l)
	return nil
}

// Quiet drops everything below error while a full-screen view owns the
// terminal. The returned func restores the previous level.
func Quiet() (restore func()) {
	prev := level.Level()
	if prev < zap.ErrorLevel {
		level.SetLevel(zap.ErrorLevel)
	}
	return func() { level.SetLevel(prev) }
}

// ResetForTest clears the global logger. Tests only.
func ResetForTest() {
	globalLogger.Store(nil)
	once = sync.Once{}
	level.SetLevel(zap.InfoLevel)
}

// levelColor resolves a configured color to a truecolor escape. Names come
// from the default palette ("cyan", "dark_blue", ...); "#rrggbb" is also
// accepted. Anything else disables coloring for that level.
func levelColor(name string) string {
	if name == "" {
		return ""
	}
	var c colorful.Color
	if strings.HasPrefix(name, "#") {
		parsed, err := colorful.Hex(name)
		if err != nil {
			return ""
		}
		c = parsed
	} else {
		named, err := palette.Default().Color(name)
		if err != nil {
			return ""
		}
		c = named
	}
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

func levelEncoder(colors config.ColorConfig) zapcore.LevelEncoder {
	escapes := map[zapcore.Level]string{
		zapcore.DebugLevel: levelColor(colors.Debug),
		zapcore.InfoLevel:  levelColor(colors.Info),
		zapcore.WarnLevel:  levelColor(colors.Warn),
		zapcore.ErrorLevel: levelColor(colors.Error),
	}
	fatal := levelColor(colors.Fatal)

	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		esc, ok := escapes[l]
		if !ok {
			esc = fatal
		}
		label := l.CapitalString()
		if esc == "" {
			enc.AppendString(label)
			return
		}
		enc.AppendString(esc + label + colorReset)
	}
}

func newEncoder(cfg config.LoggerConfig) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	if cfg.Format != "console" {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = levelEncoder(cfg.Colors)
	ec.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(name + ".")
	}
	return zapcore.NewConsoleEncoder(ec)
}

// GetLogger returns the process logger, or a development logger when
// Initialize has not run.
func GetLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("fallback")
}

// Sync flushes buffered entries. Terminals reject fsync on stderr; those
// errors are not reported.
func Sync() {
	logger := globalLogger.Load()
	if logger == nil {
		return
	}
	err := logger.Sync()
	if err == nil {
		return
	}
	for _, benign := range []string{"/dev/std", "invalid argument", "inappropriate ioctl", "operation not supported"} {
		if strings.Contains(err.Error(), benign) {
			return
		}
	}
	fmt.Fprintln(os.Stderr, "failed to sync logger:", err)
}
