package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func (f StringField) apply(event *zerolog.Event) *zerolog.Event { return event.Str(f.Key, f.Value) }
func (f StringField) with(ctx zerolog.Context) zerolog.Context  { return ctx.Str(f.Key, f.Value) }

func (f IntField) apply(event *zerolog.Event) *zerolog.Event { return event.Int(f.Key, f.Value) }
func (f IntField) with(ctx zerolog.Context) zerolog.Context  { return ctx.Int(f.Key, f.Value) }

func (f BoolField) apply(event *zerolog.Event) *zerolog.Event { return event.Bool(f.Key, f.Value) }
func (f BoolField) with(ctx zerolog.Context) zerolog.Context  { return ctx.Bool(f.Key, f.Value) }

func (f DurationField) apply(event *zerolog.Event) *zerolog.Event { return event.Dur(f.Key, f.Value) }
func (f DurationField) with(ctx zerolog.Context) zerolog.Context  { return ctx.Dur(f.Key, f.Value) }

func (f ErrorField) apply(event *zerolog.Event) *zerolog.Event { return event.AnErr(f.Key, f.Value) }
func (f ErrorField) with(ctx zerolog.Context) zerolog.Context  { return ctx.AnErr(f.Key, f.Value) }

func (f AnyField) apply(event *zerolog.Event) *zerolog.Event { return event.Interface(f.Key, f.Value) }
func (f AnyField) with(ctx zerolog.Context) zerolog.Context  { return ctx.Interface(f.Key, f.Value) }

// ZerologLogger implements Logger using zerolog
type ZerologLogger struct {
	logger     zerolog.Logger
	config     *Config
	subsystem  string
	fileWriter *lumberjack.Logger
}

// NewZerologLogger creates a new ZerologLogger. The level is set on the
// logger itself; the zerolog global level is left untouched.
func NewZerologLogger(config *Config) Logger {
	if config == nil {
		config = DefaultConfig()
	}

	var writers []io.Writer
	var fileWriter *lumberjack.Logger

	if config.FileConfig != nil {
		if err := os.MkdirAll(filepath.Dir(config.FileConfig.Filename), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		} else {
			fileWriter = &lumberjack.Logger{
				Filename:   config.FileConfig.Filename,
				MaxSize:    config.FileConfig.MaxSize,
				MaxAge:     config.FileConfig.MaxAge,
				MaxBackups: config.FileConfig.MaxBackups,
				Compress:   config.FileConfig.Compress,
				LocalTime:  true,
			}
			writers = append(writers, fileWriter)
		}
	}

	for _, output := range config.Outputs {
		if config.Format == DefaultFormat {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: "15:04:05",
				NoColor:    config.NoColor,
				PartsOrder: []string{
					zerolog.TimestampFieldName,
					zerolog.LevelFieldName,
					"module",
					zerolog.MessageFieldName,
				},
			})
		} else {
			writers = append(writers, output)
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(writer).Level(config.Level.zerolog()).With().Timestamp().Logger()

	if config.Subsystem != "" {
		logger = logger.With().Str("module", config.Subsystem).Logger()
	}

	return &ZerologLogger{
		logger:     logger,
		config:     config,
		subsystem:  config.Subsystem,
		fileWriter: fileWriter,
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return &ZerologLogger{
		logger: zerolog.Nop(),
		config: &Config{Level: ErrorLevel},
	}
}

func (zl *ZerologLogger) logWithFields(level zerolog.Level, msg string, fields []TypedField) {
	if zl.logger.GetLevel() > level {
		return
	}

	event := zl.logger.WithLevel(level)
	for _, f := range fields {
		event = f.apply(event)
	}
	event.Msg(msg)
}

func (zl *ZerologLogger) Trace(msg string, fields ...TypedField) {
	zl.logWithFields(zerolog.TraceLevel, msg, fields)
}

func (zl *ZerologLogger) Debug(msg string, fields ...TypedField) {
	zl.logWithFields(zerolog.DebugLevel, msg, fields)
}

func (zl *ZerologLogger) Info(msg string, fields ...TypedField) {
	zl.logWithFields(zerolog.InfoLevel, msg, fields)
}

func (zl *ZerologLogger) Warn(msg string, fields ...TypedField) {
	zl.logWithFields(zerolog.WarnLevel, msg, fields)
}

func (zl *ZerologLogger) Error(msg string, fields ...TypedField) {
	zl.logWithFields(zerolog.ErrorLevel, msg, fields)
}

func (zl *ZerologLogger) Debugf(format string, args ...interface{}) {
	zl.logger.Debug().Msgf(format, args...)
}

func (zl *ZerologLogger) Infof(format string, args ...interface{}) {
	zl.logger.Info().Msgf(format, args...)
}

func (zl *ZerologLogger) Warnf(format string, args ...interface{}) {
	zl.logger.Warn().Msgf(format, args...)
}

// WithSubsystem creates a child logger; nested names are joined with ".".
func (zl *ZerologLogger) WithSubsystem(name string) Logger {
	subsystem := name
	if zl.subsystem != "" {
		subsystem = zl.subsystem + "." + name
	}
	return &ZerologLogger{
		logger:     zl.logger.With().Str("module", subsystem).Logger(),
		config:     zl.config,
		subsystem:  subsystem,
		fileWriter: zl.fileWriter,
	}
}

// WithFields creates a new logger with additional fields
func (zl *ZerologLogger) WithFields(fields ...TypedField) Logger {
	if len(fields) == 0 {
		return zl
	}

	ctx := zl.logger.With()
	for _, f := range fields {
		ctx = f.with(ctx)
	}

	return &ZerologLogger{
		logger:     ctx.Logger(),
		config:     zl.config,
		subsystem:  zl.subsystem,
		fileWriter: zl.fileWriter,
	}
}

// IsLevelEnabled checks if a log level is enabled
func (zl *ZerologLogger) IsLevelEnabled(level LogLevel) bool {
	return zl.logger.GetLevel() <= level.zerolog()
}

// Close closes the file writer, if any.
func (zl *ZerologLogger) Close() error {
	if zl.fileWriter != nil {
		return zl.fileWriter.Close()
	}
	return nil
}
