package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewHCLogger returns an hclog.Logger whose entries are re-emitted through l,
// so libraries that only speak hclog (the retryable HTTP client) end up in
// the same sink as the rest of the program. Level filtering is left to l.
func NewHCLogger(l Logger) hclog.Logger {
	intercept := hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Output: io.Discard,
		Level:  hclog.Trace,
	})
	intercept.RegisterSink(&hclogSink{logger: l})
	return intercept
}

type hclogSink struct {
	logger Logger
}

func (s *hclogSink) Accept(name string, level hclog.Level, msg string, args ...interface{}) {
	fields := pairsToFields(args)
	if name != "" {
		fields = append(fields, String("logger", name))
	}

	switch level {
	case hclog.Trace:
		s.logger.Trace(msg, fields...)
	case hclog.Debug:
		s.logger.Debug(msg, fields...)
	case hclog.Warn:
		s.logger.Warn(msg, fields...)
	case hclog.Error:
		s.logger.Error(msg, fields...)
	default:
		s.logger.Info(msg, fields...)
	}
}

// pairsToFields converts hclog's alternating key/value arguments. An odd
// trailing value is kept under hclog's own "EXTRA_VALUE_AT_END" key.
func pairsToFields(args []interface{}) []TypedField {
	fields := make([]TypedField, 0, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields = append(fields, Any("EXTRA_VALUE_AT_END", args[i]))
			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}

		switch v := args[i+1].(type) {
		case string:
			fields = append(fields, String(key, v))
		case int:
			fields = append(fields, Int(key, v))
		case bool:
			fields = append(fields, Bool(key, v))
		case time.Duration:
			fields = append(fields, Duration(key, v))
		case error:
			fields = append(fields, ErrorField{Key: key, Value: v})
		default:
			fields = append(fields, Any(key, v))
		}
	}
	return fields
}
