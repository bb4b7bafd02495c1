package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewApplicationLogger constructs a zap logger configured for human-readable
// console output on stderr. Walk warnings use it; disabling logging entirely
// is done by passing zap.NewNop() to the consumers instead.
func NewApplicationLogger() (*zap.Logger, error) {
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Encoding = "console"
	loggerConfig.DisableCaller = true
	loggerConfig.DisableStacktrace = true
	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	loggerConfig.EncoderConfig.TimeKey = ""
	loggerConfig.EncoderConfig.NameKey = ""
	loggerConfig.EncoderConfig.CallerKey = ""
	loggerConfig.EncoderConfig.MessageKey = "message"
	loggerConfig.EncoderConfig.StacktraceKey = ""
	return loggerConfig.Build()
}
