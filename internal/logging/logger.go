// Package logging builds the zap logger shared by the server and the consumer.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Encoding selects the log output format.
type Encoding string

const (
	EncodingConsole Encoding = "console"
	EncodingJSON    Encoding = "json"
)

// Options configures New.
type Options struct {
	Level            string
	Encoding         Encoding
	OutputPaths      []string
	ErrorOutputPaths []string
	InitialFields    map[string]any
}

type Option func(*Options)

func WithLevel(level string) Option {
	return func(o *Options) {
		o.Level = level
	}
}

func WithEncoding(encoding Encoding) Option {
	return func(o *Options) {
		o.Encoding = encoding
	}
}

func WithOutputPaths(paths ...string) Option {
	return func(o *Options) {
		o.OutputPaths = paths
	}
}

// WithField adds a field to every entry.
func WithField(key string, value any) Option {
	return func(o *Options) {
		if o.InitialFields == nil {
			o.InitialFields = make(map[string]any)
		}

		o.InitialFields[key] = value
	}
}

// New builds a logger. Defaults are info level, console encoding, stdout.
func New(opts ...Option) (*zap.Logger, error) {
	options := Options{
		Level:            "info",
		Encoding:         EncodingConsole,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Encoding != EncodingConsole && options.Encoding != EncodingJSON {
		return nil, fmt.Errorf("unknown log encoding %q", options.Encoding)
	}

	level, err := zap.ParseAtomicLevel(options.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	if options.Encoding == EncodingConsole {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	conf := zap.Config{
		Level:            level,
		Development:      options.Encoding == EncodingConsole,
		Encoding:         string(options.Encoding),
		EncoderConfig:    encoderConfig,
		OutputPaths:      options.OutputPaths,
		ErrorOutputPaths: options.ErrorOutputPaths,
		InitialFields:    options.InitialFields,
	}

	logger, err := conf.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
