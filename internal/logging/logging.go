// Package logging provides the category-based structured logger used
// across the validation pipeline, built on go.uber.org/zap. Library
// callers get a no-op logger by default; the CLI installs a real one.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Categories name the per-subsystem child loggers New wires up.
const (
	CategoryGovernor     = "governor"
	CategoryIssue        = "issue"
	CategoryObjectVal    = "objectval"
	CategoryArgVal       = "argval"
	CategoryChainVal     = "chainval"
	CategoryOrchestrator = "orchestrator"
	CategoryDepgraph     = "depgraph"
	CategoryCLI          = "cli"
)

// Logger fans a base *zap.Logger out into one *zap.SugaredLogger per
// category, matching the teacher's categorized-logger shape.
type Logger struct {
	base       *zap.Logger
	categories map[string]*zap.SugaredLogger
}

// NewNop returns a Logger that discards everything, the default for
// zodguard used as a library.
func NewNop() *Logger {
	return wrap(zap.NewNop())
}

// New builds a real Logger. It encodes as JSON when
// ZODGUARD_LOG_FORMAT=json, otherwise a human-readable console format,
// matching the CLI's TTY-vs-pipe distinction for diagnostic output.
func New() (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.OutputPaths = []string{"stderr"}
	if os.Getenv("ZODGUARD_LOG_FORMAT") != "json" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return wrap(base), nil
}

func wrap(base *zap.Logger) *Logger {
	l := &Logger{base: base, categories: make(map[string]*zap.SugaredLogger)}
	for _, c := range []string{
		CategoryGovernor, CategoryIssue, CategoryObjectVal, CategoryArgVal,
		CategoryChainVal, CategoryOrchestrator, CategoryDepgraph, CategoryCLI,
	} {
		l.categories[c] = base.Named(c).Sugar()
	}
	return l
}

// For returns the per-category sugared logger, falling back to an
// unnamed logger for an unrecognized category.
func (l *Logger) For(category string) *zap.SugaredLogger {
	if s, ok := l.categories[category]; ok {
		return s
	}
	return l.base.Sugar()
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
