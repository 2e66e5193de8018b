// Package logging builds the zap loggers shared by the binaries and adapts
// them to the interfaces of third-party libraries.
package logging

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// New builds a logger at the given level. Development loggers write
// human-readable console output; production loggers write JSON.
func New(level string, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		cfg.Level = lvl
	}

	return cfg.Build()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// badgerLogger routes badger's printf-style output through zap.
type badgerLogger struct {
	s *zap.SugaredLogger
}

// Badger adapts l to badger's Logger interface.
func Badger(l *zap.Logger) badger.Logger {
	return &badgerLogger{s: OrNop(l).Named("badger").WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (b *badgerLogger) Errorf(f string, v ...interface{}) {
	b.s.Errorf(trim(f), v...)
}

func (b *badgerLogger) Warningf(f string, v ...interface{}) {
	b.s.Warnf(trim(f), v...)
}

func (b *badgerLogger) Infof(f string, v ...interface{}) {
	b.s.Infof(trim(f), v...)
}

func (b *badgerLogger) Debugf(f string, v ...interface{}) {
	b.s.Debugf(trim(f), v...)
}

// trim drops the trailing newline badger puts on its messages.
func trim(f string) string {
	return strings.TrimSuffix(f, "\n")
}
