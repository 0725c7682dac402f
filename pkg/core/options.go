package core

import (
	"go.uber.org/zap"
)

// Option alters the behavior of core operations
type Option func(*settings)

type settings struct {
	l *zap.Logger
}

// Logger sets a logger on the operation
func Logger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.l = l
		}
	}
}

func defaultSettings(opts []Option) settings {
	s := settings{l: zap.NewNop()}
	for _, apply := range opts {
		apply(&s)
	}
	return s
}
