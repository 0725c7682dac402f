package s3

import (
	"go.uber.org/zap"
)

// Option is a functor to pass optional parameters to the s3 store
type Option func(*s3FS)

// Logger specifies a logger for this store
func Logger(logger *zap.Logger) Option {
	return func(s *s3FS) {
		if logger != nil {
			s.l = logger
		}
	}
}
