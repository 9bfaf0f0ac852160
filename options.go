package rulematch

import (
	"fmt"

	"go.uber.org/zap"
)

// An Option to modify the behaviour of the Matcher.
type Option func(m *Matcher) error

// A BatchOption modifies how MatchAll and Count evaluate messages.
type BatchOption func(b *batch) error

// Workers sets the number of messages evaluated concurrently.
//
// Defaults to GOMAXPROCS.
func Workers(n int) BatchOption {
	return func(b *batch) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		b.workers = n
		return nil
	}
}

// Logger used to report batch progress at debug level.
func Logger(logger *zap.Logger) BatchOption {
	return func(b *batch) error {
		b.logger = logger
		return nil
	}
}

// MatcherOptions are applied to the Matcher built for the batch.
func MatcherOptions(options ...Option) BatchOption {
	return func(b *batch) error {
		b.matcherOptions = append(b.matcherOptions, options...)
		return nil
	}
}
