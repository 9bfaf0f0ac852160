package rulematch

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type batch struct {
	workers        int
	logger         *zap.Logger
	matcherOptions []Option
}

// MatchAll matches every message against rule "start" and reports, per message,
// whether it matched.
//
// The rule set is validated once before any message is evaluated; a
// configuration error aborts the whole batch. Messages are independent and are
// evaluated concurrently, see Workers.
func MatchAll(ctx context.Context, rules Rules, start RuleID, messages []string, options ...BatchOption) ([]bool, error) {
	b := &batch{workers: runtime.GOMAXPROCS(0), logger: zap.NewNop()}
	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}
	m, err := NewMatcher(rules, b.matcherOptions...)
	if err != nil {
		return nil, err
	}
	if _, ok := rules[start]; !ok {
		return nil, &UnknownRuleError{Rule: start}
	}
	began := time.Now()
	b.logger.Debug("matching messages",
		zap.Stringer("start", start),
		zap.Int("rules", len(rules)),
		zap.Int("messages", len(messages)),
		zap.Int("workers", b.workers))

	out := make([]bool, len(messages))
	wg, wctx := errgroup.WithContext(ctx)
	wg.SetLimit(b.workers)
	for i, message := range messages {
		if wctx.Err() != nil {
			break
		}
		wg.Go(func() error {
			matched, err := m.Match(start, message)
			if err != nil {
				return err
			}
			out[i] = matched
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.logger.Debug("matched messages",
		zap.Stringer("start", start),
		zap.Int("matched", countTrue(out)),
		zap.Duration("elapsed", time.Since(began)))
	return out, nil
}

// Count returns the number of messages matching rule "start".
func Count(ctx context.Context, rules Rules, start RuleID, messages []string, options ...BatchOption) (int, error) {
	matched, err := MatchAll(ctx, rules, start, messages, options...)
	if err != nil {
		return 0, err
	}
	return countTrue(matched), nil
}

func countTrue(values []bool) (n int) {
	for _, v := range values {
		if v {
			n++
		}
	}
	return
}
