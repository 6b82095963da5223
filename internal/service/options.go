package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/planline/internal/evm"
	"github.com/alexanderramin/planline/internal/rollup"
)

// Option configures the ambient dependencies shared by every service.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	observer       UseCaseObserver
	rollupMaxDepth int
	maxWeeks       int
	now            func() time.Time
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithObserver(obs UseCaseObserver) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func WithRollupMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.rollupMaxDepth = n
		}
	}
}

// WithMaxWeeks lowers the weekly bucket cap. Values above evm.MaxWeeks are ignored.
func WithMaxWeeks(n int) Option {
	return func(o *options) {
		if n > 0 && n <= evm.MaxWeeks {
			o.maxWeeks = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:         slog.New(slog.DiscardHandler),
		observer:       NoopUseCaseObserver{},
		rollupMaxDepth: rollup.DefaultMaxDepth,
		maxWeeks:       evm.MaxWeeks,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// observe reports one use case to the configured observer. Call it deferred
// with a pointer to the named error result.
func (o options) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	var e error
	if err != nil {
		e = *err
	}
	o.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   e == nil,
		Err:       e,
		Fields:    fields,
	})
}

func (o options) rollupEngine(store rollup.NodeStore) *rollup.Engine {
	return rollup.NewEngine(store,
		rollup.WithLogger(o.logger),
		rollup.WithMaxDepth(o.rollupMaxDepth),
		rollup.WithClock(o.now),
	)
}
