// Package engine implements recurrence expansion for reminder series:
// evaluating repeat rules into occurrence dates, expanding a series into the
// instances visible in a date window, resolving per-instance overrides,
// splitting a series at a pivot occurrence, and searching for a guaranteed
// future instance under sparse rules.
//
// The engine is pure, synchronous computation. It performs no I/O, holds no
// cross-call state, and expects callers to serialize logically related
// mutations of one series themselves.
package engine

import (
	"io"
	"log/slog"

	"remindkit/internal/lunar"
)

// DefaultMaxInstances bounds one expansion pass when the caller does not
// supply its own cap. It is a hard safety bound against unbounded loops for
// short-interval rules over huge windows.
const DefaultMaxInstances = 100

// SearchConfig tunes the future-instance guarantee search. Initial window
// sizes are in whole months and depend on rule sparsity; each failed attempt
// widens the window.
type SearchConfig struct {
	InitialMonths        int // generic rules
	InitialMonthsMonthly int
	InitialMonthsYearly  int // yearly and lunar rules
	WidenMonths          int
	WidenMonthsYearly    int
	MaxAttempts          int
	InstancesPerMonth    int // expansion cap scales with window size
}

// DefaultSearchConfig matches the look-ahead behavior callers rely on:
// sparse rules get a long enough first window that the common case succeeds
// on the first attempt.
var DefaultSearchConfig = SearchConfig{
	InitialMonths:        2,
	InitialMonthsMonthly: 3,
	InitialMonthsYearly:  14,
	WidenMonths:          6,
	WidenMonthsYearly:    12,
	MaxAttempts:          5,
	InstancesPerMonth:    50,
}

// Engine evaluates repeat rules and expands series. It is safe for
// concurrent use: all state is read-only after construction.
type Engine struct {
	lunar  lunar.Calendar
	logger *slog.Logger
	search SearchConfig
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for skipped-entry warnings and expansion
// traces.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLunarCalendar replaces the lunar conversion collaborator.
func WithLunarCalendar(cal lunar.Calendar) Option {
	return func(e *Engine) {
		if cal != nil {
			e.lunar = cal
		}
	}
}

// WithSearchConfig replaces the future-search tuning.
func WithSearchConfig(cfg SearchConfig) Option {
	return func(e *Engine) {
		e.search = cfg
	}
}

// New creates an engine with the default lunar converter and a discard
// logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		lunar:  lunar.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		search: DefaultSearchConfig,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
