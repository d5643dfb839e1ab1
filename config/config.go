// Package config configures analyzer behavior via the functional-options
// pattern used throughout the teacher pack (builder.Option, matrix.Option):
// a zero-value-safe options struct built through New(opts...) plus WithX
// constructors, rather than a wide constructor argument list.
package config

import "github.com/rs/zerolog"

// UnsupportedPolicy selects how the analyzer reacts to an AST node kind it
// does not handle (spec §4.7, §7).
type UnsupportedPolicy int

const (
	// PolicySkip records a warning and treats the statement as contributing
	// nothing to the matrix (never silently identity, per spec §4.7).
	PolicySkip UnsupportedPolicy = iota
	// PolicyStrict aborts the whole function with an *unsupported* status.
	PolicyStrict
)

// Config holds every analyzer-tunable knob. The zero Config is usable: it
// behaves as skip-mode, early-exit disabled, no iteration cap, and a no-op
// logger. New additionally turns early exit on.
type Config struct {
	// Unsupported selects the strict/skip policy (spec §4.7, §9).
	Unsupported UnsupportedPolicy

	// EarlyExit omits the final relation matrix from a Result whose status
	// is infinite. It does not shorten the analysis: the whole body is
	// traversed and simplified either way. The CLI's --fin flag disables it,
	// so infinite results then carry their matrix.
	EarlyExit bool

	// FixpointIterationCap bounds internal/pmatrix.Fixpoint's iteration
	// count (spec §9); 0 means unbounded.
	FixpointIterationCap int

	// ChoiceSearchBudget bounds internal/choice.Simplify's stage-2 search
	// tree; 0 selects choice.DefaultNodeBudget.
	ChoiceSearchBudget int

	// Logger receives the analyzer's skipped-construct warnings at debug
	// level; fixpoint and search-budget errors are reported only through
	// the Result, not logged. New installs zerolog.Nop(), i.e. silent.
	Logger zerolog.Logger
}

// Option mutates a Config under construction.
type Option func(*Config)

// New builds a Config with package defaults, then applies opts in order.
func New(opts ...Option) Config {
	cfg := Config{
		Unsupported: PolicySkip,
		EarlyExit:   true,
		Logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithStrict selects PolicyStrict when strict is true, PolicySkip
// otherwise — the CLI's --strict flag.
func WithStrict(strict bool) Option {
	return func(c *Config) {
		if strict {
			c.Unsupported = PolicyStrict
		} else {
			c.Unsupported = PolicySkip
		}
	}
}

// WithEarlyExit sets the early-exit-on-infinite behavior; the CLI's --fin
// flag calls WithEarlyExit(false) so infinite results keep their matrix.
func WithEarlyExit(enabled bool) Option {
	return func(c *Config) { c.EarlyExit = enabled }
}

// WithIterationCap bounds the loop-fixpoint iteration count.
func WithIterationCap(cap int) Option {
	return func(c *Config) { c.FixpointIterationCap = cap }
}

// WithChoiceSearchBudget bounds the choice simplifier's search tree.
func WithChoiceSearchBudget(budget int) Option {
	return func(c *Config) { c.ChoiceSearchBudget = budget }
}

// WithLogger installs a custom logger (the CLI wires --silent/--info/--debug
// to this).
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}
