package rdfc

import "go.uber.org/zap"

// DefaultHNDQCallLimit caps Hash N-Degree Quads permutation iterations across
// one canonicalization run. Exceeding it rejects the input as a potential
// poison dataset.
const DefaultHNDQCallLimit = 4000

// Options configures a canonicalization run.
type Options struct {
	// HashAlgorithm is the digest used by all hashing steps.
	HashAlgorithm HashAlgorithm

	// HNDQCallLimit caps permutation iterations inside Hash N-Degree Quads.
	// Zero or negative means unlimited.
	HNDQCallLimit int

	// Logger receives structured events while blank node labels are issued;
	// relabeling and serialization log nothing. It is a pure observer and
	// never affects results.
	Logger *zap.Logger
}

// Option configures canonicalization behavior.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		HashAlgorithm: SHA256,
		HNDQCallLimit: DefaultHNDQCallLimit,
		Logger:        zap.NewNop(),
	}
}

func applyOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return options
}

// WithHashAlgorithm selects the digest (SHA256 or SHA384).
func WithHashAlgorithm(alg HashAlgorithm) Option {
	return func(opts *Options) {
		opts.HashAlgorithm = alg
	}
}

// WithHNDQCallLimit caps Hash N-Degree Quads permutation iterations.
// Zero or negative removes the cap.
func WithHNDQCallLimit(limit int) Option {
	return func(opts *Options) {
		opts.HNDQCallLimit = limit
	}
}

// WithLogger installs a structured logging sink for canonicalization events.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
