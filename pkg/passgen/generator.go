package passgen

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	// MaxLength is the longest password Generate accepts.
	MaxLength = 1000
	// DefaultMaxAttempts bounds the number of candidates drawn per password.
	DefaultMaxAttempts = 100
)

// Request describes the password to generate. Each enabled class must appear
// at least once in the result.
type Request struct {
	Length  int  `json:"length" mapstructure:"length"`
	Lower   bool `json:"lower" mapstructure:"lower"`
	Upper   bool `json:"upper" mapstructure:"upper"`
	Digits  bool `json:"digits" mapstructure:"digits"`
	Symbols bool `json:"symbols" mapstructure:"symbols"`
}

// NewRequest builds a request requiring the given classes.
func NewRequest(length int, classes ...Class) Request {
	set := NewClassSet(classes...)
	return Request{
		Length:  length,
		Lower:   set.Has(Lower),
		Upper:   set.Has(Upper),
		Digits:  set.Has(Digit),
		Symbols: set.Has(Symbol),
	}
}

// Classes returns the set of required classes.
func (r Request) Classes() ClassSet {
	var s ClassSet
	if r.Lower {
		s = s.With(Lower)
	}
	if r.Upper {
		s = s.With(Upper)
	}
	if r.Digits {
		s = s.With(Digit)
	}
	if r.Symbols {
		s = s.With(Symbol)
	}
	return s
}

// Validate checks the request against the length and class constraints
// without drawing any randomness.
func (r Request) Validate() error {
	if r.Length <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, r.Length)
	}
	if r.Length > MaxLength {
		return fmt.Errorf("%w: %d exceeds %d", ErrLengthTooHigh, r.Length, MaxLength)
	}
	classes := r.Classes()
	if classes.Len() == 0 {
		return ErrNoClassSelected
	}
	if r.Length < classes.Len() {
		return fmt.Errorf("%w: %d characters cannot hold %d required classes", ErrLengthTooShort, r.Length, classes.Len())
	}
	return nil
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the random source. The default is crypto/rand.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.source = src
		}
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithAttemptsObserver registers a callback that receives the number of
// candidates drawn by each Generate call, whether or not it succeeded.
func WithAttemptsObserver(fn func(attempts int)) Option {
	return func(g *Generator) {
		g.observe = fn
	}
}

// Generator produces passwords. It holds no per-call state and is safe for
// concurrent use when its Source is.
type Generator struct {
	source      Source
	logger      *zap.Logger
	observe     func(attempts int)
	maxAttempts int
}

// New returns a Generator with the given options applied.
func New(opts ...Option) *Generator {
	g := &Generator{
		source:      NewCryptoSource(),
		logger:      zap.NewNop(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxAttempts returns the attempt budget per password.
func (g *Generator) MaxAttempts() int { return g.maxAttempts }

// Generate returns a password satisfying req. The context is checked between
// attempts.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	required := req.Classes()
	alphabet := NewWeightedAlphabet(required)
	buf := make([]byte, req.Length)
	n := alphabet.Len()

	attempts := 0
	defer func() {
		if g.observe != nil {
			g.observe(attempts)
		}
	}()

	for attempts < g.maxAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		attempts++

		for i := range buf {
			idx, err := g.source.IntN(n)
			if err != nil {
				return "", err
			}
			if idx < 0 || idx >= n {
				return "", fmt.Errorf("random source returned %d outside [0,%d)", idx, n)
			}
			buf[i], _ = alphabet.At(idx)
		}

		if !Check(string(buf), required) {
			g.logger.Debug("candidate rejected", zap.Int("attempt", attempts))
			continue
		}
		if attempts > 1 {
			g.logger.Debug("password accepted after retries",
				zap.Int("attempts", attempts),
				zap.Int("length", req.Length),
				zap.Stringer("classes", required),
			)
		}
		return string(buf), nil
	}

	g.logger.Warn("password generation exhausted attempts",
		zap.Int("attempts", attempts),
		zap.Int("length", req.Length),
		zap.Stringer("classes", required),
	)
	return "", fmt.Errorf("%w: no compliant candidate in %d attempts", ErrTooManyIterations, g.maxAttempts)
}

// GenerateN returns count passwords for the same request. It stops at the
// first error.
func (g *Generator) GenerateN(ctx context.Context, req Request, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	passwords := make([]string, 0, count)
	for i := 0; i < count; i++ {
		pw, err := g.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		passwords = append(passwords, pw)
	}
	return passwords, nil
}

// Generate returns a password for req using a default Generator.
func Generate(ctx context.Context, req Request) (string, error) {
	return New().Generate(ctx, req)
}
