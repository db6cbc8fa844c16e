// Package passgen generates random passwords that satisfy composition
// constraints.
//
// A password is built from up to four character classes: lowercase letters,
// uppercase letters, digits and symbols. Each class carries a weight that
// controls how often it is sampled (letters 3, digits 2, symbols 1), so a
// typical password reads mostly as letters with a few digits and symbols.
//
// Generation works by rejection sampling. A candidate of the requested length
// is drawn from the weighted alphabet of the enabled classes and accepted only
// if every enabled class appears at least once. Candidates are redrawn up to
// MaxAttempts times before the generator gives up with ErrTooManyIterations.
// Every position is drawn independently, so the output is not biased by
// position the way "one of each class, then shuffle" schemes are.
//
// Basic usage:
//
//	g := passgen.New()
//	pw, err := g.Generate(ctx, passgen.Request{Length: 20, Lower: true, Upper: true, Digits: true})
//
// Randomness comes from crypto/rand unless another Source is supplied with
// WithSource. NewSeededSource returns a deterministic source for tests and
// reproducible runs.
package passgen
