// Package evaluator computes validation issues for form values.
//
// Three validator shapes are provided, all satisfying Validator:
//
//   - RuleSet: a flat list of independent conditional checks.
//   - Union: exact-shape matching on a discriminant field.
//   - Composition: several validators run against the same snapshot with
//     their issues concatenated.
//
// Validators are immutable once built and never modify the values they are
// given.
package evaluator

import (
	"rgehrsitz/condform/internal/rules"

	"github.com/rs/zerolog"
)

// Validator evaluates a snapshot of form values. An empty result means valid.
type Validator interface {
	Name() string
	Validate(values rules.FieldValues) rules.Issues
}

type options struct {
	logger zerolog.Logger
}

// Option configures a validator.
type Option func(*options)

// WithLogger makes the validator emit debug events for each evaluation.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Valid is shorthand for len(v.Validate(values)) == 0.
func Valid(v Validator, values rules.FieldValues) bool {
	return len(v.Validate(values)) == 0
}
