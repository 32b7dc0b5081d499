package evaluator

import (
	"rgehrsitz/condform/internal/rules"

	"github.com/rs/zerolog"
)

// Composition runs several validators against the same values and
// concatenates their issues in part order. No part can hide another part's
// issues, so overlapping concerns on one field are all reported.
type Composition struct {
	name   string
	parts  []Validator
	logger zerolog.Logger
}

func NewComposition(name string, parts []Validator, opts ...Option) *Composition {
	o := buildOptions(opts)
	ps := make([]Validator, len(parts))
	copy(ps, parts)
	return &Composition{
		name:   name,
		parts:  ps,
		logger: o.logger.With().Str("validator", name).Logger(),
	}
}

func (c *Composition) Name() string { return c.name }

// Parts returns the composed validators in evaluation order.
func (c *Composition) Parts() []Validator {
	out := make([]Validator, len(c.parts))
	copy(out, c.parts)
	return out
}

func (c *Composition) Validate(values rules.FieldValues) rules.Issues {
	var issues rules.Issues
	for _, part := range c.parts {
		got := part.Validate(values)
		c.logger.Debug().Str("part", part.Name()).Int("issues", len(got)).Msg("part evaluated")
		issues = append(issues, got...)
	}
	return issues
}
