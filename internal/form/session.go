// Package form owns the lifecycle of one form instance: default values,
// field edits with their input-time transitions, and gated submission.
package form

import (
	"errors"
	"fmt"
	"rgehrsitz/condform/internal/evaluator"
	"rgehrsitz/condform/internal/rules"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrFieldLocked       = errors.New("field is locked")
	ErrSubmissionBlocked = errors.New("submission blocked by validation issues")
)

// SubmitFunc receives the final values of a valid form.
type SubmitFunc func(values rules.FieldValues) error

// Session holds the values of one form instance. It is owned by a single
// caller and is not safe for concurrent use.
type Session struct {
	id        string
	def       *Definition
	validator evaluator.Validator
	values    rules.FieldValues
	logger    zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession starts a form instance populated with the definition defaults.
func NewSession(def *Definition, v evaluator.Validator, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		def:       def,
		validator: v,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("session", s.id).Str("form", def.Name).Logger()
	s.values = def.Defaults.Clone()
	s.logger.Debug().Str("validator", v.Name()).Msg("session started")
	return s
}

func (s *Session) ID() string              { return s.id }
func (s *Session) Definition() *Definition { return s.def }

// Validator returns the validator the session evaluates with.
func (s *Session) Validator() evaluator.Validator { return s.validator }

// Values returns a copy of the current values.
func (s *Session) Values() rules.FieldValues {
	return s.values.Clone()
}

// Get returns the current value of field.
func (s *Session) Get(field string) rules.Value {
	return s.values.Get(field)
}

// Set records an edit of field, applies the transitions registered for it
// and clears every field left hidden, including field itself. Unknown
// fields, values of the wrong kind and locked fields are rejected and leave
// the values unchanged.
func (s *Session) Set(field string, v rules.Value) error {
	f, ok := s.def.Fields.Lookup(field)
	if !ok {
		return fmt.Errorf("%q: %w", field, rules.ErrUnknownField)
	}
	if err := f.Accepts(v); err != nil {
		return err
	}
	if s.def.Locked(field, s.values) {
		return fmt.Errorf("%q: %w", field, ErrFieldLocked)
	}

	next, fired := s.def.Transition(field, s.values.With(field, v))
	next, dropped := s.def.Prune(next)
	s.values = next
	s.logger.Debug().Str("field", field).Stringer("value", v).Strs("transitions", fired).Strs("cleared", dropped).Msg("field updated")
	return nil
}

// Clear makes field absent.
func (s *Session) Clear(field string) error {
	return s.Set(field, rules.Absent())
}

// Reset restores the definition defaults.
func (s *Session) Reset() {
	s.values = s.def.Defaults.Clone()
	s.logger.Debug().Msg("session reset")
}

// Issues evaluates the current values.
func (s *Session) Issues() rules.Issues {
	return s.validator.Validate(s.values)
}

// IssuesFor returns the current issues targeting field.
func (s *Session) IssuesFor(field string) rules.Issues {
	return s.Issues().For(field)
}

// Visible returns the fields currently shown.
func (s *Session) Visible() []string {
	return s.def.Visible(s.values)
}

// Locked reports whether field currently rejects edits.
func (s *Session) Locked(field string) bool {
	return s.def.Locked(field, s.values)
}

// Submit hands a copy of the values to handler when there are no issues.
// Otherwise it returns an error wrapping ErrSubmissionBlocked and the issues.
func (s *Session) Submit(handler SubmitFunc) error {
	issues := s.Issues()
	if len(issues) > 0 {
		s.logger.Info().Int("issues", len(issues)).Msg("submission blocked")
		return fmt.Errorf("%w: %w", ErrSubmissionBlocked, issues)
	}
	if err := handler(s.values.Clone()); err != nil {
		return fmt.Errorf("submit handler: %w", err)
	}
	s.logger.Info().Msg("form submitted")
	return nil
}
