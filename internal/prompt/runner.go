// Package prompt drives a form session from an interactive terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"rgehrsitz/condform/internal/form"
	"rgehrsitz/condform/internal/preprocessor"
	"rgehrsitz/condform/internal/rules"
	"strings"

	"github.com/rs/zerolog"
)

// ErrAbandoned is returned when the user stops editing an invalid form.
var ErrAbandoned = errors.New("form abandoned")

// Runner walks the visible fields of a session, shows the issues after every
// pass and submits once the form is valid.
type Runner struct {
	driver Driver
	deps   *preprocessor.Dependencies
	logger zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithDependencies makes the runner log which fields need re-checking after
// each edit.
func WithDependencies(deps *preprocessor.Dependencies) Option {
	return func(r *Runner) { r.deps = deps }
}

func NewRunner(driver Driver, opts ...Option) *Runner {
	r := &Runner{driver: driver, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prompts until the form is submitted or the user gives up.
func (r *Runner) Run(ctx context.Context, s *form.Session, submit form.SubmitFunc) error {
	for pass := 1; ; pass++ {
		r.logger.Debug().Int("pass", pass).Msg("editing form")
		if err := r.editPass(ctx, s); err != nil {
			return err
		}

		issues := s.Issues()
		if len(issues) == 0 {
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
			if err != nil {
				return err
			}
			if ok {
				return s.Submit(submit)
			}
		} else {
			if err := r.driver.Info(ctx, formatIssues(issues)); err != nil {
				return err
			}
		}

		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Edit the form again?", Default: true})
		if err != nil {
			return err
		}
		if !again {
			return ErrAbandoned
		}
	}
}

// editPass prompts for every field in declaration order. Visibility is
// re-evaluated before each field so that an edit can reveal later fields.
func (r *Runner) editPass(ctx context.Context, s *form.Session) error {
	def := s.Definition()
	for _, f := range def.Fields {
		if !def.IsVisible(f.Name, s.Values()) {
			continue
		}
		if s.Locked(f.Name) {
			msg := fmt.Sprintf("%s: %s (locked)", f.Label, s.Get(f.Name))
			if err := r.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}

		v, err := r.ask(ctx, f, s.Get(f.Name), def.Optional(f.Name))
		if err != nil {
			return err
		}
		if err := s.Set(f.Name, v); err != nil {
			return err
		}
		if r.deps != nil {
			r.logger.Debug().Str("field", f.Name).Strs("affected", r.deps.Affected(f.Name)).Msg("field edited")
		}
	}
	return nil
}

// ask prompts for one field. Blank input clears an optional text field
// instead of storing an empty string.
func (r *Runner) ask(ctx context.Context, f rules.Field, current rules.Value, optional bool) (rules.Value, error) {
	switch f.Kind {
	case rules.KindText:
		def, _ := current.Text()
		s, err := r.driver.Input(ctx, InputConfig{Message: f.Label, Default: def})
		if err != nil {
			return rules.Value{}, err
		}
		if optional && strings.TrimSpace(s) == "" {
			return rules.Absent(), nil
		}
		return rules.Text(s), nil

	case rules.KindBool:
		def, _ := current.Bool()
		b, err := r.driver.Confirm(ctx, ConfirmConfig{Message: f.Label, Default: def})
		if err != nil {
			return rules.Value{}, err
		}
		return rules.Bool(b), nil

	case rules.KindCategory:
		idx := 0
		if c, ok := current.Category(); ok {
			for i, opt := range f.Options {
				if opt == string(c) {
					idx = i
				}
			}
		}
		i, err := r.driver.Select(ctx, SelectConfig{Message: f.Label, Options: f.Options, DefaultIndex: idx})
		if err != nil {
			return rules.Value{}, err
		}
		if i < 0 || i >= len(f.Options) {
			return rules.Absent(), nil
		}
		c, err := rules.ParseCategory(f.Options[i])
		if err != nil {
			return rules.Value{}, err
		}
		return rules.CategoryValue(c), nil

	case rules.KindFile:
		def := ""
		if h, ok := current.File(); ok {
			def = h.Path
		}
		path, err := r.driver.Input(ctx, InputConfig{Message: f.Label, Default: def, Help: "path to a file, empty for none"})
		if err != nil {
			return rules.Value{}, err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return rules.Absent(), nil
		}
		h, err := form.OpenFile(path)
		if err != nil {
			if infoErr := r.driver.Info(ctx, err.Error()); infoErr != nil {
				return rules.Value{}, infoErr
			}
			return rules.Absent(), nil
		}
		return rules.File(h), nil

	default:
		return current, nil
	}
}

func formatIssues(issues rules.Issues) string {
	b := &strings.Builder{}
	b.WriteString("Please fix the following:")
	for _, it := range issues {
		fmt.Fprintf(b, "\n  - %s: %s", it.Path, it.Message)
	}
	return b.String()
}
