package demo

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"rgehrsitz/condform/internal/evaluator"
	"rgehrsitz/condform/internal/form"
	"rgehrsitz/condform/internal/preprocessor"
	"rgehrsitz/condform/internal/rules"
)

// Strategy names.
const (
	Discriminated = "discriminated"
	Composed      = "composed"
	Refine        = "refine"
)

// Messages shared by several strategies.
const (
	MsgCannotBeEmpty     = "cannot be empty"
	MsgInvalidEmail      = "Invalid email"
	MsgEmailIncluded     = "Email is required when include email is checked"
	MsgEmailFire         = "Email required when Fire"
	MsgIncludeEmailFire  = "Include email must be checked when Fire"
	MsgWaterName         = "Water name is required for Water category"
	MsgAirName           = "Air name is required for Air category"
	MsgFileIncluded      = "File is required when include file is checked"
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgCategoryRequired  = "Category is required"
)

const defaultRefineRuleFile = "rules/refine.yaml"

var ErrUnknownStrategy = errors.New("unknown strategy")

//go:embed rules/refine.yaml
var refineRules []byte

// Example pairs a form definition with one validation strategy.
type Example struct {
	ID         int
	Name       string
	Title      string
	Definition *form.Definition
	Validator  evaluator.Validator
}

// NewSession starts a session of the example's form.
func (e Example) NewSession(opts ...form.Option) *form.Session {
	return form.NewSession(e.Definition, e.Validator, opts...)
}

// Strategies returns the strategy names in example order.
func Strategies() []string {
	return []string{Discriminated, Composed, Refine}
}

// Examples builds every example.
func Examples(opts ...evaluator.Option) ([]Example, error) {
	out := make([]Example, 0, 3)
	for _, name := range Strategies() {
		ex, err := Lookup(name, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}

// Lookup builds the example for a strategy name.
func Lookup(name string, opts ...evaluator.Option) (Example, error) {
	switch name {
	case Discriminated:
		return Example{
			ID:         1,
			Name:       Discriminated,
			Title:      "First Example",
			Definition: EmailForm(),
			Validator:  DiscriminatedValidator(opts...),
		}, nil
	case Composed:
		return Example{
			ID:         2,
			Name:       Composed,
			Title:      "Multiple Discriminated Values",
			Definition: CategoryForm(),
			Validator:  ComposedValidator(opts...),
		}, nil
	case Refine:
		v, err := RefineValidator(nil, opts...)
		if err != nil {
			return Example{}, err
		}
		return Example{
			ID:         3,
			Name:       Refine,
			Title:      "Super Refine",
			Definition: RefineForm(),
			Validator:  v,
		}, nil
	default:
		return Example{}, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
	}
}

func required(name, field, message string) rules.Rule {
	return rules.Rule{Name: name, Field: field, Check: rules.CheckRequired, Message: message}
}

func emailFormat(name string) rules.Rule {
	return rules.Rule{Name: name, Field: Email, Check: rules.CheckEmail, Message: MsgInvalidEmail}
}

func nameShape() evaluator.Shape {
	return evaluator.Shape{
		Name: "base",
		Rules: []rules.Rule{
			required("first-name-required", FirstName, MsgCannotBeEmpty),
			required("last-name-required", LastName, MsgCannotBeEmpty),
		},
	}
}

func emailUnion(strict bool, base evaluator.Shape, opts []evaluator.Option) *evaluator.Union {
	return evaluator.NewUnion(evaluator.UnionConfig{
		Name:         "email",
		Discriminant: IncludeEmail,
		Base:         base,
		Default:      "false",
		Strict:       strict,
		Variants: []evaluator.Variant{
			{Key: "false", Shape: evaluator.Shape{Name: "without-email"}},
			{Key: "true", Shape: evaluator.Shape{
				Name: "with-email",
				Rules: []rules.Rule{
					required("email-required", Email, MsgEmailIncluded),
					emailFormat("email-format"),
				},
			}},
		},
	}, opts...)
}

// DiscriminatedValidator splits the email form into two exact shapes on
// includeEmail. Fields outside the matched shape are reported.
func DiscriminatedValidator(opts ...evaluator.Option) evaluator.Validator {
	return emailUnion(true, nameShape(), opts)
}

// ComposedValidator runs the name checks and one union per discriminant
// (includeEmail, includeFile, category) against the same values.
func ComposedValidator(opts ...evaluator.Option) evaluator.Validator {
	base := nameShape()
	names := evaluator.NewRuleSet(rules.RuleSet{Name: "base", Rules: base.Rules}, opts...)

	files := evaluator.NewUnion(evaluator.UnionConfig{
		Name:         "file",
		Discriminant: IncludeFile,
		Default:      "false",
		Variants: []evaluator.Variant{
			{Key: "false", Shape: evaluator.Shape{Name: "without-file"}},
			{Key: "true", Shape: evaluator.Shape{
				Name:  "with-file",
				Rules: []rules.Rule{required("file-required", File, MsgFileIncluded)},
			}},
		},
	}, opts...)

	categories := evaluator.NewUnion(evaluator.UnionConfig{
		Name:         "category",
		Discriminant: Category,
		Variants: []evaluator.Variant{
			{Key: string(rules.Fire), Shape: evaluator.Shape{
				Name: "fire",
				Rules: []rules.Rule{
					{Name: "fire-include-email", Field: IncludeEmail, Check: rules.CheckTrue, Message: MsgIncludeEmailFire},
					required("fire-email-required", Email, MsgEmailFire),
					emailFormat("fire-email-format"),
				},
			}},
			{Key: string(rules.Water), Shape: evaluator.Shape{
				Name:  "water",
				Rules: []rules.Rule{required("water-name-required", WaterName, MsgWaterName)},
			}},
			{Key: string(rules.Air), Shape: evaluator.Shape{
				Name:  "air",
				Rules: []rules.Rule{required("air-name-required", AirName, MsgAirName)},
			}},
		},
	}, opts...)

	return evaluator.NewComposition(Composed, []evaluator.Validator{
		names,
		emailUnion(false, evaluator.Shape{}, opts),
		files,
		categories,
	}, opts...)
}

// RefineRuleSet returns the embedded flat rule set, validated against the
// category form.
func RefineRuleSet() (*rules.RuleSet, error) {
	return preprocessor.ParseAndValidateRuleSet(refineRules, preprocessor.FormatYAML, CategoryCatalog())
}

// LoadRuleSet reads and validates a rule file against the category form.
func LoadRuleSet(path string) (*rules.RuleSet, error) {
	format, err := preprocessor.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	return preprocessor.ParseAndValidateRuleSet(data, format, CategoryCatalog())
}

// RefineValidator builds the flat refinement validator from rs, or from the
// embedded rule set when rs is nil.
func RefineValidator(rs *rules.RuleSet, opts ...evaluator.Option) (evaluator.Validator, error) {
	if rs == nil {
		var err error
		if rs, err = RefineRuleSet(); err != nil {
			return nil, fmt.Errorf("%s: %w", defaultRefineRuleFile, err)
		}
	}
	return evaluator.NewRuleSet(*rs, opts...), nil
}
