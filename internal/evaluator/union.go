package evaluator

import (
	"fmt"
	"rgehrsitz/condform/internal/rules"
	"strings"

	"github.com/rs/zerolog"
)

// Shape is the set of field checks one variant of a union requires. Fields
// lists additional fields the shape accepts without checking them.
type Shape struct {
	Name   string
	Rules  []rules.Rule
	Fields []string
}

func (s Shape) declare(into map[string]bool) {
	for _, r := range s.Rules {
		into[r.Field] = true
	}
	for _, f := range s.Fields {
		into[f] = true
	}
}

// Variant pairs a discriminant value with the shape it selects.
type Variant struct {
	Key   string
	Shape Shape
}

// UnionConfig describes a discriminated union.
type UnionConfig struct {
	Name string
	// Discriminant is the field whose value selects the variant. Boolean
	// discriminants use the keys "true" and "false".
	Discriminant string
	// Base holds the checks shared by every variant.
	Base     Shape
	Variants []Variant
	// Default is the variant key used when the discriminant is absent. When
	// empty, a missing discriminant is an issue.
	Default string
	// Strict reports fields present in the values but declared by neither
	// the base nor the matched variant.
	Strict bool
}

// Union validates values against exactly one variant shape, chosen by the
// discriminant field.
type Union struct {
	cfg    UnionConfig
	keys   []string
	logger zerolog.Logger
}

// NewUnion builds a union validator. Variants are matched in the order given;
// duplicate keys after the first are unreachable.
func NewUnion(cfg UnionConfig, opts ...Option) *Union {
	o := buildOptions(opts)
	variants := make([]Variant, len(cfg.Variants))
	copy(variants, cfg.Variants)
	cfg.Variants = variants

	keys := make([]string, 0, len(variants))
	for _, v := range variants {
		keys = append(keys, v.Key)
	}
	return &Union{
		cfg:    cfg,
		keys:   keys,
		logger: o.logger.With().Str("validator", cfg.Name).Logger(),
	}
}

func (u *Union) Name() string { return u.cfg.Name }

// Discriminant returns the field the union switches on.
func (u *Union) Discriminant() string { return u.cfg.Discriminant }

// Keys returns the variant keys in declaration order.
func (u *Union) Keys() []string {
	out := make([]string, len(u.keys))
	copy(out, u.keys)
	return out
}

// Match returns the variant selected by values, if any.
func (u *Union) Match(values rules.FieldValues) (Variant, bool) {
	key, ok := u.key(values)
	if !ok {
		return Variant{}, false
	}
	return u.lookup(key)
}

func (u *Union) Validate(values rules.FieldValues) rules.Issues {
	key, ok := u.key(values)
	if !ok {
		u.logger.Debug().Msg("discriminant missing")
		return rules.Issues{u.discriminatorIssue(rules.CodeDiscriminatorMissing)}
	}
	variant, ok := u.lookup(key)
	if !ok {
		u.logger.Debug().Str("key", key).Msg("discriminant unknown")
		return rules.Issues{u.discriminatorIssue(rules.CodeDiscriminatorUnknown)}
	}

	var issues rules.Issues
	for _, shape := range []Shape{u.cfg.Base, variant.Shape} {
		for _, rule := range shape.Rules {
			if issue, failed := apply(rule, values); failed {
				if issue.Rule == "" {
					issue.Rule = shape.Name
				}
				issues = append(issues, issue)
			}
		}
	}

	if u.cfg.Strict {
		declared := map[string]bool{u.cfg.Discriminant: true}
		u.cfg.Base.declare(declared)
		variant.Shape.declare(declared)
		for _, name := range values.Names() {
			if !declared[name] {
				issues = append(issues, rules.Issue{
					Path:    name,
					Message: fmt.Sprintf("Unrecognized key: '%s'", name),
					Code:    rules.CodeUnrecognizedKey,
					Rule:    variant.Shape.Name,
				})
			}
		}
	}

	u.logger.Debug().Str("variant", variant.Key).Int("issues", len(issues)).Msg("union evaluated")
	return issues
}

func (u *Union) key(values rules.FieldValues) (string, bool) {
	v := values.Get(u.cfg.Discriminant)
	if v.IsAbsent() {
		if u.cfg.Default != "" {
			return u.cfg.Default, true
		}
		return "", false
	}
	key, ok := v.Key()
	if !ok {
		// Present but not usable as a key: treat as an unknown variant.
		return "\x00", true
	}
	return key, true
}

func (u *Union) lookup(key string) (Variant, bool) {
	for _, v := range u.cfg.Variants {
		if v.Key == key {
			return v, true
		}
	}
	return Variant{}, false
}

func (u *Union) discriminatorIssue(code string) rules.Issue {
	quoted := make([]string, len(u.keys))
	for i, k := range u.keys {
		quoted[i] = "'" + k + "'"
	}
	return rules.Issue{
		Path:    u.cfg.Discriminant,
		Message: "Invalid discriminator value. Expected " + strings.Join(quoted, " | "),
		Code:    code,
		Rule:    u.cfg.Name,
	}
}
