package evaluator

import (
	"bytes"
	"rgehrsitz/condform/internal/rules"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolds(t *testing.T) {
	values := rules.FieldValues{
		"includeEmail": rules.Bool(true),
		"category":     rules.CategoryValue(rules.Water),
		"firstName":    rules.Text("Alice"),
		"lastName":     rules.Text(""),
	}

	tests := []struct {
		name  string
		conds rules.Conditions
		want  bool
	}{
		{"empty", rules.Conditions{}, true},
		{"bool equal", rules.When(rules.Eq("includeEmail", true)), true},
		{"bool not equal string", rules.When(rules.Eq("includeEmail", "true")), false},
		{"category equal", rules.When(rules.Eq("category", "Water")), true},
		{"category typed", rules.When(rules.Eq("category", rules.Water)), true},
		{"absent never equals", rules.When(rules.Eq("includeFile", false)), false},
		{"absent notEqual", rules.When(rules.Condition{Field: "includeFile", Operator: rules.OperatorNotEqual, Value: true}), true},
		{"present", rules.When(rules.Present("firstName")), true},
		{"empty text not present", rules.When(rules.Present("lastName")), false},
		{"absent operator", rules.When(rules.Condition{Field: "email", Operator: rules.OperatorAbsent}), true},
		{"contains", rules.When(rules.Condition{Field: "firstName", Operator: rules.OperatorContains, Value: "lic"}), true},
		{"notContains", rules.When(rules.Condition{Field: "firstName", Operator: rules.OperatorNotContains, Value: "lic"}), false},
		{"in", rules.When(rules.Condition{Field: "category", Operator: rules.OperatorIn, Value: []interface{}{"Fire", "Water"}}), true},
		{"not in", rules.When(rules.Condition{Field: "category", Operator: rules.OperatorIn, Value: []interface{}{"Air"}}), false},
		{"any one holds", rules.Conditions{Any: []rules.Condition{rules.Eq("category", "Fire"), rules.Eq("includeEmail", true)}}, true},
		{"any none hold", rules.Conditions{Any: []rules.Condition{rules.Eq("category", "Fire"), rules.Eq("category", "Air")}}, false},
		{
			"nested group",
			rules.When(rules.Condition{Any: []rules.Condition{
				rules.Eq("category", "Fire"),
				{All: []rules.Condition{rules.Eq("category", "Water"), rules.Present("firstName")}},
			}}),
			true,
		},
		{"unknown operator", rules.When(rules.Condition{Field: "firstName", Operator: "modulo"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Holds(tt.conds, values))
		})
	}
}

func TestPasses(t *testing.T) {
	tests := []struct {
		name  string
		rule  rules.Rule
		value rules.Value
		want  bool
	}{
		{"required absent", rules.Rule{Check: rules.CheckRequired}, rules.Absent(), false},
		{"required empty", rules.Rule{Check: rules.CheckRequired}, rules.Text(""), false},
		{"required text", rules.Rule{Check: rules.CheckRequired}, rules.Text("x"), true},
		{"required false", rules.Rule{Check: rules.CheckRequired}, rules.Bool(false), true},
		{"required empty file", rules.Rule{Check: rules.CheckRequired}, rules.File(&rules.FileHandle{Name: "a"}), false},
		{"email absent", rules.Rule{Check: rules.CheckEmail}, rules.Absent(), true},
		{"email valid", rules.Rule{Check: rules.CheckEmail}, rules.Text("a@example.com"), true},
		{"email invalid", rules.Rule{Check: rules.CheckEmail}, rules.Text("not-an-email"), false},
		{"email empty", rules.Rule{Check: rules.CheckEmail}, rules.Text(""), false},
		{"minLength short", rules.Rule{Check: rules.CheckMinLength, Params: map[string]interface{}{"min": 3}}, rules.Text("ab"), false},
		{"minLength ok", rules.Rule{Check: rules.CheckMinLength, Params: map[string]interface{}{"min": float64(2)}}, rules.Text("ab"), true},
		{"true", rules.Rule{Check: rules.CheckTrue}, rules.Bool(true), true},
		{"true absent", rules.Rule{Check: rules.CheckTrue}, rules.Absent(), false},
		{"false", rules.Rule{Check: rules.CheckFalse}, rules.Bool(true), false},
		{"absent", rules.Rule{Check: rules.CheckAbsent}, rules.Text(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, passes(tt.rule, tt.value))
		})
	}
}

func emailRules() rules.RuleSet {
	return rules.RuleSet{
		Name: "email",
		Rules: []rules.Rule{
			{Name: "email-format", Field: "email", Check: rules.CheckEmail, Message: "Invalid email"},
			{
				Name:    "fire-email",
				When:    rules.When(rules.Eq("category", "Fire")),
				Field:   "email",
				Check:   rules.CheckRequired,
				Message: "Email required when Fire",
			},
			{
				Name:    "include-email",
				When:    rules.When(rules.Eq("includeEmail", true)),
				Field:   "email",
				Check:   rules.CheckRequired,
				Message: "Email is required when include email is checked",
			},
		},
	}
}

func TestRuleSet_OrderAndNoDedup(t *testing.T) {
	v := NewRuleSet(emailRules())
	values := rules.FieldValues{
		"category":     rules.CategoryValue(rules.Fire),
		"includeEmail": rules.Bool(true),
		"email":        rules.Text(""),
	}

	want := rules.Issues{
		{Path: "email", Message: "Invalid email", Code: rules.CodeInvalidFormat, Rule: "email-format"},
		{Path: "email", Message: "Email required when Fire", Code: rules.CodeCustom, Rule: "fire-email"},
		{Path: "email", Message: "Email is required when include email is checked", Code: rules.CodeCustom, Rule: "include-email"},
	}
	if diff := cmp.Diff(want, v.Validate(values)); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleSet_DoesNotMutateValues(t *testing.T) {
	v := NewRuleSet(emailRules())
	values := rules.FieldValues{"category": rules.CategoryValue(rules.Fire)}
	before := values.Clone()

	first := v.Validate(values)
	second := v.Validate(values)

	assert.Equal(t, before, values)
	assert.Equal(t, first, second)
}

func TestRuleSet_CopiesRules(t *testing.T) {
	set := emailRules()
	v := NewRuleSet(set)
	set.Rules[0].Message = "changed"
	assert.Equal(t, "Invalid email", v.Rules()[0].Message)
	assert.Equal(t, "email", v.Name())
}

func TestRuleSet_LogsWhenAsked(t *testing.T) {
	var buf bytes.Buffer
	v := NewRuleSet(emailRules(), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	v.Validate(rules.FieldValues{})
	assert.Contains(t, buf.String(), "rule set evaluated")
}

func emailUnion(strict bool) *Union {
	return NewUnion(UnionConfig{
		Name:         "email",
		Discriminant: "includeEmail",
		Base: Shape{
			Name: "base",
			Rules: []rules.Rule{
				{Name: "first-name", Field: "firstName", Check: rules.CheckRequired, Message: "cannot be empty"},
			},
		},
		Variants: []Variant{
			{Key: "false", Shape: Shape{Name: "without-email"}},
			{Key: "true", Shape: Shape{
				Name: "with-email",
				Rules: []rules.Rule{
					{Field: "email", Check: rules.CheckRequired, Message: "Required"},
					{Field: "email", Check: rules.CheckEmail, Message: "Invalid email"},
				},
			}},
		},
		Strict: strict,
	})
}

func TestUnion_MissingDiscriminant(t *testing.T) {
	got := emailUnion(true).Validate(rules.FieldValues{"firstName": rules.Text("A")})
	require.Len(t, got, 1)
	assert.Equal(t, "includeEmail", got[0].Path)
	assert.Equal(t, rules.CodeDiscriminatorMissing, got[0].Code)
	assert.Equal(t, "Invalid discriminator value. Expected 'false' | 'true'", got[0].Message)
}

func TestUnion_DefaultDiscriminant(t *testing.T) {
	u := NewUnion(UnionConfig{
		Name:         "file",
		Discriminant: "includeFile",
		Default:      "false",
		Variants: []Variant{
			{Key: "false", Shape: Shape{}},
			{Key: "true", Shape: Shape{Rules: []rules.Rule{{Field: "file", Check: rules.CheckRequired, Message: "File"}}}},
		},
	})
	assert.Empty(t, u.Validate(rules.FieldValues{}))
	assert.Len(t, u.Validate(rules.FieldValues{"includeFile": rules.Bool(true)}), 1)
}

func TestUnion_UnknownDiscriminant(t *testing.T) {
	u := NewUnion(UnionConfig{
		Name:         "category",
		Discriminant: "category",
		Variants:     []Variant{{Key: "Fire"}, {Key: "Water"}},
	})
	got := u.Validate(rules.FieldValues{"category": rules.CategoryValue(rules.Air)})
	require.Len(t, got, 1)
	assert.Equal(t, rules.CodeDiscriminatorUnknown, got[0].Code)
	assert.Equal(t, []string{"Fire", "Water"}, u.Keys())
}

func TestUnion_MatchedShape(t *testing.T) {
	values := rules.FieldValues{
		"firstName":    rules.Text(""),
		"includeEmail": rules.Bool(true),
	}
	want := rules.Issues{
		{Path: "firstName", Message: "cannot be empty", Code: rules.CodeRequired, Rule: "first-name"},
		{Path: "email", Message: "Required", Code: rules.CodeRequired, Rule: "with-email"},
	}
	if diff := cmp.Diff(want, emailUnion(true).Validate(values)); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}

	variant, ok := emailUnion(true).Match(values)
	require.True(t, ok)
	assert.Equal(t, "true", variant.Key)
}

func TestUnion_StrictReportsExtraFields(t *testing.T) {
	values := rules.FieldValues{
		"firstName":    rules.Text("A"),
		"includeEmail": rules.Bool(false),
		"email":        rules.Text("a@example.com"),
	}

	got := emailUnion(true).Validate(values)
	require.Len(t, got, 1)
	assert.Equal(t, "email", got[0].Path)
	assert.Equal(t, rules.CodeUnrecognizedKey, got[0].Code)

	assert.Empty(t, emailUnion(false).Validate(values))
}

func TestComposition_ConcatenatesInPartOrder(t *testing.T) {
	c := NewComposition("all", []Validator{
		NewRuleSet(emailRules()),
		emailUnion(false),
	})
	values := rules.FieldValues{
		"firstName":    rules.Text(""),
		"includeEmail": rules.Bool(true),
		"category":     rules.CategoryValue(rules.Fire),
	}

	got := c.Validate(values)
	paths := make([]string, len(got))
	for i, it := range got {
		paths[i] = it.Rule
	}
	assert.Equal(t, []string{"fire-email", "include-email", "first-name", "with-email"}, paths)
	assert.Len(t, c.Parts(), 2)
	assert.False(t, Valid(c, values))
}
