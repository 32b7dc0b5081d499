package form

import (
	"errors"
	"os"
	"path/filepath"
	"rgehrsitz/condform/internal/evaluator"
	"rgehrsitz/condform/internal/rules"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition() *Definition {
	fire := rules.When(rules.Eq("category", "Fire"))
	return &Definition{
		Name: "test",
		Fields: rules.Catalog{
			{Name: "firstName", Label: "Firstname", Kind: rules.KindText},
			{Name: "includeEmail", Label: "Include Email?", Kind: rules.KindBool},
			{Name: "email", Label: "Email", Kind: rules.KindText},
			{Name: "category", Label: "Category", Kind: rules.KindCategory, Options: rules.CategoryNames()},
		},
		Defaults: rules.FieldValues{
			"firstName":    rules.Text(""),
			"includeEmail": rules.Bool(false),
		},
		Visibility: map[string]rules.Conditions{
			"email": rules.When(rules.Eq("includeEmail", true)),
		},
		Locks: map[string]rules.Conditions{
			"includeEmail": fire,
		},
		Transitions: []Transition{{
			Name: "fire-forces-email",
			On:   "category",
			When: fire,
			Set:  rules.FieldValues{"includeEmail": rules.Bool(true)},
		}},
	}
}

func testValidator() evaluator.Validator {
	return evaluator.NewRuleSet(rules.RuleSet{
		Name: "test",
		Rules: []rules.Rule{
			{Name: "first-name", Field: "firstName", Check: rules.CheckRequired, Message: "cannot be empty"},
			{
				Name:    "include-email",
				When:    rules.When(rules.Eq("includeEmail", true)),
				Field:   "email",
				Check:   rules.CheckRequired,
				Message: "Email is required when include email is checked",
			},
		},
	})
}

func TestNewSession_Defaults(t *testing.T) {
	def := testDefinition()
	s := NewSession(def, testValidator())

	assert.NotEmpty(t, s.ID())
	assert.True(t, s.Get("firstName").Equal(rules.Text("")))
	assert.False(t, s.Get("includeEmail").IsTrue())
	assert.Equal(t, []string{"firstName", "includeEmail", "category"}, s.Visible())

	// Editing the session never touches the definition defaults.
	require.NoError(t, s.Set("firstName", rules.Text("A")))
	assert.True(t, def.Defaults.Get("firstName").Equal(rules.Text("")))
}

func TestSession_SetRejectsBadEdits(t *testing.T) {
	s := NewSession(testDefinition(), testValidator())

	assert.ErrorIs(t, s.Set("phone", rules.Text("1")), rules.ErrUnknownField)
	assert.ErrorIs(t, s.Set("includeEmail", rules.Text("yes")), rules.ErrInvalidValue)
	assert.False(t, s.Values().Has("phone"))
}

func TestSession_FireTransitionAndLock(t *testing.T) {
	s := NewSession(testDefinition(), testValidator())

	require.NoError(t, s.Set("category", rules.CategoryValue(rules.Fire)))
	assert.True(t, s.Get("includeEmail").IsTrue())
	assert.True(t, s.Locked("includeEmail"))
	assert.Contains(t, s.Visible(), "email")

	err := s.Set("includeEmail", rules.Bool(false))
	assert.ErrorIs(t, err, ErrFieldLocked)
	assert.True(t, s.Get("includeEmail").IsTrue())

	require.NoError(t, s.Set("category", rules.CategoryValue(rules.Water)))
	assert.False(t, s.Locked("includeEmail"))
	assert.True(t, s.Get("includeEmail").IsTrue(), "leaving Fire keeps the corrected value")
	require.NoError(t, s.Set("includeEmail", rules.Bool(false)))
}

func TestSession_TransitionOnlyOnItsField(t *testing.T) {
	def := testDefinition()
	values := rules.FieldValues{"category": rules.CategoryValue(rules.Fire)}

	got, fired := def.Transition("firstName", values)
	assert.Empty(t, fired)
	assert.False(t, got.Has("includeEmail"))

	got, fired = def.Transition("category", values)
	assert.Equal(t, []string{"fire-forces-email"}, fired)
	assert.True(t, got.Get("includeEmail").IsTrue())
	assert.False(t, values.Has("includeEmail"), "transition must not modify its input")
}

func TestSession_IssuesAndSubmit(t *testing.T) {
	s := NewSession(testDefinition(), testValidator())
	require.NoError(t, s.Set("includeEmail", rules.Bool(true)))

	issues := s.Issues()
	require.Len(t, issues, 2)
	assert.Len(t, s.IssuesFor("email"), 1)

	called := false
	err := s.Submit(func(rules.FieldValues) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrSubmissionBlocked)
	assert.False(t, called)
	got, ok := rules.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, issues, got)

	require.NoError(t, s.Set("firstName", rules.Text("A")))
	require.NoError(t, s.Set("email", rules.Text("a@example.com")))

	var submitted rules.FieldValues
	require.NoError(t, s.Submit(func(v rules.FieldValues) error {
		submitted = v
		return nil
	}))
	assert.True(t, submitted.Get("email").Equal(rules.Text("a@example.com")))

	// The handler gets a copy.
	submitted["email"] = rules.Text("changed")
	assert.True(t, s.Get("email").Equal(rules.Text("a@example.com")))
}

func TestSession_SubmitHandlerError(t *testing.T) {
	s := NewSession(testDefinition(), testValidator())
	require.NoError(t, s.Set("firstName", rules.Text("A")))

	boom := errors.New("boom")
	err := s.Submit(func(rules.FieldValues) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestSession_ClearAndReset(t *testing.T) {
	s := NewSession(testDefinition(), testValidator())
	require.NoError(t, s.Set("firstName", rules.Text("A")))
	require.NoError(t, s.Clear("firstName"))
	assert.False(t, s.Values().Has("firstName"))

	require.NoError(t, s.Set("category", rules.CategoryValue(rules.Air)))
	s.Reset()
	assert.False(t, s.Values().Has("category"))
	assert.True(t, s.Get("firstName").Equal(rules.Text("")))
}

func TestOpenFileAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	h, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.json", h.Name)
	assert.Equal(t, int64(5), h.Size)
	assert.Equal(t, "application/json", h.ContentType)

	_, err = OpenFile(dir)
	assert.Error(t, err)

	values := rules.FieldValues{"file": rules.File(&rules.FileHandle{Name: "notes.json", Path: path})}
	resolved, err := ResolveFiles(values)
	require.NoError(t, err)
	got, _ := resolved.Get("file").File()
	assert.Equal(t, int64(5), got.Size)
	orig, _ := values.Get("file").File()
	assert.Equal(t, int64(0), orig.Size)

	_, err = ResolveFiles(rules.FieldValues{"file": rules.File(&rules.FileHandle{Path: filepath.Join(dir, "missing")})})
	assert.Error(t, err)
}

func TestSession_HidingFieldClearsIt(t *testing.T) {
	s := NewSession(testDefinition(), testValidator())
	require.NoError(t, s.Set("firstName", rules.Text("A")))
	require.NoError(t, s.Set("includeEmail", rules.Bool(true)))
	require.NoError(t, s.Set("email", rules.Text("a@example.com")))

	require.NoError(t, s.Set("includeEmail", rules.Bool(false)))
	assert.False(t, s.Values().Has("email"))
	assert.Empty(t, s.Issues())

	// A hidden field cannot be given a value.
	require.NoError(t, s.Set("email", rules.Text("a@example.com")))
	assert.False(t, s.Values().Has("email"))
}

func TestDefinition_PruneCascades(t *testing.T) {
	def := &Definition{
		Fields: rules.Catalog{
			{Name: "a", Kind: rules.KindBool},
			{Name: "b", Kind: rules.KindBool},
			{Name: "c", Kind: rules.KindText},
		},
		Visibility: map[string]rules.Conditions{
			"b": rules.When(rules.Eq("a", true)),
			"c": rules.When(rules.Eq("b", true)),
		},
	}
	values := rules.FieldValues{
		"a": rules.Bool(false),
		"b": rules.Bool(true),
		"c": rules.Text("x"),
	}
	got, dropped := def.Prune(values)
	assert.Equal(t, []string{"b", "c"}, dropped)
	assert.Equal(t, rules.FieldValues{"a": rules.Bool(false)}, got)
	assert.True(t, values.Has("c"), "prune must not modify its input")
	assert.True(t, def.Optional("c"))
	assert.False(t, def.Optional("a"))
}
