// Package demo defines the example form: its fields, defaults, visibility,
// input-time transitions, and the three validation strategies that can be
// used with it.
package demo

import (
	"rgehrsitz/condform/internal/form"
	"rgehrsitz/condform/internal/rules"
)

// Field names.
const (
	FirstName    = "firstName"
	LastName     = "lastName"
	IncludeEmail = "includeEmail"
	Email        = "email"
	Category     = "category"
	WaterName    = "waterName"
	AirName      = "airName"
	IncludeFile  = "includeFile"
	File         = "file"
)

// EmailCatalog lists the fields of the name-and-email form.
func EmailCatalog() rules.Catalog {
	return rules.Catalog{
		{Name: FirstName, Label: "Firstname", Kind: rules.KindText},
		{Name: LastName, Label: "Lastname", Kind: rules.KindText},
		{Name: IncludeEmail, Label: "Include Email?", Kind: rules.KindBool},
		{Name: Email, Label: "Email", Kind: rules.KindText},
	}
}

// CategoryCatalog lists the fields of the full form with category and file.
func CategoryCatalog() rules.Catalog {
	return append(EmailCatalog(),
		rules.Field{Name: Category, Label: "Category", Kind: rules.KindCategory, Options: rules.CategoryNames()},
		rules.Field{Name: WaterName, Label: "Watername", Kind: rules.KindText},
		rules.Field{Name: AirName, Label: "Airname", Kind: rules.KindText},
		rules.Field{Name: IncludeFile, Label: "Include File?", Kind: rules.KindBool},
		rules.Field{Name: File, Label: "File", Kind: rules.KindFile},
	)
}

// EmailForm is the name-and-email form with an optional email field.
func EmailForm() *form.Definition {
	return &form.Definition{
		Name:   "email",
		Fields: EmailCatalog(),
		Defaults: rules.FieldValues{
			FirstName:    rules.Text(""),
			LastName:     rules.Text(""),
			IncludeEmail: rules.Bool(false),
		},
		Visibility: map[string]rules.Conditions{
			Email: rules.When(rules.Eq(IncludeEmail, true)),
		},
	}
}

// CategoryForm is the full form used by the composed strategy. Choosing Fire
// checks and locks includeEmail; includeFile stays editable.
func CategoryForm() *form.Definition {
	fire := rules.When(rules.Eq(Category, string(rules.Fire)))
	return &form.Definition{
		Name:   "category",
		Fields: CategoryCatalog(),
		Defaults: rules.FieldValues{
			FirstName:    rules.Text(""),
			LastName:     rules.Text(""),
			IncludeEmail: rules.Bool(false),
			IncludeFile:  rules.Bool(false),
		},
		Visibility: map[string]rules.Conditions{
			Email:     rules.When(rules.Eq(IncludeEmail, true)),
			WaterName: rules.When(rules.Eq(Category, string(rules.Water))),
			AirName:   rules.When(rules.Eq(Category, string(rules.Air))),
			File:      rules.When(rules.Eq(IncludeFile, true)),
		},
		Locks: map[string]rules.Conditions{
			IncludeEmail: fire,
		},
		Transitions: []form.Transition{
			{
				Name: "fire-forces-email",
				On:   Category,
				When: fire,
				Set:  rules.FieldValues{IncludeEmail: rules.Bool(true)},
			},
		},
	}
}

// RefineForm is CategoryForm with includeFile also locked while the category
// is Fire.
func RefineForm() *form.Definition {
	def := CategoryForm()
	def.Name = "refine"
	def.Locks[IncludeFile] = rules.When(rules.Eq(Category, string(rules.Fire)))
	return def
}
