package form

import (
	"rgehrsitz/condform/internal/evaluator"
	"rgehrsitz/condform/internal/rules"
)

// Transition is an input-time correction: after an edit to field On, when
// When holds over the edited values, every field in Set is overwritten.
// Transitions change values; they never produce issues.
type Transition struct {
	Name string
	On   string
	When rules.Conditions
	Set  rules.FieldValues
}

// Apply returns the values after the transition, or values itself when the
// transition does not fire.
func (t Transition) Apply(field string, values rules.FieldValues) (rules.FieldValues, bool) {
	if field != t.On || !evaluator.Holds(t.When, values) {
		return values, false
	}
	out := values.Clone()
	for name, v := range t.Set {
		if v.IsAbsent() {
			delete(out, name)
			continue
		}
		out[name] = v
	}
	return out, true
}

// Definition describes a form: its fields, their defaults, when optional
// fields are shown or locked, and the transitions applied on edits.
type Definition struct {
	Name     string
	Fields   rules.Catalog
	Defaults rules.FieldValues
	// Visibility hides a field unless its conditions hold. Fields without an
	// entry are always visible.
	Visibility map[string]rules.Conditions
	// Locks disable editing of a field while its conditions hold.
	Locks       map[string]rules.Conditions
	Transitions []Transition
}

// Visible returns the names of fields shown for values, in declaration order.
func (d *Definition) Visible(values rules.FieldValues) []string {
	var out []string
	for _, f := range d.Fields {
		if d.IsVisible(f.Name, values) {
			out = append(out, f.Name)
		}
	}
	return out
}

// IsVisible reports whether field is shown for values.
func (d *Definition) IsVisible(field string, values rules.FieldValues) bool {
	conds, ok := d.Visibility[field]
	return !ok || evaluator.Holds(conds, values)
}

// Optional reports whether field is only shown under some condition.
func (d *Definition) Optional(field string) bool {
	_, ok := d.Visibility[field]
	return ok
}

// Prune drops the values of hidden fields. Hiding a field can hide others
// that depend on it, so pruning repeats until nothing changes.
func (d *Definition) Prune(values rules.FieldValues) (rules.FieldValues, []string) {
	var dropped []string
	for {
		changed := false
		for _, f := range d.Fields {
			if values.Has(f.Name) && !d.IsVisible(f.Name, values) {
				values = values.With(f.Name, rules.Absent())
				dropped = append(dropped, f.Name)
				changed = true
			}
		}
		if !changed {
			return values, dropped
		}
	}
}

// Locked reports whether field is read-only for values.
func (d *Definition) Locked(field string, values rules.FieldValues) bool {
	conds, ok := d.Locks[field]
	return ok && evaluator.Holds(conds, values)
}

// Transition applies every transition registered for an edit of field, in
// declaration order.
func (d *Definition) Transition(field string, values rules.FieldValues) (rules.FieldValues, []string) {
	var fired []string
	for _, t := range d.Transitions {
		var ok bool
		if values, ok = t.Apply(field, values); ok {
			fired = append(fired, t.Name)
		}
	}
	return values, fired
}
