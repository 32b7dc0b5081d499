// internal/rules/condition.go

package rules

const (
	OperatorEqual       = "equal"
	OperatorNotEqual    = "notEqual"
	OperatorPresent     = "present"
	OperatorAbsent      = "absent"
	OperatorContains    = "contains"
	OperatorNotContains = "notContains"
	OperatorIn          = "in"
)

var SupportedOperators = []string{
	OperatorEqual,
	OperatorNotEqual,
	OperatorPresent,
	OperatorAbsent,
	OperatorContains,
	OperatorNotContains,
	OperatorIn,
}

// Conditions is the predicate part of a rule. All conditions in All must hold
// and, when Any is non-empty, at least one of Any must hold. An empty
// Conditions always holds.
type Conditions struct {
	All []Condition `json:"all,omitempty" yaml:"all,omitempty"`
	Any []Condition `json:"any,omitempty" yaml:"any,omitempty"`
}

// IsEmpty reports whether the conditions contain no predicates.
func (c Conditions) IsEmpty() bool {
	return len(c.All) == 0 && len(c.Any) == 0
}

// Condition compares a single field against a configured value, or groups
// nested conditions.
type Condition struct {
	Field    string      `json:"field,omitempty" yaml:"field,omitempty"`
	Operator string      `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	All      []Condition `json:"all,omitempty" yaml:"all,omitempty"`
	Any      []Condition `json:"any,omitempty" yaml:"any,omitempty"`
}

// IsGroup reports whether the condition only nests other conditions.
func (c Condition) IsGroup() bool {
	return c.Field == "" && (len(c.All) > 0 || len(c.Any) > 0)
}

// Fields returns every field referenced by the conditions, in first-seen order.
func (c Conditions) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func([]Condition)
	walk = func(conds []Condition) {
		for _, cond := range conds {
			if cond.Field != "" && !seen[cond.Field] {
				seen[cond.Field] = true
				out = append(out, cond.Field)
			}
			walk(cond.All)
			walk(cond.Any)
		}
	}
	walk(c.All)
	walk(c.Any)
	return out
}

// When builds a Conditions requiring every given condition.
func When(conds ...Condition) Conditions {
	return Conditions{All: conds}
}

// Eq is shorthand for an equal condition.
func Eq(field string, value interface{}) Condition {
	return Condition{Field: field, Operator: OperatorEqual, Value: value}
}

// Present is shorthand for a present condition.
func Present(field string) Condition {
	return Condition{Field: field, Operator: OperatorPresent}
}
