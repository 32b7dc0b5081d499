// internal/evaluator/condition.go

package evaluator

import (
	"rgehrsitz/condform/internal/rules"
	"strings"
)

// Holds reports whether conds hold over values. Empty conditions always hold.
func Holds(conds rules.Conditions, values rules.FieldValues) bool {
	return holdsAll(conds.All, values) && holdsAny(conds.Any, values)
}

func holdsAll(conds []rules.Condition, values rules.FieldValues) bool {
	for _, c := range conds {
		if !holds(c, values) {
			return false
		}
	}
	return true
}

// holdsAny is vacuously true for an empty list so that a Conditions with only
// All behaves as a conjunction.
func holdsAny(conds []rules.Condition, values rules.FieldValues) bool {
	if len(conds) == 0 {
		return true
	}
	for _, c := range conds {
		if holds(c, values) {
			return true
		}
	}
	return false
}

func holds(c rules.Condition, values rules.FieldValues) bool {
	if c.Field == "" {
		return holdsAll(c.All, values) && holdsAny(c.Any, values)
	}

	v := values.Get(c.Field)
	switch c.Operator {
	case rules.OperatorEqual:
		return matches(v, c.Value)
	case rules.OperatorNotEqual:
		return !matches(v, c.Value)
	case rules.OperatorPresent:
		return !v.Blank()
	case rules.OperatorAbsent:
		return v.Blank()
	case rules.OperatorContains:
		return containsText(v, c.Value)
	case rules.OperatorNotContains:
		return !containsText(v, c.Value)
	case rules.OperatorIn:
		list, ok := c.Value.([]interface{})
		if !ok {
			return false
		}
		for _, want := range list {
			if matches(v, want) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// matches compares a field value with a configured value. Absent values only
// match a nil configuration value.
func matches(v rules.Value, want interface{}) bool {
	switch w := want.(type) {
	case nil:
		return v.IsAbsent()
	case bool:
		b, ok := v.Bool()
		return ok && b == w
	case string:
		if v.Kind() == rules.KindBool {
			return false
		}
		key, ok := v.Key()
		return ok && key == w
	case rules.Category:
		c, ok := v.Category()
		return ok && c == w
	default:
		return false
	}
}

func containsText(v rules.Value, want interface{}) bool {
	s, ok := v.Text()
	if !ok {
		return false
	}
	sub, ok := want.(string)
	return ok && strings.Contains(s, sub)
}
