package evaluator

import (
	"rgehrsitz/condform/internal/rules"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// passes reports whether v satisfies the check named by r.Check. Unknown
// checks pass; rule files are validated before they reach the evaluator.
func passes(r rules.Rule, v rules.Value) bool {
	switch r.Check {
	case rules.CheckRequired:
		return !v.Blank()
	case rules.CheckEmail:
		if v.IsAbsent() {
			return true
		}
		s, ok := v.Text()
		return ok && IsEmail(s)
	case rules.CheckMinLength:
		if v.IsAbsent() {
			return true
		}
		s, ok := v.Text()
		return ok && utf8.RuneCountInString(s) >= IntParam(r.Params, "min", 1)
	case rules.CheckTrue:
		return v.IsTrue()
	case rules.CheckFalse:
		return !v.IsTrue()
	case rules.CheckAbsent:
		return v.IsAbsent()
	default:
		return true
	}
}

// IsEmail reports whether s is a well-formed email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IntParam reads an integer parameter decoded from JSON or YAML.
func IntParam(params map[string]interface{}, key string, def int) int {
	switch n := params[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}
