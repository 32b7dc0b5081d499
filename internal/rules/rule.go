// internal/rules/rule.go

package rules

// Checks a rule can apply to its target field.
const (
	// CheckRequired fails when the field is absent, an empty text, or an
	// empty file handle.
	CheckRequired = "required"
	// CheckEmail fails when the field holds text that is not an email address.
	// Absent fields pass.
	CheckEmail = "email"
	// CheckMinLength fails when the field holds text shorter than params.min.
	CheckMinLength = "minLength"
	// CheckTrue fails unless the field is the boolean true.
	CheckTrue = "true"
	// CheckFalse fails when the field is the boolean true.
	CheckFalse = "false"
	// CheckAbsent fails when the field holds any value.
	CheckAbsent = "absent"
)

var SupportedChecks = []string{
	CheckRequired,
	CheckEmail,
	CheckMinLength,
	CheckTrue,
	CheckFalse,
	CheckAbsent,
}

// Rule states that Field must pass Check whenever When holds. A rule with an
// empty When applies unconditionally.
type Rule struct {
	Name    string                 `json:"name" yaml:"name"`
	When    Conditions             `json:"when,omitempty" yaml:"when,omitempty"`
	Field   string                 `json:"field" yaml:"field"`
	Check   string                 `json:"check" yaml:"check"`
	Params  map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
	Message string                 `json:"message" yaml:"message"`
	// Code overrides the issue code derived from Check.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`
}

// IssueCode returns the code reported when the rule fails.
func (r Rule) IssueCode() string {
	if r.Code != "" {
		return r.Code
	}
	if !r.When.IsEmpty() {
		return CodeCustom
	}
	switch r.Check {
	case CheckRequired:
		return CodeRequired
	case CheckEmail:
		return CodeInvalidFormat
	case CheckMinLength:
		return CodeTooShort
	case CheckTrue, CheckFalse:
		return CodeInvalidLiteral
	case CheckAbsent:
		return CodeUnrecognizedKey
	default:
		return CodeCustom
	}
}

// RuleSet is an ordered, immutable list of rules evaluated independently.
type RuleSet struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []Rule `json:"rules" yaml:"rules"`
}

// Fields returns the target fields of the rule set in declaration order,
// without duplicates.
func (rs RuleSet) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rs.Rules {
		if !seen[r.Field] {
			seen[r.Field] = true
			out = append(out, r.Field)
		}
	}
	return out
}
