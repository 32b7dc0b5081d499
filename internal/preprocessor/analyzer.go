package preprocessor

import (
	"rgehrsitz/condform/internal/rules"
	"sort"
)

// Dependencies records which fields each rule reads and which rules must be
// re-run when a field changes.
type Dependencies struct {
	// Consumed maps a rule name to the fields its predicate and check read.
	Consumed map[string][]string
	// ByField maps a field to the names of rules that read it, in rule order.
	ByField map[string][]string
	// Targets maps a rule name to its target field.
	Targets map[string]string
}

// Analyze builds the dependency index of rs.
func Analyze(rs *rules.RuleSet) *Dependencies {
	deps := &Dependencies{
		Consumed: make(map[string][]string),
		ByField:  make(map[string][]string),
		Targets:  make(map[string]string),
	}
	for _, rule := range rs.Rules {
		consumed := consumedFields(rule)
		deps.Consumed[rule.Name] = consumed
		deps.Targets[rule.Name] = rule.Field
		for _, f := range consumed {
			deps.ByField[f] = append(deps.ByField[f], rule.Name)
		}
	}
	return deps
}

// consumedFields returns the predicate fields followed by the target field,
// without duplicates.
func consumedFields(rule rules.Rule) []string {
	fields := rule.When.Fields()
	for _, f := range fields {
		if f == rule.Field {
			return fields
		}
	}
	return append(fields, rule.Field)
}

// Affected returns the target fields whose issues may change when field is
// edited, sorted by name.
func (d *Dependencies) Affected(field string) []string {
	seen := make(map[string]bool)
	for _, name := range d.ByField[field] {
		seen[d.Targets[name]] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Fields returns every field the rule set reads, sorted by name.
func (d *Dependencies) Fields() []string {
	out := make([]string, 0, len(d.ByField))
	for f := range d.ByField {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
