package evaluator

import (
	"rgehrsitz/condform/internal/rules"

	"github.com/rs/zerolog"
)

// RuleSet validates values with an ordered list of independent rules. Every
// rule is evaluated against the same snapshot; a failing rule never stops the
// ones after it, and issues come out in rule declaration order.
type RuleSet struct {
	name   string
	rules  []rules.Rule
	logger zerolog.Logger
}

// NewRuleSet builds a validator from set. The rules are copied so later
// changes to set do not affect the validator.
func NewRuleSet(set rules.RuleSet, opts ...Option) *RuleSet {
	o := buildOptions(opts)
	rs := make([]rules.Rule, len(set.Rules))
	copy(rs, set.Rules)
	return &RuleSet{
		name:   set.Name,
		rules:  rs,
		logger: o.logger.With().Str("validator", set.Name).Logger(),
	}
}

func (r *RuleSet) Name() string { return r.name }

// Rules returns a copy of the rules in declaration order.
func (r *RuleSet) Rules() []rules.Rule {
	out := make([]rules.Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

func (r *RuleSet) Validate(values rules.FieldValues) rules.Issues {
	var issues rules.Issues
	for _, rule := range r.rules {
		if issue, failed := apply(rule, values); failed {
			issues = append(issues, issue)
		}
	}
	r.logger.Debug().Int("rules", len(r.rules)).Int("issues", len(issues)).Msg("rule set evaluated")
	return issues
}

// apply evaluates one rule and returns the issue it produces, if any.
func apply(rule rules.Rule, values rules.FieldValues) (rules.Issue, bool) {
	if !Holds(rule.When, values) {
		return rules.Issue{}, false
	}
	if passes(rule, values.Get(rule.Field)) {
		return rules.Issue{}, false
	}
	return rules.Issue{
		Path:    rule.Field,
		Message: rule.Message,
		Code:    rule.IssueCode(),
		Rule:    rule.Name,
	}, true
}
