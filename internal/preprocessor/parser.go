package preprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"rgehrsitz/condform/internal/rules"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat     = errors.New("unsupported format")
	ErrUnknownOperator       = errors.New("unknown operator")
	ErrUnknownCheck          = errors.New("unknown check")
	ErrInvalidConditionValue = errors.New("invalid condition value")
	ErrEmptyMessage          = errors.New("empty message")
	ErrDuplicateRule         = errors.New("duplicate rule name")
)

// Format is the encoding of a rule or values file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func decode(data []byte, format Format, out interface{}) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(out)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(out)
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// ParseRuleSet decodes a rule set. It does not check the rules against a
// catalog; call ValidateRuleSet for that.
func ParseRuleSet(data []byte, format Format) (*rules.RuleSet, error) {
	log.Debug().Str("format", string(format)).Msg("parsing rule set")
	var rs rules.RuleSet
	if err := decode(data, format, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	return &rs, nil
}

// ParseAndValidateRuleSet parses a rule set and validates it against catalog.
func ParseAndValidateRuleSet(data []byte, format Format, catalog rules.Catalog) (*rules.RuleSet, error) {
	rs, err := ParseRuleSet(data, format)
	if err != nil {
		return nil, err
	}
	if err := ValidateRuleSet(rs, catalog); err != nil {
		return nil, err
	}
	return rs, nil
}

// ParseValues decodes a values document into FieldValues typed by catalog.
func ParseValues(data []byte, format Format, catalog rules.Catalog) (rules.FieldValues, error) {
	raw := make(map[string]interface{})
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse values: %w", err)
	}
	return rules.DecodeValues(raw, catalog)
}

// ValidateRuleSet reports the first configuration defect in rs: a rule
// targeting or testing a field missing from catalog, an unknown check or
// operator, a condition value of the wrong type, or a missing message.
func ValidateRuleSet(rs *rules.RuleSet, catalog rules.Catalog) error {
	log.Debug().Str("ruleSet", rs.Name).Int("rules", len(rs.Rules)).Msg("validating rule set")
	seen := make(map[string]bool)
	for i, rule := range rs.Rules {
		if err := validateRule(rule, catalog); err != nil {
			return fmt.Errorf("rule %d (%s): %w", i, rule.Name, err)
		}
		if rule.Name != "" {
			if seen[rule.Name] {
				return fmt.Errorf("rule %d (%s): %w", i, rule.Name, ErrDuplicateRule)
			}
			seen[rule.Name] = true
		}
	}
	return nil
}

func validateRule(rule rules.Rule, catalog rules.Catalog) error {
	if rule.Name == "" {
		return errors.New("rule name cannot be empty")
	}
	if strings.TrimSpace(rule.Message) == "" {
		return ErrEmptyMessage
	}
	field, ok := catalog.Lookup(rule.Field)
	if !ok {
		return fmt.Errorf("target %q: %w", rule.Field, rules.ErrUnknownField)
	}
	if err := validateCheck(rule, field); err != nil {
		return err
	}
	if err := validateConditions(rule.When.All, catalog); err != nil {
		return err
	}
	return validateConditions(rule.When.Any, catalog)
}

func validateCheck(rule rules.Rule, field rules.Field) error {
	switch rule.Check {
	case rules.CheckRequired, rules.CheckAbsent:
		return nil
	case rules.CheckEmail:
		return requireKind(rule.Check, field, rules.KindText)
	case rules.CheckMinLength:
		if err := requireKind(rule.Check, field, rules.KindText); err != nil {
			return err
		}
		if _, ok := rule.Params["min"]; !ok {
			return fmt.Errorf("check %q needs a min param", rule.Check)
		}
		return nil
	case rules.CheckTrue, rules.CheckFalse:
		return requireKind(rule.Check, field, rules.KindBool)
	default:
		return fmt.Errorf("%q: %w", rule.Check, ErrUnknownCheck)
	}
}

func requireKind(check string, field rules.Field, kind rules.Kind) error {
	if field.Kind != kind {
		return fmt.Errorf("check %q cannot apply to %s field %q", check, field.Kind, field.Name)
	}
	return nil
}

func validateConditions(conds []rules.Condition, catalog rules.Catalog) error {
	for i, cond := range conds {
		if err := validateCondition(cond, catalog); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}

func validateCondition(cond rules.Condition, catalog rules.Catalog) error {
	if cond.Field == "" {
		if len(cond.All) == 0 && len(cond.Any) == 0 {
			return errors.New("condition must have either field or nested conditions")
		}
		if cond.Operator != "" {
			return errors.New("nested condition group cannot have an operator")
		}
		if err := validateConditions(cond.All, catalog); err != nil {
			return err
		}
		return validateConditions(cond.Any, catalog)
	}
	if len(cond.All) > 0 || len(cond.Any) > 0 {
		return fmt.Errorf("condition on %q cannot also nest conditions", cond.Field)
	}

	field, ok := catalog.Lookup(cond.Field)
	if !ok {
		return fmt.Errorf("%q: %w", cond.Field, rules.ErrUnknownField)
	}
	if !isValidOperator(cond.Operator) {
		return fmt.Errorf("%q: %w", cond.Operator, ErrUnknownOperator)
	}
	return validateConditionValue(cond, field)
}

func validateConditionValue(cond rules.Condition, field rules.Field) error {
	switch cond.Operator {
	case rules.OperatorPresent, rules.OperatorAbsent:
		if cond.Value != nil {
			return fmt.Errorf("operator %q takes no value: %w", cond.Operator, ErrInvalidConditionValue)
		}
		return nil
	case rules.OperatorContains, rules.OperatorNotContains:
		if field.Kind != rules.KindText {
			return fmt.Errorf("operator %q needs a text field, %q is %s: %w", cond.Operator, field.Name, field.Kind, ErrInvalidConditionValue)
		}
		if _, ok := cond.Value.(string); !ok {
			return fmt.Errorf("expected string value for operator %q: %w", cond.Operator, ErrInvalidConditionValue)
		}
		return nil
	case rules.OperatorIn:
		list, ok := cond.Value.([]interface{})
		if !ok || len(list) == 0 {
			return fmt.Errorf("expected a non-empty list for operator %q: %w", cond.Operator, ErrInvalidConditionValue)
		}
		for _, v := range list {
			if err := checkComparable(field, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return checkComparable(field, cond.Value)
	}
}

// checkComparable verifies that v can equal a value stored in field.
func checkComparable(field rules.Field, v interface{}) error {
	switch field.Kind {
	case rules.KindBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected bool value for field %q, got %T: %w", field.Name, v, ErrInvalidConditionValue)
		}
	case rules.KindText:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected string value for field %q, got %T: %w", field.Name, v, ErrInvalidConditionValue)
		}
	case rules.KindCategory:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected category value for field %q, got %T: %w", field.Name, v, ErrInvalidConditionValue)
		}
		if len(field.Options) > 0 && !contains(field.Options, s) {
			return fmt.Errorf("%q is not an option of field %q: %w", s, field.Name, ErrInvalidConditionValue)
		}
	default:
		return fmt.Errorf("field %q of kind %s cannot be compared: %w", field.Name, field.Kind, ErrInvalidConditionValue)
	}
	return nil
}

func isValidOperator(operator string) bool {
	return contains(rules.SupportedOperators, operator)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
