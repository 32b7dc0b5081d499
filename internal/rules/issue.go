package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeRequired             = "required"
	CodeInvalidFormat        = "invalid_format"
	CodeTooShort             = "too_short"
	CodeInvalidLiteral       = "invalid_literal"
	CodeUnrecognizedKey      = "unrecognized_key"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeCustom               = "custom"
)

// Issue is a single validation failure attached to a field.
type Issue struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	// Rule names the rule or shape that produced the issue, if any.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Issues is an ordered list of validation failures. An empty list means the
// values are valid.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// For returns the issues targeting path, in order.
func (iss Issues) For(path string) Issues {
	var out Issues
	for _, it := range iss {
		if it.Path == path {
			out = append(out, it)
		}
	}
	return out
}

// Has reports whether any issue targets path.
func (iss Issues) Has(path string) bool {
	for _, it := range iss {
		if it.Path == path {
			return true
		}
	}
	return false
}

// Messages groups issue messages by path, keeping their order.
func (iss Issues) Messages() map[string][]string {
	out := make(map[string][]string)
	for _, it := range iss {
		out[it.Path] = append(out[it.Path], it.Message)
	}
	return out
}

// AsIssues extracts Issues from an error chain.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
