package form

import (
	"fmt"
	"sort"
	"strings"

	"visitor-console/internal/catalog"
	"visitor-console/internal/model"
)

// FieldErrors maps a field name to the reason it was rejected.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e[name]))
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// ValidateStage checks every rule of the schema against input and returns the
// accepted fields. All fields are checked; errors are collected, not raised on
// the first failure. Blank values count as missing. Names outside the schema
// are ignored.
func ValidateStage(schema Schema, input model.FormRecord) (model.FormRecord, FieldErrors) {
	validated := make(model.FormRecord)
	errs := make(FieldErrors)

	for _, rule := range schema.Fields {
		raw, present := input[rule.Name]
		value := strings.TrimSpace(raw)

		if msg, ok := checkRule(rule, value); !ok {
			errs[rule.Name] = msg
			continue
		}
		if present {
			validated[rule.Name] = value
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return validated, nil
}

func checkRule(rule FieldRule, value string) (string, bool) {
	if value == "" {
		if rule.Kind == Optional {
			return "", true
		}
		return fmt.Sprintf("%s is a required field", rule.Name), false
	}

	if rule.Kind == RequiredIfPattern && rule.re != nil && !rule.re.MatchString(value) {
		if rule.Message != "" {
			return rule.Message, false
		}
		return fmt.Sprintf("%s must match %s", rule.Name, rule.Pattern), false
	}

	if len(rule.Allowed) > 0 && !catalog.Contains(rule.Allowed, value) {
		return fmt.Sprintf("%s must be one of the listed options", rule.Name), false
	}
	return "", true
}
