// Package interval translates abstract schedule intervals into canonical
// five-field cron syntax.
//
// An interval is either a named alias (e.g. "@monthly") or a five-field cron
// expression. Aliases map to their documented canonical equivalents.
// Five-field expressions are validated syntactically only: field count and
// per-field shape (literal, *, list, range, step). Numeric range sanity
// (e.g. day-of-month 32) is deliberately not checked here - the downstream
// cron daemon is the authority on what it will run.
package interval

import (
	"fmt"
	"strings"
)

// aliases maps the supported named shorthands to their canonical
// five-field equivalents.
var aliases = map[string]string{
	"@yearly":   "0 0 1 1 *",
	"@annually": "0 0 1 1 *",
	"@monthly":  "0 0 1 * *",
	"@weekly":   "0 0 * * 0",
	"@daily":    "0 0 * * *",
	"@midnight": "0 0 * * *",
	"@hourly":   "0 * * * *",
}

// InvalidIntervalError reports an interval that is neither a known alias
// nor a well-formed five-field cron expression.
type InvalidIntervalError struct {
	// Schedule is the name of the schedule the interval belongs to.
	// Empty when the interval was validated outside a schedule context.
	Schedule string

	// Spec is the offending interval specification.
	Spec string

	// Reason describes what made the spec invalid.
	Reason string
}

func (e *InvalidIntervalError) Error() string {
	if e.Schedule != "" {
		return fmt.Sprintf("invalid interval %q for schedule %q: %s", e.Spec, e.Schedule, e.Reason)
	}
	return fmt.Sprintf("invalid interval %q: %s", e.Spec, e.Reason)
}

// Translate converts an interval specification into canonical five-field
// cron syntax. Known aliases are expanded; five-field expressions are
// returned unchanged after syntactic validation.
func Translate(spec string) (string, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return "", &InvalidIntervalError{Spec: spec, Reason: "empty interval"}
	}

	if strings.HasPrefix(trimmed, "@") {
		canonical, ok := aliases[strings.ToLower(trimmed)]
		if !ok {
			return "", &InvalidIntervalError{Spec: spec, Reason: "unknown alias"}
		}
		return canonical, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 5 {
		return "", &InvalidIntervalError{
			Spec:   spec,
			Reason: fmt.Sprintf("expected 5 fields, got %d", len(fields)),
		}
	}
	for i, field := range fields {
		// Month and day-of-week accept names (jan, mon); the rest are numeric.
		if err := validateField(field, i >= 3); err != nil {
			return "", &InvalidIntervalError{
				Spec:   spec,
				Reason: fmt.Sprintf("field %d: %v", i+1, err),
			}
		}
	}
	return strings.Join(fields, " "), nil
}

// TranslateFor is Translate with the owning schedule name attached to any
// resulting error, for per-schedule failure reporting.
func TranslateFor(schedule, spec string) (string, error) {
	canonical, err := Translate(spec)
	if err != nil {
		if ie, ok := err.(*InvalidIntervalError); ok {
			ie.Schedule = schedule
		}
		return "", err
	}
	return canonical, nil
}

// validateField checks one cron field: a comma-separated list of elements,
// each a term with an optional /step suffix, where a term is "*", a value,
// or a value-value range. Values are numeric; with allowNames set they may
// also be alphabetic (month and day-of-week abbreviations).
func validateField(field string, allowNames bool) error {
	for _, element := range strings.Split(field, ",") {
		if element == "" {
			return fmt.Errorf("empty list element")
		}
		term := element
		if idx := strings.IndexByte(element, '/'); idx >= 0 {
			term = element[:idx]
			step := element[idx+1:]
			if !isNumber(step) {
				return fmt.Errorf("bad step %q", step)
			}
		}
		if term == "*" {
			continue
		}
		lo, hi, isRange := strings.Cut(term, "-")
		if !isValue(lo, allowNames) {
			return fmt.Errorf("bad value %q", term)
		}
		if isRange && !isValue(hi, allowNames) {
			return fmt.Errorf("bad range %q", term)
		}
	}
	return nil
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isValue accepts a numeric literal, or an alphabetic name (month or
// day-of-week abbreviation) when names are allowed for the field.
// Case is not significant to cron.
func isValue(s string, allowNames bool) bool {
	if s == "" {
		return false
	}
	if isNumber(s) {
		return true
	}
	if !allowNames {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
