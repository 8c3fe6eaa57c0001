// Package validation holds the field-level checks shared by the master forms.
package validation

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every Errors value.
var ErrInvalid = errors.New("validation failed")

// Errors maps a field name to its message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return ErrInvalid }

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns nil when there are no field errors.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	// Indian registration plates: state, district, series, number (MH12AB1234, KA01F9999).
	vehicleNumberPattern = regexp.MustCompile(`^[A-Z]{2}\d{1,2}[A-Z]{0,3}\d{4}$`)
	codePattern          = regexp.MustCompile(`^[A-Z0-9_]{2,20}$`)
)

func (e Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
		return false
	}
	return true
}

// Phone checks for exactly 10 digits after stripping spaces and dashes.
func (e Errors) Phone(field, value string) {
	if !e.Required(field, value) {
		return
	}
	if !phonePattern.MatchString(NormalizePhone(value)) {
		e.Add(field, "must be a 10-digit phone number")
	}
}

// OptionalPhone checks value only when it is set.
func (e Errors) OptionalPhone(field, value string) {
	if strings.TrimSpace(value) != "" {
		e.Phone(field, value)
	}
}

func (e Errors) VehicleNumber(field, value string) {
	if !e.Required(field, value) {
		return
	}
	if !vehicleNumberPattern.MatchString(NormalizeVehicleNumber(value)) {
		e.Add(field, "must look like MH12AB1234")
	}
}

func (e Errors) Code(field, value string) {
	if !e.Required(field, value) {
		return
	}
	if !codePattern.MatchString(value) {
		e.Add(field, "must be 2-20 upper-case letters, digits or underscores")
	}
}

func (e Errors) Positive(field string, v float64) {
	if v <= 0 {
		e.Add(field, "must be greater than zero")
	}
}

// DistinctPlaces checks that origin and destination are set and differ.
func (e Errors) DistinctPlaces(originField, origin, destField, dest string) {
	okOrigin := e.Required(originField, origin)
	okDest := e.Required(destField, dest)
	if okOrigin && okDest && strings.EqualFold(strings.TrimSpace(origin), strings.TrimSpace(dest)) {
		e.Add(destField, "must differ from "+originField)
	}
}

func (e Errors) OneOf(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Add(field, "must be one of "+strings.Join(allowed, ", "))
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "02-01-2006"}

// ParseDate accepts the date layouts the backend and the dashboard emit.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date checks that value is a required, parseable date.
func (e Errors) Date(field, value string) (time.Time, bool) {
	if !e.Required(field, value) {
		return time.Time{}, false
	}
	t, ok := ParseDate(value)
	if !ok {
		e.Add(field, "must be a date (YYYY-MM-DD)")
	}
	return t, ok
}

func NormalizePhone(v string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(v))
}

func NormalizeVehicleNumber(v string) string {
	return strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(v)))
}
