package schema

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/groblegark/trellis/internal/model"
)

// checkFunc inspects a present value and returns a message suffix
// ("must be a number") when the value fails the check, or "" when it passes.
type checkFunc func(value any) string

// typeChecks maps field types to their structural check. Types without an
// entry are permissive: any present value is accepted. Adding validation for
// a new type means adding a table entry, not growing a conditional chain.
var typeChecks = map[model.FieldType]checkFunc{
	model.FieldNumber: checkNumber,
	model.FieldEmail:  checkEmail,
	model.FieldURL:    checkURL,
	model.FieldDate:   checkDate,
}

// emailPattern: one @ with non-whitespace on both sides and a dot in the
// domain part. Deliberately loose; deliverability is not the gate's job.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func checkNumber(value any) string {
	switch n := value.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "must be a number"
		}
		return ""
	case float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ""
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "must be a number"
		}
		return ""
	default:
		return "must be a number"
	}
}

func checkEmail(value any) string {
	if !emailPattern.MatchString(stringify(value)) {
		return "must be a valid email"
	}
	return ""
}

func checkURL(value any) string {
	u, err := url.Parse(stringify(value))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "must be a valid URL"
	}
	return ""
}

// dateLayouts are the timestamp shapes the gate recognizes, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

func checkDate(value any) string {
	s := stringify(value)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return ""
		}
	}
	return "must be a valid date"
}

// stringify renders a candidate value for pattern-based checks. Non-string
// scalars are formatted with their default representation, matching the
// coercion the frontend applies before display.
func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
