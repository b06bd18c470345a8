// Package normalize maps raw column headers to canonical semantic keys.
package normalize

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule maps a header substring to a canonical key.
type Rule struct {
	Substring string
	Key       string
}

// rules is evaluated top to bottom and the first matching substring wins.
// Substrings overlap ("truck" is part of "truck_no"), so the order must not change.
var rules = []Rule{
	{"truck", "truck"},
	{"vehicle", "truck"},
	{"unit", "truck"},
	{"truck_no", "truck_number"},
	{"truck_nbr", "truck_number"},
	{"truck_num", "truck_number"},
	{"truck#", "truck_number"},
	{"trk", "truck"},
	{"loc", "location"},
	{"gps", "location"},
	{"position", "location"},
	{"coord", "location"},
	{"lat", "latitude"},
	{"lon", "longitude"},
	{"long", "longitude"},
	{"status", "status"},
	{"state", "status"},
	{"condition", "status"},
	{"date", "date"},
	{"time", "time"},
	{"timestamp", "datetime"},
	{"driver", "driver"},
	{"operator", "driver"},
	{"load", "load"},
	{"cargo", "load"},
	{"weight", "weight"},
	{"destination", "destination"},
	{"dest", "destination"},
	{"origin", "origin"},
	{"src", "origin"},
	{"speed", "speed"},
	{"velocity", "speed"},
	{"fuel", "fuel"},
	{"mileage", "mileage"},
	{"odometer", "mileage"},
	{"temp", "temperature"},
	{"temperature", "temperature"},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Normalize returns the canonical key for a column header.
// Headers matching no rule become their own key (trimmed and lower-cased).
// An empty result means the column is excluded from mapping.
func Normalize(name string) string {
	s := cases.Lower(language.Und).String(strings.TrimSpace(name))
	for _, r := range rules {
		if strings.Contains(s, r.Substring) {
			return r.Key
		}
	}
	return s
}

// NormalizeValue is Normalize for an arbitrary header value.
// nil and NaN yield the empty key.
func NormalizeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Normalize(t)
	case float64:
		if math.IsNaN(t) {
			return ""
		}
	case float32:
		if math.IsNaN(float64(t)) {
			return ""
		}
	}
	return Normalize(fmt.Sprint(v))
}
