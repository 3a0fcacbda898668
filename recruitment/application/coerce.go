package application

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Coercions are total: every unusable input maps to the type's default.

var currencySuffix = regexp.MustCompile(`(?i)lpa`)

// isNotProvided reports whether v means "no value": absent, null, empty,
// or one of the placeholder words "none" / "na" in any case.
func isNotProvided(v Value) bool {
	switch v.kind {
	case KindAbsent, KindNull:
		return true
	case KindString:
		s := strings.ToLower(strings.TrimSpace(v.text))
		return s == "" || s == "none" || s == "na"
	default:
		return false
	}
}

// CoerceInt parses v as a floating-point number and truncates it toward zero
func CoerceInt(v Value) int {
	if isNotProvided(v) {
		return 0
	}

	switch v.kind {
	case KindNumber:
		return truncate(v.num)
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0
		}
		return truncate(f)
	default:
		return 0
	}
}

// CoerceFloat parses v as a float after removing any "LPA" suffix
func CoerceFloat(v Value) float64 {
	if isNotProvided(v) {
		return 0
	}

	switch v.kind {
	case KindNumber:
		return finite(v.num)
	case KindString:
		cleaned := strings.TrimSpace(currencySuffix.ReplaceAllString(v.text, ""))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return finite(f)
	default:
		return 0
	}
}

// CoerceString renders v as text. Numbers keep their submitted literal.
// CRLF line breaks become LF so the text survives a trip through the
// flat file unchanged.
func CoerceString(v Value) string {
	switch v.kind {
	case KindString:
		return normalizeNewlines(v.text)
	case KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList, KindObject:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// CoerceStringList accepts a list, a JSON array literal, or a single string.
// Anything else yields an empty list.
func CoerceStringList(v Value) []string {
	switch v.kind {
	case KindList:
		return renderList(v.list)
	case KindString:
		var items []Value
		if err := json.Unmarshal([]byte(v.text), &items); err != nil || items == nil {
			return []string{CoerceString(v)}
		}
		return renderList(items)
	default:
		return []string{}
	}
}

// normalizeNewlines repeats until no CRLF is left, so "\r\r\n" ends as "\n"
func normalizeNewlines(s string) string {
	for strings.Contains(s, "\r\n") {
		s = strings.ReplaceAll(s, "\r\n", "\n")
	}
	return s
}

func renderList(items []Value) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, CoerceString(item))
	}
	return out
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Trunc(f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0
	}
	return int(t)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
