package availability

import (
	"strings"
	"time"
)

// NormalizeDate canonicalizes heterogeneous date representations to a
// YYYY-MM-DD string. time.Time values are taken at their UTC calendar date,
// ISO timestamps are cut at the first 'T', and anything else passes through
// unchanged. Upstream storage supplies well-formed dates; garbage in means
// garbage out rather than an error.
func NormalizeDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.UTC().Format("2006-01-02")
	case string:
		if i := strings.IndexByte(d, 'T'); i >= 0 {
			return d[:i]
		}
		return d
	default:
		return ""
	}
}

// NormalizeTime pads HH:MM values to HH:MM:SS so lexicographic comparison is
// safe. Already-padded values and anything unrecognized pass through; the
// empty string stays empty.
func NormalizeTime(t string) string {
	switch {
	case t == "":
		return ""
	case len(t) == 8 && strings.Count(t, ":") == 2:
		return t
	case len(t) == 5 && strings.Count(t, ":") == 1:
		return t + ":00"
	default:
		return t
	}
}

// IsValidTimeFormat reports whether t is a well-formed HH:MM or HH:MM:SS
// clock value with hour 00-23 and minute/second 00-59. This is fixed-pattern
// matching, not general date parsing.
func IsValidTimeFormat(t string) bool {
	parts := strings.Split(t, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return false
	}
	for i, p := range parts {
		if len(p) != 2 || !isDigits(p) {
			return false
		}
		n := int(p[0]-'0')*10 + int(p[1]-'0')
		if i == 0 {
			if n > 23 {
				return false
			}
		} else if n > 59 {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
