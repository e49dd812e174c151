package intelligence

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/inbox/internal/domain"
)

// loose is a JSON object read with per-field tolerance: every accessor
// takes a list of accepted keys and falls back instead of failing.
type loose map[string]any

// value returns the first present, non-null value among keys.
func (l loose) value(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := l[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (l loose) str(def string, keys ...string) string {
	if p := l.optStr(keys...); p != nil {
		return *p
	}
	return def
}

// optStr returns nil for missing, blank and "null" values.
func (l loose) optStr(keys ...string) *string {
	for _, k := range keys {
		v, ok := l.value(k)
		if !ok {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(t)
		default:
			continue
		}
		if p := domain.OptionalStr(s); p != nil {
			return p
		}
	}
	return nil
}

func (l loose) number(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := l.value(k)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func (l loose) optNumber(keys ...string) *float64 {
	if f, ok := l.number(keys...); ok {
		return &f
	}
	return nil
}

func (l loose) intOr(def int, keys ...string) int {
	if f, ok := l.number(keys...); ok {
		return int(math.Round(f))
	}
	return def
}

func (l loose) boolOr(def bool, keys ...string) bool {
	v, ok := l.value(keys...)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		if b, ok := parseYesNo(t); ok {
			return b
		}
	}
	return def
}

// date returns nil when no key holds a parseable date.
func (l loose) date(keys ...string) *domain.Date {
	for _, k := range keys {
		if s := l.optStr(k); s != nil {
			if d, err := domain.ParseDate(*s); err == nil {
				return &d
			}
		}
	}
	return nil
}

func (l loose) clock(keys ...string) *domain.Clock {
	for _, k := range keys {
		if s := l.optStr(k); s != nil {
			if c, err := domain.ParseClock(*s); err == nil {
				return &c
			}
		}
	}
	return nil
}

// strs reads a string list. A bare string becomes a one-element list. The
// result is never nil.
func (l loose) strs(keys ...string) []string {
	out := []string{}
	v, ok := l.value(keys...)
	if !ok {
		return out
	}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if p := domain.OptionalStr(s); p != nil {
					out = append(out, *p)
				}
			}
		}
	case string:
		if p := domain.OptionalStr(t); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func (l loose) object(keys ...string) (loose, bool) {
	v, ok := l.value(keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return loose(m), ok
}

func (l loose) objects(keys ...string) []loose {
	v, ok := l.value(keys...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []loose
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, loose(m))
		}
	}
	return out
}

// overlay returns a copy of l with every key of top written over it.
func (l loose) overlay(top loose) loose {
	out := make(loose, len(l)+len(top))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// draftFields flattens a typed draft back into a loose object using its
// JSON field names.
func draftFields(d domain.Draft) loose {
	out := loose{}
	if d == nil {
		return out
	}
	data, err := json.Marshal(d)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(data, &out)
	return out
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "ok", "sure":
		return true, true
	case "no", "n", "false", "0", "nope":
		return false, true
	default:
		return false, false
	}
}
