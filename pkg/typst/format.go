package typst

import (
	"fmt"
	"strconv"
	"time"
)

const (
	currencySymbol  = "$"
	defaultDecimals = 2

	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// Resolve walks a source path through the data context. A missing key or a
// non-map intermediate yields nil; absence is an authoring-time concern, not
// a rendering failure.
func Resolve(source []string, data map[string]any) any {
	cur := any(data)
	for _, key := range source {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// FormatValue renders a resolved value under the given format tag. Nil
// always renders empty. Values a tag cannot interpret fall back to their
// raw rendering rather than erroring.
func FormatValue(v any, format string, decimals *int) string {
	if v == nil {
		return ""
	}

	dec := defaultDecimals
	if decimals != nil {
		dec = *decimals
	}

	switch format {
	case "number":
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', dec, 64)
		}
	case "currency":
		if f, ok := toFloat(v); ok {
			return currencySymbol + strconv.FormatFloat(f, 'f', dec, 64)
		}
	case "percent":
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f*100, 'f', dec, 64) + "%"
		}
	case "date":
		if t, ok := toTime(v); ok {
			return t.Format(dateLayout)
		}
	case "datetime":
		if t, ok := toTime(v); ok {
			return t.Format(datetimeLayout)
		}
	}

	return rawValue(v)
}

// rawValue is the untagged rendering: strings verbatim, numbers in their
// shortest form, times in datetime form.
func rawValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case time.Time:
		return t.Format(datetimeLayout)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	default:
		return 0, false
	}
}

// toTime accepts time values directly and strings in either supported
// layout, so JSON data (where timestamps arrive as strings) formats the
// same as natively typed TOML datetimes.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339, datetimeLayout, dateLayout} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
