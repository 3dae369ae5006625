package compile

import (
	"strconv"

	"github.com/folio-reports/folio/pkg/errors"
	"github.com/folio-reports/folio/pkg/layout"
)

// normalizeTracks converts a column or row sizing declaration into the
// canonical ordered list of track-size tokens.
//
// Accepted shapes:
//   - nil: no tracks
//   - "auto": a single auto track
//   - a positive integer n: n equal auto tracks (a count, not sizes)
//   - a list, mapped element-wise: "auto" stays "auto", {fr: n} becomes
//     "<n>fr", an explicit string size passes through, and a bare numeric
//     literal is an absolute size in points ("<n>pt")
//
// Anything else aborts with INVALID_TRACK_DEFINITION naming the axis.
func normalizeTracks(v any, axis string) ([]string, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case string:
		if tv == "auto" {
			return []string{"auto"}, nil
		}
	case []any:
		return normalizeTrackList(tv, axis)
	case []string:
		out := make([]string, len(tv))
		copy(out, tv)
		return out, nil
	default:
		if n, ok := asInt(v); ok && n > 0 {
			out := make([]string, n)
			for i := range out {
				out[i] = "auto"
			}
			return out, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidTrack, "invalid %s definition: %v", axis, v)
}

func normalizeTrackList(list []any, axis string) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, el := range list {
		token, err := normalizeTrackToken(el, axis)
		if err != nil {
			return nil, err
		}
		out = append(out, token)
	}
	return out, nil
}

func normalizeTrackToken(el any, axis string) (string, error) {
	switch tv := el.(type) {
	case string:
		// "auto" and explicit sizes ("1fr", "20pt", "2cm") pass through.
		return tv, nil
	default:
		if m, ok := asMap(el); ok {
			if fr, ok := m["fr"]; ok {
				if s, ok := formatNumber(fr); ok {
					return s + "fr", nil
				}
			}
			return "", errors.New(errors.ErrCodeInvalidTrack, "invalid %s track: %v", axis, el)
		}
		if s, ok := formatNumber(el); ok {
			return s + "pt", nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidTrack, "invalid %s track: %v", axis, el)
}

// formatNumber renders a numeric value as a minimal decimal string.
// Integers print without a fractional part; floats drop trailing zeros.
func formatNumber(v any) (string, bool) {
	if n, ok := asInt(v); ok {
		return strconv.Itoa(n), true
	}
	if f, ok := asFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

// asInt reports v as an int when it is an integral numeric value.
// TOML decodes integers as int64, JSON as float64, YAML as int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case float32:
		if n == float32(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// asFloat reports v as a float64 when it is any numeric value.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// asMap normalizes the map shapes the decoders produce.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case layout.Item:
		return m, true
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

// asList normalizes the list shapes the decoders produce. BurntSushi/toml
// yields []map[string]any for table arrays; YAML and JSON yield []any.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}
