package service

import (
	"encoding/json"
	"sort"

	"go.uber.org/zap"
)

// NormalizeMarkets accepts a decoded JSON value and returns the market records
// it carries. A bare array is returned as-is, as is the "markets" array of an
// object. Any other shape yields an empty slice and a diagnostic log line.
// Record contents are not inspected.
func NormalizeMarkets(logger *zap.Logger, value any) []any {
	markets, ok := extractMarkets(value)
	if ok {
		return markets
	}
	if logger != nil {
		fields := []zap.Field{zap.String("type", jsonTypeName(value))}
		if obj, isObj := value.(map[string]any); isObj {
			fields = append(fields, zap.Strings("keys", sortedKeys(obj)))
			if inner, has := obj["markets"]; has {
				fields = append(fields, zap.String("markets_type", jsonTypeName(inner)))
			}
		}
		logger.Warn("unrecognized market feed shape", fields...)
	}
	return []any{}
}

func extractMarkets(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		if v == nil {
			return []any{}, true
		}
		return v, true
	case map[string]any:
		if inner, ok := v["markets"].([]any); ok {
			if inner == nil {
				return []any{}, true
			}
			return inner, true
		}
	}
	return nil, false
}

func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float64:
		return "number"
	default:
		return "unknown"
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
