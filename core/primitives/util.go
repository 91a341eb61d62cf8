// SPDX-License-Identifier: LGPL-3.0-or-later

package primitives

import "github.com/agrama-db/agrama/pkg/errors"

func requireString(params map[string]interface{}, field string) (string, error) {
	v, ok := params[field]
	if !ok {
		return "", errors.ErrValidationFailed.WithDetail("field", field).WithDetail("reason", "missing")
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.ErrValidationFailed.WithDetail("field", field).WithDetail("reason", "must be a non-empty string")
	}
	return s, nil
}

func optString(params map[string]interface{}, field, def string) string {
	if v, ok := params[field].(string); ok && v != "" {
		return v
	}
	return def
}

func optBool(params map[string]interface{}, field string) bool {
	v, _ := params[field].(bool)
	return v
}

func optInt(params map[string]interface{}, field string, def int) int {
	switch v := params[field].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func optFloat(params map[string]interface{}, field string, def float64) float64 {
	switch v := params[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

func optMetadata(params map[string]interface{}, field string) map[string]interface{} {
	m, _ := params[field].(map[string]interface{})
	return m
}

func optStringSlice(params map[string]interface{}, field string) []string {
	raw, ok := params[field].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
