package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const extensionNamespace = "x-postgen"

// ParseExtensions flattens `x-postgen` extensions into string metadata. Both
// the nested form (`x-postgen: {rows: 4}`) and the flat form
// (`x-postgen-rows: 4`) are accepted; flat keys win on conflict.
func ParseExtensions(ext map[string]any) map[string]string {
	if len(ext) == 0 {
		return nil
	}

	result := make(map[string]string)
	if nested, ok := ext[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			if str, ok := canonicalizeExtensionValue(value); ok {
				result[key] = str
			}
		}
	}
	for key, value := range ext {
		if !strings.HasPrefix(key, extensionNamespace+"-") {
			continue
		}
		if str, ok := canonicalizeExtensionValue(value); ok {
			result[strings.TrimPrefix(key, extensionNamespace+"-")] = str
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// orderFromExtensions reads a list-valued `order` hint, which cannot be
// flattened into a single metadata string.
func orderFromExtensions(ext map[string]any) []string {
	raw, ok := ext[extensionNamespace+"-order"]
	if !ok {
		if nested, isMap := ext[extensionNamespace].(map[string]any); isMap {
			raw, ok = nested["order"]
		}
	}
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	return out
}

func canonicalizeExtensionValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}
