package sqlstore

import (
	"encoding/json"
	"slices"
	"strings"
)

const redactedValue = "[REDACTED]"

// credentialFragments mark keys whose values never reach the journal.
var credentialFragments = []string{"api_key", "apikey", "secret", "token", "password", "authorization", "signature"}

// Redaction controls how link parameters are stored in the journal. Keys
// that look like credentials are always redacted, at any depth.
type Redaction struct {
	AllParameters bool
	ParameterKeys []string
}

func (r Redaction) apply(payload map[string]any) map[string]any {
	out, _ := r.walk(payload, "").(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// walk copies value, redacting credential-like keys everywhere and the
// configured link parameters under link.parameters.
func (r Redaction) walk(value any, path string) any {
	switch typed := value.(type) {
	case map[string]any:
		if path == "link.parameters" && r.AllParameters && len(typed) > 0 {
			return redactedValue
		}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			if r.hides(path, key) {
				out[key] = redactedValue
				continue
			}
			out[key] = r.walk(item, joinPath(path, key))
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = r.walk(item, path)
		}
		return out
	default:
		return value
	}
}

func (r Redaction) hides(path string, key string) bool {
	if looksLikeCredential(key) {
		return true
	}
	if path != "link.parameters" {
		return false
	}
	return slices.ContainsFunc(r.ParameterKeys, func(candidate string) bool {
		candidate = strings.TrimSpace(candidate)
		return candidate != "" && candidate == key
	})
}

func joinPath(path string, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func looksLikeCredential(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	return slices.ContainsFunc(credentialFragments, func(fragment string) bool {
		return strings.Contains(key, fragment)
	})
}

// payloadMap flattens typed payload values into plain json maps so they
// can be redacted and stored as jsonb.
func payloadMap(payload map[string]any) (map[string]any, error) {
	if len(payload) == 0 {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
