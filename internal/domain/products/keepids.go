package products

import (
	"encoding/json"
	"strings"
)

// ParseKeepPhotoIDs normalizes the keepPhotoIds form field into a list of
// public ids. values is every value sent for the field:
//
//   - nil: the field was not sent, the result is nil and photos stay untouched
//   - several values: a literal list
//   - one value starting with "[": a JSON array; malformed JSON yields an empty list
//   - one value otherwise: comma separated ids
//
// Blank ids are dropped. A sent but empty field yields an empty, non-nil list.
func ParseKeepPhotoIDs(values []string) []string {
	if values == nil {
		return nil
	}

	if len(values) > 1 {
		return compactIDs(values)
	}

	raw := strings.TrimSpace(values[0])
	if strings.HasPrefix(raw, "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return []string{}
		}
		return compactIDs(decoded)
	}

	return compactIDs(strings.Split(raw, ","))
}

func compactIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
