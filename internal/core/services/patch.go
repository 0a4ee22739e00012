package services

import (
	"encoding/json"
	"sort"
)

// disallowedFields returns the payload keys that fall outside the
// entity's allow-list, sorted for stable error messages. Any hit rejects
// the whole update; the valid subset is never applied.
func disallowedFields(payload map[string]json.RawMessage, allowed map[string]struct{}) []string {
	var offending []string
	for field := range payload {
		if _, ok := allowed[field]; !ok {
			offending = append(offending, field)
		}
	}
	sort.Strings(offending)
	return offending
}
