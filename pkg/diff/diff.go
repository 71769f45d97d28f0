package diff

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wI2L/jsondiff"
)

// Change is a single field-level difference between two values,
// expressed with a dot-notation path.
type Change struct {
	Op       string      `json:"op"`
	Path     string      `json:"path"`
	NewValue interface{} `json:"new_value,omitempty"`
	OldValue interface{} `json:"old_value,omitempty"`
}

// Changelog compares the JSON representations of a and b and returns
// the changes needed to go from a to b. Remove and replace operations
// carry the value they overwrote.
func Changelog(a, b interface{}) ([]*Change, error) {
	rawA, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	rawB, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}

	patch, err := jsondiff.CompareJSON(rawA, rawB)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, nil
	}

	var original interface{}
	if err := json.Unmarshal(rawA, &original); err != nil {
		return nil, err
	}

	changes := make([]*Change, 0, len(patch))
	for _, op := range patch {
		segments := splitPointer(op.Path)
		c := &Change{
			Op:       op.Type,
			Path:     strings.Join(segments, "."),
			NewValue: op.Value,
		}
		if op.Type == "remove" || op.Type == "replace" {
			old, err := valueAt(original, segments)
			if err != nil {
				return nil, err
			}
			c.OldValue = old
		}
		changes = append(changes, c)
	}
	return changes, nil
}

func valueAt(doc interface{}, segments []string) (interface{}, error) {
	current := doc
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]interface{}:
			current = node[segment]
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil {
				return nil, fmt.Errorf("invalid array index %q", segment)
			}
			if index < 0 || index >= len(node) {
				return nil, fmt.Errorf("array index %d out of range", index)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("no value at %q", strings.Join(segments, "."))
		}
	}
	return current, nil
}

// splitPointer breaks an RFC 6901 JSON pointer into unescaped segments.
func splitPointer(pointer string) []string {
	if pointer == "" {
		return nil
	}
	segments := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, segment := range segments {
		segment = strings.ReplaceAll(segment, "~1", "/")
		segments[i] = strings.ReplaceAll(segment, "~0", "~")
	}
	return segments
}
