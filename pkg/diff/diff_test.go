package diff_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/linkhive/linkhive/pkg/diff"
)

func TestChangelog(t *testing.T) {
	testCases := []struct {
		name     string
		a        any
		b        any
		expected []*diff.Change
	}{
		{
			name: "no diff",
			a: map[string]interface{}{
				"key": "value",
				"int": 1,
			},
			b: map[string]interface{}{
				"key": "value",
				"int": 1,
			},
			expected: nil,
		},
		{
			name: "remove a value",
			a: map[string]interface{}{
				"key": "value",
			},
			b: map[string]interface{}{},
			expected: []*diff.Change{
				{
					Op:       "remove",
					Path:     "key",
					OldValue: "value",
				},
			},
		},
		{
			name: "change value",
			a: map[string]interface{}{
				"bool": true,
				"int":  1,
				"str":  "value",
			},
			b: map[string]interface{}{
				"bool": false,
				"int":  2,
				"str":  "new value",
			},
			expected: []*diff.Change{
				{
					Op:       "replace",
					Path:     "bool",
					OldValue: true,
					NewValue: false,
				},
				{
					Op:       "replace",
					Path:     "int",
					OldValue: float64(1),
					NewValue: float64(2),
				},
				{
					Op:       "replace",
					Path:     "str",
					OldValue: "value",
					NewValue: "new value",
				},
			},
		},
		{
			name: "nested keys",
			a: map[string]interface{}{
				"api_config": map[string]interface{}{
					"login_url": "https://acme.test/login",
				},
			},
			b: map[string]interface{}{
				"api_config": map[string]interface{}{
					"login_url": "https://acme.test/api/login",
				},
			},
			expected: []*diff.Change{
				{
					Op:       "replace",
					Path:     "api_config.login_url",
					OldValue: "https://acme.test/login",
					NewValue: "https://acme.test/api/login",
				},
			},
		},
		{
			name: "slice item addition",
			a:    []string{"sid", "theme"},
			b:    []string{"sid", "theme", "csrf"},
			expected: []*diff.Change{
				{
					Op:       "add",
					Path:     "-",
					NewValue: "csrf",
				},
			},
		},
		{
			name: "slice item removal",
			a:    []string{"sid", "theme", "csrf"},
			b:    []string{"sid", "theme"},
			expected: []*diff.Change{
				{
					Op:       "remove",
					Path:     "2",
					OldValue: "csrf",
				},
			},
		},
		{
			name: "slice item change",
			a:    []string{"sid", "theme"},
			b:    []string{"sid", "session"},
			expected: []*diff.Change{
				{
					Op:       "replace",
					Path:     "1",
					OldValue: "theme",
					NewValue: "session",
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := diff.Changelog(tc.a, tc.b)
			assert.NoError(t, err)
			assert.Empty(t, cmp.Diff(tc.expected, actual, cmpopts.SortSlices(func(a, b *diff.Change) bool {
				return a.Path < b.Path && a.Op < b.Op
			})))
		})
	}
}
