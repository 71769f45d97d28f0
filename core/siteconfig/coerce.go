package siteconfig

import (
	"math"
	"strconv"
	"strings"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/safejson"
)

// CoerceBodyEntryValue converts a custom body entry's free-text value
// into the JSON value its declared type asks for. Coercion is lenient:
// any value that cannot be converted is returned as the raw string, so
// the advanced payload editor never rejects input outright.
func CoerceBodyEntryValue(entry domain.CustomBodyEntry) interface{} {
	trimmed := strings.TrimSpace(entry.Value)

	switch entry.ValueType {
	case domain.BodyValueBoolean:
		switch trimmed {
		case "true":
			return true
		case "false":
			return false
		}
		return entry.Value

	case domain.BodyValueNumber:
		if trimmed == "" {
			return entry.Value
		}
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return n
		}
		return entry.Value

	case domain.BodyValueNull:
		if trimmed == "" || strings.EqualFold(trimmed, "null") {
			return nil
		}
		return entry.Value

	case domain.BodyValueObject:
		if trimmed == "" {
			return entry.Value
		}
		res := safejson.Parse(trimmed)
		if !res.OK {
			return entry.Value
		}
		if _, ok := res.Data.(map[string]interface{}); ok {
			return res.Data
		}
		return entry.Value

	case domain.BodyValueArray:
		if trimmed == "" {
			return entry.Value
		}
		res := safejson.Parse(trimmed)
		if !res.OK {
			return entry.Value
		}
		if _, ok := res.Data.([]interface{}); ok {
			return res.Data
		}
		return entry.Value
	}

	// string, empty, or unrecognized type hints pass through untouched
	return entry.Value
}
