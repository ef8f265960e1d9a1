// Package attributes implements schema-driven validation for the free-form
// product attribute maps. Categories carry an ordered attribute schema;
// products must satisfy it on every write that touches attributes. The
// package is pure: callers fetch the schema and the existing map before
// invoking it.
package attributes

import (
	"fmt"
	"math"

	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
)

// Type is the declared type of a schema attribute.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Definition is a single entry in a category's attribute schema. Order in
// the schema slice is significant for presentation and for which violation
// is reported first, not for validation outcome.
type Definition struct {
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Required bool   `json:"required"`
}

// Map holds a product's attribute values keyed by attribute name. Values are
// the JSON scalar types: string, bool, or a numeric type.
type Map map[string]any

// Validate checks candidate against the schema definitions in order and
// returns a validation error for the first violation. Keys present in
// candidate but absent from the schema are accepted; the schema constrains
// only the attributes it declares.
func Validate(schema []Definition, candidate Map) error {
	for _, def := range schema {
		value, present := candidate[def.Name]

		if def.Required && isMissing(value, present) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("attribute '%s' is required", def.Name))
		}

		if !present || value == nil {
			continue
		}

		switch def.Type {
		case TypeNumber:
			if !isNumber(value) {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("attribute '%s' must be a number", def.Name))
			}
		case TypeBoolean:
			if _, ok := value.(bool); !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("attribute '%s' must be a boolean", def.Name))
			}
		default:
			// Unknown declared types fall back to the string check.
			if _, ok := value.(string); !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("attribute '%s' must be a string", def.Name))
			}
		}
	}

	return nil
}

// Merge overlays incoming onto existing key-wise and returns a new map.
// Neither input is mutated. The merge is shallow: a key present in incoming
// replaces the existing value wholesale. Callers validate the merged map so
// a partial update can neither drop a required attribute already present nor
// dodge a requirement added to the schema since creation.
func Merge(existing, incoming Map) Map {
	merged := make(Map, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

func isMissing(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	if s, ok := value.(string); ok && s == "" {
		return true
	}
	return false
}

func isNumber(value any) bool {
	switch v := value.(type) {
	case float64:
		return !math.IsNaN(v)
	case float32:
		return !math.IsNaN(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
