package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/openstorehq/openstore-backend/pkg/attributes"
)

// AttributeSchema stores a category's ordered attribute definitions as a
// jsonb column. Array order is preserved through marshal/unmarshal, which is
// what makes schema-order error reporting reproducible.
type AttributeSchema []attributes.Definition

// Value implements driver.Valuer.
func (s AttributeSchema) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *AttributeSchema) Scan(src any) error {
	if src == nil {
		*s = AttributeSchema{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported attribute schema source %T", src)
	}

	if len(raw) == 0 {
		*s = AttributeSchema{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Definitions converts the column value into the engine's definition slice.
func (s AttributeSchema) Definitions() []attributes.Definition {
	return []attributes.Definition(s)
}
