package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/openstorehq/openstore-backend/pkg/attributes"
)

// AttributeMap stores a product's attribute values as a jsonb column.
type AttributeMap attributes.Map

// Value implements driver.Valuer.
func (m AttributeMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *AttributeMap) Scan(src any) error {
	if src == nil {
		*m = AttributeMap{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported attribute map source %T", src)
	}

	if len(raw) == 0 {
		*m = AttributeMap{}
		return nil
	}
	return json.Unmarshal(raw, m)
}

// AsMap converts the column value into the engine's map type.
func (m AttributeMap) AsMap() attributes.Map {
	return attributes.Map(m)
}
