package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn stores a JSON document in a CLOB/VARCHAR column.
type JSONColumn []byte

// Value implements the driver.Valuer interface. Empty values are stored as NULL.
func (j JSONColumn) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements the sql.Scanner interface
func (j *JSONColumn) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONColumn(v)
	default:
		return fmt.Errorf("JSONColumn Scan: unsupported type %T", value)
	}
	return nil
}

// Decode unmarshals the column into dest. A NULL or empty column leaves dest untouched.
func (j JSONColumn) Decode(dest interface{}) error {
	if len(j) == 0 || string(j) == "null" {
		return nil
	}
	return json.Unmarshal(j, dest)
}

// NewJSONColumn marshals v into a column value.
func NewJSONColumn(v interface{}) (JSONColumn, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSONColumn(data), nil
}
