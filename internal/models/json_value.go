package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONValue stores one opaque JSON document in a single column. Any
// valid JSON is accepted — object, array or scalar — and the stored
// text round-trips untouched. Empty values persist as the empty
// object, matching the column default.
type JSONValue []byte

func (v JSONValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return "{}", nil
	}
	if !json.Valid(v) {
		return nil, errors.New("JSONValue holds invalid JSON")
	}
	return string(v), nil
}

func (v *JSONValue) Scan(value interface{}) error {
	switch data := value.(type) {
	case nil:
		*v = JSONValue("{}")
		return nil
	case []byte:
		if len(data) == 0 {
			*v = JSONValue("{}")
			return nil
		}
		*v = append((*v)[:0], data...)
		return nil
	case string:
		if data == "" {
			*v = JSONValue("{}")
			return nil
		}
		*v = JSONValue(data)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONValue", value)
	}
}

// MarshalJSON emits the stored document as-is rather than base64.
func (v JSONValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("{}"), nil
	}
	return v, nil
}

func (v *JSONValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}
