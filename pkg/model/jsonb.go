package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB is a JSON object column.
type JSONB map[string]any

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, j)
}

func (JSONB) GormDataType() string {
	return "jsonb"
}

// JSONBList is a JSON array-of-objects column.
type JSONBList []map[string]any

func (l JSONBList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *JSONBList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, l)
}

func (JSONBList) GormDataType() string {
	return "jsonb"
}

// Vector is an embedding stored as a JSON array of floats.
type Vector []float32

func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (v *Vector) Scan(value any) error {
	if value == nil {
		*v = nil
		return nil
	}
	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (Vector) GormDataType() string {
	return "jsonb"
}

func jsonbBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
