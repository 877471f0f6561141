package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt64 decodes either a JSON number or a quoted decimal string.
// Older clients send identifiers such as USER_ID as strings.
type FlexInt64 struct {
	Valid bool
	Value int64
}

func NewFlexInt64(v int64) FlexInt64 {
	return FlexInt64{Valid: true, Value: v}
}

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = FlexInt64{}
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = FlexInt64{}
			return nil
		}
		trimmed = []byte(raw)
	}

	v, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", string(data))
	}
	*f = FlexInt64{Valid: true, Value: v}
	return nil
}

func (f FlexInt64) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Value, 10)), nil
}

// Ptr returns nil when the value was absent.
func (f FlexInt64) Ptr() *int64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
