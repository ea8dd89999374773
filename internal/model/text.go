package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text is a form field decoded from any JSON value.
//
// Strings are kept verbatim. null, false, numeric zero, "" and empty
// arrays/objects decode to the empty Text and so count as missing. Any other
// value keeps its compact JSON literal, e.g. 42 -> "42", true -> "true".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	if isEmptyValue(data) {
		*t = ""
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}

	*t = Text(compact.String())
	return nil
}

func isEmptyValue(data []byte) bool {
	switch string(data) {
	case "null", "false", "[]", "{}":
		return true
	}

	if data[0] == '[' || data[0] == '{' {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return false
		}
		switch c := v.(type) {
		case []any:
			return len(c) == 0
		case map[string]any:
			return len(c) == 0
		}
		return false
	}

	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		return f == 0
	}

	return false
}
