package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// checkRequired reports the first field of t whose JSON key is missing (or
// null) in raw. A field is required when its json tag has no omitempty, the
// same rule the advertised tool schema is inferred with.
func checkRequired(raw []byte, t reflect.Type) error {
	return checkRequiredAt(raw, t, "")
}

func checkRequiredAt(raw json.RawMessage, t reflect.Type, path string) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			field := path
			if field == "" {
				field = "arguments"
			}
			return invalid(field, "must be a JSON object")
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, optional := jsonFieldName(f)
			if name == "-" {
				continue
			}
			fieldPath := name
			if path != "" {
				fieldPath = path + "." + name
			}
			val, ok := obj[name]
			if !ok || isJSONNull(val) {
				if optional {
					continue
				}
				return invalid(fieldPath, "is required")
			}
			if err := checkRequiredAt(val, f.Type, fieldPath); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return invalid(path, "must be an array")
		}
		for i, item := range items {
			if err := checkRequiredAt(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func jsonFieldName(f reflect.StructField) (string, bool) {
	parts := strings.Split(f.Tag.Get("json"), ",")
	name := parts[0]
	if name == "" {
		name = f.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			return name, true
		}
	}
	return name, false
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
