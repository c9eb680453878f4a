// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// marshalStructWithMap marshals v (a pointer to a struct) to JSON, then
// merges the string-keyed map found in v's field named mapField into the
// resulting object. Keys from the map field are only written if they don't
// collide with a field already present in v's JSON output.
func marshalStructWithMap(v any, mapField string) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	extra, err := extraFieldValue(v, mapField)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("marshalStructWithMap: base value is not a JSON object: %w", err)
	}
	if merged == nil {
		merged = make(map[string]json.RawMessage)
	}
	for k, v := range extra {
		if _, exists := merged[k]; exists {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b []byte
	b = append(b, '{')
	for i, k := range keys {
		if i > 0 {
			b = append(b, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b = append(b, kb...)
		b = append(b, ':')
		b = append(b, merged[k]...)
	}
	b = append(b, '}')
	return b, nil
}

// unmarshalStructWithMap unmarshals data into v (a pointer to a struct),
// then collects every top-level key of data that isn't recognized by any of
// v's JSON field names into the map field named mapField.
func unmarshalStructWithMap(data []byte, v any, mapField string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return fmt.Errorf("unmarshalStructWithMap: not a JSON object: %w", err)
	}

	known := knownJSONNames(v)
	var extra map[string]any
	for k, raw := range all {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		var val any
		if err := json.Unmarshal(raw, &val); err != nil {
			return fmt.Errorf("unmarshalStructWithMap: field %q: %w", k, err)
		}
		extra[k] = val
	}
	if extra == nil {
		return nil
	}
	return setFieldValue(v, mapField, extra)
}

// fieldJSONInfo returns the JSON name for a struct field, honoring the same
// tag conventions as encoding/json (name before the first comma, "-" to
// omit).
func fieldJSONInfo(sf reflect.StructField) (info struct {
	name string
	omit bool
}) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		info.omit = true
		return
	}
	name := tag
	for i, c := range tag {
		if c == ',' {
			name = tag[:i]
			break
		}
	}
	if name == "" {
		name = sf.Name
	}
	info.name = name
	return
}

func knownJSONNames(v any) map[string]bool {
	names := make(map[string]bool)
	t := reflect.TypeOf(v).Elem()
	for _, sf := range reflect.VisibleFields(t) {
		info := fieldJSONInfo(sf)
		if !info.omit {
			names[info.name] = true
		}
	}
	return names
}

func extraFieldValue(v any, field string) (map[string]any, error) {
	rv := reflect.ValueOf(v).Elem()
	fv := rv.FieldByName(field)
	if !fv.IsValid() {
		return nil, fmt.Errorf("marshalStructWithMap: no field %q", field)
	}
	if fv.IsNil() {
		return nil, nil
	}
	m, ok := fv.Interface().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("marshalStructWithMap: field %q is not map[string]any", field)
	}
	return m, nil
}

func setFieldValue(v any, field string, m map[string]any) error {
	rv := reflect.ValueOf(v).Elem()
	fv := rv.FieldByName(field)
	if !fv.IsValid() {
		return fmt.Errorf("unmarshalStructWithMap: no field %q", field)
	}
	fv.Set(reflect.ValueOf(m))
	return nil
}
