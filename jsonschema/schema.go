// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package jsonschema compiles JSON Schema draft 2019-09 documents into a
// tree of typed constraint nodes and validates JSON instances against that
// tree.
package jsonschema

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"maps"
	"math"
	"reflect"
	"slices"

	"gopkg.in/yaml.v3"
)

// KnownSchemaURI is the only "$schema" value SPEC_FULL recognizes.
// A schema document naming any other URI still compiles, but Compile
// records a CompileError.
const KnownSchemaURI = "https://json-schema.org/draft/2019-09/schema"

// A Schema is a JSON Schema document: the source representation a caller
// decodes a schema file into before calling [Compile]. It supports draft
// 2019-09 keywords only: its fields are the supported set, and any other
// keyword is kept in Extra.
//
// Nil and empty slices and maps are both omitted when a Schema is
// marshaled, except Properties, whose empty map marshals as {}. An empty
// enum places no constraint either way: Compile treats "enum": [] like an
// absent enum, so Schema{Enum: []any{}} accepts every instance.
type Schema struct {
	// core
	ID     string             `json:"$id,omitempty" yaml:"$id,omitempty"`
	Schema string             `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Ref    string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Defs   map[string]*Schema `json:"$defs,omitempty" yaml:"$defs,omitempty"`

	// metadata
	Default json.RawMessage `json:"default,omitempty" yaml:"default,omitempty"`

	// validation
	Type             string   `json:"type,omitempty" yaml:"type,omitempty"`
	Enum             []any    `json:"enum,omitempty" yaml:"enum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	MinLength        *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// arrays
	Items           *Schema   `json:"-" yaml:"-"`
	ItemsArray      []*Schema `json:"-" yaml:"-"`
	MinItems        *int      `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems        *int      `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	AdditionalItems *Schema   `json:"additionalItems,omitempty" yaml:"additionalItems,omitempty"`
	UniqueItems     bool      `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`
	Contains        *Schema   `json:"contains,omitempty" yaml:"contains,omitempty"`

	// objects
	MinProperties        *int                `json:"minProperties,omitempty" yaml:"minProperties,omitempty"`
	MaxProperties        *int                `json:"maxProperties,omitempty" yaml:"maxProperties,omitempty"`
	Required             []string            `json:"required,omitempty" yaml:"required,omitempty"`
	DependentRequired    map[string][]string `json:"dependentRequired,omitempty" yaml:"dependentRequired,omitempty"`
	Properties           map[string]*Schema  `json:"properties,omitempty" yaml:"properties,omitempty"`
	PatternProperties    map[string]*Schema  `json:"patternProperties,omitempty" yaml:"patternProperties,omitempty"`
	AdditionalProperties *Schema             `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	PropertyNames        *Schema             `json:"propertyNames,omitempty" yaml:"propertyNames,omitempty"`
	DependentSchemas     map[string]*Schema  `json:"dependentSchemas,omitempty" yaml:"dependentSchemas,omitempty"`

	// logic
	AllOf []*Schema `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty" yaml:"not,omitempty"`

	// Extra holds keywords this package does not recognize. They are
	// preserved on marshal but never consulted during compilation.
	Extra map[string]any `json:"-" yaml:"-"`

	// PropertyOrder records the ordering of properties for JSON and YAML
	// rendering. If set, it controls the relative ordering of properties in
	// [Schema.MarshalJSON] and [Schema.MarshalYAML]. The rendered output
	// first lists any properties that appear in PropertyOrder in the order
	// they appear, followed by all other properties not listed, in sorted
	// order.
	PropertyOrder []string `json:"-" yaml:"-"`

	// boolValue distinguishes the two boolean-schema literals (true/false)
	// from an ordinary empty object; both marshal to a Schema with no other
	// field set. Callers construct boolean schemas with SchemaTrue and
	// SchemaFalse rather than setting this directly.
	boolValue *bool
}

// SchemaTrue returns the schema "true", which validates every instance.
func SchemaTrue() *Schema { return &Schema{} }

// SchemaFalse returns the schema "false", which validates no instance.
func SchemaFalse() *Schema { return &Schema{boolValue: Ptr(false)} }

// IsBoolean reports whether s is one of the two boolean-schema literals, and
// if so, which value it carries.
func (s *Schema) IsBoolean() (value bool, ok bool) {
	if s == nil {
		return false, false
	}
	if s.boolValue != nil {
		return *s.boolValue, true
	}
	if isEmptySchema(*s) {
		return true, true
	}
	return false, false
}

// String returns a short description of the schema.
func (s *Schema) String() string {
	if s.ID != "" {
		return s.ID
	}
	return "<anonymous schema>"
}

// CloneSchemas returns a copy of s. The copy is shallow except for
// sub-schemas, which are themselves copied with CloneSchemas. This allows
// both s and s.CloneSchemas() to appear as sub-schemas of the same parent.
func (s *Schema) CloneSchemas() *Schema {
	if s == nil {
		return nil
	}
	s2 := *s
	v := reflect.ValueOf(&s2)
	for _, info := range schemaFieldInfos {
		fv := v.Elem().FieldByIndex(info.sf.Index)
		switch info.sf.Type {
		case schemaType:
			child := fv.Interface().(*Schema)
			fv.Set(reflect.ValueOf(child.CloneSchemas()))

		case schemaSliceType:
			sl := fv.Interface().([]*Schema)
			sl = slices.Clone(sl)
			for i, ss := range sl {
				sl[i] = ss.CloneSchemas()
			}
			fv.Set(reflect.ValueOf(sl))

		case schemaMapType:
			m := fv.Interface().(map[string]*Schema)
			m = maps.Clone(m)
			for k, ss := range m {
				m[k] = ss.CloneSchemas()
			}
			fv.Set(reflect.ValueOf(m))
		}
	}
	return &s2
}

func (s *Schema) basicChecks() error {
	if s.Items != nil && s.ItemsArray != nil {
		return errors.New("both Items and ItemsArray are set; at most one should be")
	}
	seen := make(map[string]bool)
	for _, val := range s.PropertyOrder {
		if seen[val] {
			return fmt.Errorf("property order slice cannot contain duplicate entries, found duplicate %q", val)
		}
		seen[val] = true
	}
	return nil
}

type schemaWithoutMethods Schema // doesn't implement json.{Unm,M}arshaler

func (s Schema) MarshalJSON() ([]byte, error) {
	// NOTE: use a value receiver to avoid the encoding/json bugs described
	// in golang/go#22967, golang/go#33993, and golang/go#55890.
	if err := s.basicChecks(); err != nil {
		return nil, err
	}
	if s.boolValue != nil {
		if *s.boolValue {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	}

	var items any
	switch {
	case s.Items != nil:
		items = s.Items
	case s.ItemsArray != nil:
		items = s.ItemsArray
	}

	ms := struct {
		Type       string         `json:"type,omitempty"`
		Properties json.Marshaler `json:"properties,omitempty"`
		Items      any            `json:"items,omitempty"`
		*schemaWithoutMethods
	}{
		Type:                 s.Type,
		Items:                items,
		schemaWithoutMethods: (*schemaWithoutMethods)(&s),
	}
	if s.Properties != nil {
		ms.Properties = orderedProperties{props: s.Properties, order: s.PropertyOrder}
	}

	bs, err := marshalStructWithMap(&ms, "Extra")
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bs, []byte(`{}`)) {
		bs = []byte("true")
	}
	return bs, nil
}

// orderedProperties marshals a properties map with PropertyOrder applied
// first, followed by any remaining keys in sorted order.
type orderedProperties struct {
	props map[string]*Schema
	order []string
}

func (op orderedProperties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	processed := make(map[string]bool, len(op.props))

	writeEntry := func(key string, val *Schema) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(vb)
		return nil
	}

	for _, name := range op.order {
		if prop, ok := op.props[name]; ok {
			if err := writeEntry(name, prop); err != nil {
				return nil, err
			}
			processed[name] = true
		}
	}

	remaining := make([]string, 0, len(op.props))
	for name := range op.props {
		if !processed[name] {
			remaining = append(remaining, name)
		}
	}
	slices.Sort(remaining)

	for _, name := range remaining {
		if err := writeEntry(name, op.props[name]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	// A JSON boolean is a valid schema.
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = Schema{boolValue: Ptr(b)}
		return nil
	}

	ms := struct {
		Items         json.RawMessage `json:"items,omitempty"`
		MinLength     *integer        `json:"minLength,omitempty"`
		MaxLength     *integer        `json:"maxLength,omitempty"`
		MinItems      *integer        `json:"minItems,omitempty"`
		MaxItems      *integer        `json:"maxItems,omitempty"`
		MinProperties *integer        `json:"minProperties,omitempty"`
		MaxProperties *integer        `json:"maxProperties,omitempty"`

		*schemaWithoutMethods
	}{
		schemaWithoutMethods: (*schemaWithoutMethods)(s),
	}
	if err := unmarshalStructWithMap(data, &ms, "Extra"); err != nil {
		return err
	}

	if len(ms.Items) > 0 {
		var err error
		switch ms.Items[0] {
		case '[':
			var schemas []*Schema
			err = json.Unmarshal(ms.Items, &schemas)
			s.ItemsArray = schemas
		default:
			var schema Schema
			err = json.Unmarshal(ms.Items, &schema)
			s.Items = &schema
		}
		if err != nil {
			return err
		}
	}

	set := func(dst **int, src *integer) {
		if src != nil {
			*dst = Ptr(int(*src))
		}
	}
	set(&s.MinLength, ms.MinLength)
	set(&s.MaxLength, ms.MaxLength)
	set(&s.MinItems, ms.MinItems)
	set(&s.MaxItems, ms.MaxItems)
	set(&s.MinProperties, ms.MinProperties)
	set(&s.MaxProperties, ms.MaxProperties)

	return nil
}

// MarshalYAML implements yaml.Marshaler. It mirrors MarshalJSON: boolean
// schemas, the Items/ItemsArray union, PropertyOrder, and Extra fields.
func (s Schema) MarshalYAML() (any, error) {
	if err := s.basicChecks(); err != nil {
		return nil, err
	}
	if s.boolValue != nil {
		return *s.boolValue, nil
	}
	if isEmptySchema(s) {
		return true, nil
	}

	node := &yaml.Node{Kind: yaml.MappingNode}

	addField := func(key string, value any) error {
		if isZeroValue(reflect.ValueOf(value)) {
			return nil
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		var valueNode yaml.Node
		if err := valueNode.Encode(value); err != nil {
			return err
		}
		node.Content = append(node.Content, keyNode, &valueNode)
		return nil
	}

	fields := []struct {
		key string
		val any
	}{
		{"$id", s.ID}, {"$schema", s.Schema}, {"$ref", s.Ref}, {"$defs", s.Defs},
		{"type", s.Type}, {"enum", s.Enum},
		{"multipleOf", s.MultipleOf}, {"minimum", s.Minimum}, {"maximum", s.Maximum},
		{"exclusiveMinimum", s.ExclusiveMinimum}, {"exclusiveMaximum", s.ExclusiveMaximum},
		{"minLength", s.MinLength}, {"maxLength", s.MaxLength}, {"pattern", s.Pattern},
	}
	for _, f := range fields {
		if err := addField(f.key, f.val); err != nil {
			return nil, err
		}
	}

	switch {
	case s.Items != nil:
		if err := addField("items", s.Items); err != nil {
			return nil, err
		}
	case s.ItemsArray != nil:
		if err := addField("items", s.ItemsArray); err != nil {
			return nil, err
		}
	}

	if len(s.Default) > 0 {
		var defaultVal any
		if err := json.Unmarshal(s.Default, &defaultVal); err != nil {
			return nil, err
		}
		if err := addField("default", defaultVal); err != nil {
			return nil, err
		}
	}

	fields2 := []struct {
		key string
		val any
	}{
		{"minItems", s.MinItems}, {"maxItems", s.MaxItems},
		{"additionalItems", s.AdditionalItems}, {"uniqueItems", s.UniqueItems},
		{"contains", s.Contains},
		{"minProperties", s.MinProperties}, {"maxProperties", s.MaxProperties},
		{"required", s.Required}, {"dependentRequired", s.DependentRequired},
	}
	for _, f := range fields2 {
		if err := addField(f.key, f.val); err != nil {
			return nil, err
		}
	}

	if s.Properties != nil {
		propsNode, err := marshalPropertiesYAML(s.Properties, s.PropertyOrder)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: "properties"}, propsNode)
	}

	fields3 := []struct {
		key string
		val any
	}{
		{"patternProperties", s.PatternProperties},
		{"additionalProperties", s.AdditionalProperties},
		{"propertyNames", s.PropertyNames},
		{"dependentSchemas", s.DependentSchemas},
		{"allOf", s.AllOf}, {"anyOf", s.AnyOf}, {"oneOf", s.OneOf}, {"not", s.Not},
	}
	for _, f := range fields3 {
		if err := addField(f.key, f.val); err != nil {
			return nil, err
		}
	}

	for _, k := range slices.Sorted(maps.Keys(s.Extra)) {
		var valueNode yaml.Node
		if err := valueNode.Encode(s.Extra[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &valueNode)
	}

	return node, nil
}

func marshalPropertiesYAML(props map[string]*Schema, order []string) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	processed := make(map[string]bool, len(props))

	write := func(name string) error {
		var valueNode yaml.Node
		if err := valueNode.Encode(props[name]); err != nil {
			return err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, &valueNode)
		return nil
	}

	for _, name := range order {
		if _, ok := props[name]; ok {
			if err := write(name); err != nil {
				return nil, err
			}
			processed[name] = true
		}
	}

	remaining := make([]string, 0, len(props))
	for name := range props {
		if !processed[name] {
			remaining = append(remaining, name)
		}
	}
	slices.Sort(remaining)

	for _, name := range remaining {
		if err := write(name); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func isEmptySchema(s Schema) bool {
	s.boolValue = nil
	return reflect.DeepEqual(s, Schema{})
}

func isZeroValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Slice, reflect.Map, reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. It mirrors UnmarshalJSON:
// boolean schemas, the items union, and Extra fields.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!bool" {
			*s = Schema{boolValue: Ptr(node.Value == "true")}
			return nil
		}
		return fmt.Errorf("expected mapping or boolean, got scalar: %s", node.Value)
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping or boolean, got kind %v", node.Kind)
	}

	type rawSchema struct {
		ID     string             `yaml:"$id,omitempty"`
		Schema string             `yaml:"$schema,omitempty"`
		Ref    string             `yaml:"$ref,omitempty"`
		Defs   map[string]*Schema `yaml:"$defs,omitempty"`

		Default any `yaml:"default,omitempty"`

		Type             string   `yaml:"type,omitempty"`
		Enum             []any    `yaml:"enum,omitempty"`
		MultipleOf       *float64 `yaml:"multipleOf,omitempty"`
		Minimum          *float64 `yaml:"minimum,omitempty"`
		Maximum          *float64 `yaml:"maximum,omitempty"`
		ExclusiveMinimum *float64 `yaml:"exclusiveMinimum,omitempty"`
		ExclusiveMaximum *float64 `yaml:"exclusiveMaximum,omitempty"`
		MinLength        *int     `yaml:"minLength,omitempty"`
		MaxLength        *int     `yaml:"maxLength,omitempty"`
		Pattern          string   `yaml:"pattern,omitempty"`

		MinItems        *int    `yaml:"minItems,omitempty"`
		MaxItems        *int    `yaml:"maxItems,omitempty"`
		AdditionalItems *Schema `yaml:"additionalItems,omitempty"`
		UniqueItems     bool    `yaml:"uniqueItems,omitempty"`
		Contains        *Schema `yaml:"contains,omitempty"`

		MinProperties        *int                `yaml:"minProperties,omitempty"`
		MaxProperties        *int                `yaml:"maxProperties,omitempty"`
		Required             []string            `yaml:"required,omitempty"`
		DependentRequired    map[string][]string `yaml:"dependentRequired,omitempty"`
		Properties           map[string]*Schema  `yaml:"properties,omitempty"`
		PatternProperties    map[string]*Schema  `yaml:"patternProperties,omitempty"`
		AdditionalProperties *Schema             `yaml:"additionalProperties,omitempty"`
		PropertyNames        *Schema             `yaml:"propertyNames,omitempty"`
		DependentSchemas     map[string]*Schema  `yaml:"dependentSchemas,omitempty"`

		AllOf []*Schema `yaml:"allOf,omitempty"`
		AnyOf []*Schema `yaml:"anyOf,omitempty"`
		OneOf []*Schema `yaml:"oneOf,omitempty"`
		Not   *Schema   `yaml:"not,omitempty"`
	}

	var raw rawSchema
	if err := node.Decode(&raw); err != nil {
		return err
	}

	s.ID = raw.ID
	s.Schema = raw.Schema
	s.Ref = raw.Ref
	s.Defs = raw.Defs
	s.Type = raw.Type
	s.Enum = raw.Enum
	s.MultipleOf = raw.MultipleOf
	s.Minimum = raw.Minimum
	s.Maximum = raw.Maximum
	s.ExclusiveMinimum = raw.ExclusiveMinimum
	s.ExclusiveMaximum = raw.ExclusiveMaximum
	s.MinLength = raw.MinLength
	s.MaxLength = raw.MaxLength
	s.Pattern = raw.Pattern
	s.MinItems = raw.MinItems
	s.MaxItems = raw.MaxItems
	s.AdditionalItems = raw.AdditionalItems
	s.UniqueItems = raw.UniqueItems
	s.Contains = raw.Contains
	s.MinProperties = raw.MinProperties
	s.MaxProperties = raw.MaxProperties
	s.Required = raw.Required
	s.DependentRequired = raw.DependentRequired
	s.Properties = raw.Properties
	s.PatternProperties = raw.PatternProperties
	s.AdditionalProperties = raw.AdditionalProperties
	s.PropertyNames = raw.PropertyNames
	s.DependentSchemas = raw.DependentSchemas
	s.AllOf = raw.AllOf
	s.AnyOf = raw.AnyOf
	s.OneOf = raw.OneOf
	s.Not = raw.Not

	if raw.Default != nil {
		defaultBytes, err := json.Marshal(raw.Default)
		if err != nil {
			return fmt.Errorf("marshaling default: %w", err)
		}
		s.Default = defaultBytes
	}

	for i := 0; i < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if keyNode.Value != "items" {
			continue
		}
		if valueNode.Kind == yaml.SequenceNode {
			var schemas []*Schema
			if err := valueNode.Decode(&schemas); err != nil {
				return fmt.Errorf("decoding items array: %w", err)
			}
			s.ItemsArray = schemas
		} else {
			var schema Schema
			if err := valueNode.Decode(&schema); err != nil {
				return fmt.Errorf("decoding items schema: %w", err)
			}
			s.Items = &schema
		}
	}

	knownKeys := map[string]bool{
		"$id": true, "$schema": true, "$ref": true, "$defs": true,
		"default": true, "type": true, "enum": true,
		"multipleOf": true, "minimum": true, "maximum": true,
		"exclusiveMinimum": true, "exclusiveMaximum": true,
		"minLength": true, "maxLength": true, "pattern": true,
		"items": true, "minItems": true, "maxItems": true,
		"additionalItems": true, "uniqueItems": true, "contains": true,
		"minProperties": true, "maxProperties": true, "required": true,
		"dependentRequired": true, "properties": true, "patternProperties": true,
		"additionalProperties": true, "propertyNames": true,
		"allOf": true, "anyOf": true, "oneOf": true, "not": true,
		"dependentSchemas": true,
	}

	for i := 0; i < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		if !knownKeys[key] {
			var value any
			if err := valueNode.Decode(&value); err != nil {
				return fmt.Errorf("decoding extra field %s: %w", key, err)
			}
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[key] = value
		}
	}

	return nil
}

// integer unmarshals a bounded JSON number into an int32, rejecting
// fractional values the way draft 2019-09's integer-valued keywords require.
type integer int32

func (ip *integer) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var i int64
	if bytes.ContainsRune(data, '.') {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return errors.New("not a number")
		}
		i = int64(f)
		if float64(i) != f {
			return errors.New("not an integer value")
		}
	} else {
		if err := json.Unmarshal(data, &i); err != nil {
			return errors.New("cannot be unmarshaled into an int")
		}
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return errors.New("integer is out of range")
	}
	*ip = integer(i)
	return nil
}

// AsAny round-trips s through JSON, returning the same decoded shape
// (bool, map[string]any, nested combinations) Compile expects. This lets
// CompileSchema share exactly one compilation path with Compile: the
// typed Schema struct is sugar over the same untyped tree the plain JSON
// entry point walks.
func (s *Schema) AsAny() (any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Ptr returns a pointer to a new variable whose value is x.
func Ptr[T any](x T) *T { return &x }

// every applies f preorder to every schema under s including s. It stops
// as soon as f returns false.
func (s *Schema) every(f func(*Schema) bool) bool {
	return f(s) && s.everyChild(func(c *Schema) bool { return c.every(f) })
}

// everyChild reports whether f is true for every immediate child schema of s.
func (s *Schema) everyChild(f func(*Schema) bool) bool {
	v := reflect.ValueOf(s)
	for _, info := range schemaFieldInfos {
		fv := v.Elem().FieldByIndex(info.sf.Index)
		switch info.sf.Type {
		case schemaType:
			c := fv.Interface().(*Schema)
			if c != nil && !f(c) {
				return false
			}

		case schemaSliceType:
			for _, c := range fv.Interface().([]*Schema) {
				if !f(c) {
					return false
				}
			}

		case schemaMapType:
			m := fv.Interface().(map[string]*Schema)
			for _, k := range slices.Sorted(maps.Keys(m)) {
				if !f(m[k]) {
					return false
				}
			}
		}
	}
	return true
}

// All returns an iterator over s and every schema nested within it.
func (s *Schema) All() iter.Seq[*Schema] {
	return func(yield func(*Schema) bool) { s.every(yield) }
}

// Children returns an iterator over s's immediate sub-schemas.
func (s *Schema) Children() iter.Seq[*Schema] {
	return func(yield func(*Schema) bool) { s.everyChild(yield) }
}

var (
	schemaType      = reflect.TypeFor[*Schema]()
	schemaSliceType = reflect.TypeFor[[]*Schema]()
	schemaMapType   = reflect.TypeFor[map[string]*Schema]()
)

type structFieldInfo struct {
	sf       reflect.StructField
	jsonName string
}

// schemaFieldInfos holds the visible fields of Schema that reference
// sub-schemas, sorted by JSON name, used by CloneSchemas/every/everyChild to
// walk the tree without hand-listing every field.
var schemaFieldInfos []structFieldInfo

func init() {
	for _, sf := range reflect.VisibleFields(reflect.TypeFor[Schema]()) {
		if sf.Type != schemaType && sf.Type != schemaSliceType && sf.Type != schemaMapType {
			continue
		}
		info := fieldJSONInfo(sf)
		name := info.name
		if info.omit {
			// Items/ItemsArray marshal under the unioned "items" key but
			// still need to be visited when walking the schema tree.
			name = "items"
		}
		schemaFieldInfos = append(schemaFieldInfos, structFieldInfo{sf, name})
	}
	slices.SortFunc(schemaFieldInfos, func(i1, i2 structFieldInfo) int {
		return cmp.Compare(i1.jsonName, i2.jsonName)
	})
}
