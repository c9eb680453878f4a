// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dacolabs/jsonvalidator-go/jsonschema/internal/matcher"
)

// Compile translates a decoded JSON schema value into a Node tree
// (spec.md §4.1). schema is the result of encoding/json.Unmarshal(data,
// &v) into an any (bool, map[string]any, or nested combinations thereof)
// — the same "a JSON value tree is provided as input" contract spec.md §1
// hands the compiler.
//
// On a boolean schema, Compile returns a single fixed-verdict Node marked
// as root. On any other non-object value, Compile returns a nil root and
// a non-nil error. Otherwise Compile always returns a tree — possibly
// partial — whose root is marked IsRoot, alongside a combined error (nil
// if no CompileError was recorded) built with errors.Join so callers who
// only care about "did it work" can use ordinary Go error handling.
func Compile(schema any, opts ...CompileOption) (*Node, error) {
	cfg := newCompileConfig(opts)
	c := &compiler{cfg: cfg, errs: &compileErrors{}, anchors: map[string]*Node{}}
	root := c.compileRoot(schema)
	if root != nil {
		root.IsRoot = true
		root.Anchors = c.anchors
		resolveRefs(root, cfg)
	}
	return root, c.errs.join()
}

// CompileSchema is Compile for a typed *Schema document (the schema.go
// representation), round-tripping it through JSON so both entry points
// share exactly one compilation path.
func CompileSchema(s *Schema, opts ...CompileOption) (*Node, error) {
	v, err := s.AsAny()
	if err != nil {
		return nil, fmt.Errorf("jsonschema: converting schema: %w", err)
	}
	return Compile(v, opts...)
}

// MustCompile is like Compile but panics if the schema fails to compile.
// It exists for the common case of compiling a known-good schema literal
// at init time, the same convenience regexp.MustCompile offers.
func MustCompile(schema any, opts ...CompileOption) *Node {
	n, err := Compile(schema, opts...)
	if err != nil {
		panic("jsonschema: Compile: " + err.Error())
	}
	return n
}

// compiler holds the state threaded through one Compile call: the
// accumulated errors, the resolved options, and the map of $id-named
// anchors collected as the tree is built (spec.md §3's root-only
// "anchors" field).
type compiler struct {
	cfg     *compileConfig
	errs    *compileErrors
	anchors map[string]*Node
}

func (c *compiler) compileRoot(schema any) *Node {
	switch v := schema.(type) {
	case bool:
		return newBooleanVerdictNode(nil, v)
	case map[string]any:
		if sv, present := v["$schema"]; present {
			if s, ok := sv.(string); !ok || s != KnownSchemaURI {
				c.errs.add("#", "unexpected \"$schema\" value %v", sv)
			}
		}
		return c.compileObject(v, nil, "#")
	default:
		c.errs.add("#", "schema must be a JSON object or boolean, got %T", schema)
		return nil
	}
}

// compileValue compiles one schema value (bool or object) appearing
// anywhere in the tree — the recursive counterpart of compileRoot.
func (c *compiler) compileValue(v any, parent *Node, path string) *Node {
	switch tv := v.(type) {
	case bool:
		return newBooleanVerdictNode(parent, tv)
	case map[string]any:
		return c.compileObject(tv, parent, path)
	default:
		c.errs.add(path, "schema must be a JSON object or boolean, got %T", v)
		return newBooleanVerdictNode(parent, true)
	}
}

func (c *compiler) compileObject(obj map[string]any, parent *Node, path string) *Node {
	if len(obj) == 0 {
		return newBooleanVerdictNode(parent, true)
	}

	kind, isInteger, typeArrayErr := chooseKind(obj)
	if typeArrayErr {
		c.errs.add(path, "multi-element \"type\" arrays are not supported")
	}

	n := &Node{TypeTag: kind, IsInteger: isInteger, Parent: parent}

	if idv, ok := obj["$id"].(string); ok {
		n.ID = idv
	}
	if tv, ok := obj["type"]; ok {
		if ts, ok := tv.(string); ok {
			n.TypeStr = ts
		}
	}
	if rv, ok := obj["$ref"].(string); ok {
		n.RefString = rv
	}
	if ev, present := obj["enum"]; present {
		if arr, ok := ev.([]any); ok {
			n.EnumValues = dedupeJSON(arr)
		} else {
			c.errs.add(path, "\"enum\" must be an array")
		}
	}
	if dv, present := obj["default"]; present {
		if raw, err := json.Marshal(dv); err == nil {
			n.DefaultValue = raw
		}
	}

	n.AllOf = c.compileSchemaArray(obj, "allOf", n, path)
	n.AnyOf = c.compileSchemaArray(obj, "anyOf", n, path)
	n.OneOf = c.compileSchemaArray(obj, "oneOf", n, path)

	if nv, present := obj["not"]; present {
		n.NotChild = c.compileValue(nv, n, path+"/not")
	}

	if dv, present := obj["$defs"]; present {
		if dm, ok := dv.(map[string]any); ok {
			n.Defs = make(map[string]*Node, len(dm))
			for _, k := range sortedKeys(dm) {
				n.Defs[k] = c.compileValue(dm[k], n, path+"/$defs/"+k)
			}
		} else {
			c.errs.add(path, "\"$defs\" must be an object")
		}
	}

	switch kind {
	case KindString:
		c.fillString(n, obj, path)
	case KindNumber:
		c.fillNumber(n, obj, path)
	case KindObject:
		c.fillObject(n, obj, path)
	case KindArray:
		c.fillArray(n, obj, path)
	}

	if n.ID != "" {
		c.anchors[n.ID] = n
	}
	return n
}

func (c *compiler) compileSchemaArray(obj map[string]any, key string, parent *Node, path string) []*Node {
	v, present := obj[key]
	if !present {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		c.errs.add(path, "%q must be an array of schemas", key)
		return nil
	}
	out := make([]*Node, 0, len(arr))
	for i, sv := range arr {
		out = append(out, c.compileValue(sv, parent, fmt.Sprintf("%s/%s/%d", path, key, i)))
	}
	return out
}

func (c *compiler) fillString(n *Node, obj map[string]any, path string) {
	if v, present := obj["minLength"]; present {
		if i, ok := asInt(v); ok {
			n.MinLength = &i
		} else {
			c.errs.add(path, "\"minLength\" must be a non-negative integer")
		}
	}
	if v, present := obj["maxLength"]; present {
		if i, ok := asInt(v); ok {
			n.MaxLength = &i
		} else {
			c.errs.add(path, "\"maxLength\" must be a non-negative integer")
		}
	}
	if v, present := obj["pattern"]; present {
		s, ok := v.(string)
		if !ok {
			c.errs.add(path, "\"pattern\" must be a string")
			return
		}
		n.Pattern = s
		p, err := matcher.Compile(s)
		if err != nil {
			c.errs.add(path, "invalid \"pattern\" %q: %v", s, err)
			return
		}
		n.compiledPattern = p
	}
}

func (c *compiler) fillNumber(n *Node, obj map[string]any, path string) {
	set := func(key string, dst **float64) {
		v, present := obj[key]
		if !present {
			return
		}
		f, ok := asFloat(v)
		if !ok {
			c.errs.add(path, "%q must be a number", key)
			return
		}
		*dst = &f
	}
	set("minimum", &n.Minimum)
	set("maximum", &n.Maximum)
	set("exclusiveMinimum", &n.ExclusiveMinimum)
	set("exclusiveMaximum", &n.ExclusiveMaximum)

	if v, present := obj["multipleOf"]; present {
		f, ok := asFloat(v)
		if !ok || f <= 0 {
			c.errs.add(path, "\"multipleOf\" must be a strictly positive number")
		} else {
			n.MultipleOf = &f
		}
	}
}

func (c *compiler) fillObject(n *Node, obj map[string]any, path string) {
	requiredSet := map[string]bool{}
	if rv, present := obj["required"]; present {
		if arr, ok := rv.([]any); ok {
			for _, e := range arr {
				if s, ok := e.(string); ok {
					n.Required = append(n.Required, s)
					requiredSet[s] = true
				} else {
					c.errs.add(path, "\"required\" entries must be strings")
				}
			}
		} else {
			c.errs.add(path, "\"required\" must be an array of strings")
		}
	}

	if pv, present := obj["properties"]; present {
		pm, ok := pv.(map[string]any)
		if !ok {
			c.errs.add(path, "\"properties\" must be an object")
		} else {
			n.Properties = make(map[string]*Node, len(pm))
			for _, name := range sortedKeys(pm) {
				child := c.compileValue(pm[name], n, path+"/properties/"+name)
				child.RequiredFlag = requiredSet[name]
				n.Properties[name] = child
			}
		}
	}

	if ppv, present := obj["patternProperties"]; present {
		ppm, ok := ppv.(map[string]any)
		if !ok {
			c.errs.add(path, "\"patternProperties\" must be an object")
		} else {
			for _, k := range sortedKeys(ppm) {
				p, err := matcher.Compile(k)
				if err != nil {
					c.errs.add(path, "invalid \"patternProperties\" key %q: %v", k, err)
					continue
				}
				child := c.compileValue(ppm[k], n, path+"/patternProperties/"+k)
				n.PatternProperties = append(n.PatternProperties, &patternProperty{Source: k, Pattern: p, Node: child})
			}
		}
	}

	if apv, present := obj["additionalProperties"]; present {
		n.AdditionalProperties = c.compileValue(apv, n, path+"/additionalProperties")
	} else {
		n.AdditionalProperties = newBooleanVerdictNode(n, true)
	}

	if pnv, present := obj["propertyNames"]; present {
		n.PropertyNames = c.compileValue(pnv, n, path+"/propertyNames")
	}

	if drv, present := obj["dependentRequired"]; present {
		drm, ok := drv.(map[string]any)
		if !ok {
			c.errs.add(path, "\"dependentRequired\" must be an object")
		} else {
			n.DependentRequired = make(map[string][]string, len(drm))
			for _, k := range sortedKeys(drm) {
				arr, ok := drm[k].([]any)
				if !ok {
					c.errs.add(path, "\"dependentRequired\" entries must be arrays of strings")
					continue
				}
				var names []string
				for _, e := range arr {
					if s, ok := e.(string); ok {
						names = append(names, s)
					}
				}
				n.DependentRequired[k] = names
			}
		}
	}

	if dsv, present := obj["dependentSchemas"]; present {
		dsm, ok := dsv.(map[string]any)
		if !ok {
			c.errs.add(path, "\"dependentSchemas\" must be an object")
		} else {
			n.DependentSchemas = make(map[string]*Node, len(dsm))
			for _, k := range sortedKeys(dsm) {
				n.DependentSchemas[k] = c.compileValue(dsm[k], n, path+"/dependentSchemas/"+k)
			}
		}
	}

	if v, present := obj["minProperties"]; present {
		if i, ok := asInt(v); ok {
			n.MinProperties = i
		} else {
			c.errs.add(path, "\"minProperties\" must be a non-negative integer")
		}
	}
	if v, present := obj["maxProperties"]; present {
		if i, ok := asInt(v); ok {
			n.MaxProperties = &i
		} else {
			c.errs.add(path, "\"maxProperties\" must be a non-negative integer")
		}
	}
}

func (c *compiler) fillArray(n *Node, obj map[string]any, path string) {
	if iv, present := obj["items"]; present {
		switch tv := iv.(type) {
		case []any:
			n.ItemsIsArray = true
			for i, sv := range tv {
				n.Items = append(n.Items, c.compileValue(sv, n, fmt.Sprintf("%s/items/%d", path, i)))
			}
		default:
			n.Items = []*Node{c.compileValue(iv, n, path+"/items")}
		}
	}

	if aiv, present := obj["additionalItems"]; present {
		n.AdditionalItems = c.compileValue(aiv, n, path+"/additionalItems")
	}

	if cv, present := obj["contains"]; present {
		n.Contains = c.compileValue(cv, n, path+"/contains")
	}

	if v, present := obj["minItems"]; present {
		if i, ok := asInt(v); ok {
			n.MinItems = i
		} else {
			c.errs.add(path, "\"minItems\" must be a non-negative integer")
		}
	}
	if v, present := obj["maxItems"]; present {
		if i, ok := asInt(v); ok {
			n.MaxItems = &i
		} else {
			c.errs.add(path, "\"maxItems\" must be a non-negative integer")
		}
	}
	if v, present := obj["uniqueItems"]; present {
		if b, ok := v.(bool); ok {
			n.UniqueItems = b
		} else {
			c.errs.add(path, "\"uniqueItems\" must be a boolean")
		}
	}
}

// chooseKind implements spec.md §4.1's type-family selection table: an
// explicit singular "type" wins outright; otherwise the first family
// (Number, Array, String, Object, in that order) whose trigger keywords
// appear in obj is chosen; an object with none of those becomes
// KindUndefined (the empty-object "schema true" case is handled by the
// caller before chooseKind is reached).
func chooseKind(obj map[string]any) (kind Kind, isInteger bool, typeArrayErr bool) {
	if tv, present := obj["type"]; present {
		switch tt := tv.(type) {
		case string:
			switch tt {
			case "null":
				return KindNull, false, false
			case "boolean":
				return KindBoolean, false, false
			case "number":
				return KindNumber, false, false
			case "integer":
				return KindNumber, true, false
			case "array":
				return KindArray, false, false
			case "string":
				return KindString, false, false
			case "object":
				return KindObject, false, false
			default:
				return KindUndefined, false, false
			}
		case []any:
			return KindUndefined, false, true
		default:
			return KindUndefined, false, false
		}
	}

	hasAny := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := obj[k]; ok {
				return true
			}
		}
		return false
	}

	switch {
	case hasAny("minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf"):
		return KindNumber, false, false
	case hasAny("items", "additionalItems", "maxItems", "minItems", "uniqueItems", "contains"):
		return KindArray, false, false
	case hasAny("maxLength", "minLength", "pattern"):
		return KindString, false, false
	case hasAny("properties", "additionalProperties", "patternProperties", "minProperties",
		"maxProperties", "required", "dependentRequired", "dependentSchemas"):
		return KindObject, false, false
	default:
		return KindUndefined, false, false
	}
}

func asFloat(v any) (float64, bool) {
	switch tv := v.(type) {
	case float64:
		return tv, true
	case json.Number:
		f, err := tv.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	i := int(f)
	if float64(i) != f {
		return 0, false
	}
	return i, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
