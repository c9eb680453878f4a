// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"encoding/json"
	"testing"
)

func mustCompileJSON(t *testing.T, schemaJSON string, opts ...CompileOption) *Node {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(schemaJSON), &v); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	n, err := Compile(v, opts...)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return n
}

func decodeJSON(t *testing.T, instanceJSON string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(instanceJSON), &v); err != nil {
		t.Fatalf("unmarshal instance: %v", err)
	}
	return v
}

func TestValidateBasicTypes(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		instance string
		valid    bool
	}{
		{"string ok", `{"type":"string"}`, `"hello"`, true},
		{"string wrong type", `{"type":"string"}`, `5`, false},
		{"integer ok", `{"type":"integer"}`, `5`, true},
		{"integer fractional rejected", `{"type":"integer"}`, `5.5`, false},
		{"number allows fractional", `{"type":"number"}`, `5.5`, true},
		{"boolean schema true accepts anything", `true`, `{"x":1}`, true},
		{"boolean schema false rejects everything", `false`, `null`, false},
		{"empty schema accepts anything", `{}`, `42`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := mustCompileJSON(t, tc.schema)
			res := n.Validate(decodeJSON(t, tc.instance))
			if res.Valid != tc.valid {
				t.Errorf("Valid = %v, want %v (errors: %v)", res.Valid, tc.valid, res.Errors)
			}
		})
	}
}

func TestValidateStringConstraints(t *testing.T) {
	n := mustCompileJSON(t, `{"type":"string","minLength":2,"maxLength":4,"pattern":"^a"}`)

	for _, tc := range []struct {
		instance string
		valid    bool
	}{
		{`"abc"`, true},
		{`"a"`, false},
		{`"abcde"`, false},
		{`"bcd"`, false},
	} {
		res := n.Validate(decodeJSON(t, tc.instance))
		if res.Valid != tc.valid {
			t.Errorf("instance %s: Valid = %v, want %v", tc.instance, res.Valid, tc.valid)
		}
	}
}

func TestValidateNumberConstraints(t *testing.T) {
	n := mustCompileJSON(t, `{"type":"number","minimum":0,"maximum":10,"exclusiveMinimum":0,"multipleOf":2}`)

	for _, tc := range []struct {
		instance string
		valid    bool
	}{
		{`4`, true},
		{`0`, false},
		{`10`, true},
		{`3`, false},
		{`11`, false},
	} {
		res := n.Validate(decodeJSON(t, tc.instance))
		if res.Valid != tc.valid {
			t.Errorf("instance %s: Valid = %v, want %v (%v)", tc.instance, res.Valid, tc.valid, res.Errors)
		}
	}
}

func TestValidateRequiredAndProperties(t *testing.T) {
	n := mustCompileJSON(t, `{
		"type": "object",
		"properties": {"name": {"type": "string"}, "age": {"type": "integer"}},
		"required": ["name"]
	}`)

	res := n.Validate(decodeJSON(t, `{"name":"a","age":1}`))
	if !res.Valid {
		t.Errorf("expected valid, got errors: %v", res.Errors)
	}

	res = n.Validate(decodeJSON(t, `{"age":1}`))
	if res.Valid {
		t.Error("expected invalid: missing required \"name\"")
	}

	res = n.Validate(decodeJSON(t, `{"name":"a","age":"nope"}`))
	if res.Valid {
		t.Error("expected invalid: wrong type for \"age\"")
	}
}

// TestAdditionalPropertiesFalse exercises spec.md §8 scenario 5: a key not
// named in properties, with additionalProperties: false, is rejected.
func TestAdditionalPropertiesFalse(t *testing.T) {
	n := mustCompileJSON(t, `{
		"type": "object",
		"properties": {"x": {"type": "number"}},
		"additionalProperties": false
	}`)

	res := n.Validate(decodeJSON(t, `{"x":1,"y":2}`))
	if res.Valid {
		t.Fatal("expected invalid: unknown property \"y\"")
	}
	found := false
	for _, e := range res.Errors {
		if e.Kind == "additionalProperties" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an additionalProperties violation, got: %v", res.Errors)
	}
}

func TestPropertiesSuppressesPatternProperties(t *testing.T) {
	n := mustCompileJSON(t, `{
		"type": "object",
		"properties": {"foo": {"type": "number"}},
		"patternProperties": {"^f": {"type": "string"}}
	}`)

	// "foo" matches both properties (exactly) and patternProperties ("^f");
	// per the literal spec.md wording, properties wins outright and
	// patternProperties never runs for this key, so a number is accepted.
	res := n.Validate(decodeJSON(t, `{"foo":1}`))
	if !res.Valid {
		t.Errorf("expected valid (properties suppresses patternProperties), got: %v", res.Errors)
	}
}

func TestValidateArrayConstraints(t *testing.T) {
	n := mustCompileJSON(t, `{
		"type": "array",
		"items": {"type": "number"},
		"minItems": 1,
		"maxItems": 3,
		"uniqueItems": true
	}`)

	res := n.Validate(decodeJSON(t, `[1,2,3]`))
	if !res.Valid {
		t.Errorf("expected valid, got: %v", res.Errors)
	}

	res = n.Validate(decodeJSON(t, `[]`))
	if res.Valid {
		t.Error("expected invalid: too short")
	}

	res = n.Validate(decodeJSON(t, `[1,2,3,4]`))
	if res.Valid {
		t.Error("expected invalid: too long")
	}

	res = n.Validate(decodeJSON(t, `[1,1]`))
	if res.Valid {
		t.Error("expected invalid: duplicate items")
	}

	res = n.Validate(decodeJSON(t, `[1,"x"]`))
	if res.Valid {
		t.Error("expected invalid: wrong item type")
	}
}

func TestValidateTupleItems(t *testing.T) {
	n := mustCompileJSON(t, `{
		"type": "array",
		"items": [{"type": "number"}, {"type": "string"}],
		"additionalItems": false
	}`)

	res := n.Validate(decodeJSON(t, `[1,"a"]`))
	if !res.Valid {
		t.Errorf("expected valid, got: %v", res.Errors)
	}

	res = n.Validate(decodeJSON(t, `[1,"a",true]`))
	if res.Valid {
		t.Error("expected invalid: extra item rejected by additionalItems: false")
	}
}

func TestValidateContains(t *testing.T) {
	n := mustCompileJSON(t, `{"type":"array","contains":{"type":"number","minimum":10}}`)

	res := n.Validate(decodeJSON(t, `[1,2,15]`))
	if !res.Valid {
		t.Errorf("expected valid, got: %v", res.Errors)
	}

	res = n.Validate(decodeJSON(t, `[1,2,3]`))
	if res.Valid {
		t.Error("expected invalid: nothing satisfies contains")
	}
}

func TestValidateCombinators(t *testing.T) {
	allOf := mustCompileJSON(t, `{"allOf":[{"type":"number"},{"minimum":0}]}`)
	if res := allOf.Validate(decodeJSON(t, `5`)); !res.Valid {
		t.Errorf("allOf: expected valid, got %v", res.Errors)
	}
	if res := allOf.Validate(decodeJSON(t, `-5`)); res.Valid {
		t.Error("allOf: expected invalid")
	}

	anyOf := mustCompileJSON(t, `{"anyOf":[{"type":"string"},{"type":"number"}]}`)
	if res := anyOf.Validate(decodeJSON(t, `"x"`)); !res.Valid {
		t.Errorf("anyOf: expected valid, got %v", res.Errors)
	}
	if res := anyOf.Validate(decodeJSON(t, `true`)); res.Valid {
		t.Error("anyOf: expected invalid")
	}

	oneOf := mustCompileJSON(t, `{"oneOf":[{"minimum":0},{"maximum":10}]}`)
	if res := oneOf.Validate(decodeJSON(t, `20`)); !res.Valid {
		t.Errorf("oneOf: expected valid (only minimum satisfied), got %v", res.Errors)
	}
	if res := oneOf.Validate(decodeJSON(t, `5`)); res.Valid {
		t.Error("oneOf: expected invalid, both branches satisfied")
	}

	notSchema := mustCompileJSON(t, `{"not":{"type":"string"}}`)
	if res := notSchema.Validate(decodeJSON(t, `5`)); !res.Valid {
		t.Errorf("not: expected valid, got %v", res.Errors)
	}
	if res := notSchema.Validate(decodeJSON(t, `"x"`)); res.Valid {
		t.Error("not: expected invalid")
	}
}

// TestDoubleNegationIdentity checks spec.md §8 law 4: not{not{S}} accepts
// exactly what S accepts.
func TestDoubleNegationIdentity(t *testing.T) {
	s := mustCompileJSON(t, `{"type":"number","minimum":0}`)
	doubleNot := mustCompileJSON(t, `{"not":{"not":{"type":"number","minimum":0}}}`)

	for _, instanceJSON := range []string{`5`, `-5`, `"x"`, `null`} {
		instance := decodeJSON(t, instanceJSON)
		want := s.Validate(instance).Valid
		got := doubleNot.Validate(instance).Valid
		if got != want {
			t.Errorf("instance %s: not{not{S}} = %v, want %v (S = %v)", instanceJSON, got, want, want)
		}
	}
}

func TestValidateEnum(t *testing.T) {
	n := mustCompileJSON(t, `{"enum":[1,"two",{"three":3}]}`)

	if res := n.Validate(decodeJSON(t, `1`)); !res.Valid {
		t.Errorf("expected valid, got %v", res.Errors)
	}
	if res := n.Validate(decodeJSON(t, `{"three":3}`)); !res.Valid {
		t.Errorf("expected valid (structural match), got %v", res.Errors)
	}
	if res := n.Validate(decodeJSON(t, `"three"`)); res.Valid {
		t.Error("expected invalid: not in enum")
	}
}

func TestValidateRef(t *testing.T) {
	n := mustCompileJSON(t, `{
		"$defs": {"pos": {"type": "number", "minimum": 0}},
		"type": "object",
		"properties": {"x": {"$ref": "#/$defs/pos"}}
	}`)

	if res := n.Validate(decodeJSON(t, `{"x":5}`)); !res.Valid {
		t.Errorf("expected valid, got %v", res.Errors)
	}
	if res := n.Validate(decodeJSON(t, `{"x":-5}`)); res.Valid {
		t.Error("expected invalid: x below minimum via $ref")
	}
}

func TestValidateRefDepthCap(t *testing.T) {
	n := mustCompileJSON(t, `{
		"$defs": {"loop": {"$ref": "#/$defs/loop"}},
		"$ref": "#/$defs/loop"
	}`)

	res := n.Validate(decodeJSON(t, `1`), WithMaxRefDepth(4))
	if res.Valid {
		t.Fatal("expected invalid: unbounded $ref recursion should hit the depth cap")
	}
}

func TestValidateDependentRequiredAndSchemas(t *testing.T) {
	n := mustCompileJSON(t, `{
		"type": "object",
		"dependentRequired": {"credit_card": ["billing_address"]},
		"dependentSchemas": {"has_pet": {"required": ["pet_name"]}}
	}`)

	if res := n.Validate(decodeJSON(t, `{"credit_card":"x"}`)); res.Valid {
		t.Error("expected invalid: missing dependent required billing_address")
	}
	if res := n.Validate(decodeJSON(t, `{"credit_card":"x","billing_address":"y"}`)); !res.Valid {
		t.Errorf("expected valid, got %v", res.Errors)
	}
	if res := n.Validate(decodeJSON(t, `{"has_pet":true}`)); res.Valid {
		t.Error("expected invalid: dependentSchemas requires pet_name")
	}
}

func TestValidatePropertyNames(t *testing.T) {
	n := mustCompileJSON(t, `{"type":"object","propertyNames":{"pattern":"^[a-z]+$"}}`)

	if res := n.Validate(decodeJSON(t, `{"abc":1}`)); !res.Valid {
		t.Errorf("expected valid, got %v", res.Errors)
	}
	if res := n.Validate(decodeJSON(t, `{"ABC":1}`)); res.Valid {
		t.Error("expected invalid: property name fails pattern")
	}
}

func TestValidateInstanceDefsQuirk(t *testing.T) {
	n := mustCompileJSON(t, `{"type":"object"}`)

	if res := n.Validate(decodeJSON(t, `{"$defs":{"a":{"type":"string"}}}`)); !res.Valid {
		t.Errorf("expected valid: $defs sub-schemas compile cleanly, got %v", res.Errors)
	}
	if res := n.Validate(decodeJSON(t, `{"$defs":{"a":{"type":["string","number"]}}}`)); res.Valid {
		t.Error("expected invalid: multi-element type array inside $defs fails to compile")
	}
}

func TestErrorMessageShape(t *testing.T) {
	n := mustCompileJSON(t, `{"type":"string"}`)
	res := n.Validate(decodeJSON(t, `5`))
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(res.Errors))
	}
	e := res.Errors[0]
	if e.Kind != "type" || e.Path != "#" {
		t.Errorf("Kind=%q Path=%q, want type/#", e.Kind, e.Path)
	}
	want := "type violation at #, 5"
	if e.Message != want {
		t.Errorf("Message = %q, want %q", e.Message, want)
	}
}

func TestErrorPathReflectsNestedLocation(t *testing.T) {
	n := mustCompileJSON(t, `{
		"type": "object",
		"properties": {"items": {"type": "array", "items": {"type": "number"}}}
	}`)
	res := n.Validate(decodeJSON(t, `{"items":[1,"x"]}`))
	if res.Valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, e := range res.Errors {
		if e.Path == "#/items/1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an error at #/items/1, got: %v", res.Errors)
	}
}
