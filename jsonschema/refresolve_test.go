// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"reflect"
	"testing"
)

func TestSplitRefOnSlash(t *testing.T) {
	for _, tt := range []struct {
		ref  string
		want []string
	}{
		{"#", []string{"#"}},
		{"#/$defs/pos", []string{"#", "$defs", "pos"}},
		{"#foo", []string{"#foo"}},
		{"#/properties/a~1b", []string{"#", "properties", "a/b"}},
		{"#/properties/a~0b", []string{"#", "properties", "a~b"}},
	} {
		got := splitRefOnSlash(tt.ref)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitRefOnSlash(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestResolveRefToDefs(t *testing.T) {
	n, err := Compile(mustDecode(t, `{
		"$defs": {"pos": {"type": "number", "minimum": 0}},
		"$ref": "#/$defs/pos"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.ResolvedRef != n.Defs["pos"] {
		t.Errorf("ResolvedRef = %v, want the $defs/pos node", n.ResolvedRef)
	}
}

func TestResolveRefToProperties(t *testing.T) {
	n, err := Compile(mustDecode(t, `{
		"properties": {"x": {"type": "number"}},
		"$ref": "#/properties/x"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.ResolvedRef != n.Properties["x"] {
		t.Errorf("ResolvedRef = %v, want the properties/x node", n.ResolvedRef)
	}
}

func TestResolveRefToItemsIndex(t *testing.T) {
	n, err := Compile(mustDecode(t, `{
		"items": [{"type": "string"}, {"type": "number"}],
		"$ref": "#/items/1"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.ResolvedRef != n.Items[1] {
		t.Errorf("ResolvedRef = %v, want items[1]", n.ResolvedRef)
	}
}

func TestResolveRefToAnchor(t *testing.T) {
	n, err := Compile(mustDecode(t, `{
		"$defs": {"pos": {"$id": "positiveNumber", "type": "number", "minimum": 0}},
		"$ref": "#positiveNumber"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.ResolvedRef != n.Defs["pos"] {
		t.Errorf("ResolvedRef = %v, want the anchor-named node", n.ResolvedRef)
	}
}

func TestResolveRefUnresolvableIsNonFatal(t *testing.T) {
	n, err := Compile(mustDecode(t, `{"$ref": "#/$defs/missing"}`))
	if err != nil {
		t.Fatalf("unresolvable $ref should not be a compile error, got: %v", err)
	}
	if n.ResolvedRef != nil {
		t.Errorf("ResolvedRef = %v, want nil for an unresolvable ref", n.ResolvedRef)
	}
}

func TestResolveRefExternalViaResolver(t *testing.T) {
	calls := 0
	resolver := func(uri string) (any, bool) {
		calls++
		if uri == "https://example.com/pos.json" {
			return mustDecode(t, `{"type":"number","minimum":0}`), true
		}
		return nil, false
	}
	n, err := Compile(mustDecode(t, `{"$ref": "https://example.com/pos.json"}`), WithRefResolver(resolver))
	if err != nil {
		t.Fatal(err)
	}
	if n.ResolvedRef == nil || n.ResolvedRef.TypeTag != KindNumber {
		t.Errorf("expected an externally-resolved number node, got %v", n.ResolvedRef)
	}
	if calls != 1 {
		t.Errorf("resolver called %d times, want 1", calls)
	}
}

func TestResolveRefExternalWithoutResolverIsNil(t *testing.T) {
	n, err := Compile(mustDecode(t, `{"$ref": "https://example.com/pos.json"}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.ResolvedRef != nil {
		t.Error("expected a nil ResolvedRef when no RefResolver is configured")
	}
}
