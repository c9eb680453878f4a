// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import "testing"

func TestKindString(t *testing.T) {
	for _, tt := range []struct {
		k    Kind
		want string
	}{
		{KindUndefined, "undefined"},
		{KindNull, "null"},
		{KindBoolean, "boolean"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindObject, "object"},
		{KindArray, "array"},
	} {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestInstanceKind(t *testing.T) {
	for _, tt := range []struct {
		v    any
		want Kind
	}{
		{nil, KindNull},
		{true, KindBoolean},
		{false, KindBoolean},
		{float64(1), KindNumber},
		{"s", KindString},
		{map[string]any{}, KindObject},
		{[]any{}, KindArray},
	} {
		if got := instanceKind(tt.v); got != tt.want {
			t.Errorf("instanceKind(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestNewBooleanVerdictNode(t *testing.T) {
	trueNode := newBooleanVerdictNode(nil, true)
	if !trueNode.isBooleanTrue() {
		t.Error("expected isBooleanTrue() on the true verdict node")
	}
	if trueNode.isBooleanFalse() {
		t.Error("true verdict node reported as boolean-false")
	}

	falseNode := newBooleanVerdictNode(nil, false)
	if falseNode.isBooleanTrue() {
		t.Error("false verdict node reported as boolean-true")
	}
	if !falseNode.isBooleanFalse() {
		t.Error("expected isBooleanFalse() on the false verdict node")
	}

	var nilNode *Node
	if nilNode.isBooleanTrue() || nilNode.isBooleanFalse() {
		t.Error("a nil node must report neither isBooleanTrue nor isBooleanFalse")
	}
}
