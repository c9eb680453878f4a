// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"encoding/json"

	"github.com/dacolabs/jsonvalidator-go/jsonschema/internal/matcher"
)

// Kind tags the instance-type variant a Node was compiled as. It replaces
// the source's class hierarchy (JsonSchemaNode -> {String,Number,Boolean,
// Null,Undefined,Object,Array}Node) with a single discriminated tag per
// Design Note §9.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "undefined"
	}
}

// instanceKind classifies a decoded JSON value (as produced by
// encoding/json.Unmarshal into an any) into the Kind it matches for the
// purposes of the shared type check in spec.md §4.2 step 1. There is no
// "undefined" instance value at this level; callers pass that check
// separately via the required/absent-key rule.
func instanceKind(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case float64, json.Number:
		return KindNumber
	case string:
		return KindString
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindUndefined
	}
}

// patternProperty pairs a compiled "patternProperties" key with the
// sub-schema it guards, preserving the ordered list spec.md §3 requires
// (matching order matters when more than one pattern could match a key).
type patternProperty struct {
	Source  string
	Pattern *matcher.Pattern
	Node    *Node
}

// A Node is one compiled schema constraint node: the tagged-union tree
// spec.md §3 describes, rendered as one struct with a Kind discriminator
// plus shared fields plus per-Kind optional payload fields, rather than a
// class hierarchy with virtual dispatch.
type Node struct {
	// shared, every kind
	ID           string
	TypeTag      Kind
	TypeStr      string
	IsInteger    bool
	DefaultValue json.RawMessage
	EnumValues   []any
	RequiredFlag bool
	Parent       *Node
	RefString    string
	ResolvedRef  *Node
	AllOf        []*Node
	AnyOf        []*Node
	OneOf        []*Node
	NotChild     *Node
	Defs         map[string]*Node
	Anchors      map[string]*Node // populated on the root only
	IsRoot       bool

	// BooleanNode payload
	BoolValue *bool

	// StringNode payload
	MinLength       *int
	MaxLength       *int
	Pattern         string
	compiledPattern *matcher.Pattern

	// NumberNode payload
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	// ObjectNode payload
	Properties           map[string]*Node
	PatternProperties    []*patternProperty
	AdditionalProperties *Node
	PropertyNames        *Node
	Required             []string
	DependentRequired    map[string][]string
	DependentSchemas     map[string]*Node
	MinProperties        int
	MaxProperties        *int

	// ArrayNode payload
	Items           []*Node
	ItemsIsArray    bool
	AdditionalItems *Node
	Contains        *Node
	MinItems        int
	MaxItems        *int
	UniqueItems     bool
}

// newBooleanVerdictNode builds the fixed-verdict BooleanNode used for the
// schema literals "true"/"false", and as the default for an absent
// "additionalProperties" (which behaves as schema "true").
func newBooleanVerdictNode(parent *Node, value bool) *Node {
	return &Node{TypeTag: KindBoolean, Parent: parent, BoolValue: &value}
}

// isBooleanTrue reports whether n is exactly the fixed-verdict-true
// BooleanNode. Compile also gives an empty schema object this node shape.
func (n *Node) isBooleanTrue() bool {
	return n != nil && n.TypeTag == KindBoolean && n.BoolValue != nil && *n.BoolValue
}
