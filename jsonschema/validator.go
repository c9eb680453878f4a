// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import "math"

// Validate checks instance (a decoded JSON value) against the compiled
// tree rooted at n, per spec.md §4.2. It never panics on a malformed
// instance; every mismatch becomes a ValidationError in the returned
// Result.
func Validate(n *Node, instance any, opts ...ValidatorOption) *Result {
	cfg := newValidatorConfig(opts)
	v := &validatorState{cfg: cfg}
	ec := &errorCollector{}
	ok := v.validateNode(n, instance, true, instancePath{}, ec, 0)
	return ec.result(ok)
}

// Validate is Validate(n, instance, opts...) as a method, so a compiled
// Node reads like a ready-to-use validator handle.
func (n *Node) Validate(instance any, opts ...ValidatorOption) *Result {
	return Validate(n, instance, opts...)
}

type validatorState struct {
	cfg *validatorConfig
}

// validateNode is the single recursive evaluator behind every node kind.
// present distinguishes "the instance value below" from "the key this
// node occupies in its parent was absent" (spec.md §4.2 step 2); when
// !present, only the required_flag check applies.
func (v *validatorState) validateNode(n *Node, instance any, present bool, path instancePath, ec *errorCollector, refDepth int) bool {
	if n == nil {
		return true
	}

	if !present {
		if n.RequiredFlag {
			ec.add("required", path, undefinedInstance{})
			return false
		}
		return true
	}

	// Step 1: shared type check. Boolean-tagged nodes are exempted here
	// and enforced instead by validateBoolean below.
	if n.TypeTag != KindBoolean && n.TypeStr != "" {
		if !typeMatches(n.TypeTag, instanceKind(instance)) {
			ec.add("type", path, instance)
			return false
		}
	}

	valid := true

	switch n.TypeTag {
	case KindString:
		if s, ok := instance.(string); ok {
			if !v.validateString(n, s, path, ec) {
				valid = false
			}
		}
	case KindNumber:
		if f, ok := asFloat(instance); ok {
			if !v.validateNumber(n, f, path, ec) {
				valid = false
			}
		}
	case KindBoolean:
		if !v.validateBoolean(n, instance, path, ec) {
			valid = false
		}
	case KindObject:
		if obj, ok := instance.(map[string]any); ok {
			if !v.validateObject(n, obj, path, ec, refDepth) {
				valid = false
			}
		}
	case KindArray:
		if arr, ok := instance.([]any); ok {
			if !v.validateArray(n, arr, path, ec, refDepth) {
				valid = false
			}
		}
	}

	for _, child := range n.AllOf {
		if !v.validateNode(child, instance, true, path, ec, refDepth) {
			valid = false
		}
	}

	if n.ResolvedRef != nil {
		if refDepth >= v.cfg.maxRefDepth {
			ec.add("ref", path, instance)
			valid = false
		} else if !v.validateNode(n.ResolvedRef, instance, true, path, ec, refDepth+1) {
			valid = false
		}
	}

	if len(n.AnyOf) > 0 {
		anyPass := false
		for _, child := range n.AnyOf {
			scratch := &errorCollector{}
			if v.validateNode(child, instance, true, path, scratch, refDepth) {
				anyPass = true
			}
		}
		if !anyPass {
			ec.add("anyOf", path, instance)
			valid = false
		}
	}

	if n.NotChild != nil {
		scratch := &errorCollector{}
		if v.validateNode(n.NotChild, instance, true, path, scratch, refDepth) {
			ec.add("not", path, instance)
			valid = false
		}
	}

	if len(n.OneOf) > 0 {
		count := 0
		for _, child := range n.OneOf {
			scratch := &errorCollector{}
			if v.validateNode(child, instance, true, path, scratch, refDepth) {
				count++
			}
		}
		if count != 1 {
			ec.add("oneOf", path, instance)
			valid = false
		}
	}

	if len(n.EnumValues) > 0 {
		matched := false
		for _, ev := range n.EnumValues {
			if jsonEqual(ev, instance) {
				matched = true
				break
			}
		}
		if !matched {
			ec.add("enum", path, instance)
			valid = false
		}
	}

	if obj, ok := instance.(map[string]any); ok {
		if !v.validateInstanceDefs(obj, path, ec) {
			valid = false
		}
	}

	return valid
}

func typeMatches(tag Kind, ik Kind) bool {
	switch tag {
	case KindNull:
		return ik == KindNull
	case KindNumber:
		return ik == KindNumber
	case KindString:
		return ik == KindString
	case KindObject:
		return ik == KindObject
	case KindArray:
		return ik == KindArray
	default:
		return true
	}
}

func (v *validatorState) validateString(n *Node, s string, path instancePath, ec *errorCollector) bool {
	valid := true
	if n.compiledPattern != nil && !n.compiledPattern.Match(s) {
		ec.add("pattern", path, s)
		valid = false
	}
	length := len([]rune(s))
	if n.MinLength != nil && length < *n.MinLength {
		ec.add("minLength", path, s)
		valid = false
	}
	if n.MaxLength != nil && length > *n.MaxLength {
		ec.add("maxLength", path, s)
		valid = false
	}
	return valid
}

func (v *validatorState) validateNumber(n *Node, f float64, path instancePath, ec *errorCollector) bool {
	valid := true
	if n.IsInteger && f != math.Trunc(f) {
		ec.add("type", path, f)
		valid = false
	}
	if n.Minimum != nil && f < *n.Minimum {
		ec.add("minimum", path, f)
		valid = false
	}
	if n.Maximum != nil && f > *n.Maximum {
		ec.add("maximum", path, f)
		valid = false
	}
	if n.ExclusiveMinimum != nil && f <= *n.ExclusiveMinimum {
		ec.add("exclusiveMinimum", path, f)
		valid = false
	}
	if n.ExclusiveMaximum != nil && f >= *n.ExclusiveMaximum {
		ec.add("exclusiveMaximum", path, f)
		valid = false
	}
	if n.MultipleOf != nil {
		ratio := f / *n.MultipleOf
		if ratio != math.Trunc(ratio) {
			ec.add("multipleOf", path, f)
			valid = false
		}
	}
	return valid
}

func (v *validatorState) validateBoolean(n *Node, instance any, path instancePath, ec *errorCollector) bool {
	if n.BoolValue != nil {
		if !*n.BoolValue {
			ec.add("false-schema", path, instance)
		}
		return *n.BoolValue
	}
	if _, ok := instance.(bool); !ok {
		ec.add("type", path, instance)
		return false
	}
	return true
}

func (v *validatorState) validateObject(n *Node, obj map[string]any, path instancePath, ec *errorCollector, refDepth int) bool {
	valid := true
	size := len(obj)

	if size < n.MinProperties {
		ec.add("minProperties", path, obj)
		valid = false
	}
	if n.MaxProperties != nil && size > *n.MaxProperties {
		ec.add("maxProperties", path, obj)
		valid = false
	}
	for _, req := range n.Required {
		if _, ok := obj[req]; !ok {
			ec.add("required", path, obj)
			valid = false
		}
	}
	for _, trigger := range sortedKeys(toAnyMap(n.DependentRequired)) {
		if _, ok := obj[trigger]; !ok {
			continue
		}
		for _, dep := range n.DependentRequired[trigger] {
			if _, ok := obj[dep]; !ok {
				ec.add("dependentRequired", path, obj)
				valid = false
			}
		}
	}
	for _, trigger := range sortedNodeKeys(n.DependentSchemas) {
		if _, ok := obj[trigger]; !ok {
			continue
		}
		if !v.validateNode(n.DependentSchemas[trigger], obj, true, path, ec, refDepth) {
			valid = false
		}
	}

	for _, key := range sortedKeys(obj) {
		val := obj[key]
		keyPath := path.withKey(key)
		matched := false

		if child, ok := n.Properties[key]; ok {
			if !v.validateNode(child, val, true, keyPath, ec, refDepth) {
				valid = false
			}
			matched = true
		} else {
			for _, pp := range n.PatternProperties {
				if pp.Pattern.Match(key) {
					if !v.validateNode(pp.Node, val, true, keyPath, ec, refDepth) {
						valid = false
					}
					matched = true
				}
			}
			if !matched {
				if !v.validateAdditionalProperty(n.AdditionalProperties, val, keyPath, ec, refDepth) {
					valid = false
				}
			}
		}

		if n.PropertyNames != nil {
			if !v.validateNode(n.PropertyNames, key, true, keyPath, ec, refDepth) {
				valid = false
			}
		}
	}

	return valid
}

func (v *validatorState) validateAdditionalProperty(n *Node, val any, path instancePath, ec *errorCollector, refDepth int) bool {
	if n.isBooleanFalse() {
		ec.add("additionalProperties", path, val)
		return false
	}
	return v.validateNode(n, val, true, path, ec, refDepth)
}

func (n *Node) isBooleanFalse() bool {
	return n != nil && n.TypeTag == KindBoolean && n.BoolValue != nil && !*n.BoolValue
}

func (v *validatorState) validateArray(n *Node, arr []any, path instancePath, ec *errorCollector, refDepth int) bool {
	valid := true
	length := len(arr)

	if length < n.MinItems {
		ec.add("minItems", path, arr)
		valid = false
	}
	if n.MaxItems != nil && length > *n.MaxItems {
		ec.add("maxItems", path, arr)
		valid = false
	}
	if n.UniqueItems && hasStructuralDuplicate(arr) {
		ec.add("uniqueItems", path, arr)
		valid = false
	}

	containsMatched := n.Contains == nil
	for i, elem := range arr {
		elemPath := path.withIndex(i)

		switch {
		case n.ItemsIsArray:
			if i < len(n.Items) {
				if !v.validateNode(n.Items[i], elem, true, elemPath, ec, refDepth) {
					valid = false
				}
			} else if n.AdditionalItems != nil {
				if n.AdditionalItems.isBooleanFalse() {
					ec.add("additionalItems", elemPath, elem)
					valid = false
				} else if !v.validateNode(n.AdditionalItems, elem, true, elemPath, ec, refDepth) {
					valid = false
				}
			}
		case len(n.Items) > 0:
			if !v.validateNode(n.Items[0], elem, true, elemPath, ec, refDepth) {
				valid = false
			}
		}

		if !containsMatched {
			scratch := &errorCollector{}
			if v.validateNode(n.Contains, elem, true, elemPath, scratch, refDepth) {
				containsMatched = true
			}
		}
	}

	if !containsMatched {
		ec.add("contains", path, arr)
		valid = false
	}

	return valid
}

// hasStructuralDuplicate implements the uniqueItems check the way Design
// Note §9 requires: canonicalText buckets candidates as a fast-path
// accelerator, but any bucket with more than one member is resolved with
// a real jsonEqual comparison, never treated as a duplicate on the hash
// alone.
func hasStructuralDuplicate(arr []any) bool {
	buckets := make(map[string][]any, len(arr))
	for _, v := range arr {
		key := canonicalText(v)
		for _, existing := range buckets[key] {
			if jsonEqual(existing, v) {
				return true
			}
		}
		buckets[key] = append(buckets[key], v)
	}
	return false
}

// validateInstanceDefs implements spec.md §4.2 step 9: if the instance is
// a JSON object with a "$defs" key, re-run the schema-compiler's $defs
// parse on it; any failure inside fails validation. SPEC_FULL's Open
// Question decision documents this as implemented-as-specified.
func (v *validatorState) validateInstanceDefs(obj map[string]any, path instancePath, ec *errorCollector) bool {
	dv, ok := obj["$defs"]
	if !ok {
		return true
	}
	dm, ok := dv.(map[string]any)
	if !ok {
		ec.add("$defs", path, dv)
		return false
	}
	for _, k := range sortedKeys(dm) {
		if _, err := Compile(dm[k]); err != nil {
			ec.add("$defs", path, dm[k])
			return false
		}
	}
	return true
}

func toAnyMap[V any](m map[string]V) map[string]any {
	out := make(map[string]any, len(m))
	for k := range m {
		out[k] = nil
	}
	return out
}
