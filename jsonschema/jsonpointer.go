// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// unescapeRefSegment decodes a single "$ref" path segment: first any
// "%HH" URI escapes, then the JSON Pointer escapes "~1" -> "/" and
// "~0" -> "~", in that order (per RFC 6901, unescaping ~ before /
// would corrupt a literal "~1" that was meant to survive as "~1").
func unescapeRefSegment(seg string) string {
	if decoded, err := url.PathUnescape(seg); err == nil {
		seg = decoded
	}
	seg = strings.ReplaceAll(seg, "~1", "/")
	seg = strings.ReplaceAll(seg, "~0", "~")
	return seg
}

// splitRef splits a "$ref" value into its '/'-separated segments, dropping
// a leading "#" fragment marker if present, and unescaping each segment.
func splitRef(ref string) []string {
	ref = strings.TrimPrefix(ref, "#")
	if ref == "" {
		return nil
	}
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" {
		return nil
	}
	parts := strings.Split(ref, "/")
	for i, p := range parts {
		parts[i] = unescapeRefSegment(p)
	}
	return parts
}

// instancePath is an append-only sequence of JSON Pointer segments
// (property names or array indices) recording where, in the instance
// being validated, the validator currently is. It backs the improved,
// instance-side error-location reconstruction described in SPEC_FULL's
// supplemented features: rather than post-hoc walking the schema tree to
// guess a location, the validator threads the actual path it took.
type instancePath struct {
	segments []string
}

// withKey returns a new path with a JSON object key appended. instancePath
// values are treated as immutable so a single path can be shared across
// sibling recursive calls without them clobbering each other's slice
// backing array.
func (p instancePath) withKey(key string) instancePath {
	return instancePath{segments: appendCopy(p.segments, escapePointerSegment(key))}
}

// withIndex returns a new path with an array index appended.
func (p instancePath) withIndex(i int) instancePath {
	return instancePath{segments: appendCopy(p.segments, strconv.Itoa(i))}
}

func appendCopy(s []string, v string) []string {
	out := make([]string, len(s)+1)
	copy(out, s)
	out[len(s)] = v
	return out
}

// String renders the path as a JSON Pointer, "#" for the root.
func (p instancePath) String() string {
	if len(p.segments) == 0 {
		return "#"
	}
	var b strings.Builder
	b.WriteByte('#')
	for _, s := range p.segments {
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}

// escapePointerSegment applies the JSON Pointer encoding of RFC 6901
// ("~" -> "~0", "/" -> "~1") to a raw object key before it's stored as a
// path segment.
func escapePointerSegment(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	key = strings.ReplaceAll(key, "/", "~1")
	return key
}

// undefinedInstance is the sentinel passed to renderInstance for a
// "required" violation, where there is no instance value at all — the
// object key was simply absent.
type undefinedInstance struct{}

// renderInstance renders a decoded JSON value as compact text for use in
// violation messages ("<kind> violation at <json-pointer>, <instance>").
func renderInstance(v any) string {
	switch tv := v.(type) {
	case undefinedInstance:
		return "undefined"
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", tv)
	default:
		return canonicalText(tv)
	}
}
