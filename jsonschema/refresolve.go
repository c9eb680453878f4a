// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"sort"
	"strconv"
)

// refContext is the explicit "what does the next path segment mean"
// state the resolver threads through resolveRef. Design Note §9 calls
// out the source's use of function-local static booleans for this same
// bookkeeping ("we just saw the properties token, so the next segment is
// a property name") as a bug risk across calls; here it's an ordinary
// local variable that lives only for the duration of one resolveRef call.
type refContext int

const (
	refContextNone refContext = iota
	refContextDefs
	refContextProperties
	refContextItems
)

// resolveRefs walks the whole tree rooted at root and, for every node
// with a non-empty RefString, sets ResolvedRef. A segment that fails to
// resolve leaves ResolvedRef nil (spec.md §4.1: "not fatal"); the walk
// continues past the failure so later nodes still get a chance.
func resolveRefs(root *Node, cfg *compileConfig) {
	visited := map[*Node]bool{}
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true

		if n.RefString != "" {
			n.ResolvedRef = resolveRef(root, n.RefString, cfg)
		}

		for _, c := range n.AllOf {
			walk(c)
		}
		for _, c := range n.AnyOf {
			walk(c)
		}
		for _, c := range n.OneOf {
			walk(c)
		}
		walk(n.NotChild)
		for _, k := range sortedNodeKeys(n.Defs) {
			walk(n.Defs[k])
		}
		walk(n.AdditionalProperties)
		walk(n.PropertyNames)
		for _, k := range sortedNodeKeys(n.Properties) {
			walk(n.Properties[k])
		}
		for _, pp := range n.PatternProperties {
			walk(pp.Node)
		}
		for _, k := range sortedNodeKeys(n.DependentSchemas) {
			walk(n.DependentSchemas[k])
		}
		for _, c := range n.Items {
			walk(c)
		}
		walk(n.AdditionalItems)
		walk(n.Contains)
	}
	walk(root)
}

// resolveRef resolves one "$ref" string against root, per spec.md §4.1's
// segment table. The whole ref is split on "/", including a leading "#",
// exactly as the source's resolver does, so the segment-context state
// machine below matches spec.md's rule list one-for-one.
func resolveRef(root *Node, ref string, cfg *compileConfig) *Node {
	if ref == "" {
		return nil
	}
	if ref[0] != '#' {
		return resolveExternalRef(ref, cfg)
	}

	segments := splitRefOnSlash(ref)
	cur := root
	ctx := refContextNone

	for i, seg := range segments {
		switch ctx {
		case refContextDefs:
			child, ok := cur.Defs[seg]
			if !ok {
				return nil
			}
			cur = child
			ctx = refContextNone
			continue
		case refContextProperties:
			child, ok := cur.Properties[seg]
			if !ok {
				return nil
			}
			cur = child
			ctx = refContextNone
			continue
		case refContextItems:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.Items) {
				return nil
			}
			cur = cur.Items[idx]
			ctx = refContextNone
			continue
		}

		switch {
		case seg == "#":
			if i != 0 {
				return nil
			}
			cur = root
		case len(seg) > 1 && seg[0] == '#':
			n, ok := root.Anchors[seg[1:]]
			if !ok {
				return nil
			}
			cur = n
		case seg == "$defs":
			ctx = refContextDefs
		case seg == "properties":
			ctx = refContextProperties
		case seg == "items":
			ctx = refContextItems
		default:
			n, ok := root.Anchors[seg]
			if !ok {
				return nil
			}
			cur = n
		}
	}

	if ctx != refContextNone {
		return nil
	}
	return cur
}

// resolveExternalRef handles a "$ref" that does not start with "#". The
// module performs no network I/O (spec.md §1 non-goal); it only consults
// a caller-supplied RefResolver, if one was configured, and compiles
// whatever schema value that resolver hands back.
func resolveExternalRef(ref string, cfg *compileConfig) *Node {
	if cfg == nil || cfg.refResolver == nil {
		return nil
	}
	v, ok := cfg.refResolver(ref)
	if !ok {
		return nil
	}
	n, err := Compile(v)
	if err != nil {
		return nil
	}
	return n
}

// splitRefOnSlash splits ref on '/' and unescapes each segment (~1 -> /,
// ~0 -> ~, %HH), matching spec.md §6's JSON Pointer syntax rules. The
// leading "#" segment is preserved verbatim since it carries no escapes.
func splitRefOnSlash(ref string) []string {
	var segments []string
	start := 0
	for i := 0; i <= len(ref); i++ {
		if i == len(ref) || ref[i] == '/' {
			segments = append(segments, unescapeRefSegment(ref[start:i]))
			start = i + 1
		}
	}
	return segments
}

func sortedNodeKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic order only; resolution order across sibling keys has
	// no observable effect since each key names an independent sub-tree.
	sort.Strings(keys)
	return keys
}
