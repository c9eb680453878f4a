// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package matcher adapts Go's regexp package to the abstract
// compile/match pattern-matching capability the schema compiler needs.
// Callers never construct a *regexp.Regexp directly against schema
// text; they go through Compile so the matching behavior stays in one
// place.
package matcher

import "regexp"

// A Pattern is a compiled regular expression bound to the source text it
// was compiled from.
type Pattern struct {
	Source string
	re     *regexp.Regexp
}

// Compile compiles source as an RE2 pattern (Go's regexp syntax, a strict
// subset of ECMA-262). Patterns using lookaround or backreferences fail to
// compile; callers surface that as a schema compile error rather than
// falling back to a permissive matcher.
func Compile(source string) (*Pattern, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, err
	}
	return &Pattern{Source: source, re: re}, nil
}

// Match reports whether text contains a match anywhere, matching JSON
// Schema's "pattern" semantics (regexp search, not full-string anchor).
func (p *Pattern) Match(text string) bool {
	if p == nil {
		return false
	}
	return p.re.MatchString(text)
}
