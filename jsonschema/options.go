// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

// defaultMaxRefDepth bounds $ref-following recursion per instance path,
// satisfying spec.md §5's "implementations MUST bound ref-following
// recursion" obligation via a hard depth cap rather than a visited-pairs
// set (SPEC_FULL §5 EXPANSION).
const defaultMaxRefDepth = 64

// A RefResolver resolves an external (non-local) "$ref" URI to a raw
// schema value, for callers who want to validate against a pre-loaded set
// of schema documents keyed by $id. It is never called for local
// ("#/...") references, and the module never performs network I/O on its
// own — spec.md's "no remote $ref resolution" non-goal is unaffected;
// this only lets a caller plug in their own already-fetched documents.
type RefResolver func(uri string) (schema any, ok bool)

// A CompileOption configures a single Compile call.
type CompileOption func(*compileConfig)

type compileConfig struct {
	refResolver RefResolver
}

// WithRefResolver supplies a RefResolver used when a "$ref" names a URI
// that isn't a local ("#/...") fragment reference. Without this option,
// external refs simply fail to resolve (resolved_ref stays nil), which is
// not fatal per spec.md §4.1.
func WithRefResolver(r RefResolver) CompileOption {
	return func(c *compileConfig) { c.refResolver = r }
}

func newCompileConfig(opts []CompileOption) *compileConfig {
	c := &compileConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// A ValidatorOption configures a single Validate call.
type ValidatorOption func(*validatorConfig)

type validatorConfig struct {
	maxRefDepth int
}

// WithMaxRefDepth overrides the default $ref-following recursion depth
// cap (64) used to satisfy spec.md §5's bounded-recursion obligation.
func WithMaxRefDepth(n int) ValidatorOption {
	return func(c *validatorConfig) { c.maxRefDepth = n }
}

func newValidatorConfig(opts []ValidatorOption) *validatorConfig {
	c := &validatorConfig{maxRefDepth: defaultMaxRefDepth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
