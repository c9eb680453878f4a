// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"errors"
	"fmt"
)

// A CompileError describes a structural defect found while compiling a
// schema. Compile collects every CompileError it finds rather than
// stopping at the first one; a non-empty list is compilation failure, but
// Compile still returns a best-effort partial tree alongside it.
type CompileError struct {
	// Path is a best-effort JSON Pointer into the schema document where
	// the defect was found. It may be "#" if no more specific location
	// is available.
	Path    string
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// compileErrors accumulates CompileError values during a single Compile
// call. It mirrors the source's ValidationError accumulator
// (orig/Validator.h) applied to the compile side of the pipeline.
type compileErrors struct {
	errs []*CompileError
}

func (c *compileErrors) add(path, format string, args ...any) {
	c.errs = append(c.errs, &CompileError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *compileErrors) hasErrors() bool { return len(c.errs) > 0 }

// join returns c's accumulated errors as a single error (nil if there are
// none), for callers that just want ordinary Go error handling.
func (c *compileErrors) join() error {
	if len(c.errs) == 0 {
		return nil
	}
	wrapped := make([]error, len(c.errs))
	for i, e := range c.errs {
		wrapped[i] = e
	}
	return errors.Join(wrapped...)
}

// A ValidationError is one constraint violation found while validating an
// instance: "<kind> violation at <json-pointer>, <instance-as-text>", per
// spec.md §4.2/§6. Kind is a short machine-checkable tag ("type",
// "required", "minimum", ...); Message is the full human-readable line.
type ValidationError struct {
	Kind     string
	Path     string
	Message  string
	Instance string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(kind string, path instancePath, instance any) *ValidationError {
	pathStr := path.String()
	instText := renderInstance(instance)
	return &ValidationError{
		Kind:     kind,
		Path:     pathStr,
		Instance: instText,
		Message:  fmt.Sprintf("%s violation at %s, %s", kind, pathStr, instText),
	}
}

// A Result is the outcome of validating one instance against a compiled
// node: an overall verdict plus the accumulated list of violations
// (spec.md §4.2 "Errors are appended, never replaced").
type Result struct {
	Valid  bool
	Errors []*ValidationError
}

// errorCollector accumulates ValidationErrors during one Validate call,
// mirroring orig/Validator.h's ValidationError add/addf/append/errors/
// has_error methods.
type errorCollector struct {
	errs []*ValidationError
}

func (c *errorCollector) add(kind string, path instancePath, instance any) {
	c.errs = append(c.errs, newValidationError(kind, path, instance))
}

func (c *errorCollector) append(other *errorCollector) {
	c.errs = append(c.errs, other.errs...)
}

func (c *errorCollector) hasErrors() bool { return len(c.errs) > 0 }

func (c *errorCollector) result(valid bool) *Result {
	return &Result{Valid: valid, Errors: c.errs}
}
