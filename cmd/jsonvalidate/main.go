// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command jsonvalidate compiles a JSON Schema draft 2019-09 document and
// validates a JSON or YAML instance document against it.
//
//	jsonvalidate <schema-file> <instance-file>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dacolabs/jsonvalidator-go/jsonschema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("jsonvalidate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log compile and validation steps to stderr")
	maxRefDepth := fs.Int("max-ref-depth", 0, "override the default $ref recursion depth cap (0 keeps the default)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] <schema-file> <instance-file>\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 0
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	schemaPath, instancePath := fs.Arg(0), fs.Arg(1)

	schemaValue, err := decodeFile(schemaPath)
	if err != nil {
		fmt.Fprintf(stderr, "Couldn't open %s for reading: %v\n", schemaPath, err)
		return 1
	}
	logger.Debug("decoded schema document", "path", schemaPath)

	node, err := jsonschema.Compile(schemaValue)
	if err != nil {
		fmt.Fprintf(stdout, "Parsing of schema %s invalid.\n", schemaPath)
		fmt.Fprintf(stderr, "Parser returned error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Parsing of schema %s successful.\n", schemaPath)

	instanceValue, err := decodeFile(instancePath)
	if err != nil {
		fmt.Fprintf(stderr, "Couldn't open %s for reading: %v\n", instancePath, err)
		return 1
	}
	logger.Debug("decoded instance document", "path", instancePath)

	var vopts []jsonschema.ValidatorOption
	if *maxRefDepth > 0 {
		vopts = append(vopts, jsonschema.WithMaxRefDepth(*maxRefDepth))
	}
	result := node.Validate(instanceValue, vopts...)

	if result.Valid {
		fmt.Fprintf(stdout, "Validation of JSON file %s successful.\n", instancePath)
		return 0
	}

	fmt.Fprintf(stdout, "Validation of JSON file %s invalid.\n", instancePath)
	fmt.Fprintln(stderr, "Validator returned errors:")
	for _, e := range result.Errors {
		fmt.Fprintln(stderr, e.Message)
	}
	return 1
}

// decodeFile reads path and decodes it into the (bool | map[string]any |
// []any | ...) shape Compile/Validate expect. YAML input (.yaml/.yml) is
// supported alongside JSON, per SPEC_FULL's ambient-stack expansion; every
// other extension is parsed as JSON.
func decodeFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var v any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		v = normalizeYAML(v)
	default:
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	}
	return v, nil
}

// normalizeYAML recurses into the map[string]any and []any values
// gopkg.in/yaml.v3 produces and converts int and int64 scalars to float64,
// so the result matches encoding/json's decoded shape for Compile/Validate.
// Mappings with non-string keys (map[any]any) are returned unchanged.
func normalizeYAML(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = normalizeYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = normalizeYAML(e)
		}
		return out
	case int:
		return float64(tv)
	case int64:
		return float64(tv)
	default:
		return tv
	}
}

