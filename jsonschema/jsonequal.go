// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// jsonEqual reports whether a and b, decoded JSON values (as produced by
// encoding/json.Unmarshal into an any), are structurally equal: same kind
// and, recursively, equal contents. Object key order is irrelevant.
//
// This is the true equality Design Note §9 requires for enum and
// uniqueItems; canonicalText below is only a fast-path accelerator, never
// the equality check itself.
func jsonEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil

	case bool:
		bv, ok := b.(bool)
		return ok && av == bv

	case float64:
		bv, ok := b.(float64)
		if !ok {
			if bi, ok2 := b.(json.Number); ok2 {
				bf, err := bi.Float64()
				return err == nil && av == bf
			}
			return false
		}
		return av == bv

	case json.Number:
		af, err := av.Float64()
		if err != nil {
			return false
		}
		return jsonEqual(af, b)

	case string:
		bv, ok := b.(string)
		return ok && av == bv

	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true

	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !jsonEqual(v, bvv) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// canonicalText renders v as a deterministic string: object keys sorted,
// no whitespace. It is used only to bucket candidates before a real
// jsonEqual comparison; two values with the same canonicalText are
// probably equal, but jsonEqual is the actual arbiter (this avoids the
// hash-only correctness gap Design Note §9 calls out).
func canonicalText(v any) string {
	var b strings.Builder
	writeCanonical(&b, v)
	return b.String()
}

func writeCanonical(b *strings.Builder, v any) {
	switch tv := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if tv {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case float64:
		writeCanonicalNumber(b, tv)
	case json.Number:
		f, err := tv.Float64()
		if err != nil {
			b.WriteString(tv.String())
			return
		}
		writeCanonicalNumber(b, f)
	case string:
		bs, _ := json.Marshal(tv)
		b.Write(bs)
	case []any:
		b.WriteByte('[')
		for i, e := range tv {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, e)
		}
		b.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			b.Write(kb)
			b.WriteByte(':')
			writeCanonical(b, tv[k])
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "%v", tv)
	}
}

func writeCanonicalNumber(b *strings.Builder, f float64) {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		fmt.Fprintf(b, "%d", int64(f))
		return
	}
	fmt.Fprintf(b, "%g", f)
}

// dedupeJSON returns vs with structural duplicates removed, keeping the
// first occurrence of each distinct value. Used for enum_values, whose
// invariant (§3) forbids duplicates by structural equality.
func dedupeJSON(vs []any) []any {
	type bucket struct {
		key    string
		values []any
	}
	var buckets []bucket
	var out []any
	for _, v := range vs {
		key := canonicalText(v)
		idx := slices.IndexFunc(buckets, func(b bucket) bool { return b.key == key })
		if idx < 0 {
			buckets = append(buckets, bucket{key: key, values: []any{v}})
			out = append(out, v)
			continue
		}
		dup := false
		for _, existing := range buckets[idx].values {
			if jsonEqual(existing, v) {
				dup = true
				break
			}
		}
		if !dup {
			buckets[idx].values = append(buckets[idx].values, v)
			out = append(out, v)
		}
	}
	return out
}
