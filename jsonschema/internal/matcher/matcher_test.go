// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package matcher

import "testing"

func TestCompileAndMatch(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"^[a-z]+$", "abc", true},
		{"^[a-z]+$", "ABC", false},
		{"foo", "xxfooxx", true},
		{"^foo$", "xxfooxx", false},
	}
	for _, tt := range tests {
		p, err := Compile(tt.pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tt.pattern, err)
		}
		if got := p.Match(tt.text); got != tt.want {
			t.Errorf("Compile(%q).Match(%q) = %v, want %v", tt.pattern, tt.text, got, tt.want)
		}
	}
}

func TestCompileInvalid(t *testing.T) {
	// RE2 does not support backreferences.
	if _, err := Compile(`(a)\1`); err == nil {
		t.Fatal("Compile with backreference: got nil error, want error")
	}
}

func TestNilMatch(t *testing.T) {
	var p *Pattern
	if p.Match("anything") {
		t.Fatal("nil Pattern.Match: got true, want false")
	}
}
