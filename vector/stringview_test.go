package vector

import (
	"strings"
	"testing"
)

func TestStringView_Inline(t *testing.T) {
	for _, s := range []string{"", "a", "abcd", "abcdefgh", "abcdefghijkl"} {
		v := MakeStringViewFromString(s)
		if !v.IsInline() {
			t.Errorf("%q should be inline", s)
		}
		if v.Len() != len(s) {
			t.Errorf("%q: Len = %d, want %d", s, v.Len(), len(s))
		}
		if v.String() != s {
			t.Errorf("%q: String = %q", s, v.String())
		}
		if string(v.Bytes()) != s {
			t.Errorf("%q: Bytes = %q", s, v.Bytes())
		}
	}
}

func TestStringView_NonInline(t *testing.T) {
	s := strings.Repeat("x", 100)
	v := MakeStringViewFromString(s)
	if v.IsInline() {
		t.Error("100-byte payload should not be inline")
	}
	if v.String() != s {
		t.Errorf("String = %q", v.String())
	}
}

func TestStringView_Equal(t *testing.T) {
	long := strings.Repeat("ab", 20)

	cases := []struct {
		a, b string
		want bool
	}{
		{"", "", true},
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"abc", "abcd", false},
		{long, long, true},
		{long, long[:len(long)-1] + "c", false},
		{"short", long, false},
	}
	for _, tc := range cases {
		// Distinct backing memory for each side.
		a := MakeStringView([]byte(tc.a))
		b := MakeStringView([]byte(tc.b))
		if got := a.Equal(b); got != tc.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if tc.want && a.Hash() != b.Hash() {
			t.Errorf("equal views %q hash differently", tc.a)
		}
	}
}

func TestStringColumn(t *testing.T) {
	nulls := NewValidity(3)
	nulls.SetNull(1)
	col := NewStringColumn([]string{"a", "", strings.Repeat("z", 50)}, nulls)

	if col.Len() != 3 {
		t.Fatalf("Len = %d", col.Len())
	}
	if !col.IsNullAt(1) || col.IsNullAt(0) || col.IsNullAt(2) {
		t.Error("null mask mismatch")
	}
	if col.ValueAt(0).String() != "a" {
		t.Errorf("row 0 = %q", col.ValueAt(0).String())
	}
	if col.ValueAt(2).Len() != 50 {
		t.Errorf("row 2 len = %d", col.ValueAt(2).Len())
	}
}
