package appcast

import (
	"reflect"
	"testing"
)

func TestSplitVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"1", []string{"1"}},
		{"1.20rc3", []string{"1", ".", "20", "rc", "3"}},
		{"1.5b3", []string{"1", ".", "5", "b", "3"}},
		{"2.0", []string{"2", ".", "0"}},
		// Consecutive periods never merge; each is its own component.
		{"1..2", []string{"1", ".", ".", "2"}},
		{"beta", []string{"beta"}},
		{".1", []string{".", "1"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := splitVersion(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("splitVersion(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLenientInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int
	}{
		{"0", 0},
		{"42", 42},
		{"007", 7},
		{"12x", 12},
		{"x12", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := lenientInt(tt.input); got != tt.want {
			t.Errorf("lenientInt(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int // sign only
	}{
		{"2.0", "2.0", 0},
		{"1.0", "1.0.0", -1},
		{"1.5.1", "1.5", 1},
		{"1.5", "1.5b3", 1},
		{"1.5b3", "1.5", -1},
		{"1.2.0", "1.2rc1", 1},
		{"1.2rc1", "1.2.0", -1},
		{"1.2rc1", "1.2rc2", -1},
		{"1.2rc2", "1.2rc10", -1}, // trailing numbers compare as integers, not bytes
		{"0.9", "1.0", -1},
		{"1.10", "1.9", 1},
		{"1.0beta", "1.0alpha", 1},
		{"1.0.1", "1.0.10", -1},
		{"", "", 0},
		{"1", "", 1},
		// One number against one period at the same position: the period is
		// malformed and ranks lower.
		{"1.1", "1..", 1},
	}

	for _, tt := range tests {
		tt := tt
		name := tt.a + "_vs_" + tt.b
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := CompareVersions(tt.a, tt.b)
			if sign(got) != tt.want {
				t.Fatalf("CompareVersions(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
			}
			// Antisymmetry holds for every pair we assert.
			if rev := CompareVersions(tt.b, tt.a); sign(rev) != -tt.want {
				t.Fatalf("CompareVersions(%q, %q) = %d, want sign %d", tt.b, tt.a, rev, -tt.want)
			}
		})
	}
}

func TestCompareVersionsConsistency(t *testing.T) {
	t.Parallel()

	versions := []string{
		"1.0", "1.0.0", "1.0.1", "1.1", "1.2rc1", "1.2.0", "1.5b3", "1.5",
		"1.5.1", "2.0", "2.0.1b1", "2.0.1", "10.0",
	}

	for _, v := range versions {
		if got := CompareVersions(v, v); got != 0 {
			t.Errorf("CompareVersions(%q, %q) = %d, want 0", v, v, got)
		}
	}

	// Transitivity spot check over every ascending triple of the list above,
	// which is ordered from oldest to newest.
	for i := 0; i < len(versions); i++ {
		for j := i + 1; j < len(versions); j++ {
			a, b := versions[j], versions[i]
			if got := CompareVersions(a, b); got <= 0 {
				t.Errorf("CompareVersions(%q, %q) = %d, want > 0", a, b, got)
			}
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
