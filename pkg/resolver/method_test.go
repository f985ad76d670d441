package resolver

import (
	"slices"
	"testing"

	"github.com/matzehuels/metapkg/pkg/errors"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"auto", Auto{}},
		{"manifest", Manifest{}},
		{"MANIFEST", Manifest{}},
		{"pyproject", Manifest{}},
		{"environment", Environment{}},
		{"env", Environment{}},
		{" imports ", Imports{}},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if err != nil {
			t.Errorf("ParseMethod(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMethodInvalid(t *testing.T) {
	for _, in := range []string{"", "bogus", "freeze"} {
		_, err := ParseMethod(in)
		if !errors.Is(err, errors.ErrCodeInvalidMethod) {
			t.Errorf("ParseMethod(%q) = %v, want INVALID_METHOD", in, err)
		}
	}
}

func TestMethodNames(t *testing.T) {
	want := []string{"auto", "manifest", "environment", "imports"}
	if got := MethodNames(); !slices.Equal(got, want) {
		t.Errorf("MethodNames() = %v, want %v", got, want)
	}
	for _, name := range want {
		m, err := ParseMethod(name)
		if err != nil || m.String() != name {
			t.Errorf("ParseMethod(%q).String() round trip failed: %v", name, err)
		}
	}
}
