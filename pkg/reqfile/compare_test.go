package reqfile

import (
	"slices"
	"strings"
	"testing"
)

func TestCompare(t *testing.T) {
	old := map[string]string{"flask": "2.0.0", "requests": "2.31.0", "Six": "1.16.0"}
	cur := map[string]string{"Flask": "3.0.0", "requests": "2.31.0", "numpy": ""}

	c := Compare(old, cur)
	if !slices.Equal(c.Added, []string{"numpy"}) {
		t.Errorf("Added = %v, want [numpy]", c.Added)
	}
	if !slices.Equal(c.Removed, []string{"six"}) {
		t.Errorf("Removed = %v, want [six]", c.Removed)
	}
	if len(c.Changed) != 1 || c.Changed[0] != (Change{Name: "flask", From: "2.0.0", To: "3.0.0"}) {
		t.Errorf("Changed = %v", c.Changed)
	}
	if c.Empty() {
		t.Error("Empty() = true for differing sets")
	}

	if !Compare(cur, cur).Empty() {
		t.Error("Compare(x, x) should be empty")
	}
}

func TestDiff(t *testing.T) {
	old := Render(map[string]string{"flask": "2.0.0", "requests": ""}, "")
	cur := Render(map[string]string{"flask": "3.0.0", "requests": ""}, "")

	if d := Diff(old, old); d != "" {
		t.Errorf("Diff(equal) = %q, want empty", d)
	}

	d := Diff(old, cur)
	if !strings.Contains(d, "- flask==2.0.0\n") || !strings.Contains(d, "+ flask==3.0.0\n") {
		t.Errorf("Diff() missing change lines:\n%s", d)
	}
	if !strings.Contains(d, "  requests\n") {
		t.Errorf("Diff() missing context line:\n%s", d)
	}
}
