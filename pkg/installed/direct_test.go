package installed

import (
	"context"
	"slices"
	"testing"
)

func TestParseNames(t *testing.T) {
	out := []byte(`# pip-chill output
flask==3.0.0
requests
  Django>=4.2
requests==2.31.0

@weird
`)
	got := ParseNames(out)
	want := []string{"flask", "requests", "Django"}
	if !slices.Equal(got, want) {
		t.Errorf("ParseNames() = %v, want %v", got, want)
	}
}

func TestNewCommandLister(t *testing.T) {
	if l := NewCommandLister("   "); l != nil {
		t.Errorf("NewCommandLister(blank) = %v, want nil", l)
	}
	l := NewCommandLister("pip-chill --no-version")
	if !slices.Equal(l.Command, []string{"pip-chill", "--no-version"}) {
		t.Errorf("Command = %v", l.Command)
	}
}

func TestCommandListerMissingProgram(t *testing.T) {
	l := &CommandLister{Command: []string{"metapkg-test-no-such-program"}}
	if _, err := l.List(context.Background()); err == nil {
		t.Error("List() with a missing program should fail")
	}

	var nilLister *CommandLister
	if _, err := nilLister.List(context.Background()); err == nil {
		t.Error("List() on nil lister should fail")
	}
}
