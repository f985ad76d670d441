package dag

import (
	"errors"
	"slices"
	"testing"
)

func build(t *testing.T, nodes []string, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%q): %v", n, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%q, %q): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddNodeInvalid(t *testing.T) {
	g := New()
	if err := g.AddNode(""); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(\"\") = %v, want %v", err, ErrInvalidNodeID)
	}
}

func TestAddEdgeUnknown(t *testing.T) {
	g := build(t, []string{"a"}, nil)
	if err := g.AddEdge("a", "b"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(a, b) = %v, want %v", err, ErrUnknownNode)
	}
	if err := g.AddEdge("b", "a"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(b, a) = %v, want %v", err, ErrUnknownNode)
	}
}

func TestSelfAndDuplicateEdges(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "a"}, {"a", "b"}, {"a", "b"}})

	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount = %d, want 1", got)
	}
	if got := g.Parents("a"); len(got) != 0 {
		t.Errorf("Parents(a) = %v, want none", got)
	}
}

func TestRoots(t *testing.T) {
	g := build(t,
		[]string{"requests", "urllib3", "idna", "flask", "werkzeug", "cyc-a", "cyc-b"},
		[][2]string{
			{"requests", "urllib3"},
			{"requests", "idna"},
			{"flask", "werkzeug"},
			{"cyc-a", "cyc-b"},
			{"cyc-b", "cyc-a"},
		})

	want := []string{"flask", "requests"}
	if got := g.Roots(); !slices.Equal(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
	if got := g.Parents("urllib3"); !slices.Equal(got, []string{"requests"}) {
		t.Errorf("Parents(urllib3) = %v", got)
	}
	if got := g.Children("requests"); !slices.Equal(got, []string{"urllib3", "idna"}) {
		t.Errorf("Children(requests) = %v", got)
	}
	if got := g.NodeCount(); got != 7 {
		t.Errorf("NodeCount = %d, want 7", got)
	}
}
