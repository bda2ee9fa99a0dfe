package scoring

import "testing"

func TestSimilarityBounds(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"Introduction to Graph Databases", "Graph Databases in Practice"},
		{"SQL Basics", "Watercolor Painting"},
		{"", "anything"},
		{"one", "one"},
	}
	for _, c := range cases {
		got := Similarity(c.a, c.b)
		if got < 0 || got > 1 {
			t.Fatalf("Similarity(%q, %q) = %v, out of [0,1]", c.a, c.b, got)
		}
	}
}

func TestSimilarityIdenticalText(t *testing.T) {
	if got := Similarity("Intro to Go", "Intro to Go"); got != 1 {
		t.Fatalf("identical text similarity = %v, want 1", got)
	}
}

func TestSimilarityDisjointText(t *testing.T) {
	if got := Similarity("alpha beta", "gamma delta"); got != 0 {
		t.Fatalf("disjoint text similarity = %v, want 0", got)
	}
}

func TestSimilarityCaseInsensitive(t *testing.T) {
	a := Similarity("Graph Databases", "graph databases")
	if a != 1 {
		t.Fatalf("case-folded similarity = %v, want 1", a)
	}
}

func TestOverlapCount(t *testing.T) {
	got := OverlapCount([]string{"Databases", "go", "http"}, []string{"databases", "GO", "rust"})
	if got != 2 {
		t.Fatalf("OverlapCount = %d, want 2", got)
	}
	if OverlapCount(nil, []string{"x"}) != 0 {
		t.Fatal("OverlapCount with nil side should be 0")
	}
}
