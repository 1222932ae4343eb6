package recommend

import (
	"math/rand/v2"
	"testing"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
	"github.com/Sternrassler/jikan-client/pkg/fallback"
)

func ids(entries []catalog.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "", want: CategoryTrending},
		{in: "trending", want: CategoryTrending},
		{in: "top-rated", want: CategoryTopRated},
		{in: "popular", want: CategoryPopular},
		{in: "mixed", want: CategoryMixed},
		{in: "personal", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPick_TopRated(t *testing.T) {
	r := New(rand.New(rand.NewPCG(1, 2)))
	got, err := r.Pick(CategoryTopRated, 0)
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Pick(top-rated) is empty")
	}
	for i, e := range got {
		if e.ScoreValue() < TopRatedThreshold {
			t.Errorf("%d scored %.2f, below threshold", e.ID, e.ScoreValue())
		}
		if i > 0 && got[i-1].ScoreValue() < e.ScoreValue() {
			t.Errorf("not sorted by score at %d", i)
		}
	}
	if got[0].ID != 5114 {
		t.Errorf("first top-rated = %d, want 5114", got[0].ID)
	}
}

func TestPick_PopularKeepsOrder(t *testing.T) {
	r := New(nil)
	got, err := r.Pick(CategoryPopular, 3)
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	want := ids(fallback.FeaturedSeasonal())[:3]
	for i, id := range ids(got) {
		if id != want[i] {
			t.Errorf("popular[%d] = %d, want %d", i, id, want[i])
		}
	}
}

func TestPick_RandomCategoriesAreSamples(t *testing.T) {
	pool := make(map[int]bool)
	for _, e := range Pool() {
		pool[e.ID] = true
	}

	r := New(rand.New(rand.NewPCG(7, 11)))
	for _, category := range []Category{CategoryTrending, CategoryMixed} {
		got, err := r.Pick(category, 5)
		if err != nil {
			t.Fatalf("Pick(%s) error = %v", category, err)
		}
		if len(got) != 5 {
			t.Errorf("Pick(%s) = %d entries, want 5", category, len(got))
		}
		seen := make(map[int]bool)
		for _, e := range got {
			if seen[e.ID] {
				t.Errorf("Pick(%s) repeated %d", category, e.ID)
			}
			seen[e.ID] = true
			if !pool[e.ID] {
				t.Errorf("Pick(%s) returned %d outside the pool", category, e.ID)
			}
		}
	}
}

func TestPick_Deterministic(t *testing.T) {
	a := New(rand.New(rand.NewPCG(42, 42)))
	b := New(rand.New(rand.NewPCG(42, 42)))

	first, _ := a.Pick(CategoryMixed, DefaultCount)
	second, _ := b.Pick(CategoryMixed, DefaultCount)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, ids(first), ids(second))
		}
	}
}

func TestPick_CountCappedByPool(t *testing.T) {
	r := New(nil)
	got, _ := r.Pick(CategoryMixed, 0)
	want := DefaultCount
	if n := len(Pool()); n < want {
		want = n
	}
	if len(got) != want {
		t.Errorf("mixed = %d entries, want %d", len(got), want)
	}

	if _, err := r.Pick("personal", 0); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestSections(t *testing.T) {
	r := New(rand.New(rand.NewPCG(3, 5)))
	if got := r.ForYou(); len(got) != SectionCount {
		t.Errorf("ForYou() = %d entries, want %d", len(got), SectionCount)
	}
	if got := r.HiddenGems(); len(got) != SectionCount {
		t.Errorf("HiddenGems() = %d entries, want %d", len(got), SectionCount)
	}
}
