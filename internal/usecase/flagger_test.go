package usecase

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skinlens/backend/internal/domain"
)

func TestFlag(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name      string
		canonical string
		want      []domain.FlagEntry
	}{
		{
			name:      "irritants come before comedogenic entries",
			canonical: "aqua, fragrance, shea butter",
			want: []domain.FlagEntry{
				{Category: domain.FlagIrritant, Item: "fragrance"},
				{Category: domain.FlagComedogenic, Item: "shea butter"},
			},
		},
		{
			name:      "order follows catalog not text position",
			canonical: "shea butter, lanolin, linalool, parfum",
			want: []domain.FlagEntry{
				{Category: domain.FlagIrritant, Item: "parfum"},
				{Category: domain.FlagIrritant, Item: "linalool"},
				{Category: domain.FlagComedogenic, Item: "lanolin"},
				{Category: domain.FlagComedogenic, Item: "shea butter"},
			},
		},
		{
			name:      "substring inside a longer word still matches",
			canonical: "alcohol denatured",
			want: []domain.FlagEntry{
				{Category: domain.FlagIrritant, Item: "alcohol denat"},
			},
		},
		{
			name:      "no matches returns empty",
			canonical: "aqua, glycerin",
			want:      []domain.FlagEntry{},
		},
		{
			name:      "empty canonical returns empty",
			canonical: "",
			want:      []domain.FlagEntry{},
		},
		{
			name:      "repeated ingredient is reported once per catalog entry",
			canonical: "fragrance, aqua, fragrance",
			want: []domain.FlagEntry{
				{Category: domain.FlagIrritant, Item: "fragrance"},
			},
		},
		{
			name:      "overlapping catalog entries are all reported",
			canonical: "sodium lauryl sulfate, sodium laureth sulfate",
			want: []domain.FlagEntry{
				{Category: domain.FlagIrritant, Item: "sodium laureth sulfate"},
				{Category: domain.FlagIrritant, Item: "sodium lauryl sulfate"},
			},
		},
		{
			name:      "rich cream example",
			canonical: "aqua, mineral oil, shea butter, lanolin",
			want: []domain.FlagEntry{
				{Category: domain.FlagComedogenic, Item: "lanolin"},
				{Category: domain.FlagComedogenic, Item: "mineral oil"},
				{Category: domain.FlagComedogenic, Item: "shea butter"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flag(tt.canonical, catalog)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Flag() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlag_NilCatalog(t *testing.T) {
	got := Flag("fragrance", nil)
	if len(got) != 0 {
		t.Errorf("Flag() with nil catalog = %v, want empty", got)
	}
}

func TestFlag_AfterNormalize(t *testing.T) {
	canonical := Normalize("Aqua (Water), Parfum (Fragrance), Butyrospermum Parkii (Shea Butter)")
	got := Flag(canonical, DefaultCatalog())

	// Parenthetical INCI translations are removed before flagging
	want := []domain.FlagEntry{
		{Category: domain.FlagIrritant, Item: "parfum"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flag() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCatalog(t *testing.T) {
	t.Run("cleans entries", func(t *testing.T) {
		c := NewCatalog([]string{" Fragrance ", "", "LINALOOL"}, []string{"  ", "Shea Butter"})

		if diff := cmp.Diff([]string{"fragrance", "linalool"}, c.Irritants()); diff != "" {
			t.Errorf("Irritants() mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"shea butter"}, c.Comedogenic()); diff != "" {
			t.Errorf("Comedogenic() mismatch (-want +got):\n%s", diff)
		}
		if c.Size() != 3 {
			t.Errorf("Size() = %d, want 3", c.Size())
		}
	})

	t.Run("drops repeated entries", func(t *testing.T) {
		c := NewCatalog([]string{"fragrance", "Fragrance ", "parfum"}, []string{"lanolin", "LANOLIN"})

		if diff := cmp.Diff([]string{"fragrance", "parfum"}, c.Irritants()); diff != "" {
			t.Errorf("Irritants() mismatch (-want +got):\n%s", diff)
		}
		want := []domain.FlagEntry{{Category: domain.FlagIrritant, Item: "fragrance"}}
		if diff := cmp.Diff(want, Flag("aqua, fragrance", c)); diff != "" {
			t.Errorf("Flag() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("is not affected by later changes to the input", func(t *testing.T) {
		irritants := []string{"fragrance"}
		c := NewCatalog(irritants, nil)
		irritants[0] = "water"

		if got := Flag("fragrance", c); len(got) != 1 {
			t.Errorf("Flag() = %v, want one irritant hit", got)
		}
	})

	t.Run("accessors return copies", func(t *testing.T) {
		c := DefaultCatalog()
		list := c.Irritants()
		list[0] = "aqua"

		if got := Flag("aqua", c); len(got) != 0 {
			t.Errorf("Flag() = %v, want no hits after mutating a copy", got)
		}
	})
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if diff := cmp.Diff(DefaultIrritants, c.Irritants()); diff != "" {
		t.Errorf("Irritants() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(DefaultComedogenic, c.Comedogenic()); diff != "" {
		t.Errorf("Comedogenic() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlag_ConcurrentReads(t *testing.T) {
	catalog := DefaultCatalog()
	want := Flag("aqua, fragrance, shea butter", catalog)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := Flag("aqua, fragrance, shea butter", catalog)
			if !cmp.Equal(want, got) {
				t.Errorf("concurrent Flag() = %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestExamples(t *testing.T) {
	examples := Examples()
	if len(examples) != 2 {
		t.Fatalf("len(Examples()) = %d, want 2", len(examples))
	}

	gentle := Flag(Normalize(examples[0].Ingredients), DefaultCatalog())
	if len(gentle) != 0 {
		t.Errorf("gentle serum flags = %v, want none", gentle)
	}

	rich := Flag(Normalize(examples[1].Ingredients), DefaultCatalog())
	if len(rich) != 3 {
		t.Errorf("rich cream flags = %v, want 3", rich)
	}
}
