package categories

import (
	"errors"
	"strings"
	"testing"

	"trendletter/internal/core"
)

func TestNormalize_OrderAndDuplicatesIrrelevant(t *testing.T) {
	inputs := [][]string{
		{"movies", "artists", "books"},
		{"books", "movies", "artists"},
		{"artists", "artists", "books", "movies", "books"},
		{" artists ", "books", "movies"},
	}

	var first Set
	for i, input := range inputs {
		set, err := Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%v) failed: %v", input, err)
		}
		if i == 0 {
			first = set
			continue
		}
		if set.Key != first.Key {
			t.Errorf("Normalize(%v) key = %q, want %q", input, set.Key, first.Key)
		}
	}

	if first.Key != "artists,books,movies" {
		t.Errorf("Unexpected canonical key: %q", first.Key)
	}
}

func TestNormalize_Empty(t *testing.T) {
	for _, input := range [][]string{nil, {}, {"", "  "}} {
		_, err := Normalize(input)
		if err == nil {
			t.Fatalf("Normalize(%v) should fail", input)
		}
		var ve *core.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Expected ValidationError, got %T", err)
		}
		if ve.Field != "categories" {
			t.Errorf("Validation error field = %q, want categories", ve.Field)
		}
	}
}

func TestLookup_KnownAndUnknown(t *testing.T) {
	artists := Lookup("artists")
	if artists.DisplayName != "Music & Artists" {
		t.Errorf("artists display name = %q", artists.DisplayName)
	}
	if artists.Label != "Artists & Musicians" {
		t.Errorf("artists label = %q", artists.Label)
	}

	unknown := Lookup("gaming")
	if unknown.DisplayName != "Gaming" {
		t.Errorf("unknown display name = %q", unknown.DisplayName)
	}
	if unknown.PrimaryColor == "" {
		t.Error("unknown categories still need a palette")
	}
}

func TestImageRef_DeterministicDataURL(t *testing.T) {
	a := Lookup("movies").ImageRef()
	b := Lookup("movies").ImageRef()
	if a != b {
		t.Error("ImageRef must be deterministic per category")
	}
	if !strings.HasPrefix(a, "data:image/svg+xml,") {
		t.Errorf("ImageRef should be an SVG data URL, got %.40s", a)
	}
	if a == Lookup("books").ImageRef() {
		t.Error("Different categories should render different artwork")
	}
}

func TestSeeds(t *testing.T) {
	seeds := Seeds()
	if len(seeds) != 5 {
		t.Fatalf("Expected 5 seeded categories, got %d", len(seeds))
	}
	for _, cat := range seeds {
		if cat.Name == "" || cat.Label == "" {
			t.Errorf("Seed missing name or label: %+v", cat)
		}
	}
}
