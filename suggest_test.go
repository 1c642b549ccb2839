package realaddress

import (
	"reflect"
	"testing"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		query, candidate string
		maxDist          int
		want             bool
	}{
		{"newark", "Newark", 0, true},
		{"Newrk", "Newark", 0, false},
		{"Newrk", "Newark", 1, true},
		{"Newrak", "Newark", 1, false},
		{"Newrak", "Newark", 2, true},
		{"Boston", "Austin", 2, false},
	}
	for _, tt := range tests {
		if got := fuzzyMatch(tt.query, tt.candidate, tt.maxDist); got != tt.want {
			t.Errorf("fuzzyMatch(%q, %q, %d) = %v, want %v", tt.query, tt.candidate, tt.maxDist, got, tt.want)
		}
	}
}

func TestSuggestCities(t *testing.T) {
	ds := NewDatasetFromAddresses(testAddresses())

	tests := []struct {
		name    string
		query   string
		maxDist int
		want    []string
	}{
		{"typo", "Arlingtn", 1, []string{"Arlington"}},
		{"exact match is its own suggestion", "southport", 0, []string{"Southport"}},
		{"case variants both returned", "newrk", 1, []string{"NEWARK", "Newark"}},
		{"nothing close", "Zzyzx", 2, []string{}},
		{"blank query", "   ", 2, nil},
		{"negative distance acts as exact", "Southport", -4, []string{"Southport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ds.SuggestCities(tt.query, tt.maxDist)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SuggestCities(%q, %d) = %v, want %v", tt.query, tt.maxDist, got, tt.want)
			}
		})
	}
}

func TestSuggestCities_ClosestFirst(t *testing.T) {
	ds := NewDatasetFromAddresses([]Address{
		{Address1: "1 A St", City: "Austin", State: "TX", PostalCode: "78701"},
		{Address1: "2 B St", City: "Aston", State: "PA", PostalCode: "19014"},
	})

	got := ds.SuggestCities("Austn", 3)
	want := []string{"Austin", "Aston"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SuggestCities(Austn) = %v, want %v", got, want)
	}
}

func TestSuggestCities_DistanceCapped(t *testing.T) {
	ds := NewDatasetFromAddresses(testAddresses())
	// "Nwk" is 3 edits from "Newark"; a huge maxDist is clamped to 3.
	if got := ds.SuggestCities("Nwk", 100); len(got) != 2 {
		t.Errorf("SuggestCities(Nwk, 100) = %v, want both Newark spellings", got)
	}
}

func TestSuggestCities_Bundled(t *testing.T) {
	got := SuggestCities("Savanah", 1)
	if !reflect.DeepEqual(got, []string{"Savannah"}) {
		t.Errorf("SuggestCities(Savanah) = %v, want [Savannah]", got)
	}
}
