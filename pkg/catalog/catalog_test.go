package catalog

import (
	"net/http"
	"testing"
)

func TestAll_WellFormed(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("Catalog is empty")
	}

	seen := make(map[string]bool)
	for _, e := range all {
		if e.Key == "" || e.Name == "" || e.Path == "" || e.Description == "" {
			t.Errorf("Endpoint %+v has empty fields", e)
		}
		if seen[e.Key] {
			t.Errorf("Duplicate endpoint key %q", e.Key)
		}
		seen[e.Key] = true

		if e.Method != http.MethodGet && e.Method != http.MethodPost {
			t.Errorf("Endpoint %s has unexpected method %q", e.Key, e.Method)
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "mutated"

	if All()[0].Name == "mutated" {
		t.Error("All() exposes the internal slice")
	}
}

func TestCategories_CoverEveryEndpoint(t *testing.T) {
	total := 0
	for _, c := range Categories() {
		entries := ByCategory(c)
		if len(entries) == 0 {
			t.Errorf("Category %q has no endpoints", c)
		}
		for _, e := range entries {
			if e.Category != c {
				t.Errorf("ByCategory(%q) returned endpoint of category %q", c, e.Category)
			}
		}
		total += len(entries)
	}

	if total != len(All()) {
		t.Errorf("Categories cover %d endpoints, catalog has %d", total, len(All()))
	}
}

func TestFind(t *testing.T) {
	e, ok := Find("valuation_simple")
	if !ok {
		t.Fatal("valuation_simple not found")
	}
	if e.Path != "api/Valuation/simple" {
		t.Errorf("Path = %q, want api/Valuation/simple", e.Path)
	}
	if e.Category != CategoryValuation {
		t.Errorf("Category = %q, want Valuation", e.Category)
	}

	if _, ok := Find("no-such-endpoint"); ok {
		t.Error("Find() matched an unknown key")
	}
}

func TestParcelDetailIsPost(t *testing.T) {
	e, ok := Find("parcels_detail")
	if !ok {
		t.Fatal("parcels_detail not found")
	}
	if e.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", e.Method)
	}
}
