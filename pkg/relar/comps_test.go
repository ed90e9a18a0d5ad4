package relar

import (
	"testing"
)

const estimatePayload = `{
	"Details": {
		"PropertyValuation": {
			"EstimatedValue": 425000,
			"ConfidenceScore": 88,
			"ValuationRangeLow": 400000,
			"ValuationRangeHigh": 450000
		},
		"PropertySummary": {
			"Bedrooms": 3,
			"FullBaths": 2,
			"YearBuilt": 1995
		},
		"ComparablePropertyListings": {
			"Comparables": [
				{"Address": "12 Oak St", "Price": 410000, "Baths": 2, "BuildingSqft": 1750, "Distance": 0.4},
				{"Address": "98 Elm Ave", "Price": "439900", "Baths": 2.5, "BuildingSqft": 1910, "Distance": 0.8},
				{"Address": "5 Pine Ct", "Price": "call agent", "Distance": "n/a"}
			]
		}
	}
}`

func TestExtractValuationSummary(t *testing.T) {
	summary := ExtractValuationSummary(decode(t, estimatePayload))

	if got, want := summary.EstimatedValue, float64(425000); got != want {
		t.Errorf("EstimatedValue = %v, want %v", got, want)
	}
	if got, want := summary.Bathrooms, float64(2); got != want {
		t.Errorf("Bathrooms = %v, want %v", got, want)
	}
	if got, want := summary.YearBuilt, float64(1995); got != want {
		t.Errorf("YearBuilt = %v, want %v", got, want)
	}
}

func TestExtractValuationSummary_MissingDetails(t *testing.T) {
	summary := ExtractValuationSummary(decode(t, `{}`))
	if summary.EstimatedValue != nil || summary.Bedrooms != nil {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestExtractComparables(t *testing.T) {
	comps := ExtractComparables(decode(t, estimatePayload))

	if len(comps) != 3 {
		t.Fatalf("got %d comparables, want 3", len(comps))
	}
	if got, want := comps[0].Address, "12 Oak St"; got != want {
		t.Errorf("comps[0].Address = %v, want %v", got, want)
	}
	if got, want := comps[1].Price, "439900"; got != want {
		t.Errorf("comps[1].Price = %v, want %v", got, want)
	}
	if comps[2].Sqft != nil {
		t.Errorf("comps[2].Sqft = %v, want absent", comps[2].Sqft)
	}
}

func TestExtractComparables_NoListings(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty document", payload: `{}`},
		{name: "no comparables key", payload: `{"Details": {"ComparablePropertyListings": {}}}`},
		{name: "wrong type", payload: `{"Details": {"ComparablePropertyListings": {"Comparables": "none"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if comps := ExtractComparables(decode(t, tt.payload)); len(comps) != 0 {
				t.Errorf("got %d comparables, want 0", len(comps))
			}
		})
	}
}

func TestComparableStats(t *testing.T) {
	comps := ExtractComparables(decode(t, estimatePayload))
	stats := ComparableStats(comps)

	if stats.TotalComps != 3 {
		t.Errorf("TotalComps = %d, want 3", stats.TotalComps)
	}
	// The third comp's price and distance do not convert and are skipped.
	if got, want := stats.MinPrice, 410000.0; got != want {
		t.Errorf("MinPrice = %v, want %v", got, want)
	}
	if got, want := stats.MaxPrice, 439900.0; got != want {
		t.Errorf("MaxPrice = %v, want %v", got, want)
	}
	if got, want := stats.AvgPrice, (410000.0+439900.0)/2; got != want {
		t.Errorf("AvgPrice = %v, want %v", got, want)
	}
	if got, want := stats.AvgDistance, (0.4+0.8)/2; got != want {
		t.Errorf("AvgDistance = %v, want %v", got, want)
	}
}

func TestComparableStats_Empty(t *testing.T) {
	stats := ComparableStats(nil)
	if stats.TotalComps != 0 || stats.AvgPrice != 0 || stats.AvgDistance != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
