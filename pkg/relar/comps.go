package relar

// ValuationSummary carries the headline metrics of an estimate response
// (Details.PropertyValuation and Details.PropertySummary). Fields keep the
// provider's raw values; absent fields are nil.
type ValuationSummary struct {
	EstimatedValue     any `json:"estimated_value,omitempty"`
	ConfidenceScore    any `json:"confidence_score,omitempty"`
	ValuationRangeLow  any `json:"valuation_range_low,omitempty"`
	ValuationRangeHigh any `json:"valuation_range_high,omitempty"`
	Bedrooms           any `json:"bedrooms,omitempty"`
	Bathrooms          any `json:"bathrooms,omitempty"`
	YearBuilt          any `json:"year_built,omitempty"`
}

// Comparable is one comparable property listing from a comps response.
type Comparable struct {
	Address   any `json:"address,omitempty"`
	City      any `json:"city,omitempty"`
	State     any `json:"state,omitempty"`
	Zip       any `json:"zip,omitempty"`
	Price     any `json:"price,omitempty"`
	Bedrooms  any `json:"bedrooms,omitempty"`
	Bathrooms any `json:"bathrooms,omitempty"`
	Sqft      any `json:"sqft,omitempty"`
	YearBuilt any `json:"year_built,omitempty"`
	Distance  any `json:"distance,omitempty"`
}

// CompStats aggregates price and distance across comparables.
type CompStats struct {
	TotalComps  int     `json:"total_comps"`
	AvgPrice    float64 `json:"avg_price"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	AvgDistance float64 `json:"avg_distance"`
}

// ExtractValuationSummary pulls the valuation headline out of an estimate
// payload. Missing sections leave the matching fields nil.
func ExtractValuationSummary(doc map[string]any) ValuationSummary {
	details := childMap(doc, "Details")
	valuation := childMap(details, "PropertyValuation")
	summary := childMap(details, "PropertySummary")

	return ValuationSummary{
		EstimatedValue:     valuation["EstimatedValue"],
		ConfidenceScore:    valuation["ConfidenceScore"],
		ValuationRangeLow:  valuation["ValuationRangeLow"],
		ValuationRangeHigh: valuation["ValuationRangeHigh"],
		Bedrooms:           summary["Bedrooms"],
		Bathrooms:          summary["FullBaths"],
		YearBuilt:          summary["YearBuilt"],
	}
}

// ExtractComparables pulls the comparable listings out of a comps payload
// (Details.ComparablePropertyListings.Comparables). A payload without
// comparables yields an empty slice.
func ExtractComparables(doc map[string]any) []Comparable {
	listings := childMap(childMap(doc, "Details"), "ComparablePropertyListings")
	raw, ok := listings["Comparables"].([]any)
	if !ok {
		return nil
	}

	comps := make([]Comparable, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		comps = append(comps, Comparable{
			Address:   entry["Address"],
			City:      entry["City"],
			State:     entry["State"],
			Zip:       entry["Zip"],
			Price:     entry["Price"],
			Bedrooms:  entry["Bedrooms"],
			Bathrooms: entry["Baths"],
			Sqft:      entry["BuildingSqft"],
			YearBuilt: entry["YearBuilt"],
			Distance:  entry["Distance"],
		})
	}
	return comps
}

// ComparableStats computes aggregate statistics over comparables. Prices
// and distances that are absent or non-numeric are skipped.
func ComparableStats(comps []Comparable) CompStats {
	stats := CompStats{TotalComps: len(comps)}
	if len(comps) == 0 {
		return stats
	}

	var prices, distances []float64
	for _, comp := range comps {
		if f, ok := toFloat(comp.Price); ok {
			prices = append(prices, f)
		}
		if f, ok := toFloat(comp.Distance); ok {
			distances = append(distances, f)
		}
	}

	if len(prices) > 0 {
		min, max, sum := prices[0], prices[0], 0.0
		for _, p := range prices {
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
			sum += p
		}
		stats.AvgPrice = sum / float64(len(prices))
		stats.MinPrice = min
		stats.MaxPrice = max
	}

	if len(distances) > 0 {
		sum := 0.0
		for _, d := range distances {
			sum += d
		}
		stats.AvgDistance = sum / float64(len(distances))
	}
	return stats
}
