package relar

import (
	"math"
	"strconv"
	"strings"
)

// Output column names appended to an enriched table. The set and order per
// report kind is fixed; see Columns.
const (
	ColBedrooms        = "Bedrooms"
	ColBathrooms       = "Bathrooms"
	ColYearBuilt       = "YearBuilt"
	ColHomeSize        = "HomeSize"
	ColLotSize         = "LotSize"
	ColEstimatedValue  = "EstimatedValue"
	ColConfidenceScore = "ConfidenceScore"
	ColVariance        = "Variance"
	ColPriceLow        = "PriceLow"
	ColPriceHigh       = "PriceHigh"
	ColPredictedPrice  = "PredictedPrice"
	ColErrorMargin     = "ErrorMargin"
	ColPDFReportLink   = "PDFReportLink"
)

// Columns returns the output columns for a report kind in presentation
// order. The PDF link is always last.
func Columns(k Kind) []string {
	switch k {
	case KindFull:
		return []string{
			ColBedrooms, ColBathrooms, ColYearBuilt, ColHomeSize, ColLotSize,
			ColEstimatedValue, ColConfidenceScore, ColVariance, ColPDFReportLink,
		}
	case KindSimple:
		return []string{
			ColBedrooms, ColBathrooms, ColHomeSize, ColPriceLow, ColPriceHigh,
			ColConfidenceScore, ColPredictedPrice, ColPDFReportLink,
		}
	case KindRanged:
		return []string{
			ColBedrooms, ColBathrooms, ColHomeSize, ColPriceLow, ColPriceHigh,
			ColConfidenceScore, ColErrorMargin, ColPDFReportLink,
		}
	default:
		return nil
	}
}

// Record holds the normalized fields of one provider response, keyed by
// output column name. A missing key means the provider omitted the field;
// consumers must render it blank, never as zero.
type Record map[string]any

// Normalize extracts the report fields for the given kind from a decoded
// provider payload. Missing intermediate objects leave every field beneath
// them absent. Numeric-looking values are converted best effort; a value
// that does not convert is stored as provided. Normalize never fails.
func Normalize(doc map[string]any, kind Kind) Record {
	switch kind {
	case KindFull:
		return normalizeFull(doc)
	case KindSimple:
		return normalizeRelar(doc, true)
	case KindRanged:
		return normalizeRelar(doc, false)
	default:
		return Record{}
	}
}

func normalizeFull(doc map[string]any) Record {
	rec := Record{}

	search := childMap(doc, "searchData")
	putRaw(rec, ColBedrooms, search["beds"])
	putRaw(rec, ColBathrooms, search["baths"])
	putRaw(rec, ColYearBuilt, search["yearBuilt"])
	putInt(rec, ColHomeSize, search["size"])
	putInt(rec, ColLotSize, search["lotSize"])

	current := childMap(childMap(childMap(childMap(doc, "analysis"), "houseWorth"), "valuations"), "current")
	putFloat(rec, ColEstimatedValue, current["value"])
	putFloat(rec, ColConfidenceScore, current["confidence"])
	putFloat(rec, ColVariance, current["variance"])

	putRaw(rec, ColPDFReportLink, childMap(doc, "metadata")["reportPDFLink"])
	return rec
}

// normalizeRelar covers the Simple and Ranged shapes, which share the
// prediction and subjectParcel structure and differ only in whether the
// predicted price or the error margin is reported.
func normalizeRelar(doc map[string]any, simple bool) Record {
	rec := Record{}

	if structure := firstStructure(doc); structure != nil {
		putRaw(rec, ColBedrooms, structure["bedrooms"])
		putRaw(rec, ColBathrooms, structure["bathrooms"])
		putInt(rec, ColHomeSize, structure["gla"])
	}

	prediction := childMap(doc, "prediction")
	putFloat(rec, ColPriceLow, prediction["priceLow"])
	putFloat(rec, ColPriceHigh, prediction["priceHigh"])
	putFloat(rec, ColConfidenceScore, prediction["confidence"])
	if simple {
		putFloat(rec, ColPredictedPrice, prediction["predictedPrice"])
	} else {
		putFloat(rec, ColErrorMargin, prediction["error"])
	}

	putRaw(rec, ColPDFReportLink, childMap(doc, "metadata")["reportPDFLink"])
	return rec
}

// firstStructure returns subjectParcel.structures[0] when present.
func firstStructure(doc map[string]any) map[string]any {
	structures, ok := childMap(doc, "subjectParcel")["structures"].([]any)
	if !ok || len(structures) == 0 {
		return nil
	}
	first, ok := structures[0].(map[string]any)
	if !ok {
		return nil
	}
	return first
}

// childMap descends one level into a decoded JSON object. Anything missing
// or of the wrong type yields an empty map, so lookups below it read as
// absent rather than failing.
func childMap(doc map[string]any, key string) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	child, ok := doc[key].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return child
}

// putRaw stores v unchanged when the provider supplied it. JSON null counts
// as absent.
func putRaw(rec Record, col string, v any) {
	if v == nil {
		return
	}
	rec[col] = v
}

// putFloat stores v as float64 when it converts, and as provided when it
// does not.
func putFloat(rec Record, col string, v any) {
	if v == nil {
		return
	}
	if f, ok := toFloat(v); ok {
		rec[col] = f
		return
	}
	rec[col] = v
}

// putInt stores v as int64 when it converts, and as provided when it does
// not.
func putInt(rec Record, col string, v any) {
	if v == nil {
		return
	}
	if n, ok := toInt(v); ok {
		rec[col] = n
		return
	}
	rec[col] = v
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		// JSON numbers decode as float64; sizes are whole-valued, so
		// fractional inputs truncate.
		return int64(x), true
	case int:
		return int64(x), true
	case int64:
		return x, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
