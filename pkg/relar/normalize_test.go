package relar

import (
	"encoding/json"
	"reflect"
	"testing"
)

// decode parses a JSON payload the way the client hands documents to the
// normalizer.
func decode(t *testing.T, payload string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		t.Fatalf("failed to decode test payload: %v", err)
	}
	return doc
}

const fullPayload = `{
	"searchData": {
		"beds": "4",
		"baths": "2.5",
		"yearBuilt": "1987",
		"size": "2450",
		"lotSize": 10018
	},
	"analysis": {
		"houseWorth": {
			"valuations": {
				"current": {
					"value": "512000",
					"confidence": 87.5,
					"variance": "0.12"
				}
			}
		}
	},
	"metadata": {
		"reportPDFLink": "https://reports.example.com/full/123.pdf"
	}
}`

func TestNormalize_FullReport(t *testing.T) {
	rec := Normalize(decode(t, fullPayload), KindFull)

	want := Record{
		ColBedrooms:        "4",
		ColBathrooms:       "2.5",
		ColYearBuilt:       "1987",
		ColHomeSize:        int64(2450),
		ColLotSize:         int64(10018),
		ColEstimatedValue:  512000.0,
		ColConfidenceScore: 87.5,
		ColVariance:        0.12,
		ColPDFReportLink:   "https://reports.example.com/full/123.pdf",
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("Normalize() = %#v, want %#v", rec, want)
	}
}

const simplePayload = `{
	"prediction": {
		"predictedPrice": "485000",
		"priceLow": 460000,
		"priceHigh": 510000,
		"confidence": "90.1",
		"error": "0.05"
	},
	"subjectParcel": {
		"structures": [
			{"bedrooms": 3, "bathrooms": 2, "gla": "1825"}
		]
	},
	"metadata": {
		"reportPDFLink": "https://reports.example.com/simple/456.pdf"
	}
}`

func TestNormalize_SimpleReport(t *testing.T) {
	rec := Normalize(decode(t, simplePayload), KindSimple)

	want := Record{
		ColBedrooms:        float64(3),
		ColBathrooms:       float64(2),
		ColHomeSize:        int64(1825),
		ColPriceLow:        460000.0,
		ColPriceHigh:       510000.0,
		ColConfidenceScore: 90.1,
		ColPredictedPrice:  485000.0,
		ColPDFReportLink:   "https://reports.example.com/simple/456.pdf",
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("Normalize() = %#v, want %#v", rec, want)
	}
	if _, ok := rec[ColErrorMargin]; ok {
		t.Error("simple report must not carry an error margin")
	}
}

func TestNormalize_RangedReport(t *testing.T) {
	rec := Normalize(decode(t, simplePayload), KindRanged)

	if _, ok := rec[ColPredictedPrice]; ok {
		t.Error("ranged report must not carry a predicted price")
	}
	if got, want := rec[ColErrorMargin], 0.05; got != want {
		t.Errorf("ErrorMargin = %v, want %v", got, want)
	}
	if got, want := rec[ColPriceLow], 460000.0; got != want {
		t.Errorf("PriceLow = %v, want %v", got, want)
	}
}

func TestNormalize_MissingStructures(t *testing.T) {
	// A simple report without subjectParcel.structures still yields the
	// prediction fields; the structure fields stay absent.
	payload := `{
		"prediction": {"predictedPrice": 300000, "confidence": 82},
		"metadata": {"reportPDFLink": "https://reports.example.com/789.pdf"}
	}`
	rec := Normalize(decode(t, payload), KindSimple)

	for _, col := range []string{ColBedrooms, ColBathrooms, ColHomeSize} {
		if _, ok := rec[col]; ok {
			t.Errorf("%s should be absent, got %v", col, rec[col])
		}
	}
	if got, want := rec[ColPredictedPrice], 300000.0; got != want {
		t.Errorf("PredictedPrice = %v, want %v", got, want)
	}
	if got, want := rec[ColConfidenceScore], 82.0; got != want {
		t.Errorf("ConfidenceScore = %v, want %v", got, want)
	}
}

func TestNormalize_MissingSections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		kind    Kind
	}{
		{name: "empty document full", payload: `{}`, kind: KindFull},
		{name: "empty document simple", payload: `{}`, kind: KindSimple},
		{name: "null sections", payload: `{"searchData": null, "analysis": null, "metadata": null}`, kind: KindFull},
		{name: "wrong section type", payload: `{"prediction": "oops", "subjectParcel": 7}`, kind: KindRanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize(decode(t, tt.payload), tt.kind)
			if len(rec) != 0 {
				t.Errorf("Normalize() = %#v, want empty record", rec)
			}
		})
	}
}

func TestNormalize_CoercionFailureKeepsValue(t *testing.T) {
	payload := `{
		"searchData": {"size": "about 2400", "lotSize": "0.23 acres"},
		"analysis": {"houseWorth": {"valuations": {"current": {"value": "N/A"}}}}
	}`
	rec := Normalize(decode(t, payload), KindFull)

	if got, want := rec[ColHomeSize], "about 2400"; got != want {
		t.Errorf("HomeSize = %v, want original string %q", got, want)
	}
	if got, want := rec[ColLotSize], "0.23 acres"; got != want {
		t.Errorf("LotSize = %v, want original string %q", got, want)
	}
	if got, want := rec[ColEstimatedValue], "N/A"; got != want {
		t.Errorf("EstimatedValue = %v, want original string %q", got, want)
	}
}

func TestNormalize_ZeroIsNotAbsent(t *testing.T) {
	payload := `{"analysis": {"houseWorth": {"valuations": {"current": {"value": 0, "variance": "0"}}}}}`
	rec := Normalize(decode(t, payload), KindFull)

	if got, ok := rec[ColEstimatedValue]; !ok || got != 0.0 {
		t.Errorf("EstimatedValue = %v (present=%v), want 0", got, ok)
	}
	if got, ok := rec[ColVariance]; !ok || got != 0.0 {
		t.Errorf("Variance = %v (present=%v), want 0", got, ok)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	doc := decode(t, fullPayload)
	first := Normalize(doc, KindFull)
	second := Normalize(doc, KindFull)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated normalization differs: %#v vs %#v", first, second)
	}
}

func TestColumns(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want []string
	}{
		{
			name: "full",
			kind: KindFull,
			want: []string{"Bedrooms", "Bathrooms", "YearBuilt", "HomeSize", "LotSize", "EstimatedValue", "ConfidenceScore", "Variance", "PDFReportLink"},
		},
		{
			name: "simple",
			kind: KindSimple,
			want: []string{"Bedrooms", "Bathrooms", "HomeSize", "PriceLow", "PriceHigh", "ConfidenceScore", "PredictedPrice", "PDFReportLink"},
		},
		{
			name: "ranged",
			kind: KindRanged,
			want: []string{"Bedrooms", "Bathrooms", "HomeSize", "PriceLow", "PriceHigh", "ConfidenceScore", "ErrorMargin", "PDFReportLink"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Columns(tt.kind); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Columns(%v) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{name: "short full", input: "full", want: KindFull},
		{name: "short simple", input: "Simple", want: KindSimple},
		{name: "short ranged", input: "ranged", want: KindRanged},
		{name: "display label", input: "RELAR Full Report", want: KindFull},
		{name: "legacy menu label", input: "Get RELAR Simple Report", want: KindSimple},
		{name: "ranged label", input: "Get Ranged Report", want: KindRanged},
		{name: "padded", input: "  full  ", want: KindFull},
		{name: "unknown", input: "premium", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKind_Slug(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindFull, "relar_full_report"},
		{KindSimple, "relar_simple_report"},
		{KindRanged, "ranged_report"},
	}

	for _, tt := range tests {
		if got := tt.kind.Slug(); got != tt.want {
			t.Errorf("Slug(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
