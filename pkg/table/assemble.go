package table

import (
	"fmt"
	"math"
	"strconv"

	"github.com/acumidata/propdash/pkg/batch"
	"github.com/acumidata/propdash/pkg/relar"
)

// ErrorSentinel marks every report column of a row whose provider call
// failed. It is distinct from a blank cell, which means the provider
// returned nothing for that field.
const ErrorSentinel = "Error"

// Assemble merges batch results back into the original dataset. The output
// header is the input header plus the report columns for the kind; output
// row i always corresponds to input row i, regardless of the order outcomes
// arrived in.
func Assemble(ds *Dataset, kind relar.Kind, results *batch.Results) *Dataset {
	cols := relar.Columns(kind)

	out := &Dataset{
		Header: append(append([]string{}, ds.Header...), cols...),
		Rows:   make([][]string, len(ds.Rows)),
	}

	for i, row := range ds.Rows {
		enriched := append([]string{}, row...)

		if _, failed := results.Errors[i]; failed {
			for range cols {
				enriched = append(enriched, ErrorSentinel)
			}
		} else {
			rec := results.Records[i]
			for _, col := range cols {
				enriched = append(enriched, formatCell(rec, col))
			}
		}

		out.Rows[i] = enriched
	}
	return out
}

// formatCell renders one normalized field for export. An absent field is a
// blank cell, never "0".
func formatCell(rec relar.Record, col string) string {
	v, ok := rec[col]
	if !ok || v == nil {
		return ""
	}

	switch x := v.(type) {
	case string:
		return x
	case float64:
		if math.Trunc(x) == x && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
