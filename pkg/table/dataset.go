// Package table holds the tabular dataset flowing through the pipeline: CSV
// import, address column resolution, and reassembly of batch outcomes into
// the enriched output table.
package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acumidata/propdash/pkg/relar"
)

// ErrNoRows indicates the uploaded dataset has a header but no data rows.
var ErrNoRows = errors.New("dataset has no rows")

// Required input columns. Header matching is case-insensitive and ignores
// surrounding whitespace; the zip column resolves as "zipcode" first, then
// "zip".
const (
	colAddress = "address"
	colCity    = "city"
	colState   = "state"
	colZipcode = "zipcode"
	colZip     = "zip"
)

// Dataset is an ordered table: one header row plus data rows. The row slice
// index is the stable join key through the whole pipeline.
type Dataset struct {
	Header []string
	Rows   [][]string
}

// columnIndex returns the position of the named column, matched
// case-insensitively and whitespace-trimmed. Returns -1 when absent.
func (d *Dataset) columnIndex(name string) int {
	for i, h := range d.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// addressColumns resolves the four required input columns.
func (d *Dataset) addressColumns() (addr, city, state, zip int, err error) {
	addr = d.columnIndex(colAddress)
	city = d.columnIndex(colCity)
	state = d.columnIndex(colState)
	zip = d.columnIndex(colZipcode)
	if zip < 0 {
		zip = d.columnIndex(colZip)
	}

	var missing []string
	if addr < 0 {
		missing = append(missing, colAddress)
	}
	if city < 0 {
		missing = append(missing, colCity)
	}
	if state < 0 {
		missing = append(missing, colState)
	}
	if zip < 0 {
		missing = append(missing, colZipcode+" or "+colZip)
	}
	if len(missing) > 0 {
		err = fmt.Errorf("dataset is missing required columns: %s", strings.Join(missing, ", "))
	}
	return addr, city, state, zip, err
}

// Records extracts the provider lookup address for every row, in row order.
// It fails before any network work when a required column is absent.
func (d *Dataset) Records() ([]relar.Address, error) {
	addrCol, cityCol, stateCol, zipCol, err := d.addressColumns()
	if err != nil {
		return nil, err
	}

	addrs := make([]relar.Address, len(d.Rows))
	for i, row := range d.Rows {
		addrs[i] = relar.Address{
			Street: cell(row, addrCol),
			City:   cell(row, cityCol),
			State:  cell(row, stateCol),
			Zip:    cell(row, zipCol),
		}
	}
	return addrs, nil
}

// Validate checks the dataset is usable for a batch run: required columns
// present and at least one data row.
func (d *Dataset) Validate() error {
	if _, _, _, _, err := d.addressColumns(); err != nil {
		return err
	}
	if len(d.Rows) == 0 {
		return ErrNoRows
	}
	return nil
}

// cell reads a column from a row, tolerating short rows.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
