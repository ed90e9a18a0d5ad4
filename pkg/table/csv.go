package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/acumidata/propdash/pkg/relar"
)

// ReadCSV parses a comma-delimited dataset from r. The first row is the
// header. Rows may be ragged; short rows read as empty cells downstream.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	return &Dataset{
		Header: rows[0],
		Rows:   rows[1:],
	}, nil
}

// ReadCSVFile reads a dataset from a file on the given filesystem.
func ReadCSVFile(fs afero.Fs, path string) (*Dataset, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// WriteCSV writes the dataset as comma-delimited text, header first.
func WriteCSV(w io.Writer, ds *Dataset) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ds.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range ds.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the dataset to a file on the given filesystem.
func WriteCSVFile(fs afero.Fs, path string, ds *Dataset) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	return WriteCSV(f, ds)
}

// ExportFilename is the download name for an enriched table of the given
// report kind.
func ExportFilename(kind relar.Kind) string {
	return "enriched_property_data_" + kind.Slug() + ".csv"
}
