package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/ports"
)

// CSVParser reads comma-separated datasets with a header row.
type CSVParser struct{}

var _ ports.RecordParser = CSVParser{}

// Format identifies the parser inside the registry.
func (CSVParser) Format() string {
	return "csv"
}

// Parse reads all rows; columns are located by header name.
func (CSVParser) Parse(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Row: 0, Err: fmt.Errorf("empty dataset")}
	}
	if err != nil {
		return nil, &ParseError{Row: 0, Err: err}
	}
	cols, err := newColumnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Row: row, Err: err}
		}
		rec, err := cols.record(row, fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
