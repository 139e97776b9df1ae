package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/prep"
)

// Column names of the salary dataset.
const (
	ColWorkYear        = "work_year"
	ColJobTitle        = "job_title"
	ColExperienceLevel = "experience_level"
	ColCompanySize     = "company_size"
	ColCompanyLocation = "company_location"
	ColRemoteRatio     = "remote_ratio"
	ColSalaryInUSD     = "salary_in_usd"
)

var requiredColumns = []string{
	ColWorkYear,
	ColJobTitle,
	ColExperienceLevel,
	ColCompanySize,
	ColCompanyLocation,
	ColRemoteRatio,
	ColSalaryInUSD,
}

// ParseError reports a malformed row of the raw dataset.
type ParseError struct {
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

// Unwrap exposes both the cause and the upstream parse kind.
func (e *ParseError) Unwrap() []error {
	return []error{prep.ErrUpstreamParse, e.Err}
}

// columnIndex resolves the position of every required column in header.
type columnIndex map[string]int

func newColumnIndex(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &ParseError{Row: 0, Column: col, Err: fmt.Errorf("missing column")}
		}
	}
	return idx, nil
}

func (c columnIndex) record(row int, fields []string) (domain.Record, error) {
	get := func(col string) string {
		i := c[col]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	year, err := strconv.Atoi(get(ColWorkYear))
	if err != nil {
		return domain.Record{}, &ParseError{Row: row, Column: ColWorkYear, Err: err}
	}
	remote, err := strconv.Atoi(get(ColRemoteRatio))
	if err != nil {
		return domain.Record{}, &ParseError{Row: row, Column: ColRemoteRatio, Err: err}
	}
	if remote < 0 || remote > 100 {
		return domain.Record{}, &ParseError{Row: row, Column: ColRemoteRatio, Err: fmt.Errorf("%d out of range 0-100", remote)}
	}
	salary, err := parseSalary(get(ColSalaryInUSD))
	if err != nil {
		return domain.Record{}, &ParseError{Row: row, Column: ColSalaryInUSD, Err: err}
	}

	return domain.Record{
		WorkYear:        year,
		JobTitle:        get(ColJobTitle),
		ExperienceLevel: get(ColExperienceLevel),
		CompanySize:     get(ColCompanySize),
		CompanyLocation: get(ColCompanyLocation),
		RemoteRatio:     remote,
		SalaryInUSD:     salary,
	}, nil
}

// parseSalary maps empty and NA markers to NaN.
func parseSalary(raw string) (float64, error) {
	switch strings.ToLower(raw) {
	case "", "na", "nan", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(raw, 64)
}
