package prep

import (
	"fmt"
	"strings"

	"SalaryPrep/internal/domain"
)

// MissingPolicy decides what happens to records without a salary.
type MissingPolicy string

const (
	MissingDrop   MissingPolicy = "drop"
	MissingImpute MissingPolicy = "impute"
	MissingFail   MissingPolicy = "fail"
)

// ParseMissingPolicy validates a policy name; empty means MissingDrop.
func ParseMissingPolicy(name string) (MissingPolicy, error) {
	switch p := MissingPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return MissingDrop, nil
	case MissingDrop, MissingImpute, MissingFail:
		return p, nil
	default:
		return "", fmt.Errorf("unknown missing salary policy %q", name)
	}
}

// Normalize returns canonical copies of records: text fields are trimmed and
// the experience level is lower-cased. Input records are left untouched.
func Normalize(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		r.JobTitle = strings.TrimSpace(r.JobTitle)
		r.ExperienceLevel = strings.ToLower(strings.TrimSpace(r.ExperienceLevel))
		r.CompanySize = strings.TrimSpace(r.CompanySize)
		r.CompanyLocation = strings.TrimSpace(r.CompanyLocation)
		out[i] = r
	}
	return out
}

// MissingReport counts what the missing salary policy changed.
type MissingReport struct {
	Dropped int
	Imputed int
}

// ApplyMissingPolicy removes, fills or rejects records without a salary.
// Imputation uses the mean of the salaries that are present.
func ApplyMissingPolicy(records []domain.Record, policy MissingPolicy) ([]domain.Record, MissingReport, error) {
	var report MissingReport
	switch policy {
	case MissingDrop, "":
		out := make([]domain.Record, 0, len(records))
		for _, r := range records {
			if !r.HasSalary() {
				report.Dropped++
				continue
			}
			out = append(out, r)
		}
		return out, report, nil
	case MissingFail:
		for i, r := range records {
			if !r.HasSalary() {
				return nil, report, fmt.Errorf("row %d: %w", i, ErrMissingSalary)
			}
		}
		return records, report, nil
	case MissingImpute:
		present := make([]float64, 0, len(records))
		for _, r := range records {
			if r.HasSalary() {
				present = append(present, r.SalaryInUSD)
			}
		}
		if len(present) == len(records) {
			return records, report, nil
		}
		mean, err := Mean(present)
		if err != nil {
			return nil, report, fmt.Errorf("impute salary: %w", err)
		}
		out := make([]domain.Record, len(records))
		for i, r := range records {
			if !r.HasSalary() {
				r.SalaryInUSD = mean
				report.Imputed++
			}
			out[i] = r
		}
		return out, report, nil
	default:
		return nil, report, fmt.Errorf("unknown missing salary policy %q", policy)
	}
}

// Dedupe keeps the first record of every identity key, in input order.
func Dedupe(records []domain.Record) []domain.Record {
	seen := make(map[domain.IdentityKey]struct{}, len(records))
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		key := r.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
