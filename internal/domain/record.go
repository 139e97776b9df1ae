package domain

import (
	"math"
	"time"
)

// Record is one job-salary observation as delivered by the dataset parser.
type Record struct {
	WorkYear        int
	JobTitle        string
	ExperienceLevel string
	CompanySize     string
	CompanyLocation string
	RemoteRatio     int
	// SalaryInUSD is NaN when the source row carried no salary.
	SalaryInUSD float64
}

// IdentityKey is the composite key used to detect duplicate records.
type IdentityKey struct {
	WorkYear        int
	JobTitle        string
	CompanyLocation string
}

// Key returns the identity key of the record.
func (r Record) Key() IdentityKey {
	return IdentityKey{
		WorkYear:        r.WorkYear,
		JobTitle:        r.JobTitle,
		CompanyLocation: r.CompanyLocation,
	}
}

// HasSalary reports whether the salary value is present.
func (r Record) HasSalary() bool {
	return !math.IsNaN(r.SalaryInUSD)
}

// SplitLabel marks which subset a prepared row belongs to.
type SplitLabel string

const (
	SplitTrain SplitLabel = "train"
	SplitTest  SplitLabel = "test"
)

// Run identifies a single pipeline execution.
type Run struct {
	ID        string
	StartedAt time.Time
	Source    string
}
