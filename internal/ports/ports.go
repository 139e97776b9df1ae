package ports

import (
	"context"
	"io"
	"time"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/prep"
)

// DatasetSource provides the raw bytes of the salary dataset.
type DatasetSource interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// RecordParser turns a raw dataset stream into typed records.
type RecordParser interface {
	Format() string
	Parse(r io.Reader) ([]domain.Record, error)
}

// ArtifactStore persists prepared rows and the split of a run.
type ArtifactStore interface {
	SaveRun(ctx context.Context, run domain.Run, artifacts *prep.Artifacts) error
}

// ArtifactPublisher hands prepared features to a downstream training service.
type ArtifactPublisher interface {
	Publish(ctx context.Context, run domain.Run, artifacts *prep.Artifacts) error
}

// Metrics records stage timings and row counts of a run.
type Metrics interface {
	prep.StageObserver
	RunFinished(run domain.Run, artifacts *prep.Artifacts, elapsed time.Duration)
	RunFailed(stage string)
	Push(ctx context.Context) error
}
