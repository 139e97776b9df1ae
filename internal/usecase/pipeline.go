package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/ports"
	"SalaryPrep/internal/prep"
)

const previewRows = 5

// PipelineDeps wires the dataset collaborators and artifact sinks into the
// preparation pipeline. Store, Publisher and Metrics are optional.
type PipelineDeps struct {
	Source     ports.DatasetSource
	Parser     ports.RecordParser
	Store      ports.ArtifactStore
	Publisher  ports.ArtifactPublisher
	Metrics    ports.Metrics
	Options    prep.Options
	SourceName string
	Logger     *slog.Logger
}

// Pipeline implements the fetch, parse, prepare and hand-off workflow.
type Pipeline struct {
	source     ports.DatasetSource
	parser     ports.RecordParser
	store      ports.ArtifactStore
	publisher  ports.ArtifactPublisher
	metrics    ports.Metrics
	options    prep.Options
	sourceName string
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		parser:     deps.Parser,
		store:      deps.Store,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		options:    deps.Options,
		sourceName: deps.SourceName,
		logger:     deps.Logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Run loads the dataset, prepares it and hands the artifacts to the
// configured sinks. Any failure aborts the run; the returned error carries the
// failing stage (see prep.StageOf).
func (p *Pipeline) Run(ctx context.Context) (*prep.Artifacts, error) {
	run := domain.Run{ID: p.newID(), StartedAt: p.now(), Source: p.sourceName}
	p.info("pipeline started", "run_id", run.ID, "source", run.Source)

	art, err := p.run(ctx, run)
	if err != nil {
		stage := prep.StageOf(err)
		if p.metrics != nil {
			p.metrics.RunFailed(stage)
		}
		p.logError("pipeline failed", "run_id", run.ID, "stage", stage, "error", err)
		p.push(ctx)
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.RunFinished(run, art, p.now().Sub(run.StartedAt))
	}
	p.push(ctx)
	return art, nil
}

func (p *Pipeline) run(ctx context.Context, run domain.Run) (*prep.Artifacts, error) {
	if p.source == nil || p.parser == nil {
		return nil, prep.AtStage(prep.StageFetch, fmt.Errorf("dataset source or parser is not configured"))
	}

	records, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	p.info("dataset loaded", "run_id", run.ID, "records", len(records), "format", p.parser.Format())

	opts := p.options
	if p.metrics != nil && opts.Observer == nil {
		opts.Observer = p.metrics
	}
	art, err := prep.Prepare(records, opts)
	if err != nil {
		return nil, err
	}
	p.summarize(run, len(records), art)

	if p.store != nil {
		if err := p.store.SaveRun(ctx, run, art); err != nil {
			return nil, prep.AtStage(prep.StageStore, fmt.Errorf("save run %s: %w", run.ID, err))
		}
		p.debug("artifacts stored", "run_id", run.ID)
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, run, art); err != nil {
			return nil, prep.AtStage(prep.StagePublish, fmt.Errorf("publish run %s: %w", run.ID, err))
		}
		p.debug("artifacts published", "run_id", run.ID)
	}

	return art, nil
}

func (p *Pipeline) load(ctx context.Context) ([]domain.Record, error) {
	body, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, prep.AtStage(prep.StageFetch, err)
	}
	defer body.Close()

	records, err := p.parser.Parse(body)
	if err != nil {
		return nil, prep.AtStage(prep.StageParse, err)
	}
	return records, nil
}

func (p *Pipeline) summarize(run domain.Run, loaded int, art *prep.Artifacts) {
	p.info("dataset prepared",
		"run_id", run.ID,
		"loaded", loaded,
		"missing_salary_dropped", art.Missing.Dropped,
		"missing_salary_imputed", art.Missing.Imputed,
		"after_dedupe", len(art.Records),
		"unique_job_titles", art.JobTitles.Len(),
		"experience_levels", slices.Sorted(maps.Keys(art.ExperienceMapping)),
		"average_salary_usd", fmt.Sprintf("%.2f", art.Salary.Mean),
		"salary_std_dev", fmt.Sprintf("%.2f", art.Salary.StdDev),
		"train_size", len(art.Split.Train),
		"test_size", len(art.Split.Test),
	)

	n := min(previewRows, len(art.Records))
	p.debug("feature preview",
		"standardized_salaries", art.StandardizedSalary[:n],
		"experience_labels", art.ExperienceLabels[:n],
		"company_size_scores", art.CompanySizeScores[:n],
		"remote_indicators", art.RemoteIndicators[:n],
	)
}

func (p *Pipeline) push(ctx context.Context) {
	if p.metrics == nil {
		return
	}
	if err := p.metrics.Push(ctx); err != nil {
		p.warn("push metrics", "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) logError(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
