package prep

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"SalaryPrep/internal/domain"
)

// StageObserver is notified after every completed stage.
type StageObserver interface {
	ObserveStage(stage string, elapsed time.Duration)
}

// Options configures a Prepare run. A zero RemoteThreshold means FullyRemote
// and a nil CompanySizeScale means DefaultSizeScale.
type Options struct {
	TrainFraction    float64
	Source           Shuffler
	RemoteThreshold  int
	CompanySizeScale SizeScale
	MissingSalary    MissingPolicy
	Observer         StageObserver
}

// DefaultOptions returns the standard configuration with a seeded source.
func DefaultOptions(seed uint64) Options {
	return Options{
		TrainFraction:    DefaultTrainFraction,
		Source:           NewSeededSource(seed),
		RemoteThreshold:  FullyRemote,
		CompanySizeScale: DefaultSizeScale,
		MissingSalary:    MissingDrop,
	}
}

// Artifacts are the outputs of a successful Prepare run. All per-row slices
// are aligned with Records.
type Artifacts struct {
	Records []domain.Record
	Missing MissingReport

	Salary             Stats
	StandardizedSalary []float64

	JobTitles       *Table
	JobTitleVectors []OneHot

	ExperienceMapping map[string]int
	ExperienceLabels  []int

	CompanySizeScores []int
	RemoteIndicators  []bool

	Split Split
}

// TrainRecords returns the records assigned to the training set.
func (a *Artifacts) TrainRecords() []domain.Record {
	return pick(a.Records, a.Split.Train)
}

// TestRecords returns the records assigned to the testing set.
func (a *Artifacts) TestRecords() []domain.Record {
	return pick(a.Records, a.Split.Test)
}

// SplitLabels returns, for every record, the subset it was assigned to.
func (a *Artifacts) SplitLabels() []domain.SplitLabel {
	labels := make([]domain.SplitLabel, len(a.Records))
	for _, i := range a.Split.Train {
		labels[i] = domain.SplitTrain
	}
	for _, i := range a.Split.Test {
		labels[i] = domain.SplitTest
	}
	return labels
}

func pick(records []domain.Record, idxs []int) []domain.Record {
	out := make([]domain.Record, len(idxs))
	for i, idx := range idxs {
		out[i] = records[idx]
	}
	return out
}

// Prepare runs the data-preparation stages over records:
// normalize, missing salary policy, dedupe, scale, encode, derive features and
// split. The first failing stage aborts the run and is reported as a
// *StageError; no artifacts are returned in that case.
func Prepare(records []domain.Record, opts Options) (*Artifacts, error) {
	if opts.Source == nil {
		return nil, AtStage(StageSplit, fmt.Errorf("no randomness source configured"))
	}
	scale := opts.CompanySizeScale
	if scale == nil {
		scale = DefaultSizeScale
	}
	threshold := opts.RemoteThreshold
	if threshold == 0 {
		threshold = FullyRemote
	}

	var art Artifacts
	track := newTracker(opts.Observer)

	normalized := Normalize(records)
	track.done(StageNormalize)

	present, report, err := ApplyMissingPolicy(normalized, opts.MissingSalary)
	if err != nil {
		return nil, AtStage(StageMissing, err)
	}
	art.Missing = report
	track.done(StageMissing)

	art.Records = Dedupe(present)
	track.done(StageDedupe)

	salaries := make([]float64, len(art.Records))
	titles := make([]string, len(art.Records))
	levels := make([]string, len(art.Records))
	for i, r := range art.Records {
		salaries[i] = r.SalaryInUSD
		titles[i] = r.JobTitle
		levels[i] = r.ExperienceLevel
	}

	if art.Salary, err = Fit(salaries); err != nil {
		return nil, AtStage(StageScale, err)
	}
	if art.StandardizedSalary, err = art.Salary.Standardize(salaries); err != nil {
		return nil, AtStage(StageScale, err)
	}
	track.done(StageScale)

	// The two encoders read disjoint columns of the frozen record slice.
	var g errgroup.Group
	g.Go(func() error {
		table, vectors, err := BuildEncoding(titles)
		if err != nil {
			return fmt.Errorf("job_title: %w", err)
		}
		art.JobTitles, art.JobTitleVectors = table, vectors
		return nil
	})
	g.Go(func() error {
		labels, mapping, err := LabelEncode(levels)
		if err != nil {
			return fmt.Errorf("experience_level: %w", err)
		}
		art.ExperienceLabels, art.ExperienceMapping = labels, mapping
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, AtStage(StageEncode, err)
	}
	track.done(StageEncode)

	art.CompanySizeScores = make([]int, len(art.Records))
	art.RemoteIndicators = make([]bool, len(art.Records))
	for i, r := range art.Records {
		art.CompanySizeScores[i] = scale.Score(r.CompanySize)
		art.RemoteIndicators[i] = RemoteIndicator(r.RemoteRatio, threshold)
	}
	track.done(StageFeatures)

	if art.Split, err = SplitIndices(len(art.Records), opts.TrainFraction, opts.Source); err != nil {
		return nil, AtStage(StageSplit, err)
	}
	track.done(StageSplit)

	return &art, nil
}

type tracker struct {
	observer StageObserver
	last     time.Time
}

func newTracker(observer StageObserver) *tracker {
	return &tracker{observer: observer, last: time.Now()}
}

func (t *tracker) done(stage string) {
	if t.observer == nil {
		return
	}
	now := time.Now()
	t.observer.ObserveStage(stage, now.Sub(t.last))
	t.last = now
}
