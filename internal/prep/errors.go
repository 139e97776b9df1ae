package prep

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the preparation stages. Match them with errors.Is.
var (
	ErrEmptyInput      = errors.New("empty input")
	ErrDivisionByZero  = errors.New("division by zero: standard deviation is 0")
	ErrInvalidFraction = errors.New("train fraction must be within [0, 1]")
	ErrUpstreamParse   = errors.New("upstream parse error")
	ErrMissingSalary   = errors.New("record has no salary")
)

// Stage names reported by StageError.
const (
	StageFetch     = "fetch"
	StageParse     = "parse"
	StageNormalize = "normalize"
	StageMissing   = "missing"
	StageDedupe    = "dedupe"
	StageScale     = "scale"
	StageEncode    = "encode"
	StageFeatures  = "features"
	StageSplit     = "split"
	StageStore     = "store"
	StagePublish   = "publish"
)

// StageError ties a failure to the pipeline stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err.Error())
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// AtStage wraps err with the stage name. A nil err stays nil.
func AtStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage recorded in err, or "" when there is none.
func StageOf(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}
