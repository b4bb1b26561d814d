package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/bobsim/datawash/pkg/frame"
	"github.com/bobsim/datawash/pkg/schema"
	"github.com/bobsim/datawash/pkg/store"
)

// Stage is a state of the run state machine. Runs move forward only:
// LOADED, FILTERED, CLEANED, TRANSFORMED, optionally DECOMPOSED, then PERSISTED.
type Stage int

const (
	StageNone Stage = iota
	StageLoaded
	StageFiltered
	StageCleaned
	StageTransformed
	StageDecomposed
	StagePersisted
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageLoaded:
		return "LOADED"
	case StageFiltered:
		return "FILTERED"
	case StageCleaned:
		return "CLEANED"
	case StageTransformed:
		return "TRANSFORMED"
	case StageDecomposed:
		return "DECOMPOSED"
	case StagePersisted:
		return "PERSISTED"
	case StageFailed:
		return "FAILED"
	}
	return "NONE"
}

// Failure classifies why a run stopped.
type Failure int

const (
	FailureNone Failure = iota
	FailureUnknownDataset
	FailureNotFound
	FailureDecode
	FailureStorage
	FailureSchemaMismatch
	FailureTransform
	FailureCanceled
	FailureInternal
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureUnknownDataset:
		return "unknown_dataset"
	case FailureNotFound:
		return "not_found"
	case FailureDecode:
		return "decode"
	case FailureStorage:
		return "storage"
	case FailureSchemaMismatch:
		return "schema_mismatch"
	case FailureTransform:
		return "transform"
	case FailureCanceled:
		return "canceled"
	}
	return "internal"
}

// Classify maps an error onto the failure taxonomy. More specific storage
// errors are checked before the generic one.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, schema.ErrUnknownDatasetKind):
		return FailureUnknownDataset
	case errors.Is(err, store.ErrNotFound):
		return FailureNotFound
	case errors.Is(err, store.ErrDecode):
		return FailureDecode
	case errors.Is(err, store.ErrStorage):
		return FailureStorage
	case errors.Is(err, schema.ErrSchemaMismatch):
		return FailureSchemaMismatch
	case errors.Is(err, frame.ErrTransform):
		return FailureTransform
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return FailureCanceled
	}
	return FailureInternal
}

// Outcome reports one run. Stage is the last stage reached; on failure it is
// StageFailed and FailedStage names the stage that did not complete.
type Outcome struct {
	RunID       string
	Dataset     schema.Kind
	Period      schema.Period
	Stage       Stage
	FailedStage Stage
	Failure     Failure
	Err         error

	// Set when the run persisted.
	Frame    *frame.Frame
	Key      string
	Rows     int
	Checksum uint64

	Duration time.Duration
}

func (o Outcome) OK() bool { return o.Err == nil && o.Stage == StagePersisted }
