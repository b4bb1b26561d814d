package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bobsim/datawash/pkg/frame"
	"github.com/bobsim/datawash/pkg/profile"
	"github.com/bobsim/datawash/pkg/schema"
	"github.com/bobsim/datawash/pkg/transform/aggregate"
	"github.com/bobsim/datawash/pkg/transform/consolidate"
	"github.com/bobsim/datawash/pkg/transform/datefeat"
	"github.com/bobsim/datawash/pkg/transform/filter"
	"github.com/bobsim/datawash/pkg/transform/impute"
	"github.com/bobsim/datawash/pkg/transform/outliers"
	"github.com/bobsim/datawash/pkg/transform/skew"
	"github.com/bobsim/datawash/pkg/transform/standardize"
	"github.com/bobsim/datawash/pkg/transform/unit"
	"github.com/bobsim/datawash/pkg/transform/validate"
)

// run carries the state of a single Process call.
type run struct {
	o      *Orchestrator
	log    *zap.Logger
	kind   schema.Kind
	period schema.Period
	ds     schema.Dataset
	stage  Stage
}

type step struct {
	stage Stage
	// run returns a nil frame when the stage does not apply to the dataset.
	run func(ctx context.Context, f *frame.Frame) (*frame.Frame, error)
}

func (r *run) stages() []step {
	return []step{
		{StageLoaded, r.load},
		{StageFiltered, r.filter},
		{StageCleaned, r.clean},
		{StageTransformed, r.transform},
		{StageDecomposed, r.decompose},
		{StagePersisted, r.persist},
	}
}

// fail records err against the current stage and logs it. It is the only
// place a run logs at error level.
func (r *run) fail(out *Outcome, err error) {
	out.FailedStage = r.stage
	out.Stage = StageFailed
	out.Failure = Classify(err)
	out.Err = fmt.Errorf("%s %s: %s: %w", r.kind, r.period, r.stage, err)
	out.Frame = nil
	r.log.Error("run failed",
		zap.Stringer("stage", r.stage),
		zap.Stringer("failure", out.Failure),
		zap.Error(err),
	)
}

func (r *run) load(ctx context.Context, _ *frame.Frame) (*frame.Frame, error) {
	raw, err := r.o.store.Fetch(ctx, r.ds.OriginKeyFor(r.period))
	if err != nil {
		return nil, err
	}
	f, err := schema.Select(raw, r.ds)
	if err != nil {
		return nil, err
	}
	return f.Clone(), nil
}

func (r *run) filter(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	ds := r.ds
	p := frame.NewPipeline().Add(&standardize.Trim{})
	if ds.PeriodFilter {
		p.Add(&filter.InPeriod{Column: ds.DateColumn, Period: r.period})
	}
	if rf := ds.RowFilter; rf != nil {
		p.Add(&filter.Equals{Column: rf.Column, Value: rf.Equals, DropColumn: rf.DropColumn})
	}
	if c := ds.Composite; c != nil {
		p.Add(&consolidate.Composite{Components: c.Components, Into: c.Name})
	}
	switch {
	case ds.Grade != nil:
		p.Add(&consolidate.CollapseGrade{Grade: ds.Grade.Column, Keys: ds.Grade.Keys})
	case len(ds.GroupBy) > 0:
		p.Add(&aggregate.GroupMean{Keys: ds.GroupBy})
	}
	if u := ds.Units; u != nil {
		p.Add(&unit.Normalize{
			LabelColumn: u.LabelColumn,
			ValueColumn: u.ValueColumn,
			Table:       unit.Conversions{Divisors: u.Divisors, Strict: u.Strict},
		})
	}
	return nonEmpty(r.runSteps(ctx, p, f))
}

func (r *run) clean(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	nulls := profile.Of(f, 0).NullCounts()
	r.log.Info("null profile", zap.Any("nulls", nulls), zap.Int("rows", f.Rows()))

	im := r.ds.Impute
	p := frame.NewPipeline()
	if im.DropRows {
		p.Add(&impute.DropNulls{Columns: im.Monitored})
	} else {
		p.Add(&impute.Linear{Columns: im.Linear}).
			Add(impute.Zero(im.Zero...)).
			Add(&impute.Mean{Columns: im.Mean}).
			Add(&impute.Median{Columns: im.Median})
	}
	for _, b := range r.ds.Clip {
		p.Add(&outliers.Clip{Columns: b.Columns, Min: b.Min, Max: b.Max})
	}
	return nonEmpty(r.runSteps(ctx, p, f))
}

func (r *run) transform(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	ds := r.ds
	p := frame.NewPipeline()
	if len(ds.Skew.RegroupBy) > 0 {
		p.Add(&aggregate.GroupMean{Keys: ds.Skew.RegroupBy})
	}
	if len(ds.NonNegative) > 0 {
		p.Add(validate.NonNegative(ds.NonNegative...))
	}
	p.Add(&skew.Correct{
		Threshold: ds.Skew.Threshold,
		Columns:   ds.Skew.Columns,
		Observe: func(column string, s float64, corrected bool) {
			r.log.Info("skew", zap.String("column", column), zap.Float64("skewness", s), zap.Bool("log1p", corrected))
			if corrected {
				r.o.metrics.SkewCorrected(string(r.kind), column)
			}
		},
		Skip: func(column string, lowest float64) {
			r.log.Warn("skew left uncorrected", zap.String("column", column), zap.Float64("min", lowest))
		},
	})
	return r.runSteps(ctx, p, f)
}

func (r *run) decompose(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if !r.ds.DecomposeDate {
		return nil, nil
	}
	return (&datefeat.Decompose{Column: r.ds.DateColumn}).Apply(ctx, f)
}

func (r *run) persist(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if r.ds.TranslateOutput {
		var err error
		if f, err = (&standardize.Rename{Map: r.ds.Aliases()}).Apply(ctx, f); err != nil {
			return nil, err
		}
	}
	if err := r.o.store.Save(ctx, r.ds.ProcessKeyFor(r.period), f); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *run) runSteps(ctx context.Context, p *frame.Pipeline, f *frame.Frame) (*frame.Frame, error) {
	r.log.Debug("stage steps", zap.Stringer("stage", r.stage), zap.Strings("steps", p.Steps()))
	return p.Run(ctx, f)
}

func nonEmpty(f *frame.Frame, err error) (*frame.Frame, error) {
	if err != nil {
		return nil, err
	}
	if f.Rows() == 0 {
		return nil, fmt.Errorf("%w: no rows left", frame.ErrTransform)
	}
	return f, nil
}
