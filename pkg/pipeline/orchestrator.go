// Package pipeline drives one dataset through load, filter, clean, transform,
// optional date decomposition and persistence.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bobsim/datawash/pkg/frame"
	"github.com/bobsim/datawash/pkg/metrics"
	"github.com/bobsim/datawash/pkg/schema"
	"github.com/bobsim/datawash/pkg/store"
)

// Orchestrator runs registered datasets against a store. It holds no per-run
// state and is safe for concurrent use.
type Orchestrator struct {
	reg     *schema.Registry
	store   store.Store
	log     *zap.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// WithClock replaces time.Now for duration measurement.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(reg *schema.Registry, st store.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{reg: reg, store: st, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) MarineWeather(ctx context.Context, p schema.Period) Outcome {
	return o.Process(ctx, schema.MarineWeather, p)
}

func (o *Orchestrator) TerrestrialWeather(ctx context.Context, p schema.Period) Outcome {
	return o.Process(ctx, schema.TerrestrialWeather, p)
}

func (o *Orchestrator) RawMaterialPrice(ctx context.Context, p schema.Period) Outcome {
	return o.Process(ctx, schema.RawMaterialPrice, p)
}

// Process runs kind for period. It never panics and never returns an error
// directly: failures are logged once and reported in the Outcome, and nothing
// is saved for a failed run.
func (o *Orchestrator) Process(ctx context.Context, kind schema.Kind, period schema.Period) (out Outcome) {
	start := o.now()
	out = Outcome{RunID: uuid.NewString(), Dataset: kind, Period: period}
	log := o.log.With(
		zap.String("run_id", out.RunID),
		zap.String("dataset", string(kind)),
		zap.Stringer("period", period),
	)
	r := &run{o: o, log: log, kind: kind, period: period}

	defer func() {
		if p := recover(); p != nil {
			r.fail(&out, fmt.Errorf("panic: %v", p))
		}
		out.Duration = o.now().Sub(start)
		if out.OK() {
			o.metrics.Succeeded(string(kind), out.Duration, out.Rows)
			log.Info("run persisted", zap.String("key", out.Key), zap.Int("rows", out.Rows), zap.Duration("took", out.Duration))
		} else {
			o.metrics.Failed(string(kind), out.FailedStage.String(), out.Failure.String(), out.Duration)
		}
	}()

	ds, err := o.reg.Dataset(kind)
	if err != nil {
		r.stage = StageLoaded
		r.fail(&out, err)
		return out
	}
	r.ds = ds

	var f *frame.Frame
	for _, st := range r.stages() {
		r.stage = st.stage
		if err := ctx.Err(); err != nil {
			r.fail(&out, err)
			return out
		}
		next, err := st.run(ctx, f)
		if err != nil {
			r.fail(&out, err)
			return out
		}
		if next == nil {
			// stage disabled for this dataset
			continue
		}
		f = next
		out.Stage = st.stage
		log.Debug("stage complete", zap.Stringer("stage", st.stage), zap.Int("rows", f.Rows()), zap.Int("cols", f.Cols()))
	}

	out.Frame = f
	out.Key = ds.ProcessKeyFor(period)
	out.Rows = f.Rows()
	out.Checksum = f.Fingerprint()
	return out
}

// ProcessAll runs kinds concurrently, at most limit at a time (0 = no limit).
// An empty kinds list means every registered kind. Outcomes keep the order
// of kinds.
func (o *Orchestrator) ProcessAll(ctx context.Context, kinds []schema.Kind, period schema.Period, limit int) []Outcome {
	if len(kinds) == 0 {
		kinds = o.reg.Kinds()
	}
	outcomes := make([]Outcome, len(kinds))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, k := range kinds {
		i, k := i, k
		g.Go(func() error {
			outcomes[i] = o.Process(ctx, k, period)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
