package frame

import (
	"context"
	"fmt"
)

// Transform is a mutation or validation applied to a Frame.
// Implementations may modify f in place; callers own the frame they pass.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, t := range p.steps {
		out[i] = t.Name()
	}
	return out
}

func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return cur, nil
}

// Func adapts a plain function into a Transform.
type Func struct {
	Label string
	Fn    func(f *Frame) (*Frame, error)
}

func (t Func) Name() string { return t.Label }

func (t Func) Apply(_ context.Context, f *Frame) (*Frame, error) { return t.Fn(f) }
