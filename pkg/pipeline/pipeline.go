package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/seasnap/pkg/pipeline/model"
)

// Pipeline is a pipeline of steps.
type Pipeline struct {
	ctx       context.Context //nolint:containedctx // steps are started lazily by Run
	errcList  *errorChans
	opts      []model.PipelineOption
	names     map[string]struct{}
	startTime time.Time
	goFn      []func(ctx context.Context)
}

// New creates a new pipeline bound to ctx. Options are initialised immediately.
func New(ctx context.Context, opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		ctx:       ctx,
		errcList:  &errorChans{},
		startTime: time.Now(),
		opts:      opts,
		names:     make(map[string]struct{}),
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

func (p *Pipeline) register(name string) error {
	if _, ok := p.names[name]; ok {
		return errors.Wrap(ErrDuplicateStep, name)
	}
	p.names[name] = struct{}{}

	return nil
}

func (p *Pipeline) prepareStep(parent, step *model.StepInfo) error {
	for _, opt := range p.opts {
		err := opt.PrepareStep(parent, step)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare step function")
		}
	}

	return nil
}

func (p *Pipeline) onStepOutput(parent, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	for _, opt := range p.opts {
		err := opt.OnStepOutput(parent, step, iterationDuration, computationDuration)
		if err != nil {
			return errors.Wrap(err, "unable to run step output function")
		}
	}

	return nil
}

// waitForPipeline waits for results from all error channels.
// It returns early on the first error.
func waitForPipeline(errs ...*errorChan) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}

	return nil
}

// Run starts every step and waits for the pipeline to finish.
// The first error cancels the remaining steps and is returned.
func (p *Pipeline) Run() error {
	dCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()

	for _, fn := range p.goFn {
		go fn(dCtx)
	}

	err := waitForPipeline(p.errcList.list...)
	if err != nil {
		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
