package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/seasnap/pkg/pipeline/model"
)

type stepRunner[I, O any] func(ctx context.Context, goIdx int, pipe *Pipeline, input *model.Step[I], output *model.Step[O]) error

// send pushes out to the output step unless ctx is cancelled first.
func send[I, O any](ctx context.Context, pipe *Pipeline, input *model.Step[I], output *model.Step[O], out O, startIter time.Time, computation time.Duration) error {
	// we check the context again to make sure all go routines currently running
	// stop to add new elements to the pipeline
	select {
	case <-ctx.Done():
		return ctx.Err()
	case output.Output <- out:
		return pipe.onStepOutput(input.Details, output.Details, time.Since(startIter), computation)
	}
}

func sequentialOneToOne[I, O any](oneToOneFn func(context.Context, I) (O, error)) stepRunner[I, O] {
	return func(ctx context.Context, goIdx int, pipe *Pipeline, input *model.Step[I], output *model.Step[O]) error {
		for {
			startIter := time.Now()
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case in, ok := <-input.Output:
				if !ok {
					return nil
				}
				startFn := time.Now()
				out, err := oneToOneFn(ctx, in)
				if err != nil {
					return errors.Wrapf(err, "go routine %d", goIdx)
				}
				err = send(ctx, pipe, input, output, out, startIter, time.Since(startFn))
				if err != nil {
					return errors.Wrapf(err, "go routine %d", goIdx)
				}
			}
		}
	}
}

func sequentialOneToMany[I, O any](oneToManyFn func(context.Context, I) ([]O, error)) stepRunner[I, O] {
	return func(ctx context.Context, goIdx int, pipe *Pipeline, input *model.Step[I], output *model.Step[O]) error {
		for {
			startIter := time.Now()
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case in, ok := <-input.Output:
				if !ok {
					return nil
				}
				startFn := time.Now()
				outs, err := oneToManyFn(ctx, in)
				if err != nil {
					return errors.Wrapf(err, "go routine %d", goIdx)
				}
				endFn := time.Since(startFn)
				for _, out := range outs {
					err = send(ctx, pipe, input, output, out, startIter, endFn)
					if err != nil {
						return errors.Wrapf(err, "go routine %d", goIdx)
					}
				}
			}
		}
	}
}

// runConcurrently starts output.Details.Concurrent consumers of the input step. Each consumer
// stops as soon as one of them fails.
func runConcurrently[I, O any](ctx context.Context, pipe *Pipeline, input *model.Step[I], output *model.Step[O], run stepRunner[I, O]) error {
	if output.Details.Concurrent <= 1 {
		return run(ctx, 0, pipe, input, output)
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(output.Details.Concurrent)
	for goIdx := 0; goIdx < output.Details.Concurrent; goIdx++ {
		localGoIdx := goIdx
		errGrp.Go(func() error {
			return run(dCtx, localGoIdx, pipe, input, output)
		})
	}

	return errGrp.Wait()
}

func addStep[I, O any](pipe *Pipeline, name string, input *model.Step[I], run stepRunner[I, O], opts ...StepOption[O]) (*model.Step[O], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}
	err := pipe.register(name)
	if err != nil {
		return nil, err
	}

	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.NormalStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan O),
	}
	for _, opt := range opts {
		opt(step)
	}

	if input.Details == nil {
		input.Details = model.StartStep.Details
	}
	err = pipe.prepareStep(input.Details, step.Details)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)
	pipe.goFn = append(pipe.goFn, func(ctx context.Context) {
		defer func() {
			close(step.Output)
			close(errC)
		}()
		err := runConcurrently(ctx, pipe, input, step, run)
		if err != nil {
			errC <- err
		}
	})
	pipe.errcList.add(newErrorChan(name, errC))

	return step, nil
}

// AddStepOneToOne adds a step producing exactly one output per input.
func AddStepOneToOne[I, O any](pipe *Pipeline, name string, input *model.Step[I], oneToOneFn func(context.Context, I) (O, error), opts ...StepOption[O]) (*model.Step[O], error) {
	return addStep(pipe, name, input, sequentialOneToOne(oneToOneFn), opts...)
}

// AddStepOneToMany adds a step producing any number of outputs per input, including none.
func AddStepOneToMany[I, O any](pipe *Pipeline, name string, input *model.Step[I], oneToManyFn func(context.Context, I) ([]O, error), opts ...StepOption[O]) (*model.Step[O], error) {
	return addStep(pipe, name, input, sequentialOneToMany(oneToManyFn), opts...)
}
