package pipeline

import (
	"context"

	"github.com/askiada/seasnap/pkg/pipeline/model"
)

// AddRootStep adds the step feeding the pipeline. stepFn pushes values to rootChan and returns
// once it is done; the channel is closed for it.
func AddRootStep[O any](pipe *Pipeline, name string, stepFn func(ctx context.Context, rootChan chan<- O) error, opts ...StepOption[O]) (*model.Step[O], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}
	err := pipe.register(name)
	if err != nil {
		return nil, err
	}

	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.RootStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan O),
	}
	for _, opt := range opts {
		opt(step)
	}

	err = pipe.prepareStep(model.StartStep.Details, step.Details)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)
	pipe.goFn = append(pipe.goFn, func(ctx context.Context) {
		defer func() {
			close(step.Output)
			close(errC)
		}()
		err := stepFn(ctx, step.Output)
		if err != nil {
			errC <- err
		}
	})
	pipe.errcList.add(newErrorChan(name, errC))

	return step, nil
}
