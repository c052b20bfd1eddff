package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/seasnap/pkg/pipeline/model"
)

func prepareSink[I any](pipe *Pipeline, name string, input *model.Step[I]) (*model.StepInfo, error) {
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

	if input.Details == nil {
		input.Details = model.StartStep.Details
	}
	details := &model.StepInfo{
		Type:       model.SinkStepType,
		Name:       name,
		Concurrent: 1,
	}
	for _, opt := range pipe.opts {
		err := opt.PrepareSink(input.Details, details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare sink function")
		}
	}

	return details, nil
}

func (p *Pipeline) afterSink(step *model.StepInfo) error {
	for _, opt := range p.opts {
		err := opt.AfterSink(step, time.Since(p.startTime))
		if err != nil {
			return errors.Wrap(err, "unable to run after sink function")
		}
	}

	return nil
}

// AddSink adds the final step of a pipeline. sinkFn is called once per input, sequentially.
func AddSink[I any](pipe *Pipeline, name string, input *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	details, err := prepareSink(pipe, name, input)
	if err != nil {
		return err
	}

	errC := make(chan error, 1)
	pipe.goFn = append(pipe.goFn, func(ctx context.Context) {
		defer close(errC)
		for {
			startIter := time.Now()
			select {
			case <-ctx.Done():
				errC <- ctx.Err()

				return
			case in, ok := <-input.Output:
				if !ok {
					err := pipe.afterSink(details)
					if err != nil {
						errC <- err
					}

					return
				}
				startFn := time.Now()
				err := sinkFn(ctx, in)
				if err != nil {
					errC <- err

					return
				}
				for _, opt := range pipe.opts {
					err := opt.OnSinkOutput(input.Details, details, time.Since(startIter), time.Since(startFn))
					if err != nil {
						errC <- errors.Wrap(err, "unable to run sink output function")

						return
					}
				}
			}
		}
	})
	pipe.errcList.add(newErrorChan(name, errC))

	return nil
}
