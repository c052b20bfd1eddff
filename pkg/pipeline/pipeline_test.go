package pipeline_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/seasnap/pkg/pipeline"
	"github.com/askiada/seasnap/pkg/pipeline/model"
)

func TestAddStepOneToOneNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddStepOneToOne(nil, "first step", nil, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	assert.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddStepOneToOneNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	_, err = pipeline.AddStepOneToOne(pipe, "first step", nil, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	assert.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
}

func TestAddStepOneToOne(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		concurrent int
	}{
		"sequential":     {concurrent: 1},
		"sequential v2":  {concurrent: 0},
		"concurrent 2":   {concurrent: 2},
		"concurrent 100": {concurrent: 100},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New(context.Background())
			require.NoError(t, err)
			step := model.Step[int]{
				Output: createInputChan(t, 10),
			}
			outputStep, err := pipeline.AddStepOneToOne(pipe, "double", &step, func(ctx context.Context, input int) (int, error) {
				return input * 2, nil
			}, pipeline.StepConcurrency[int](tc.concurrent))
			require.NoError(t, err)

			done := make(chan []int)
			go func() {
				done <- processOutputChan(t, outputStep.Output)
			}()

			require.NoError(t, pipe.Run())
			assert.ElementsMatch(t, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}, <-done)
		})
	}
}

func TestAddStepOneToOneError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output: createInputChan(t, 10),
	}
	outputStep, err := pipeline.AddStepOneToOne(pipe, "fail on five", &step, func(ctx context.Context, input int) (int, error) {
		if input == 5 {
			return 0, assert.AnError
		}

		return input, nil
	})
	require.NoError(t, err)

	done := make(chan []int)
	go func() {
		done <- processOutputChan(t, outputStep.Output)
	}()

	err = pipe.Run()
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "fail on five")
	assert.NotContains(t, <-done, 5)
}

func TestAddStepOneToManyFilters(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output: createInputChan(t, 10),
	}
	outputStep, err := pipeline.AddStepOneToMany(pipe, "even only", &step, func(ctx context.Context, input int) ([]int, error) {
		if input%2 == 1 {
			return nil, nil
		}

		return []int{input, input}, nil
	}, pipeline.StepConcurrency[int](3))
	require.NoError(t, err)

	done := make(chan []int)
	go func() {
		done <- processOutputChan(t, outputStep.Output)
	}()

	require.NoError(t, pipe.Run())
	assert.ElementsMatch(t, []int{0, 0, 2, 2, 4, 4, 6, 6, 8, 8}, <-done)
}

func TestAddRootStepNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddRootStep(nil, "root step", func(ctx context.Context, rootChan chan<- int) error {
		return nil
	})
	assert.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestDuplicateStepName(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	root, err := pipeline.AddRootStep(pipe, "walk", func(ctx context.Context, rootChan chan<- int) error {
		return nil
	})
	require.NoError(t, err)
	_, err = pipeline.AddStepOneToOne(pipe, "walk", root, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	assert.ErrorIs(t, err, pipeline.ErrDuplicateStep)
}

func TestRootStepToSink(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "numbers", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			rootChan <- i
		}

		return nil
	})
	require.NoError(t, err)

	squares, err := pipeline.AddStepOneToOne(pipe, "square", root, func(ctx context.Context, input int) (int, error) {
		return input * input, nil
	}, pipeline.StepConcurrency[int](4))
	require.NoError(t, err)

	var (
		mu  sync.Mutex
		got []int
	)
	err = pipeline.AddSink(pipe, "collect", squares, func(ctx context.Context, input int) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, input)

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, pipe.Run())
	assert.ElementsMatch(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, got)
}

func TestRootStepError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "numbers", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			if i == 5 {
				return assert.AnError
			}
			rootChan <- i
		}

		return nil
	})
	require.NoError(t, err)

	err = pipeline.AddSink(pipe, "discard", root, func(ctx context.Context, input int) error {
		return nil
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "numbers")
}

func TestSinkError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "numbers", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- i:
			}
		}

		return nil
	})
	require.NoError(t, err)

	err = pipeline.AddSink(pipe, "reject", root, func(ctx context.Context, input int) error {
		if input == 3 {
			return assert.AnError
		}

		return nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, pipe.Run(), assert.AnError)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	pipe, err := pipeline.New(ctx)
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "wait", func(ctx context.Context, rootChan chan<- int) error {
		cancel()
		<-ctx.Done()

		return ctx.Err()
	})
	require.NoError(t, err)

	err = pipeline.AddSink(pipe, "discard", root, func(ctx context.Context, input int) error {
		return nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, pipe.Run(), context.Canceled)
}
