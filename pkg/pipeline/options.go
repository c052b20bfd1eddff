package pipeline

import "github.com/askiada/seasnap/pkg/pipeline/model"

// StepOption configures a step when it is added to a pipeline.
type StepOption[O any] func(s *model.Step[O])

// StepConcurrency sets how many goroutines consume the input of a step.
// Values below 1 mean a single goroutine.
func StepConcurrency[O any](concurrent int) StepOption[O] {
	return func(s *model.Step[O]) {
		if concurrent < 1 {
			concurrent = 1
		}
		s.Details.Concurrent = concurrent
	}
}
