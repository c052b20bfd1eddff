package metadata

import (
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/askiada/seasnap/pkg/pipeline/model"
)

// Option tunes a directory scan.
type Option func(o *options)

type options struct {
	logger       logrus.FieldLogger
	concurrency  int
	pipelineOpts []model.PipelineOption
}

func newOptions(opts ...Option) *options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	o := &options{
		logger:      discard,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	return o
}

// WithLogger sets the logger receiving warnings about skipped files.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConcurrency sets how many files are matched or hashed at the same time.
func WithConcurrency(concurrent int) Option {
	return func(o *options) {
		o.concurrency = concurrent
	}
}

// WithPipelineOptions forwards options, such as measures or drawers, to the scan pipeline.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(o *options) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}
