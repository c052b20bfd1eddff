package measure_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/seasnap/pkg/pipeline"
	"github.com/askiada/seasnap/pkg/pipeline/measure"
)

func TestDefaultMetric(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	mt := msr.AddMetric("hash", 2)
	mt.AddDuration(2 * time.Second)
	mt.AddDuration(4 * time.Second)
	mt.AddTransportDuration("walk", 4*time.Second)
	mt.AddTransportDuration("walk", 8*time.Second)

	assert.Equal(t, int64(2), mt.Total())
	assert.Equal(t, 3*time.Second, mt.AVGDuration())
	assert.Equal(t, 3*time.Second, mt.AVGTransportDuration()["walk"].Elapsed)
	// averages are computed on a copy
	assert.Equal(t, 12*time.Second, mt.AllTransports()["walk"].Elapsed)
	assert.Same(t, mt, msr.GetMetric("hash"))
}

func TestPipelineMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	pipe, err := pipeline.New(context.Background(), measure.PipelineMeasure(msr))
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "walk", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 5 {
			rootChan <- i
		}

		return nil
	})
	require.NoError(t, err)
	step, err := pipeline.AddStepOneToOne(pipe, "hash", root, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	require.NoError(t, err)
	err = pipeline.AddSink(pipe, "collect", step, func(ctx context.Context, input int) error {
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, pipe.Run())

	summaries := measure.Summarize(msr)
	require.Len(t, summaries, 2)
	assert.Equal(t, "collect", summaries[0].Name)
	assert.Equal(t, int64(5), summaries[0].Items)
	assert.Positive(t, summaries[0].Total)
	assert.Equal(t, "hash", summaries[1].Name)
	assert.Equal(t, int64(5), summaries[1].Items)
	assert.Contains(t, msr.AllMetrics(), "start")
	assert.Contains(t, msr.AllMetrics(), "end")
}
