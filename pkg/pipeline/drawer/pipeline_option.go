package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/seasnap/pkg/pipeline/measure"
	"github.com/askiada/seasnap/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStep.Details.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}
	err = pd.AddStep(model.EndStep.Details.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}

	return pd.AddLink(parentStep.Name, step.Name)
}

func (pd *pipelineDrawer) PrepareSink(parentStep, step *model.StepInfo) error {
	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}
	err = pd.AddLink(parentStep.Name, step.Name)
	if err != nil {
		return err
	}

	return pd.AddLink(step.Name, model.EndStep.Details.Name)
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.SetTotalTime(model.EndStep.Details.Name, pd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

func (pd *pipelineDrawer) OnStepOutput(_, _ *model.StepInfo, _, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) OnSinkOutput(_, _ *model.StepInfo, _, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) AfterSink(_ *model.StepInfo, _ time.Duration) error {
	return nil
}

// PipelineDrawer draws the pipeline graph once it has run. When msr is not nil, steps and
// edges are annotated with the durations it collected; msr must then also be registered on
// the pipeline with measure.PipelineMeasure, before this option.
func PipelineDrawer(drawer Drawer, msr measure.Measure) model.PipelineOption {
	return &pipelineDrawer{drawer, msr, time.Now()}
}
