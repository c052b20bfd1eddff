package model

// StepType tells which role a step plays in a pipeline.
type StepType string

const (
	RootStepType   StepType = "root"
	NormalStepType StepType = "step"
	SinkStepType   StepType = "sink"
)

// StepInfo describes a step to pipeline options.
type StepInfo struct {
	Type       StepType
	Name       string
	Concurrent int
}

// StartStep and EndStep are virtual steps framing every pipeline graph.
var (
	StartStep = &Step[any]{Details: &StepInfo{Name: "start"}}
	EndStep   = &Step[any]{Details: &StepInfo{Name: "end"}}
)

// Step is a node of the pipeline. Output is closed once the step is done.
type Step[O any] struct {
	Output  chan O
	Details *StepInfo
}
