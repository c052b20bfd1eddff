// Package pipeline runs a small graph of steps connected by channels.
//
// A pipeline starts with a root step producing values, passes them through zero or more
// transformation steps, and ends in a sink. Each transformation step can run several goroutines
// concurrently; the pipeline stops on the first error returned by any step and cancels the others.
//
// The metadata scans of seasnap use it to walk a directory, match file names and hash artifacts
// without holding the whole listing in memory. Pipeline options (see the measure and drawer
// packages) observe every step and can report timings or render the step graph.
package pipeline
