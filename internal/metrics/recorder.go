// Package metrics provides observability hooks for generation and rendering.
package metrics

import "time"

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for generation and render operations.
// All methods must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	IncGeneration(species string, result ResultLabel)
	IncRender(species string, result ResultLabel)
	ObserveGenerationDuration(d time.Duration)
	ObserveRenderDuration(d time.Duration)
	IncWatchRerender()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncGeneration(string, ResultLabel)         {}
func (NoopRecorder) IncRender(string, ResultLabel)             {}
func (NoopRecorder) ObserveGenerationDuration(time.Duration)   {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)       {}
func (NoopRecorder) IncWatchRerender()                         {}
