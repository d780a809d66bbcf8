// Package metrics defines observability hooks for the page store engine.
package metrics

import "time"

// ResultLabel enumerates save outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for save and render metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. The
// NoopRecorder makes injection optional.
type Recorder interface {
	ObserveSaveDuration(stage string, d time.Duration)
	IncSaveOutcome(result ResultLabel)
	IncRender()
	ObserveCommitDuration(d time.Duration)
	SetDirtyWorktrees(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveSaveDuration(string, time.Duration) {}
func (NoopRecorder) IncSaveOutcome(ResultLabel)                {}
func (NoopRecorder) IncRender()                                {}
func (NoopRecorder) ObserveCommitDuration(time.Duration)       {}
func (NoopRecorder) SetDirtyWorktrees(int)                     {}
