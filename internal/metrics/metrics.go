// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Todo cache metrics
	IncTodoCacheHit()
	IncTodoCacheMiss()

	// Todo management metrics
	IncTodoCreated()
	IncTodoUpdated()
	IncTodoDeleted()

	// Account metrics
	IncAccountRegistered()
	IncLogin(status string) // status: "success" or "failed"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
