package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncTodoCacheHit is a no-op.
func (n *NoopRecorder) IncTodoCacheHit() {}

// IncTodoCacheMiss is a no-op.
func (n *NoopRecorder) IncTodoCacheMiss() {}

// IncTodoCreated is a no-op.
func (n *NoopRecorder) IncTodoCreated() {}

// IncTodoUpdated is a no-op.
func (n *NoopRecorder) IncTodoUpdated() {}

// IncTodoDeleted is a no-op.
func (n *NoopRecorder) IncTodoDeleted() {}

// IncAccountRegistered is a no-op.
func (n *NoopRecorder) IncAccountRegistered() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}
