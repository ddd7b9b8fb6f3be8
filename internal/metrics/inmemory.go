package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TodoCacheHits      uint64
	TodoCacheMisses    uint64
	TodosCreated       uint64
	TodosUpdated       uint64
	TodosDeleted       uint64
	AccountsRegistered uint64
	LoginsSucceeded    uint64
	LoginsFailed       uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	todoCacheHits      uint64
	todoCacheMisses    uint64
	todosCreated       uint64
	todosUpdated       uint64
	todosDeleted       uint64
	accountsRegistered uint64
	loginsSucceeded    uint64
	loginsFailed       uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TodoCacheHits:      atomic.LoadUint64(&m.todoCacheHits),
		TodoCacheMisses:    atomic.LoadUint64(&m.todoCacheMisses),
		TodosCreated:       atomic.LoadUint64(&m.todosCreated),
		TodosUpdated:       atomic.LoadUint64(&m.todosUpdated),
		TodosDeleted:       atomic.LoadUint64(&m.todosDeleted),
		AccountsRegistered: atomic.LoadUint64(&m.accountsRegistered),
		LoginsSucceeded:    atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:       atomic.LoadUint64(&m.loginsFailed),
	}
}

// IncTodoCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncTodoCacheHit() {
	atomic.AddUint64(&m.todoCacheHits, 1)
}

// IncTodoCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncTodoCacheMiss() {
	atomic.AddUint64(&m.todoCacheMisses, 1)
}

// IncTodoCreated increments the todo created counter.
func (m *InMemoryRecorder) IncTodoCreated() {
	atomic.AddUint64(&m.todosCreated, 1)
}

// IncTodoUpdated increments the todo updated counter.
func (m *InMemoryRecorder) IncTodoUpdated() {
	atomic.AddUint64(&m.todosUpdated, 1)
}

// IncTodoDeleted increments the todo deleted counter.
func (m *InMemoryRecorder) IncTodoDeleted() {
	atomic.AddUint64(&m.todosDeleted, 1)
}

// IncAccountRegistered increments the registration counter.
func (m *InMemoryRecorder) IncAccountRegistered() {
	atomic.AddUint64(&m.accountsRegistered, 1)
}

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}
