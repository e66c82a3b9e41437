package core

// PoolStats represents runtime observability state for a thread pool.
// All fields are read under the pool lock, so they form one consistent snapshot.
type PoolStats struct {
	ID      string
	Workers int
	Idle    int
	Queued  int
	Active  int
	Running bool
}

// Quiescent reports whether the snapshot has an empty queue and no task in flight.
func (s PoolStats) Quiescent() bool {
	return s.Queued == 0 && s.Idle == s.Workers
}
