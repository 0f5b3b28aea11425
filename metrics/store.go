// Package metrics collects what a queueing run observes and derives the
// statistics reported at the end.
package metrics

// A Store is an append-only sink for observations. It is written from
// inside simulation continuations only, so it needs no locking.
type Store struct {
	waitTimes        []float64
	queueLengths     []int
	serviceDurations []float64

	totalCustomers   int
	delayedCustomers int
	servedCustomers  int
	totalServiceTime float64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// CountArrival counts a customer entering the system.
func (s *Store) CountArrival() {
	s.totalCustomers++
}

// RecordWait records the time a customer spent waiting for service. A
// customer who waited at all is counted as delayed.
func (s *Store) RecordWait(wait float64) {
	s.waitTimes = append(s.waitTimes, wait)

	if wait > 0 {
		s.delayedCustomers++
	}
}

// RecordService records a service duration.
func (s *Store) RecordService(duration float64) {
	s.serviceDurations = append(s.serviceDurations, duration)
	s.totalServiceTime += duration
}

// CountServed counts a customer whose service completed.
func (s *Store) CountServed() {
	s.servedCustomers++
}

// SampleQueue records a queue length sample.
func (s *Store) SampleQueue(length int) {
	s.queueLengths = append(s.queueLengths, length)
}

// Snapshot is a read-only copy of a Store.
type Snapshot struct {
	WaitTimes        []float64
	QueueLengths     []int
	ServiceDurations []float64

	TotalCustomers   int
	DelayedCustomers int
	ServedCustomers  int
	TotalServiceTime float64
}

// Snapshot copies the current content of the store.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		WaitTimes:        append([]float64(nil), s.waitTimes...),
		QueueLengths:     append([]int(nil), s.queueLengths...),
		ServiceDurations: append([]float64(nil), s.serviceDurations...),
		TotalCustomers:   s.totalCustomers,
		DelayedCustomers: s.delayedCustomers,
		ServedCustomers:  s.servedCustomers,
		TotalServiceTime: s.totalServiceTime,
	}
}
