package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks the progress of a long running activity.
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

// SetFinished overwrites the number of finished items, never exceeding the
// total.
func (b *ProgressBar) SetFinished(finished uint64) {
	b.Lock()
	defer b.Unlock()

	if finished > b.Total {
		finished = b.Total
	}

	b.Finished = finished
}
