package metrics

// Summary holds the statistics derived from a Snapshot.
type Summary struct {
	AvgWait  float64 `json:"avg_wait" yaml:"avg_wait"`
	MaxWait  float64 `json:"max_wait" yaml:"max_wait"`
	AvgQueue float64 `json:"avg_queue" yaml:"avg_queue"`
	MaxQueue int     `json:"max_queue" yaml:"max_queue"`

	// Utilization is the share of available server time spent serving, in
	// percent.
	Utilization float64 `json:"utilization" yaml:"utilization"`

	TotalCustomers   int     `json:"total_customers" yaml:"total_customers"`
	StartedService   int     `json:"started_service" yaml:"started_service"`
	ServedCustomers  int     `json:"served_customers" yaml:"served_customers"`
	DelayedCustomers int     `json:"delayed_customers" yaml:"delayed_customers"`
	TotalServiceTime float64 `json:"total_service_time" yaml:"total_service_time"`
}

// Summarize derives the statistics of the snapshot. Available server time
// is workingDuration times capacity; utilization is capped at 100 because
// customers served during the drain after closing still count as service
// time.
func (s Snapshot) Summarize(workingDuration float64, capacity int) Summary {
	sum := Summary{
		TotalCustomers:   s.TotalCustomers,
		StartedService:   len(s.WaitTimes),
		ServedCustomers:  s.ServedCustomers,
		DelayedCustomers: s.DelayedCustomers,
		TotalServiceTime: s.TotalServiceTime,
	}

	sum.AvgWait, sum.MaxWait = meanMax(s.WaitTimes)

	for _, l := range s.QueueLengths {
		sum.AvgQueue += float64(l)
		if l > sum.MaxQueue {
			sum.MaxQueue = l
		}
	}

	if len(s.QueueLengths) > 0 {
		sum.AvgQueue /= float64(len(s.QueueLengths))
	}

	sum.Utilization = utilization(s.TotalServiceTime, workingDuration, capacity)

	return sum
}

func meanMax(values []float64) (mean, peak float64) {
	if len(values) == 0 {
		return 0, 0
	}

	for _, v := range values {
		mean += v
		if v > peak {
			peak = v
		}
	}

	return mean / float64(len(values)), peak
}

func utilization(busy, workingDuration float64, capacity int) float64 {
	available := workingDuration * float64(capacity)
	if available <= 0 || busy <= 0 {
		return 0
	}

	u := busy / available * 100
	if u > 100 {
		return 100
	}

	return u
}
