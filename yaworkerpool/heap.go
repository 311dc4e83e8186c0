package yaworkerpool

import "time"

// Job is a unit of work queued in the pool.
// Lower Priority runs first; equal priorities run in submission order.
type Job struct {
	ID        uint64
	Priority  int
	Timestamp time.Time
	Run       func()

	seq uint64
}

type jobHeap []Job

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i int, j int) bool {
	if h[i].Priority == h[j].Priority {
		return h[i].seq < h[j].seq
	}

	return h[i].Priority < h[j].Priority
}

func (h jobHeap) Swap(i int, j int) { h[i], h[j] = h[j], h[i] }

func (h *jobHeap) Push(x any) {
	job, ok := x.(Job)
	if !ok {
		return
	}

	*h = append(*h, job)
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = Job{}
	*h = old[:n-1]

	return x
}
