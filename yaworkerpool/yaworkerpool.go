// Package yaworkerpool runs submitted jobs on a fixed number of goroutines.
//
// Queued jobs are kept in a priority heap guarded by a condition variable; the queue
// is bounded, and Submit blocks until a slot frees up or its context ends. Shutdown
// stops accepting jobs and lets the workers drain everything already queued.
package yaworkerpool

import (
	"container/heap"
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

// Pool is a bounded priority worker pool.
type Pool struct {
	heap    jobHeap
	cond    *sync.Cond
	slots   chan struct{}
	done    chan struct{}
	closed  bool
	nextSeq atomic.Uint64
	running atomic.Int64
	workers sync.WaitGroup
	once    sync.Once
	log     yalogger.Logger
}

// New creates a Pool and starts its workers. Zero workers or queueSize fall back to
// DefaultWorkers and DefaultQueueSize.
//
// Example usage:
//
//	pool := yaworkerpool.New(8, 1024, log)
//	defer pool.Shutdown(ctx)
func New(workers uint, queueSize uint, log yalogger.Logger) *Pool {
	if workers == 0 {
		workers = DefaultWorkers
	}

	if queueSize == 0 {
		queueSize = DefaultQueueSize
	}

	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	pool := &Pool{
		heap:  make(jobHeap, 0, queueSize),
		cond:  sync.NewCond(&sync.Mutex{}),
		slots: make(chan struct{}, queueSize),
		done:  make(chan struct{}),
		log:   log,
	}

	for i := range workers {
		pool.workers.Add(1)

		go pool.worker(i)
	}

	return pool
}

// Submit queues job and returns its ID. It blocks while the queue is full.
//
// Example usage:
//
//	id, err := pool.Submit(ctx, yaworkerpool.Job{Priority: 1, Run: work})
//	if err != nil {
//	    // queue closed or ctx done
//	}
func (p *Pool) Submit(ctx context.Context, job Job) (uint64, yaerrors.Error) {
	if job.Run == nil {
		return 0, yaerrors.FromError(http.StatusBadRequest, ErrJobNil, "submit job")
	}

	select {
	case p.slots <- struct{}{}:
	case <-p.done:
		return 0, yaerrors.FromError(http.StatusServiceUnavailable, ErrPoolClosed, "submit job")
	case <-ctx.Done():
		return 0, yaerrors.FromError(http.StatusRequestTimeout, ctx.Err(), "submit job: waiting for queue slot")
	}

	p.cond.L.Lock()
	defer p.cond.L.Unlock()

	if p.closed {
		<-p.slots

		return 0, yaerrors.FromError(http.StatusServiceUnavailable, ErrPoolClosed, "submit job")
	}

	job.seq = p.nextSeq.Add(1)
	if job.ID == 0 {
		job.ID = job.seq
	}

	if job.Timestamp.IsZero() {
		job.Timestamp = time.Now()
	}

	heap.Push(&p.heap, job)
	p.cond.Signal()

	return job.ID, nil
}

// Len reports the number of queued jobs that no worker has picked up yet.
func (p *Pool) Len() int {
	p.cond.L.Lock()
	defer p.cond.L.Unlock()

	return p.heap.Len()
}

// Running reports the number of jobs currently executing.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// Shutdown stops accepting jobs and waits until every queued job has run or ctx ends.
// It is safe to call more than once.
func (p *Pool) Shutdown(ctx context.Context) yaerrors.Error {
	p.once.Do(func() {
		p.cond.L.Lock()
		p.closed = true
		close(p.done)
		p.cond.Broadcast()
		p.cond.L.Unlock()
	})

	drained := make(chan struct{})

	go func() {
		p.workers.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return yaerrors.FromError(
			http.StatusRequestTimeout,
			ctx.Err(),
			"worker pool shutdown: jobs still running",
		)
	}
}

func (p *Pool) worker(id uint) {
	defer p.workers.Done()

	log := p.log.WithField(yalogger.KeyWorkerID, id)

	for {
		p.cond.L.Lock()

		for p.heap.Len() == 0 && !p.closed {
			p.cond.Wait()
		}

		if p.heap.Len() == 0 {
			p.cond.L.Unlock()
			log.Trace("Worker stopping")

			return
		}

		job, _ := heap.Pop(&p.heap).(Job)
		p.cond.L.Unlock()

		<-p.slots

		p.run(job, log)
	}
}

func (p *Pool) run(job Job, log yalogger.Logger) {
	p.running.Add(1)
	defer p.running.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			log.WithField(yalogger.KeyJobID, job.ID).
				Errorf("Job panicked: %v", yaerrors.FromPanic(http.StatusInternalServerError, r, "job run"))
		}
	}()

	job.Run()
}
