// Package worker provides the fixed-size pool that runs the
// parse/match/dispatch pipeline for ingested events.
package worker

import (
	"errors"
	"log"
	"sync"
	"time"
)

const (
	queueSize = 1024
	// drainGrace bounds how long a resize waits for the previous
	// generation of workers before abandoning them.
	defaultDrainGrace = 5 * time.Second
)

var (
	ErrShutdown  = errors.New("worker pool is shut down")
	ErrQueueFull = errors.New("worker queue is full")
)

// Pool runs submitted tasks on a fixed number of goroutines. Changing the
// size swaps in a fresh generation of workers: the old task channel is
// closed, drained for a grace period, and whatever is still running after
// that is abandoned rather than awaited.
type Pool struct {
	mu    sync.Mutex
	size  int
	tasks chan func()
	wg    *sync.WaitGroup

	DrainGrace time.Duration
}

func NewPool(size int) *Pool {
	p := &Pool{DrainGrace: defaultDrainGrace}
	p.start(size)
	return p
}

// Size returns the current worker count.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

// Submit enqueues a task for the current worker generation.
func (p *Pool) Submit(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tasks == nil {
		return ErrShutdown
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Resize swaps in a new generation of workers when the requested size
// differs from the current one. It is also how a shut-down pool is
// revived.
func (p *Pool) Resize(size int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tasks != nil && size == p.size {
		return
	}
	p.stopLocked()
	p.start(size)
	log.Printf("INFO: Worker pool resized to %d", size)
}

// Shutdown stops accepting work and drains for the grace period.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Pool) start(size int) {
	if size < 1 {
		size = 1
	}
	tasks := make(chan func(), queueSize)
	wg := &sync.WaitGroup{}
	for i := 0; i < size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				task()
			}
		}()
	}
	p.size = size
	p.tasks = tasks
	p.wg = wg
}

func (p *Pool) stopLocked() {
	if p.tasks == nil {
		return
	}
	close(p.tasks)
	done := make(chan struct{})
	wg := p.wg
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(p.DrainGrace):
		log.Printf("ERROR: Worker pool drain exceeded %s, abandoning in-flight tasks", p.DrainGrace)
	}
	p.tasks = nil
	p.wg = nil
	p.size = 0
}
