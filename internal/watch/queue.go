// Package watch re-runs work for files as they change.
package watch

import "sync"

// Queue runs at most one job per key at a time. Jobs submitted for a key
// while one is running collapse into a single follow-up run of the most
// recently submitted job.
type Queue struct {
	mu    sync.Mutex
	slots map[string]*slot
	wg    sync.WaitGroup
}

type slot struct {
	pending bool
	next    func()
}

func NewQueue() *Queue {
	return &Queue{slots: map[string]*slot{}}
}

// Submit schedules job for key.
func (q *Queue) Submit(key string, job func()) {
	q.mu.Lock()
	if s, running := q.slots[key]; running {
		s.pending = true
		s.next = job
		q.mu.Unlock()
		return
	}
	q.slots[key] = &slot{}
	q.wg.Add(1)
	q.mu.Unlock()

	go q.drain(key, job)
}

func (q *Queue) drain(key string, job func()) {
	defer q.wg.Done()
	for {
		job()

		q.mu.Lock()
		s := q.slots[key]
		if !s.pending {
			delete(q.slots, key)
			q.mu.Unlock()
			return
		}
		s.pending = false
		job = s.next
		q.mu.Unlock()
	}
}

// Wait blocks until every submitted job, including follow-ups, has finished.
func (q *Queue) Wait() {
	q.wg.Wait()
}
