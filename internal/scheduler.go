package internal

import "sort"

// recursionLimit bounds how many times a single job may re-enqueue itself
// within one flush before it is reported and skipped for the rest of that
// flush.
const recursionLimit = 100

// Job is a unit of scheduled work. Identity is by pointer: the same *Job
// passed to QueueJob twice is the dedup key.
type Job struct {
	// ID orders jobs ascending; nil sorts after every non-nil id (runs
	// last — "if id == nil, append" generalized to flushJobs' global
	// sort).
	ID *int64
	// Pre breaks ties at equal id: pre jobs run before non-pre jobs.
	Pre bool
	// Active false means "skip, don't remove" — flushJobs steps over it.
	Active bool
	// AllowRecurse permits requeuing this exact job while it is running.
	AllowRecurse bool
	// OwnerInstance is opaque debug context (e.g. which component queued
	// this), consulted only by FlushPreFlushCbs' owner filter.
	OwnerInstance any

	Fn func()
}

// Callback is a post-flush callback, identity by pointer like Job.
type Callback struct {
	Fn func() //nolint:structcheck
}

// flushTicket is the microtask-boundary handle NextTick waits on.
type flushTicket struct {
	done chan struct{}
}

// Scheduler holds the ordered effect queue, post-flush queue, and flush
// state (spec component C6).
type Scheduler struct {
	rt *Runtime

	queue      []*Job
	flushIndex int

	pendingPostFlushCbs []*Callback
	activePostFlushCbs  []*Callback
	postFlushIndex      int
	inPostFlush         bool

	isFlushing    bool
	isFlushPending bool
	currentFlush  *flushTicket

	recursionCounts map[*Job]int

	deferredSchedulers []func()
}

// NewScheduler returns an empty scheduler bound to rt.
func NewScheduler(rt *Runtime) *Scheduler {
	return &Scheduler{rt: rt, recursionCounts: make(map[*Job]int)}
}

// containsFrom reports whether job is already queued at or after from.
func (s *Scheduler) containsFrom(job *Job, from int) bool {
	for i := from; i < len(s.queue); i++ {
		if s.queue[i] == job {
			return true
		}
	}
	return false
}

func jobLess(a, b *Job) bool {
	switch {
	case a.ID == nil && b.ID == nil:
		return false
	case a.ID == nil:
		return false
	case b.ID == nil:
		return true
	case *a.ID != *b.ID:
		return *a.ID < *b.ID
	default:
		// equal id: pre sorts before non-pre
		return a.Pre && !b.Pre
	}
}

// QueueJob inserts job in sorted (id, pre) position, deduplicating against
// anything already queued from the current flush position onward, then
// requests a flush. Never inserts at an index <= flushIndex: an
// already-passed or currently-executing slot in this flush cannot be
// rescheduled into.
func (s *Scheduler) QueueJob(job *Job) {
	from := s.flushIndex
	if s.isFlushing && job.AllowRecurse {
		from = s.flushIndex + 1
	}
	if s.containsFrom(job, from) {
		s.QueueFlush()
		return
	}

	if job.ID == nil {
		s.queue = append(s.queue, job)
	} else {
		lo := s.flushIndex + 1
		if lo > len(s.queue) {
			lo = len(s.queue)
		}
		idx := lo + sort.Search(len(s.queue)-lo, func(i int) bool {
			existing := s.queue[lo+i]
			if existing.ID == nil {
				return true
			}
			if *existing.ID != *job.ID {
				return *existing.ID > *job.ID
			}
			return !existing.Pre
		})
		s.queue = append(s.queue, nil)
		copy(s.queue[idx+1:], s.queue[idx:])
		s.queue[idx] = job
	}

	s.QueueFlush()
}

// QueueFlush requests a flush on the next microtask if one isn't already
// running or pending.
func (s *Scheduler) QueueFlush() {
	if s.isFlushing || s.isFlushPending {
		return
	}
	s.isFlushPending = true

	ticket := &flushTicket{done: make(chan struct{})}
	s.currentFlush = ticket

	rt := s.rt
	go func() {
		rt.Do(func() {
			s.flushJobs()
		})
		close(ticket.done)
	}()
}

// QueuePostFlushCb appends cb to the pending post-flush buffer (deduped
// against the active snapshot when one is draining) and requests a flush.
func (s *Scheduler) QueuePostFlushCb(cb *Callback) {
	from := 0
	if s.inPostFlush {
		from = s.postFlushIndex + 1
	}
	for i := from; i < len(s.activePostFlushCbs); i++ {
		if s.activePostFlushCbs[i] == cb {
			s.QueueFlush()
			return
		}
	}

	s.pendingPostFlushCbs = append(s.pendingPostFlushCbs, cb)
	s.QueueFlush()
}

// InvalidateJob removes job if it is still queued ahead of the currently
// executing slot; an already-running job cannot be cancelled.
func (s *Scheduler) InvalidateJob(job *Job) {
	for i := s.flushIndex + 1; i < len(s.queue); i++ {
		if s.queue[i] == job {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// flushJobs is the microtask body: sorts the queue, runs each active job
// under the recursion guard and error handler, then drains post-flush
// callbacks. If new work arrived during the drain, it recurses.
func (s *Scheduler) flushJobs() {
	s.isFlushPending = false
	s.isFlushing = true

	sort.SliceStable(s.queue, func(i, j int) bool {
		return jobLess(s.queue[i], s.queue[j])
	})

	for s.flushIndex = 0; s.flushIndex < len(s.queue); s.flushIndex++ {
		job := s.queue[s.flushIndex]
		if job == nil || !job.Active {
			continue
		}

		if s.checkRecursion(job) {
			continue
		}

		s.runJob(job)
	}

	s.flushIndex = 0
	s.queue = s.queue[:0]

	s.flushPostFlushCbs()

	s.isFlushing = false
	s.currentFlush = nil
	s.recursionCounts = make(map[*Job]int)

	if len(s.queue) > 0 || len(s.pendingPostFlushCbs) > 0 {
		s.flushJobs()
	}
}

func (s *Scheduler) runJob(job *Job) {
	defer func() {
		if r := recover(); r != nil {
			s.rt.reportError(r, ErrorInfo{Code: ErrCodeScheduler, Context: job})
		}
	}()
	job.Fn()
}

// checkRecursion reports whether job has now exceeded recursionLimit
// re-entries within this flush; if so it reports the breach and the
// caller should skip running it for the rest of the flush.
func (s *Scheduler) checkRecursion(job *Job) bool {
	s.recursionCounts[job]++
	if s.recursionCounts[job] > recursionLimit+1 {
		s.rt.reportError(
			"possible infinite recursive update",
			ErrorInfo{Code: ErrCodeAppErrorHandler, Context: job},
		)
		return true
	}
	return false
}

// flushPostFlushCbs dedupes pendingPostFlushCbs into a snapshot that keeps
// queue order (callbacks carry no id, so nothing is sorted) and runs it.
// Re-entrant calls (a post-flush cb that itself calls FlushPostFlushCbs)
// append to the currently-draining snapshot instead of recursing; a cb
// queued during the drain stays pending and runs in flushJobs' follow-up
// pass.
func (s *Scheduler) flushPostFlushCbs() {
	if len(s.pendingPostFlushCbs) == 0 {
		return
	}

	dedup := dedupeCallbacks(s.pendingPostFlushCbs)
	s.pendingPostFlushCbs = nil

	if s.inPostFlush {
		s.activePostFlushCbs = append(s.activePostFlushCbs, dedup...)
		return
	}

	s.activePostFlushCbs = dedup
	s.inPostFlush = true

	for s.postFlushIndex = 0; s.postFlushIndex < len(s.activePostFlushCbs); s.postFlushIndex++ {
		s.activePostFlushCbs[s.postFlushIndex].Fn()
	}

	s.activePostFlushCbs = nil
	s.postFlushIndex = 0
	s.inPostFlush = false
}

// FlushPostFlushCbs forces synchronous execution of every pending
// post-flush callback right now, the forcing-function counterpart to
// FlushPreFlushCbs for the post-flush queue.
func (s *Scheduler) FlushPostFlushCbs() {
	s.flushPostFlushCbs()
}

func dedupeCallbacks(cbs []*Callback) []*Callback {
	seen := make(map[*Callback]bool, len(cbs))
	out := make([]*Callback, 0, len(cbs))
	for _, cb := range cbs {
		if seen[cb] {
			continue
		}
		seen[cb] = true
		out = append(out, cb)
	}
	return out
}

// FlushPreFlushCbs forces synchronous execution of every queued pre job
// from i onward (default flushIndex+1 if currently flushing, else 0),
// optionally restricted to jobs owned by owner.
func (s *Scheduler) FlushPreFlushCbs(owner any, i int) {
	if i < 0 {
		if s.isFlushing {
			i = s.flushIndex + 1
		} else {
			i = 0
		}
	}

	for i < len(s.queue) {
		job := s.queue[i]
		if job != nil && job.Pre && (owner == nil || job.OwnerInstance == owner) {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			if i <= s.flushIndex {
				s.flushIndex--
			}
			s.runJob(job)
			continue
		}
		i++
	}
}

// NextTick returns a channel that closes once fn has run. fn runs after
// the flush currently in flight completes (or, if nothing is pending,
// after one microtask-equivalent deferral) — the Go stand-in for
// `(currentFlushPromise ?? resolvedMicrotask).then(fn)`.
func (s *Scheduler) NextTick(fn func()) <-chan struct{} {
	out := make(chan struct{})

	ticket := s.currentFlush
	go func() {
		if ticket != nil {
			<-ticket.done
		}
		if fn != nil {
			fn()
		}
		close(out)
	}()

	return out
}
