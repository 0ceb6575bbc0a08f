// Package pqueue implements an indexed binary max-heap: a priority queue
// over a fixed universe of integer keys [0, K) whose priorities are
// floating point scores, supporting increase-key, removal, re-insertion and
// pop-max.
//
// It is built on top of github.com/rhartert/yagh: yagh.IntMap is a min-heap
// over (key, priority) pairs, so scores are negated on the way in and out
// to turn it into a max-heap. Ties between equal priorities break towards
// the lower key, which keeps decisions reproducible across runs.
package pqueue

import "github.com/rhartert/yagh"

// Queue is an indexed max-heap over keys in [0, K).
type Queue struct {
	heap   *yagh.IntMap[float64]
	scores []float64 // last known priority per key, used by Add/Increase
	k      int
}

// New returns an empty queue with capacity for k keys, none of them present.
// Keys must be added with Add before they can be popped.
func New(k int) *Queue {
	return &Queue{
		heap:   yagh.New[float64](k),
		scores: make([]float64, k),
		k:      k,
	}
}

// Build returns a queue over len(initialScores) keys, where key i starts
// with priority initialScores[i]. Keys with a score of 0 still occupy the
// heap. Keys are inserted one at a time, so construction takes
// O(K log K) time in the worst case, not linear time.
func Build(initialScores []float64) *Queue {
	q := New(len(initialScores))
	for key, score := range initialScores {
		q.scores[key] = score
		q.heap.Put(key, -score)
	}
	return q
}

// Grow extends the queue's key universe to k, without inserting the new
// keys: callers must Add them explicitly.
func (q *Queue) Grow(k int) {
	if k <= q.k {
		return
	}
	q.heap.GrowBy(k - q.k)
	for len(q.scores) < k {
		q.scores = append(q.scores, 0)
	}
	q.k = k
}

// Contains reports whether key is currently present in the queue (i.e. it
// would be a candidate for PopMax).
func (q *Queue) Contains(key int) bool {
	return q.heap.Contains(key)
}

// PopMax returns the key with the largest priority and removes it from the
// queue. The second return value is false if the queue is empty.
func (q *Queue) PopMax() (int, bool) {
	entry, ok := q.heap.Pop()
	if !ok {
		return 0, false
	}
	return entry.Elem, true
}

// Remove logically removes key from the queue. It is a no-op if key is
// already absent. Subsequent calls to PopMax will not return it.
func (q *Queue) Remove(key int) {
	if !q.heap.Contains(key) {
		return
	}
	q.heap.Remove(key)
}

// Add re-inserts a previously removed key. Its priority is initialized to 0
// and then bumped by value.
func (q *Queue) Add(key int, value float64) {
	q.scores[key] = value
	q.heap.Put(key, -value)
}

// Increase adds delta (which may be negative) to key's priority and restores
// the heap invariant. The caller promises a non-decreasing priority overall
// for ordering purposes; this call alone does not enforce that. It is a
// no-op if key is not currently present in the queue.
func (q *Queue) Increase(key int, delta float64) {
	if !q.heap.Contains(key) {
		return
	}
	q.scores[key] += delta
	q.heap.Put(key, -q.scores[key])
}

// Score returns the last priority recorded for key, whether or not key is
// currently present in the queue.
func (q *Queue) Score(key int) float64 {
	return q.scores[key]
}

// Len returns the number of keys currently present in the queue.
func (q *Queue) Len() int {
	return q.heap.Size()
}
