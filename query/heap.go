// Package query implements the document-at-a-time BM25 query evaluator:
// term preparation, the bounded top-K result heap, and the conjunctive
// (AND) and disjunctive (OR) evaluation algorithms.
package query

import "container/heap"

// Result is one scored document produced by a query evaluation.
type Result struct {
	DocID uint32
	Score float64
}

// resultHeap is a min-heap over Result ordered by ascending score, so the
// weakest of the current top-K sits at the root and can be evicted in
// O(log K) when a better match arrives, in the manner of the teacher's
// rangeIndexHeap (compare range_index_heap.go).
type resultHeap []Result

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(Result)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopKHeap bounds a result set to its K highest-scoring entries.
type TopKHeap struct {
	k int
	h resultHeap
}

// NewTopKHeap creates a heap that retains at most k results.
func NewTopKHeap(k int) *TopKHeap {
	return &TopKHeap{k: k}
}

// Offer considers (docID, score) for inclusion in the top-K, evicting the
// current minimum if the heap is already full and the new score is better.
func (t *TopKHeap) Offer(docID uint32, score float64) {
	if len(t.h) < t.k {
		heap.Push(&t.h, Result{DocID: docID, Score: score})
		return
	}
	if score > t.h[0].Score {
		heap.Pop(&t.h)
		heap.Push(&t.h, Result{DocID: docID, Score: score})
	}
}

// Results drains the heap into a slice sorted by descending score (highest
// first), matching the original's heapSort contract.
func (t *TopKHeap) Results() []Result {
	n := len(t.h)
	out := make([]Result, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(Result)
	}
	return out
}
