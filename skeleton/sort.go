package skeleton

import (
	"container/heap"
	"sort"
)

// SortPMXBones splits bones into the before-physics and after-physics
// schedules, each ordered by layer then index. A bone whose parent is in the
// same schedule but would run later is moved behind that parent.
func SortPMXBones(bones []*PMXBone) (before, after []*PMXBone) {
	ordered := append([]*PMXBone(nil), bones...)
	sort.SliceStable(ordered, func(i, j int) bool {
		l, r := ordered[i], ordered[j]
		if l.layer != r.layer {
			return l.layer < r.layer
		}
		return l.index < r.index
	})
	for _, b := range ordered {
		if b.TransformAfterPhysics() {
			after = append(after, b)
		} else {
			before = append(before, b)
		}
	}
	return parentFirstPMX(before), parentFirstPMX(after)
}

func parentFirstPMX(bones []*PMXBone) []*PMXBone {
	rank := make(map[int]int, len(bones))
	for i, b := range bones {
		rank[b.index] = i
	}
	order := parentFirst(len(bones), func(i int) int {
		if r, ok := rank[bones[i].parentIndex]; ok {
			return r
		}
		return -1
	})
	sorted := make([]*PMXBone, len(order))
	for i, r := range order {
		sorted[i] = bones[r]
	}
	return sorted
}

// SortPMDBones returns the bones in index order with every parent before its children.
func SortPMDBones(bones []*PMDBone) []*PMDBone {
	order := parentFirst(len(bones), func(i int) int {
		if p := bones[i].parentIndex; p >= 0 && p < len(bones) {
			return p
		}
		return -1
	})
	sorted := make([]*PMDBone, len(order))
	for i, r := range order {
		sorted[i] = bones[r]
	}
	return sorted
}

type rankHeap []int

func (h rankHeap) Len() int            { return len(h) }
func (h rankHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h rankHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rankHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *rankHeap) Pop() interface{} {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// parentFirst returns the ranks 0..n-1 in ascending order, except that a rank
// is never emitted before its parent's rank. parent returns -1 for none.
// Ranks caught in a cycle are appended in rank order.
func parentFirst(n int, parent func(int) int) []int {
	children := make([][]int, n)
	pending := make([]bool, n)
	for i := 0; i < n; i++ {
		if p := parent(i); p >= 0 && p != i {
			children[p] = append(children[p], i)
			pending[i] = true
		}
	}
	h := &rankHeap{}
	for i := 0; i < n; i++ {
		if !pending[i] {
			heap.Push(h, i)
		}
	}
	order := make([]int, 0, n)
	emitted := make([]bool, n)
	for h.Len() > 0 {
		i := heap.Pop(h).(int)
		order = append(order, i)
		emitted[i] = true
		for _, c := range children[i] {
			heap.Push(h, c)
		}
	}
	for i := 0; i < n; i++ {
		if !emitted[i] {
			order = append(order, i)
		}
	}
	return order
}
