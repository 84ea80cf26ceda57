package mst

// unionFind is a disjoint-set over dense node IDs 0..n-1 with path
// compression and union by rank. It lives for one reduction only.
type unionFind struct {
	parent []int64
	rank   []uint8
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int64, n),
		rank:   make([]uint8, n),
	}
	for i := range uf.parent {
		uf.parent[i] = int64(i)
	}
	return uf
}

// find returns the representative of x's set
func (uf *unionFind) find(x int64) int64 {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// union merges the sets of x and y. It reports false when they were
// already joined, i.e. the edge x-y would close a cycle.
func (uf *unionFind) union(x, y int64) bool {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return false
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
	return true
}
