package grid

import "container/heap"

// FindPath returns a shortest 4-connected path from start to goal,
// inclusive of both endpoints.
//
// It runs A* with unit edge cost and the Manhattan heuristic (admissible
// and consistent on a uniform grid, so the result is a true shortest path).
// Any tile whose class is walkable is a valid step. An unreachable goal
// yields a nil path, never an error; callers decide how to degrade.
//
// Equal-cost nodes pop in insertion order, so the chosen path is
// deterministic for a given grid and endpoint pair.
func FindPath(g *Grid, start, goal Tile) []Tile {
	if !g.Walkable(start) || !g.Walkable(goal) {
		return nil
	}
	if start == goal {
		return []Tile{start}
	}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &node{tile: start, g: 0, f: start.Manhattan(goal)})

	cameFrom := make(map[Tile]Tile)
	gScore := map[Tile]int{start: 0}
	closed := make(map[Tile]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if cur.tile == goal {
			return reconstruct(cameFrom, goal)
		}
		if closed[cur.tile] {
			continue
		}
		closed[cur.tile] = true

		for _, n := range neighbors4(cur.tile) {
			if !g.Walkable(n) || closed[n] {
				continue
			}
			tentative := cur.g + 1
			if best, ok := gScore[n]; ok && tentative >= best {
				continue
			}
			gScore[n] = tentative
			cameFrom[n] = cur.tile
			heap.Push(open, &node{tile: n, g: tentative, f: tentative + n.Manhattan(goal)})
		}
	}
	return nil
}

func reconstruct(cameFrom map[Tile]Tile, goal Tile) []Tile {
	path := []Tile{goal}
	for {
		prev, ok := cameFrom[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, prev)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// SimplifyPath collapses consecutive same-direction steps into single runs,
// keeping only the first tile, direction-change points, and the last tile.
//
// Sprites step through the simplified waypoints, so arrival checks cost
// O(turns) instead of O(path length). Paths of length 0 or 1 come back
// unchanged. Applying SimplifyPath twice is a no-op.
func SimplifyPath(path []Tile) []Tile {
	if len(path) <= 2 {
		return path
	}
	out := []Tile{path[0]}
	dr, dc := path[1].Row-path[0].Row, path[1].Col-path[0].Col
	for i := 2; i < len(path); i++ {
		ndr, ndc := path[i].Row-path[i-1].Row, path[i].Col-path[i-1].Col
		if ndr != dr || ndc != dc {
			out = append(out, path[i-1])
			dr, dc = ndr, ndc
		}
	}
	return append(out, path[len(path)-1])
}

type node struct {
	tile Tile
	g    int
	f    int
	seq  int
}

// nodeHeap is a min-heap on f-score; ties pop in push order.
type nodeHeap struct {
	nodes []*node
	next  int
}

func (h *nodeHeap) Len() int { return len(h.nodes) }

func (h *nodeHeap) Less(i, j int) bool {
	if h.nodes[i].f != h.nodes[j].f {
		return h.nodes[i].f < h.nodes[j].f
	}
	return h.nodes[i].seq < h.nodes[j].seq
}

func (h *nodeHeap) Swap(i, j int) { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }

func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.seq = h.next
	h.next++
	h.nodes = append(h.nodes, n)
}

func (h *nodeHeap) Pop() any {
	old := h.nodes
	n := old[len(old)-1]
	h.nodes = old[:len(old)-1]
	return n
}
