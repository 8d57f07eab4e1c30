package grid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ddx-510/opencode-pixel-office/internal/grid"
)

// gridFromStrings builds a grid from a glyph map: '#'=blocked, '.'=floor,
// 'W'=work station, 'D'=door, 'E'=exit.
func gridFromStrings(t *testing.T, rows []string) *grid.Grid {
	t.Helper()
	classes := make([][]grid.Class, len(rows))
	for r, row := range rows {
		classes[r] = make([]grid.Class, len(row))
		for c, ch := range row {
			switch ch {
			case '.':
				classes[r][c] = grid.Floor
			case 'W':
				classes[r][c] = grid.WorkStation
			case 'D':
				classes[r][c] = grid.Door
			case 'E':
				classes[r][c] = grid.Exit
			default:
				classes[r][c] = grid.Blocked
			}
		}
	}
	return grid.FromClasses(classes, 32)
}

// bfsDistance is the brute-force shortest 4-connected distance in steps,
// or -1 when goal is unreachable.
func bfsDistance(g *grid.Grid, start, goal grid.Tile) int {
	if !g.Walkable(start) || !g.Walkable(goal) {
		return -1
	}
	dist := map[grid.Tile]int{start: 0}
	queue := []grid.Tile{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			return dist[cur]
		}
		for _, n := range []grid.Tile{
			{Row: cur.Row - 1, Col: cur.Col},
			{Row: cur.Row + 1, Col: cur.Col},
			{Row: cur.Row, Col: cur.Col - 1},
			{Row: cur.Row, Col: cur.Col + 1},
		} {
			if !g.Walkable(n) {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	return -1
}

var pathFixtures = [][]string{
	{
		".....",
		".....",
		".....",
		".....",
		".....",
	},
	{
		".....",
		".###.",
		".#W#.",
		".#.#.",
		".....",
	},
	{
		"..#..",
		"..#..",
		"..#..",
		"..D..",
		".....",
	},
	{
		"E.#.W",
		"..#..",
		"#.#.#",
		"..#..",
		"..#..",
	},
}

func TestFindPathMatchesBruteForceShortest(t *testing.T) {
	t.Parallel()

	for fi, fixture := range pathFixtures {
		g := gridFromStrings(t, fixture)
		for r1 := 0; r1 < g.Rows(); r1++ {
			for c1 := 0; c1 < g.Cols(); c1++ {
				for r2 := 0; r2 < g.Rows(); r2++ {
					for c2 := 0; c2 < g.Cols(); c2++ {
						start := grid.Tile{Row: r1, Col: c1}
						goal := grid.Tile{Row: r2, Col: c2}
						want := bfsDistance(g, start, goal)
						path := grid.FindPath(g, start, goal)
						if want < 0 {
							require.Empty(t, path, "fixture %d: %v->%v should be unreachable", fi, start, goal)
							continue
						}
						require.Len(t, path, want+1, "fixture %d: %v->%v", fi, start, goal)
						require.Equal(t, start, path[0])
						require.Equal(t, goal, path[len(path)-1])
						for i := 1; i < len(path); i++ {
							require.Equal(t, 1, path[i-1].Manhattan(path[i]),
								"fixture %d: path must be 4-connected", fi)
							require.True(t, g.Walkable(path[i]))
						}
					}
				}
			}
		}
	}
}

func TestFindPathDisconnectedReturnsEmpty(t *testing.T) {
	t.Parallel()

	g := gridFromStrings(t, []string{
		"..#..",
		"..#..",
		"..#..",
	})
	path := grid.FindPath(g, grid.Tile{Row: 0, Col: 0}, grid.Tile{Row: 0, Col: 4})
	require.Empty(t, path)
}

func TestFindPathBlockedEndpoints(t *testing.T) {
	t.Parallel()

	g := gridFromStrings(t, []string{
		".#.",
		"...",
	})
	require.Empty(t, grid.FindPath(g, grid.Tile{Row: 0, Col: 1}, grid.Tile{Row: 0, Col: 0}))
	require.Empty(t, grid.FindPath(g, grid.Tile{Row: 0, Col: 0}, grid.Tile{Row: 0, Col: 1}))
	require.Empty(t, grid.FindPath(g, grid.Tile{Row: -1, Col: 0}, grid.Tile{Row: 0, Col: 0}))
}

func TestFindPathSameStartAndGoal(t *testing.T) {
	t.Parallel()

	g := gridFromStrings(t, []string{"..."})
	path := grid.FindPath(g, grid.Tile{Row: 0, Col: 1}, grid.Tile{Row: 0, Col: 1})
	require.Equal(t, []grid.Tile{{Row: 0, Col: 1}}, path)
}

func TestFindPathDeterministic(t *testing.T) {
	t.Parallel()

	g := gridFromStrings(t, pathFixtures[1])
	start, goal := grid.Tile{Row: 0, Col: 0}, grid.Tile{Row: 4, Col: 4}
	first := grid.FindPath(g, start, goal)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, grid.FindPath(g, start, goal))
	}
}

func TestSimplifyPathCollapsesStraightRuns(t *testing.T) {
	t.Parallel()

	straight := []grid.Tile{{0, 0}, {0, 1}, {0, 2}, {0, 3}}
	require.Equal(t, []grid.Tile{{0, 0}, {0, 3}}, grid.SimplifyPath(straight))

	lShape := []grid.Tile{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}}
	require.Equal(t, []grid.Tile{{0, 0}, {0, 2}, {2, 2}}, grid.SimplifyPath(lShape))
}

func TestSimplifyPathShortInputsUnchanged(t *testing.T) {
	t.Parallel()

	require.Empty(t, grid.SimplifyPath(nil))
	one := []grid.Tile{{1, 1}}
	require.Equal(t, one, grid.SimplifyPath(one))
	two := []grid.Tile{{1, 1}, {1, 2}}
	require.Equal(t, two, grid.SimplifyPath(two))
}

func TestSimplifyPathIdempotentAndEndpointPreserving(t *testing.T) {
	t.Parallel()

	for _, fixture := range pathFixtures {
		g := gridFromStrings(t, fixture)
		start, ok := g.FirstWalkable()
		require.True(t, ok)
		for r := 0; r < g.Rows(); r++ {
			for c := 0; c < g.Cols(); c++ {
				goal := grid.Tile{Row: r, Col: c}
				path := grid.FindPath(g, start, goal)
				if len(path) == 0 {
					continue
				}
				simplified := grid.SimplifyPath(path)
				require.Equal(t, path[0], simplified[0])
				require.Equal(t, path[len(path)-1], simplified[len(simplified)-1])
				require.Equal(t, simplified, grid.SimplifyPath(simplified))
			}
		}
	}
}
