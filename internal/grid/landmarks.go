package grid

// Landmarks are the semantic points of interest derived from a classified
// Grid: raw work/door/exit tiles plus one representative center per
// connected work-station cluster.
//
// Computed once per map load; read-only thereafter.
type Landmarks struct {
	WorkTiles   []Tile `json:"workTiles"`
	WorkCenters []Tile `json:"workCenters"`
	DoorTiles   []Tile `json:"doorTiles"`
	ExitTiles   []Tile `json:"exitTiles"`
}

// ExtractLandmarks scans g once, collecting tiles by class, then flood-fills
// contiguous WorkStation tiles (4-connected) into clusters. Each cluster is
// reduced to the member tile nearest its floating-point centroid.
//
// Every WorkStation tile lands in exactly one cluster, so WorkCenters is
// non-empty whenever WorkTiles is.
func ExtractLandmarks(g *Grid) *Landmarks {
	lm := &Landmarks{}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			t := Tile{Row: r, Col: c}
			switch g.ClassAt(t) {
			case WorkStation:
				lm.WorkTiles = append(lm.WorkTiles, t)
			case Door:
				lm.DoorTiles = append(lm.DoorTiles, t)
			case Exit:
				lm.ExitTiles = append(lm.ExitTiles, t)
			}
		}
	}

	seen := make(map[Tile]bool, len(lm.WorkTiles))
	for _, start := range lm.WorkTiles {
		if seen[start] {
			continue
		}
		cluster := floodFill(g, start, seen)
		lm.WorkCenters = append(lm.WorkCenters, clusterCenter(cluster))
	}
	return lm
}

// floodFill collects the 4-connected WorkStation cluster containing start.
func floodFill(g *Grid, start Tile, seen map[Tile]bool) []Tile {
	var cluster []Tile
	stack := []Tile{start}
	seen[start] = true
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cluster = append(cluster, t)
		for _, n := range neighbors4(t) {
			if !seen[n] && g.ClassAt(n) == WorkStation {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return cluster
}

// clusterCenter picks the cluster member nearest the cluster centroid,
// by Manhattan distance. Scan order breaks ties, keeping the choice
// deterministic.
func clusterCenter(cluster []Tile) Tile {
	var sumR, sumC float64
	for _, t := range cluster {
		sumR += float64(t.Row)
		sumC += float64(t.Col)
	}
	cr := sumR / float64(len(cluster))
	cc := sumC / float64(len(cluster))

	best := cluster[0]
	bestDist := centroidDist(best, cr, cc)
	for _, t := range cluster[1:] {
		if d := centroidDist(t, cr, cc); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

func centroidDist(t Tile, cr, cc float64) float64 {
	dr := float64(t.Row) - cr
	if dr < 0 {
		dr = -dr
	}
	dc := float64(t.Col) - cc
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

func neighbors4(t Tile) [4]Tile {
	return [4]Tile{
		{Row: t.Row - 1, Col: t.Col},
		{Row: t.Row + 1, Col: t.Col},
		{Row: t.Row, Col: t.Col - 1},
		{Row: t.Row, Col: t.Col + 1},
	}
}
