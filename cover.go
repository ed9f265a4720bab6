package drift

// Hash multipliers and moduli for cover selection. Each term mixes the tile
// coordinates with its own primes so the three hashes are independent.
const (
	coverA1, coverB1, coverC1, coverP1 = 7919, 104729, 1299709, 2147483647
	coverA2, coverB2, coverC2, coverP2 = 15485863, 32452843, 49979687, 1000000007
	coverA3, coverB3, coverC3, coverP3 = 86028121, 179424673, 275604541, 998244353

	// maxCoverVariants is how many perturbed inputs are tried before a
	// colliding first candidate is accepted.
	maxCoverVariants = 8
)

// CoverIndex maps tile coordinates to an index in [0, n). Returns -1 if n <= 0.
func CoverIndex(sectorX, sectorY, pointIndex, n int) int {
	if n <= 0 {
		return -1
	}
	x, y, i := int64(sectorX), int64(sectorY), int64(pointIndex)
	h1 := posMod(x*coverA1+y*coverB1+i*coverC1, coverP1)
	h2 := posMod(x*coverA2+y*coverB2+i*coverC2, coverP2)
	h3 := posMod(x*coverA3+y*coverB3+i*coverC3, coverP3)
	return int((h1 ^ h2 ^ h3) % int64(n))
}

// AssignCover picks the roster entry for a tile. When exclude is non-empty
// and the candidate is in it, perturbed inputs are tried; if every variant
// collides the first candidate is returned anyway. An empty roster yields "".
func AssignCover(sectorX, sectorY, pointIndex int, roster []ImageID, exclude map[ImageID]struct{}) ImageID {
	n := len(roster)
	if n == 0 {
		return ""
	}
	first := roster[CoverIndex(sectorX, sectorY, pointIndex, n)]
	if len(exclude) == 0 {
		return first
	}
	if _, hit := exclude[first]; !hit {
		return first
	}
	for k := 1; k <= maxCoverVariants; k++ {
		id := roster[CoverIndex(sectorX+k, sectorY+2*k, pointIndex+3*k, n)]
		if _, hit := exclude[id]; !hit {
			return id
		}
	}
	return first
}

// PlacedCover pairs a tile with the cover already assigned to it.
type PlacedCover struct {
	Tile  Tile
	Cover ImageID
}

// NearbyCovers returns the covers of placed tiles whose centers lie within
// radius of t. The tile itself (same key) is skipped.
func NearbyCovers(t Tile, placed []PlacedCover, radius float64) map[ImageID]struct{} {
	if radius <= 0 || len(placed) == 0 {
		return nil
	}
	r2 := radius * radius
	key := t.Key()
	var out map[ImageID]struct{}
	for _, p := range placed {
		if p.Tile.Key() == key || p.Cover == "" {
			continue
		}
		dx := p.Tile.X - t.X
		dy := p.Tile.Y - t.Y
		if dx*dx+dy*dy > r2 {
			continue
		}
		if out == nil {
			out = make(map[ImageID]struct{}, 4)
		}
		out[p.Cover] = struct{}{}
	}
	return out
}

// AssignCovers assigns a cover to every tile in order, each one avoiding the
// covers of earlier tiles within radius. A radius <= 0 disables avoidance.
// The result is parallel to tiles.
func AssignCovers(tiles []Tile, roster []ImageID, radius float64) []ImageID {
	out := make([]ImageID, len(tiles))
	placed := make([]PlacedCover, 0, len(tiles))
	for i, t := range tiles {
		exclude := NearbyCovers(t, placed, radius)
		out[i] = AssignCover(t.SectorX, t.SectorY, t.PointIndex, roster, exclude)
		placed = append(placed, PlacedCover{Tile: t, Cover: out[i]})
	}
	return out
}

func posMod(v, m int64) int64 {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}
