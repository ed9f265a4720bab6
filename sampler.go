package drift

import "math"

// PlacementMode selects how points are laid out inside each sector.
type PlacementMode uint8

const (
	PlacementAligned PlacementMode = iota // one centered point per tile-sized sector
	PlacementOrganic                      // seeded scatter with a minimum spacing
)

// String returns the mode name.
func (m PlacementMode) String() string {
	switch m {
	case PlacementAligned:
		return "aligned"
	case PlacementOrganic:
		return "organic"
	default:
		return "unknown"
	}
}

// Toggle returns the other placement mode.
func (m PlacementMode) Toggle() PlacementMode {
	if m == PlacementOrganic {
		return PlacementAligned
	}
	return PlacementOrganic
}

// ParsePlacementMode converts "aligned" or "organic" to a PlacementMode.
// Unknown names fall back to PlacementAligned and ok=false.
func ParsePlacementMode(name string) (mode PlacementMode, ok bool) {
	switch name {
	case "aligned", "grid":
		return PlacementAligned, true
	case "organic":
		return PlacementOrganic, true
	default:
		return PlacementAligned, false
	}
}

const (
	defaultMaxAttempts = 30
	organicSeedStride  = 1000
)

// Layout holds every parameter the sampler needs. It is a plain value: the
// same Layout and sector coordinates always produce the same points.
type Layout struct {
	Mode PlacementMode

	// SectorSize is the side length of an organic sector in world units.
	SectorSize float64

	// TileWidth and TileHeight are the render size of one tile. GapX and
	// GapY are the minimum free space between neighbouring tiles in aligned
	// mode; together they define the aligned sector step.
	TileWidth, TileHeight float64
	GapX, GapY            float64

	// MinDistance is the minimum spacing between organic points that share a
	// sector. Points in different sectors are not checked against each other.
	MinDistance float64

	// MaxAttempts bounds the number of candidates tried per sector.
	// Zero means 30.
	MaxAttempts int

	// MinPoints and MaxPoints bound the organic target count (inclusive).
	// Zero values mean 1 and 3.
	MinPoints, MaxPoints int
}

// SectorDims returns the world-space width and height of one sector.
func (l Layout) SectorDims() (w, h float64) {
	if l.Mode == PlacementAligned {
		return l.TileWidth + l.GapX, l.TileHeight + l.GapY
	}
	return l.SectorSize, l.SectorSize
}

// TileSize returns the render size of a tile.
func (l Layout) TileSize() Size {
	return Size{Width: l.TileWidth, Height: l.TileHeight}
}

func (l Layout) pointBounds() (lo, hi int) {
	lo, hi = l.MinPoints, l.MaxPoints
	if lo <= 0 {
		lo = 1
	}
	if hi <= 0 {
		hi = 3
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func (l Layout) attempts() int {
	if l.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return l.MaxAttempts
}

// SamplePoints returns the tile centers that live in sector (sectorX, sectorY).
// The result depends only on its arguments; the emission order is stable and
// defines each point's index within the sector.
func SamplePoints(sectorX, sectorY int, layout Layout) []Vec2 {
	return layout.appendSector(nil, sectorX, sectorY)
}

// appendSector appends the sector's points to dst.
func (l Layout) appendSector(dst []Vec2, sectorX, sectorY int) []Vec2 {
	w, h := l.SectorDims()
	if w <= 0 || h <= 0 {
		return dst
	}
	if l.Mode == PlacementAligned {
		return append(dst, Vec2{
			X: float64(sectorX)*w + w/2,
			Y: float64(sectorY)*h + h/2,
		})
	}
	return l.appendOrganic(dst, sectorX, sectorY)
}

// appendOrganic places up to the target count of points by rejection
// sampling against the points already accepted in this sector.
func (l Layout) appendOrganic(dst []Vec2, sectorX, sectorY int) []Vec2 {
	size := l.SectorSize
	seed := float64(sectorX*organicSeedStride + sectorY)

	lo, hi := l.pointBounds()
	target := lo + int(math.Floor(seededRandom(seed+1)*float64(hi-lo+1)))
	if target > hi {
		target = hi
	}

	base := len(dst)
	minDist2 := l.MinDistance * l.MinDistance
	originX := float64(sectorX) * size
	originY := float64(sectorY) * size

	for attempt := 0; attempt < l.attempts() && len(dst)-base < target; attempt++ {
		a := float64(attempt * 2)
		candidate := Vec2{
			X: originX + seededRandom(seed+a)*size,
			Y: originY + seededRandom(seed+a+1)*size,
		}
		if farEnough(candidate, dst[base:], minDist2) {
			dst = append(dst, candidate)
		}
	}
	return dst
}

// farEnough reports whether c is at least sqrt(minDist2) from every point.
func farEnough(c Vec2, points []Vec2, minDist2 float64) bool {
	for _, p := range points {
		dx := c.X - p.X
		dy := c.Y - p.Y
		if dx*dx+dy*dy < minDist2 {
			return false
		}
	}
	return true
}

// seededRandom maps a seed to [0, 1). Same seed, same value, on every run.
func seededRandom(seed float64) float64 {
	x := math.Sin(seed) * 10000
	return x - math.Floor(x)
}
