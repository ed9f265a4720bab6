package drift

import (
	"math"
	"strconv"
)

// Tile is one materialized point of the infinite plane: the sector it came
// from, its index within that sector, and its world-space center.
type Tile struct {
	SectorX, SectorY int
	PointIndex       int
	X, Y             float64
}

// TileKey is the render identity of a tile. It stays the same across
// virtualization passes for as long as the tile remains in range.
type TileKey struct {
	SectorX, SectorY int
	PointIndex       int
}

// Key returns the tile's identity.
func (t Tile) Key() TileKey {
	return TileKey{SectorX: t.SectorX, SectorY: t.SectorY, PointIndex: t.PointIndex}
}

// Center returns the tile's world-space center.
func (t Tile) Center() Vec2 {
	return Vec2{t.X, t.Y}
}

// Bounds returns the world-space rectangle of a w x h tile centered on t.
func (t Tile) Bounds(w, h float64) Rect {
	return Rect{X: t.X - w/2, Y: t.Y - h/2, Width: w, Height: h}
}

// String formats the key as "sectorX:sectorY:pointIndex".
func (k TileKey) String() string {
	return strconv.Itoa(k.SectorX) + ":" + strconv.Itoa(k.SectorY) + ":" + strconv.Itoa(k.PointIndex)
}

// SectorRange is an inclusive range of sector coordinates.
type SectorRange struct {
	StartX, EndX int
	StartY, EndY int
}

// Count returns the number of sectors in the range.
func (r SectorRange) Count() int {
	if r.EndX < r.StartX || r.EndY < r.StartY {
		return 0
	}
	return (r.EndX - r.StartX + 1) * (r.EndY - r.StartY + 1)
}

// Contains reports whether sector (x, y) lies in the range.
func (r SectorRange) Contains(x, y int) bool {
	return x >= r.StartX && x <= r.EndX && y >= r.StartY && y <= r.EndY
}

// VisibleSectors returns the sectors covering the viewport, expanded by
// buffer sectors on every side. The viewport's left edge in world space is
// -offset.X. Returns false when the viewport has no area or the sector
// dimensions are not positive.
func VisibleSectors(offset Vec2, viewport Size, sectorW, sectorH float64, buffer int) (SectorRange, bool) {
	if viewport.Empty() || sectorW <= 0 || sectorH <= 0 {
		return SectorRange{}, false
	}
	if buffer < 0 {
		buffer = 0
	}
	left := -offset.X
	top := -offset.Y
	return SectorRange{
		StartX: int(math.Floor(left/sectorW)) - buffer,
		EndX:   int(math.Ceil((left+viewport.Width)/sectorW)) + buffer,
		StartY: int(math.Floor(top/sectorH)) - buffer,
		EndY:   int(math.Ceil((top+viewport.Height)/sectorH)) + buffer,
	}, true
}

// ComputeVisibleTiles materializes every tile whose sector intersects the
// viewport plus bufferSectors of margin. A zero-area viewport yields an empty
// slice.
func ComputeVisibleTiles(offset Vec2, viewport Size, bufferSectors int, layout Layout) []Tile {
	return AppendVisibleTiles(nil, offset, viewport, bufferSectors, layout)
}

// AppendVisibleTiles is ComputeVisibleTiles appending into dst, so per-frame
// callers can reuse one buffer.
func AppendVisibleTiles(dst []Tile, offset Vec2, viewport Size, bufferSectors int, layout Layout) []Tile {
	w, h := layout.SectorDims()
	r, ok := VisibleSectors(offset, viewport, w, h, bufferSectors)
	if !ok {
		if dst == nil {
			return []Tile{}
		}
		return dst
	}

	var scratch [8]Vec2
	for sy := r.StartY; sy <= r.EndY; sy++ {
		for sx := r.StartX; sx <= r.EndX; sx++ {
			points := layout.appendSector(scratch[:0], sx, sy)
			for i, p := range points {
				dst = append(dst, Tile{
					SectorX:    sx,
					SectorY:    sy,
					PointIndex: i,
					X:          p.X,
					Y:          p.Y,
				})
			}
		}
	}
	if dst == nil {
		return []Tile{}
	}
	return dst
}
