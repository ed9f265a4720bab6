package drift

import "math"

// VisibleBounds returns the world-space rectangle visible through a viewport
// of the given size when the world is translated by offset.
func VisibleBounds(offset Vec2, viewport Size) Rect {
	return Rect{X: -offset.X, Y: -offset.Y, Width: viewport.Width, Height: viewport.Height}
}

// WorldToScreen converts a world position to viewport coordinates.
func WorldToScreen(world, offset Vec2) Vec2 {
	return world.Add(offset)
}

// ScreenToWorld converts viewport coordinates to a world position.
func ScreenToWorld(screen, offset Vec2) Vec2 {
	return screen.Sub(offset)
}

// CenterOffset returns the offset that puts world point p at the center of
// the viewport.
func CenterOffset(p Vec2, viewport Size) Vec2 {
	return Vec2{X: viewport.Width/2 - p.X, Y: viewport.Height/2 - p.Y}
}

// HitTest returns the topmost tile whose w x h bounds contain the screen
// point. Later tiles in the slice are considered on top.
func HitTest(screen, offset Vec2, tiles []Tile, w, h float64) (Tile, bool) {
	p := ScreenToWorld(screen, offset)
	for i := len(tiles) - 1; i >= 0; i-- {
		if tiles[i].Bounds(w, h).Contains(p.X, p.Y) {
			return tiles[i], true
		}
	}
	return Tile{}, false
}

// EdgeScale shrinks tiles as their screen-space center approaches the
// viewport border. Inside fadeZone of the nearest edge the scale eases from
// 1 down to minScale with a smootherstep curve. A non-positive fadeZone or an
// empty viewport returns 1.
func EdgeScale(center Vec2, viewport Size, fadeZone, minScale float64) float64 {
	if fadeZone <= 0 || viewport.Empty() {
		return 1
	}
	d := math.Min(
		math.Min(center.X, viewport.Width-center.X),
		math.Min(center.Y, viewport.Height-center.Y),
	)
	if d >= fadeZone {
		return 1
	}
	t := math.Max(0, d) / fadeZone
	eased := t * t * t * (t*(t*6-15) + 10)
	return minScale + (1-minScale)*eased
}
