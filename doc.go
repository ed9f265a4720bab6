// Package drift implements an infinite, draggable canvas of album covers.
//
// The plane is divided into square sectors. Each sector deterministically
// yields a few tile positions, so any region can be regenerated on demand
// and only the tiles near the viewport ever exist. A drag controller turns
// pointer input into a pan offset with inertial momentum, and a hash over
// tile coordinates picks each tile's cover without repeating covers close
// together.
//
// # Quick start
//
// [Gallery] wires everything together. Drive it from any loop:
//
//	g := drift.NewGallery(drift.GalleryConfig{
//		Mode:   drift.PlacementAligned,
//		Roster: catalog.Roster(),
//	})
//	g.Resize(1024, 768, false, false)
//
//	for range ticker.C {
//		g.Update(16 * time.Millisecond)
//		for _, t := range g.Tiles() {
//			draw(t.Cover, t.Screen, t.Alpha)
//		}
//	}
//
// Forward pointer input with [Gallery.MouseDown], [Gallery.MouseMove],
// [Gallery.MouseUp] and the Touch equivalents. The ebitenhost and termhost
// packages do this for an Ebitengine window and a terminal respectively.
//
// # Placement
//
// [PlacementAligned] puts one tile per sector on a regular grid whose step
// is the tile size plus the gaps. [PlacementOrganic] scatters one to a few
// tiles per sector with a seeded, minimum-distance sampler. Both are pure
// functions of the sector coordinates: see [SamplePoints] and
// [ComputeVisibleTiles].
//
// # Motion
//
// [DragController] tracks one pointer at a time. On release it estimates a
// velocity from recent samples and decays it frame-rate independently until
// it falls below a threshold. An [AmbientScroller] can be attached as an
// external offset; it pauses while the user interacts and resumes once
// motion settles.
//
// # Devices
//
// [ClassifyDevice] buckets the host into desktop, tablet or mobile, and
// [DeviceProfile] carries every size-dependent constant for that class.
// Profiles are resolved once per resize.
//
// # Scripting
//
// [Gallery.InjectClick] and [Gallery.InjectDrag] queue synthetic input that
// is consumed one event per frame. [LoadTestScript] sequences such input
// with mode switches and screenshot requests from JSON.
package drift
