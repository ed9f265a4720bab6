package drift

import "time"

// DeviceClass buckets hosts by screen size and input capability. Every
// size-dependent constant is resolved through a ProfileTable keyed by it.
type DeviceClass uint8

const (
	DeviceDesktop DeviceClass = iota
	DeviceTablet
	DeviceMobile
)

// String returns the class name.
func (c DeviceClass) String() string {
	switch c {
	case DeviceDesktop:
		return "desktop"
	case DeviceTablet:
		return "tablet"
	case DeviceMobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// Breakpoints in viewport width.
const (
	MobileBreakpoint = 768
	TabletBreakpoint = 1024
)

// ClassifyDevice picks a device class from the viewport width and the host's
// input capabilities. mobileAgent is the host's own guess that it runs on a
// phone or tablet OS.
func ClassifyDevice(width float64, touch, mobileAgent bool) DeviceClass {
	if width < MobileBreakpoint || (mobileAgent && touch) {
		return DeviceMobile
	}
	if width < TabletBreakpoint && touch {
		return DeviceTablet
	}
	return DeviceDesktop
}

// DeviceProfile is the full tuning for one device class.
type DeviceProfile struct {
	// Aligned and Organic are the layouts for each placement mode. Their
	// Mode fields are set by Layout.
	Aligned Layout
	Organic Layout

	// BufferSectors is the number of extra sectors materialized beyond the
	// viewport on every side.
	BufferSectors int

	Drag DragConfig

	// CoverRadius is how far apart two tiles must be before they may show
	// the same cover. Zero disables the check.
	CoverRadius float64

	// EdgeFadeZone and EdgeMinScale shape the shrink-towards-the-edges
	// effect. A zero fade zone disables it.
	EdgeFadeZone float64
	EdgeMinScale float64
}

// Layout returns the layout for mode.
func (p DeviceProfile) Layout(mode PlacementMode) Layout {
	l := p.Aligned
	if mode == PlacementOrganic {
		l = p.Organic
	}
	l.Mode = mode
	return l
}

// ProfileTable maps each device class to its profile.
type ProfileTable map[DeviceClass]DeviceProfile

// Lookup returns the profile for class, falling back to the desktop entry
// and then to the built-in defaults.
func (t ProfileTable) Lookup(class DeviceClass) DeviceProfile {
	if p, ok := t[class]; ok {
		return p
	}
	if p, ok := t[DeviceDesktop]; ok {
		return p
	}
	return DefaultProfiles()[class]
}

// DefaultProfiles returns the built-in table. Desktop tiles are 248x331 on a
// 400x400 aligned step; tablets tighten the gaps; phones use larger tiles,
// a smaller buffer, and snappier touch decay.
func DefaultProfiles() ProfileTable {
	desktopDrag := DefaultDragConfig()

	mobileDrag := DefaultDragConfig()
	mobileDrag.Lookback = 150 * time.Millisecond
	mobileDrag.TouchLookback = 100 * time.Millisecond
	mobileDrag.DecayFactor = 0.93
	mobileDrag.TouchDecayFactor = 0.92

	return ProfileTable{
		DeviceDesktop: {
			Aligned: Layout{
				TileWidth: 248, TileHeight: 331,
				GapX: 152, GapY: 69,
			},
			Organic: Layout{
				SectorSize:  900,
				TileWidth:   248,
				TileHeight:  331,
				MinDistance: 450,
				MaxAttempts: 30,
				MinPoints:   1,
				MaxPoints:   3,
			},
			BufferSectors: 2,
			Drag:          desktopDrag,
			CoverRadius:   900,
			EdgeFadeZone:  350,
			EdgeMinScale:  0.15,
		},
		DeviceTablet: {
			Aligned: Layout{
				TileWidth: 248, TileHeight: 331,
				GapX: 64, GapY: 64,
			},
			Organic: Layout{
				SectorSize:  720,
				TileWidth:   248,
				TileHeight:  331,
				MinDistance: 380,
				MaxAttempts: 30,
				MinPoints:   1,
				MaxPoints:   3,
			},
			BufferSectors: 2,
			Drag:          desktopDrag,
			CoverRadius:   700,
			EdgeFadeZone:  280,
			EdgeMinScale:  0.15,
		},
		DeviceMobile: {
			Aligned: Layout{
				TileWidth: 250, TileHeight: 350,
				GapX: 96, GapY: 96,
			},
			Organic: Layout{
				SectorSize:  600,
				TileWidth:   250,
				TileHeight:  350,
				MinDistance: 300,
				MaxAttempts: 30,
				MinPoints:   1,
				MaxPoints:   2,
			},
			BufferSectors: 1,
			Drag:          mobileDrag,
			CoverRadius:   600,
			EdgeFadeZone:  200,
			EdgeMinScale:  0.3,
		},
	}
}
