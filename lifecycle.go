package drift

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	appearMaxDelay    = 1500 * time.Millisecond
	appearMinDuration = 800 * time.Millisecond
	appearSpread      = 800 * time.Millisecond

	defaultExitDuration = 200 * time.Millisecond
)

// AppearTiming returns the entrance delay and duration for the tile at
// sector (sectorX, sectorY). Neighbouring sectors get scattered timings so a
// freshly revealed area pops in unevenly rather than all at once.
func AppearTiming(sectorX, sectorY int) (delay, duration time.Duration) {
	s1 := float64(absInt((sectorX*17+sectorY*23)%1000)) / 1000
	s2 := float64(absInt((sectorX*31+sectorY*41)%1000)) / 1000
	delay = time.Duration(s1 * float64(appearMaxDelay))
	duration = appearMinDuration + time.Duration(s2*float64(appearSpread))
	return delay, duration
}

// TileState is the per-key render state kept across virtualization passes.
type TileState struct {
	Key   TileKey
	Tile  Tile
	Cover ImageID

	// Scale and Alpha are the current entrance/exit animation values.
	Scale float64
	Alpha float64

	// Exiting is set once the key has left the visible set; the state is
	// dropped when its fade completes.
	Exiting bool

	delay  time.Duration
	appear *gween.Tween
	exit   *gween.Tween
}

// Appearing reports whether the entrance animation has not finished. An
// exiting tile keeps its entrance paused so a revival resumes it.
func (s *TileState) Appearing() bool {
	return s.appear != nil
}

// Diff is the change in the visible key set between two passes.
type Diff struct {
	Entered  []TileKey
	Exited   []TileKey
	Retained []TileKey
}

// Tracker keeps tile identity stable across recomputations so a renderer
// only animates keys that genuinely appear or disappear.
type Tracker struct {
	// Animate enables entrance and exit tweens. When false, tiles appear at
	// full scale and are dropped as soon as they leave.
	Animate bool

	// ExitDuration is the fade-out length for leaving tiles.
	ExitDuration time.Duration

	states  map[TileKey]*TileState
	order   []TileKey
	prev    []TileKey
	seen    map[TileKey]struct{}
	exiting []TileKey // in the order the tiles started fading

	// dropped holds states removed by the last Sync without an exit fade.
	dropped map[TileKey]*TileState
}

// NewTracker creates an empty tracker with animations enabled.
func NewTracker() *Tracker {
	return &Tracker{
		Animate:      true,
		ExitDuration: defaultExitDuration,
		states:       make(map[TileKey]*TileState),
		seen:         make(map[TileKey]struct{}),
		dropped:      make(map[TileKey]*TileState),
	}
}

// Sync compares tiles against the previous pass. New keys get fresh state;
// keys still present keep theirs untouched; missing keys start exiting.
func (t *Tracker) Sync(tiles []Tile) Diff {
	var diff Diff

	clear(t.seen)
	clear(t.dropped)
	t.prev, t.order = t.order, t.prev[:0]
	for _, tile := range tiles {
		key := tile.Key()
		if _, dup := t.seen[key]; dup {
			continue
		}
		t.seen[key] = struct{}{}
		t.order = append(t.order, key)

		st, ok := t.states[key]
		switch {
		case !ok:
			t.states[key] = t.newState(tile)
			diff.Entered = append(diff.Entered, key)
		case st.Exiting:
			st.Exiting = false
			st.exit = nil
			st.Alpha = 1
			st.Tile = tile
			diff.Entered = append(diff.Entered, key)
		default:
			st.Tile = tile
			diff.Retained = append(diff.Retained, key)
		}
	}

	t.pruneExiting()

	for _, key := range t.prev {
		st, ok := t.states[key]
		if !ok || st.Exiting {
			continue
		}
		if _, ok := t.seen[key]; ok {
			continue
		}
		diff.Exited = append(diff.Exited, key)
		if !t.Animate {
			t.dropped[key] = st
			delete(t.states, key)
			continue
		}
		st.Exiting = true
		st.exit = gween.New(float32(st.Alpha), 0, float32(t.exitDuration().Seconds()), ease.Linear)
		t.exiting = append(t.exiting, key)
	}
	return diff
}

func (t *Tracker) newState(tile Tile) *TileState {
	st := &TileState{Key: tile.Key(), Tile: tile, Scale: 1, Alpha: 1}
	if t.Animate {
		delay, dur := AppearTiming(tile.SectorX, tile.SectorY)
		st.Scale = 0
		st.delay = delay
		st.appear = gween.New(0, 1, float32(dur.Seconds()), ease.OutBack)
	}
	return st
}

// Advance steps every entrance and exit animation by dt and forgets tiles
// whose exit has completed.
func (t *Tracker) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	removed := false
	for key, st := range t.states {
		if st.exit != nil {
			val, done := st.exit.Update(float32(dt.Seconds()))
			st.Alpha = math.Max(0, float64(val))
			if done {
				delete(t.states, key)
				removed = true
			}
			continue
		}
		if st.appear == nil {
			continue
		}
		step := dt
		if st.delay > 0 {
			if step <= st.delay {
				st.delay -= step
				continue
			}
			step -= st.delay
			st.delay = 0
		}
		val, done := st.appear.Update(float32(step.Seconds()))
		st.Scale = float64(val)
		if done {
			st.Scale = 1
			st.appear = nil
		}
	}
	if removed {
		t.pruneExiting()
	}
}

// State returns the render state for key, including exiting tiles.
func (t *Tracker) State(key TileKey) (*TileState, bool) {
	st, ok := t.states[key]
	return st, ok
}

// Departed returns the final state of a key that the last Sync removed
// without an exit animation.
func (t *Tracker) Departed(key TileKey) (*TileState, bool) {
	st, ok := t.dropped[key]
	return st, ok
}

// Keys returns the visible keys from the last Sync in tile order. The
// returned slice MUST NOT be mutated.
func (t *Tracker) Keys() []TileKey {
	return t.order
}

// Exiting returns the keys that are fading out. The returned slice MUST NOT
// be mutated.
func (t *Tracker) Exiting() []TileKey {
	return t.exiting
}

// Len returns the number of tracked states, exiting ones included.
func (t *Tracker) Len() int {
	return len(t.states)
}

// Reset forgets every tile, so the next Sync reports all keys as entered.
func (t *Tracker) Reset() {
	clear(t.states)
	clear(t.seen)
	clear(t.dropped)
	t.order = t.order[:0]
	t.prev = t.prev[:0]
	t.exiting = t.exiting[:0]
}

// pruneExiting drops revived and finished keys, keeping the fade order.
func (t *Tracker) pruneExiting() {
	kept := t.exiting[:0]
	for _, key := range t.exiting {
		if st, ok := t.states[key]; ok && st.Exiting {
			kept = append(kept, key)
		}
	}
	clear(t.exiting[len(kept):])
	t.exiting = kept
}

func (t *Tracker) exitDuration() time.Duration {
	if t.ExitDuration <= 0 {
		return defaultExitDuration
	}
	return t.ExitDuration
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
