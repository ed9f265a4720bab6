package ebitenhost

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/drift"
)

const hudRefresh = 500 * time.Millisecond

// hud renders the FPS counter, debug stats and the selected album. The
// text is rebuilt at most every hudRefresh to keep it readable.
type hud struct {
	showFPS bool
	debug   bool

	since time.Duration
	text  string
}

func (h *hud) update(dt time.Duration, stats drift.Stats) {
	h.since += dt
	if h.text != "" && h.since < hudRefresh {
		return
	}
	h.since = 0
	h.text = h.compose(ebiten.ActualFPS(), ebiten.ActualTPS(), stats)
}

func (h *hud) compose(fps, tps float64, stats drift.Stats) string {
	var b strings.Builder
	if h.showFPS || h.debug {
		fmt.Fprintf(&b, "FPS: %.1f\nTPS: %.1f\n", fps, tps)
	}
	if h.debug {
		fmt.Fprintf(&b, "%s / %s / %s\n", stats.Class, stats.Mode, stats.Phase)
		fmt.Fprintf(&b, "offset: %.0f, %.0f\n", stats.Offset.X, stats.Offset.Y)
		fmt.Fprintf(&b, "tiles: %d (+%d exiting)\n", stats.Visible, stats.Exiting)
	}
	return b.String()
}

func (h *hud) draw(screen *ebiten.Image, album *drift.Album) {
	if h.text != "" {
		ebitenutil.DebugPrintAt(screen, h.text, 4, 4)
	}
	if album == nil {
		return
	}
	msg := albumCaption(*album)
	ebitenutil.DebugPrintAt(screen, msg, 4, screen.Bounds().Dy()-48)
}

// albumCaption formats the detail line for a selected album.
func albumCaption(a drift.Album) string {
	caption := a.Title
	if a.Artist != "" {
		caption += " by " + a.Artist
	}
	if a.Description != "" && a.Description != a.Title {
		caption += "\n" + a.Description
	}
	return caption + "\n[<-/->] browse  [esc] close"
}
