package drift

import "github.com/sirupsen/logrus"

// debugLog writes one frame's stats. Only called when debug mode is on.
func (g *Gallery) debugLog(stats Stats) {
	if !g.debug {
		return
	}
	g.log.WithFields(logrus.Fields{
		"class":      stats.Class.String(),
		"mode":       stats.Mode.String(),
		"phase":      stats.Phase.String(),
		"offset_x":   stats.Offset.X,
		"offset_y":   stats.Offset.Y,
		"visible":    stats.Visible,
		"exiting":    stats.Exiting,
		"entered":    stats.Entered,
		"exited":     stats.Exited,
		"virtualize": stats.VirtualizeTime,
	}).Debug("frame")

	if stats.Visible > debugMaxVisible {
		g.log.WithFields(logrus.Fields{
			"visible":   stats.Visible,
			"threshold": debugMaxVisible,
		}).Warn("visible tile count is unusually high; check layout spacing and buffer")
	}
}

// debugMaxVisible is the visible-tile count above which debug mode warns.
const debugMaxVisible = 1000
