package drift

import "testing"

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "mode", "mode": "organic"},
			{"action": "screenshot", "label": "after-click"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[3].Mode != "organic" {
		t.Error("step 3 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid JSON", `not json`},
		{"empty steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "jump"}]}`},
		{"unknown mode", `{"steps": [{"action": "mode", "mode": "spiral"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunnerStep_Click(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{})

	data := []byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}
	g.SetTestRunner(runner)

	// First step call: click queues press+release (2 events).
	runner.step(g)
	if g.PendingInjections() != 2 {
		t.Fatalf("expected 2 queued events, got %d", g.PendingInjections())
	}
	// Runner should not be done yet; injections still pending.
	if runner.Done() {
		t.Error("runner should not be done while inject queue has events")
	}

	// Drain injections.
	g.processInjectedInput()
	g.processInjectedInput()

	// Now step again; should finalize.
	runner.step(g)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{})
	var shots []string
	g.OnScreenshot(func(label string) { shots = append(shots, label) })

	data := []byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}

	// Frame 1: execute wait (waitCount becomes 2).
	runner.step(g)
	if runner.Done() {
		t.Error("should not be done during wait")
	}

	// Frame 2: waitCount 2→1.
	runner.step(g)
	if runner.Done() {
		t.Error("should not be done during wait countdown")
	}

	// Frame 3: waitCount 1→0.
	runner.step(g)
	if runner.Done() || len(shots) != 0 {
		t.Error("should not be done; screenshot step not yet executed")
	}

	// Frame 4: execute screenshot step, runner finishes.
	runner.step(g)
	if !runner.Done() {
		t.Error("runner should be done after screenshot step")
	}
	if len(shots) != 1 || shots[0] != "done" {
		t.Errorf("expected screenshot 'done', got %v", shots)
	}
}

func TestRunnerStep_Drag(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{})

	data := []byte(`{"steps": [{"action": "drag", "fromX": 10, "fromY": 10, "toX": 200, "toY": 200, "frames": 4}]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}

	runner.step(g)
	if g.PendingInjections() != 4 {
		t.Fatalf("expected 4 queued events for drag, got %d", g.PendingInjections())
	}
}

func TestRunnerStep_Modes(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{})

	data := []byte(`{"steps": [
		{"action": "toggle"},
		{"action": "mode", "mode": "aligned"},
		{"action": "mode", "mode": "organic"}
	]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}

	want := []PlacementMode{PlacementOrganic, PlacementAligned, PlacementOrganic}
	for i, m := range want {
		runner.step(g)
		if g.Mode() != m {
			t.Errorf("after step %d mode = %v, want %v", i, g.Mode(), m)
		}
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerDone(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{})

	data := []byte(`{"steps": [{"action": "screenshot", "label": "only"}]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}

	if runner.Done() {
		t.Error("runner should not be done before any steps")
	}

	runner.step(g)
	if !runner.Done() {
		t.Error("runner should be done after single screenshot step")
	}
}

func TestRunnerWaitsForInjectQueue(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{})
	var shots []string
	g.OnScreenshot(func(label string) { shots = append(shots, label) })

	data := []byte(`{"steps": [
		{"action": "click", "x": 50, "y": 50},
		{"action": "screenshot", "label": "after"}
	]}`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}

	// Step 1: click queues 2 events.
	runner.step(g)
	if g.PendingInjections() != 2 {
		t.Fatalf("expected 2 events, got %d", g.PendingInjections())
	}

	// Step again; should NOT advance because inject queue is not drained.
	runner.step(g)
	if runner.cursor != 1 {
		t.Errorf("cursor should still be 1, got %d", runner.cursor)
	}

	// Drain inject queue manually.
	g.injectQueue = g.injectQueue[:0]

	// Now step; should execute screenshot.
	runner.step(g)
	if len(shots) != 1 || shots[0] != "after" {
		t.Errorf("expected screenshot 'after', got %v", shots)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerDrivesGallery(t *testing.T) {
	g, _ := newTestGallery(t, GalleryConfig{DisableAnimations: true})
	var clicks []TileKey
	var shots []string
	g.OnTileClick(func(ev TileEvent) { clicks = append(clicks, ev.Key) })
	g.OnScreenshot(func(label string) { shots = append(shots, label) })

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 1},
		{"action": "click", "x": 600, "y": 200},
		{"action": "drag", "fromX": 500, "fromY": 400, "toX": 100, "toY": 400, "frames": 3},
		{"action": "screenshot", "label": "panned"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.SetTestRunner(runner)

	for i := 0; i < 30 && !runner.Done(); i++ {
		g.Update(frame)
	}
	if !runner.Done() {
		t.Fatal("script did not finish")
	}
	if len(clicks) != 1 || clicks[0] != (TileKey{SectorX: 1}) {
		t.Errorf("clicks = %v, want tile 1:0:0", clicks)
	}
	if got := g.Offset(); got != (Vec2{-400, 0}) {
		t.Errorf("offset = %v, want (-400,0)", got)
	}
	if len(shots) != 1 || shots[0] != "panned" {
		t.Errorf("screenshots = %v", shots)
	}
}
