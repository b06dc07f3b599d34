package ui

import "testing"

func TestHeatRampMatchesSteps(t *testing.T) {
	th := TestTheme()
	if len(th.Heat) != HeatSteps {
		t.Errorf("theme carries %d heat styles, want %d", len(th.Heat), HeatSteps)
	}
	if HeatSteps != 5 {
		t.Errorf("HeatSteps = %d, want 5", HeatSteps)
	}
}
