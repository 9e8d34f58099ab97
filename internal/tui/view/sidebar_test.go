package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderSidebar(t *testing.T) {
	state := SidebarState{
		Title: "olatui",
		Universes: []SidebarItem{
			{Label: "1 Stage"},
			{Label: "2 Front of house with a very long name", Selected: true},
		},
		Plugins: []string{"ArtNet", "Dummy"},
		Filter:  "*",
	}

	out := RenderSidebar(state, 20, 12)
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 20 {
			t.Errorf("line %d width = %d, want 20: %q", i, w, l)
		}
	}
	if !strings.Contains(out, "1 Stage") || !strings.Contains(out, "ArtNet") {
		t.Errorf("sidebar missing entries:\n%s", out)
	}
	if strings.Contains(out, "(*)") {
		t.Error("match-all filter should not be shown")
	}
}

func TestRenderSidebarCutsToHeight(t *testing.T) {
	state := SidebarState{Title: "olatui", Plugins: make([]string, 50)}
	lines := strings.Split(RenderSidebar(state, 10, 5), "\n")
	if len(lines) != 5 {
		t.Errorf("got %d lines, want 5", len(lines))
	}
}

func TestRenderSidebarFilterHeading(t *testing.T) {
	out := RenderSidebar(SidebarState{Title: "olatui", Filter: "Stage*"}, 30, 6)
	if !strings.Contains(out, "Universes (Stage*)") {
		t.Errorf("filter not shown:\n%s", out)
	}
}
