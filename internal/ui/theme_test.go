package ui

import (
	"testing"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Kanagawa").Name; got != "Kanagawa" {
		t.Fatalf("GetTheme(Kanagawa).Name = %q, want Kanagawa", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesCoverStages(t *testing.T) {
	stages := []string{"syncing", "serializing", "rendering", "printing", "cleanup", "writing", "done", "failed"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, stage := range stages {
			if th.StatusColors[stage] == "" {
				t.Fatalf("theme %s has no color for stage %q", name, stage)
			}
		}
	}
}

func TestStatusStyleFallsBackToMuted(t *testing.T) {
	th := GetTheme("Slate")
	s := th.Styles()
	if got := s.StatusStyle(" DONE ").GetBackground(); got != s.StatusStyle("done").GetBackground() {
		t.Fatalf("StatusStyle should normalize case and whitespace")
	}
	unknown := s.StatusStyle("nope").GetBackground()
	done := s.StatusStyle("done").GetBackground()
	if unknown == done {
		t.Fatalf("unknown status should not use the done color")
	}
}
