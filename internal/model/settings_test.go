package model

import "testing"

func TestClamp_FontSize(t *testing.T) {
	s := DefaultReaderSettings()

	s.FontSize = 5
	s.Clamp()
	if s.FontSize != MinFontSize {
		t.Fatalf("fontSize=5 clamped to %d, want %d", s.FontSize, MinFontSize)
	}

	s.FontSize = 99
	s.Clamp()
	if s.FontSize != MaxFontSize {
		t.Fatalf("fontSize=99 clamped to %d, want %d", s.FontSize, MaxFontSize)
	}

	s.FontSize = 20
	s.Clamp()
	if s.FontSize != 20 {
		t.Fatalf("in-range fontSize changed to %d", s.FontSize)
	}
}

func TestClamp_FloatBounds(t *testing.T) {
	s := ReaderSettings{FontSize: 18, LineHeight: 0.5, Theme: ThemeDark, LetterSpacing: 3}
	s.Clamp()
	if s.LineHeight != MinLineHeight {
		t.Fatalf("lineHeight=%v, want %v", s.LineHeight, MinLineHeight)
	}
	if s.LetterSpacing != MaxLetterSpacing {
		t.Fatalf("letterSpacing=%v, want %v", s.LetterSpacing, MaxLetterSpacing)
	}
	if s.Theme != ThemeDark {
		t.Fatalf("valid theme rewritten to %q", s.Theme)
	}
}

func TestClamp_UnknownTheme(t *testing.T) {
	s := DefaultReaderSettings()
	s.Theme = "sepia"
	s.Clamp()
	if s.Theme != ThemeLight {
		t.Fatalf("unknown theme kept as %q", s.Theme)
	}
}
