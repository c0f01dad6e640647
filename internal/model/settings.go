package model

// Themes accepted by the reader.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Bounds for the numeric reader preferences.
const (
	MinFontSize = 12
	MaxFontSize = 28

	MinLineHeight = 1.2
	MaxLineHeight = 2.4

	MinLetterSpacing = 0.0
	MaxLetterSpacing = 0.2
)

// ReaderSettings are the display preferences. They live outside the session:
// a signed-out reader keeps them.
type ReaderSettings struct {
	FontSize      int     `json:"fontSize"`
	LineHeight    float64 `json:"lineHeight"`
	Theme         string  `json:"theme"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// DefaultReaderSettings returns the values applied on first use.
func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		FontSize:      18,
		LineHeight:    1.8,
		Theme:         ThemeLight,
		LetterSpacing: 0.05,
	}
}

// Clamp forces every field back into its defined bounds. Out-of-range writes
// are clamped, never rejected; an unknown theme falls back to light.
func (s *ReaderSettings) Clamp() {
	if s.FontSize < MinFontSize {
		s.FontSize = MinFontSize
	}
	if s.FontSize > MaxFontSize {
		s.FontSize = MaxFontSize
	}
	if s.LineHeight < MinLineHeight {
		s.LineHeight = MinLineHeight
	}
	if s.LineHeight > MaxLineHeight {
		s.LineHeight = MaxLineHeight
	}
	if s.LetterSpacing < MinLetterSpacing {
		s.LetterSpacing = MinLetterSpacing
	}
	if s.LetterSpacing > MaxLetterSpacing {
		s.LetterSpacing = MaxLetterSpacing
	}
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = ThemeLight
	}
}
