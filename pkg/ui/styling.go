package ui

// Styling specifies how to change a Style.
type Styling interface{ transform(*Style) }

// ApplyStyling returns a new Style with the given Styling's applied.
func ApplyStyling(s Style, ts ...Styling) Style {
	for _, t := range ts {
		if t != nil {
			t.transform(&s)
		}
	}
	return s
}

// Stylings joins several Styling's into one.
func Stylings(ts ...Styling) Styling { return jointStyling(ts) }

// Common stylings.
var (
	FgDefault Styling = setFg{nil}
	FgRed     Styling = setFg{Red}
	FgGreen   Styling = setFg{Green}
	FgYellow  Styling = setFg{Yellow}
	FgBlue    Styling = setFg{Blue}
	FgMagenta Styling = setFg{Magenta}
	FgCyan    Styling = setFg{Cyan}

	FgBrightBlack Styling = setFg{BrightBlack}
	FgBrightBlue  Styling = setFg{BrightBlue}

	BgDefault Styling = setBg{nil}

	Bold       Styling = boolOn(accessBold)
	Dim        Styling = boolOn(accessDim)
	Italic     Styling = boolOn(accessItalic)
	Underlined Styling = boolOn(accessUnderlined)
	Blink      Styling = boolOn(accessBlink)
	Inverse    Styling = boolOn(accessInverse)
)

type setFg struct{ c Color }
type setBg struct{ c Color }
type boolOn func(*Style) *bool
type jointStyling []Styling

func (t setFg) transform(s *Style)  { s.Fg = t.c }
func (t setBg) transform(s *Style)  { s.Bg = t.c }
func (t boolOn) transform(s *Style) { *t(s) = true }

func (t jointStyling) transform(s *Style) {
	for _, t := range t {
		t.transform(s)
	}
}

func accessBold(s *Style) *bool       { return &s.Bold }
func accessDim(s *Style) *bool        { return &s.Dim }
func accessItalic(s *Style) *bool     { return &s.Italic }
func accessUnderlined(s *Style) *bool { return &s.Underlined }
func accessBlink(s *Style) *bool      { return &s.Blink }
func accessInverse(s *Style) *bool    { return &s.Inverse }
