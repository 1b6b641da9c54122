package canvas

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Monospaced cell advance. The design calls for a 9×18 bold ASCII font
// (embedded-graphics' FONT_9X18_BOLD on the original hardware); the Go
// ecosystem's closest maintained bitmap face is golang.org/x/image's
// basicfont.Face7x13, so the glyph itself is drawn via that face while the
// cursor still advances by the wider 9×18 cell so overlay layout matches the
// original design's column/row math.
const (
	CharWidth  = 9
	CharHeight = 18
)

// TextStyle selects the ink color for Text.
type TextStyle struct {
	Color RGB
}

// Text draws s starting at origin, monospaced at CharWidth×CharHeight per
// character. '\n' advances to the next line without consuming a column.
// Non-ASCII code points are rendered as blanks (the cursor still advances).
func (c *Canvas) Text(origin Point, s string, style TextStyle) {
	face := basicfont.Face7x13
	img := c.AsImage()
	ink := bgrColor{r: style.Color.R, g: style.Color.G, b: style.Color.B}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
	}

	x, y := origin.X, origin.Y
	for _, r := range s {
		if r == '\n' {
			x = origin.X
			y += CharHeight
			continue
		}
		if r >= 32 && r < 127 {
			drawer.Dot = fixed.P(x, y+CharHeight-5)
			drawer.DrawString(string(r))
		}
		x += CharWidth
	}
}
