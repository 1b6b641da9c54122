// Package canvas implements the offscreen 800×480 BGR888 buffer that the
// pipeline composites each frame onto before it is blitted to the
// framebuffer by internal/present.
package canvas

import (
	"image"
	"image/color"
)

// Width and Height are fixed for the lifetime of the process: the Canvas's
// resolution and color order never change, per the design's invariants.
const (
	Width  = 800
	Height = 480
	planes = 3 // BGR888
)

// RGB is a source color in sRGB888 order (as supplied by callers); the
// Canvas itself stores BGR888 internally.
type RGB struct {
	R, G, B byte
}

// Canvas is a heap-resident 800×480 BGR888 image with bounds-checked
// drawing primitives. Its pixel buffer is allocated once, at construction;
// SetPixel, Line, Rectangle and Triangle do not allocate, while Text builds
// fresh font-drawing state on each call.
type Canvas struct {
	pix [Width * Height * planes]byte
}

// New returns a Canvas cleared to black.
func New() *Canvas {
	return &Canvas{}
}

// Data returns a read-only view of the row-major BGR888 buffer.
func (c *Canvas) Data() []byte {
	return c.pix[:]
}

// Clear resets every pixel to black.
func (c *Canvas) Clear() {
	for i := range c.pix {
		c.pix[i] = 0
	}
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// SetPixel writes rgb at (x, y). Writes outside [0,Width)×[0,Height) are
// silently dropped.
func (c *Canvas) SetPixel(x, y int, rgb RGB) {
	if !inBounds(x, y) {
		return
	}
	i := (y*Width + x) * planes
	c.pix[i] = rgb.B
	c.pix[i+1] = rgb.G
	c.pix[i+2] = rgb.R
}

// At returns the color at (x, y), or black if out of bounds.
func (c *Canvas) At(x, y int) RGB {
	if !inBounds(x, y) {
		return RGB{}
	}
	i := (y*Width + x) * planes
	return RGB{R: c.pix[i+2], G: c.pix[i+1], B: c.pix[i]}
}

// Point is an integer canvas coordinate.
type Point struct{ X, Y int }

// Line draws a one-pixel Bresenham line between p0 and p1.
func (c *Canvas) Line(p0, p1 Point, color RGB) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	err := dx + dy
	x, y := p0.X, p0.Y
	for {
		c.SetPixel(x, y, color)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rectangle draws an axis-aligned rectangle at origin with the given size.
// If fill is non-nil, the interior is filled first; if stroke is non-nil,
// a strokeWidth-pixel border is drawn on top.
func (c *Canvas) Rectangle(origin Point, size Point, fill, stroke *RGB, strokeWidth int) {
	if fill != nil {
		for y := origin.Y; y < origin.Y+size.Y; y++ {
			for x := origin.X; x < origin.X+size.X; x++ {
				c.SetPixel(x, y, *fill)
			}
		}
	}
	if stroke != nil && strokeWidth > 0 {
		for w := 0; w < strokeWidth; w++ {
			top := Point{origin.X, origin.Y + w}
			bottom := Point{origin.X, origin.Y + size.Y - 1 - w}
			c.Line(top, Point{origin.X + size.X - 1, top.Y}, *stroke)
			c.Line(bottom, Point{origin.X + size.X - 1, bottom.Y}, *stroke)
			left := Point{origin.X + w, origin.Y}
			right := Point{origin.X + size.X - 1 - w, origin.Y}
			c.Line(left, Point{left.X, origin.Y + size.Y - 1}, *stroke)
			c.Line(right, Point{right.X, origin.Y + size.Y - 1}, *stroke)
		}
	}
}

// Triangle draws a triangle with the three given vertices. If fill is
// non-nil, the interior is scan-filled first; if stroke is non-nil, the
// three edges are drawn on top.
func (c *Canvas) Triangle(p0, p1, p2 Point, fill, stroke *RGB) {
	if fill != nil {
		c.fillTriangle(p0, p1, p2, *fill)
	}
	if stroke != nil {
		c.Line(p0, p1, *stroke)
		c.Line(p1, p2, *stroke)
		c.Line(p2, p0, *stroke)
	}
}

func (c *Canvas) fillTriangle(p0, p1, p2 Point, color RGB) {
	minY := min3(p0.Y, p1.Y, p2.Y)
	maxY := max3(p0.Y, p1.Y, p2.Y)
	minX := min3(p0.X, p1.X, p2.X)
	maxX := max3(p0.X, p1.X, p2.X)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pointInTriangle(x, y, p0, p1, p2) {
				c.SetPixel(x, y, color)
			}
		}
	}
}

func sign(p1, p2, p3 Point) int {
	return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
}

func pointInTriangle(x, y int, p0, p1, p2 Point) bool {
	pt := Point{x, y}
	d1 := sign(pt, p0, p1)
	d2 := sign(pt, p1, p2)
	d3 := sign(pt, p2, p0)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// --- image.Image / draw.Image adaptation, used by Text() to host a
// golang.org/x/image/font.Drawer without a temporary RGBA copy. ---

// ColorModel returns the canvas's BGR888 color model.
func (c *Canvas) ColorModel() color.Model {
	return bgrModel
}

// Bounds returns the canvas's fixed 800×480 rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// colorAt returns the color at (x, y) as a color.Color. imageView's At uses
// it to implement image.Image, whose At signature differs from the typed At
// above.
func (c *Canvas) colorAt(x, y int) color.Color {
	rgb := c.At(x, y)
	return bgrColor{r: rgb.R, g: rgb.G, b: rgb.B}
}

// Set implements draw.Image.
func (c *Canvas) Set(x, y int, col color.Color) {
	r, g, b, _ := col.RGBA()
	c.SetPixel(x, y, RGB{R: byte(r >> 8), G: byte(g >> 8), B: byte(b >> 8)})
}

type bgrColor struct{ r, g, b byte }

func (p bgrColor) RGBA() (r, g, b, a uint32) {
	r = uint32(p.r) * 0x101
	g = uint32(p.g) * 0x101
	b = uint32(p.b) * 0x101
	a = 0xffff
	return
}

var bgrModel = color.ModelFunc(func(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return bgrColor{r: byte(r >> 8), g: byte(g >> 8), b: byte(b >> 8)}
})

// AsImage returns an image.Image/draw.Image view of the canvas for use with
// golang.org/x/image/font.Drawer.
func (c *Canvas) AsImage() interface {
	image.Image
	Set(x, y int, c color.Color)
} {
	return imageView{c}
}

type imageView struct{ *Canvas }

func (v imageView) At(x, y int) color.Color { return v.colorAt(x, y) }
