package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// Compile-time interface checks.
var (
	_ image.Image = (*Canvas)(nil)
	_ draw.Image  = (*Canvas)(nil)
)

// Canvas is a rectangular RGBA pixel buffer the root rank paints the
// assembled global grid into. It implements image.Image/draw.Image so
// it can be saved with the standard library's png encoder.
type Canvas struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewCanvas creates a new canvas with the given pixel dimensions.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the canvas in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the height of the canvas in pixels.
func (c *Canvas) Height() int { return c.height }

// Data returns the raw pixel data (RGBA format).
func (c *Canvas) Data() []uint8 { return c.data }

// SetPixel sets the color of a single pixel.
func (c *Canvas) SetPixel(x, y int, col RGBA) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := (y*c.width + x) * 4
	c.data[i+0] = uint8(clamp255(col.R * 255))
	c.data[i+1] = uint8(clamp255(col.G * 255))
	c.data[i+2] = uint8(clamp255(col.B * 255))
	c.data[i+3] = uint8(clamp255(col.A * 255))
}

// GetPixel returns the color of a single pixel.
func (c *Canvas) GetPixel(x, y int) RGBA {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return RGBA{}
	}
	i := (y*c.width + x) * 4
	return RGBA{
		R: float64(c.data[i+0]) / 255,
		G: float64(c.data[i+1]) / 255,
		B: float64(c.data[i+2]) / 255,
		A: float64(c.data[i+3]) / 255,
	}
}

// Clear fills the entire canvas with a color.
func (c *Canvas) Clear(col RGBA) {
	r := uint8(clamp255(col.R * 255))
	g := uint8(clamp255(col.G * 255))
	b := uint8(clamp255(col.B * 255))
	a := uint8(clamp255(col.A * 255))

	for i := 0; i < len(c.data); i += 4 {
		c.data[i+0] = r
		c.data[i+1] = g
		c.data[i+2] = b
		c.data[i+3] = a
	}
}

// ToImage converts the canvas to an image.RGBA.
func (c *Canvas) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	copy(img.Pix, c.data)
	return img
}

// SavePNG saves the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is operator-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, c.ToImage())
}

// At implements the image.Image interface.
func (c *Canvas) At(x, y int) color.Color {
	return c.GetPixel(x, y).Color()
}

// Set implements the draw.Image interface.
func (c *Canvas) Set(x, y int, col color.Color) {
	c.SetPixel(x, y, FromColor(col))
}

// Bounds implements the image.Image interface.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// ColorModel implements the image.Image interface.
func (c *Canvas) ColorModel() color.Model {
	return color.NRGBAModel
}

// FillSpan fills a horizontal span of pixels with a solid color (no
// blending). The span is from x1 (inclusive) to x2 (exclusive) on row y.
func (c *Canvas) FillSpan(x1, x2, y int, col RGBA) {
	if y < 0 || y >= c.height {
		return
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 > c.width {
		x2 = c.width
	}
	if x1 >= x2 {
		return
	}

	r := uint8(clamp255(col.R * 255))
	g := uint8(clamp255(col.G * 255))
	b := uint8(clamp255(col.B * 255))
	a := uint8(clamp255(col.A * 255))

	startIdx := (y*c.width + x1) * 4
	length := x2 - x1

	// For short spans, use a simple loop.
	if length < 16 {
		for i := 0; i < length; i++ {
			idx := startIdx + i*4
			c.data[idx+0] = r
			c.data[idx+1] = g
			c.data[idx+2] = b
			c.data[idx+3] = a
		}
		return
	}

	// For longer spans, fill the first pixel then double the filled
	// prefix via copy() until the whole span is covered.
	c.data[startIdx+0] = r
	c.data[startIdx+1] = g
	c.data[startIdx+2] = b
	c.data[startIdx+3] = a

	filled := 1
	for filled < length {
		copyLen := filled
		if filled+copyLen > length {
			copyLen = length - filled
		}
		copy(c.data[startIdx+filled*4:], c.data[startIdx:startIdx+copyLen*4])
		filled += copyLen
	}
}

// FillRect fills an axis-aligned rectangle of cells, one FillSpan per row.
// Coordinates are half-open: [x1,x2) x [y1,y2).
func (c *Canvas) FillRect(x1, y1, x2, y2 int, col RGBA) {
	if y1 < 0 {
		y1 = 0
	}
	if y2 > c.height {
		y2 = c.height
	}
	for y := y1; y < y2; y++ {
		c.FillSpan(x1, x2, y, col)
	}
}

// FillSpanBlend fills a horizontal span using source-over alpha blending,
// used for the translucent tile-grid overlay painted on top of cell fills.
func (c *Canvas) FillSpanBlend(x1, x2, y int, col RGBA) {
	if y < 0 || y >= c.height {
		return
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 > c.width {
		x2 = c.width
	}
	if x1 >= x2 {
		return
	}

	if col.A >= 0.9999 {
		c.FillSpan(x1, x2, y, col)
		return
	}

	r := uint8(clamp255(col.R * col.A * 255))
	g := uint8(clamp255(col.G * col.A * 255))
	b := uint8(clamp255(col.B * col.A * 255))
	a := uint8(clamp255(col.A * 255))
	invSa := 255 - a

	startIdx := (y*c.width + x1) * 4
	for i := x1; i < x2; i++ {
		idx := startIdx + (i-x1)*4
		dr, dg, db, da := c.data[idx+0], c.data[idx+1], c.data[idx+2], c.data[idx+3]
		c.data[idx+0] = r + uint8((uint32(dr)*uint32(invSa)+127)/255) //nolint:gosec // bounded by 255
		c.data[idx+1] = g + uint8((uint32(dg)*uint32(invSa)+127)/255) //nolint:gosec // bounded by 255
		c.data[idx+2] = b + uint8((uint32(db)*uint32(invSa)+127)/255) //nolint:gosec // bounded by 255
		c.data[idx+3] = a + uint8((uint32(da)*uint32(invSa)+127)/255) //nolint:gosec // bounded by 255
	}
}

// VLine fills a vertical one-pixel-wide line, used for grid overlay columns.
func (c *Canvas) VLine(x, y1, y2 int, col RGBA) {
	if x < 0 || x >= c.width {
		return
	}
	if y1 < 0 {
		y1 = 0
	}
	if y2 > c.height {
		y2 = c.height
	}
	for y := y1; y < y2; y++ {
		blendPixel(c, x, y, col)
	}
}

func blendPixel(c *Canvas, x, y int, col RGBA) {
	if col.A >= 0.9999 {
		c.SetPixel(x, y, col)
		return
	}
	dst := c.GetPixel(x, y)
	c.SetPixel(x, y, dst.Lerp(col, col.A))
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}
