package render

// Theme holds the colors and cell geometry the Painter draws with,
// populated from config (cell_size/cell_width/cell_height,
// draw_threads_grid, wall_color, floor_color, threads_grid_color).
// draw_edges has no Theme field: the Painter draws no cell outlines.
type Theme struct {
	CellWidth  int
	CellHeight int
	WallColor  RGBA
	FloorColor RGBA
	GridColor  RGBA
	DrawGrid   bool
}

// DefaultTheme returns a Theme with the library's default colors and a
// single-pixel-per-cell geometry.
func DefaultTheme() Theme {
	return Theme{
		CellWidth:  1,
		CellHeight: 1,
		WallColor:  DefaultWallColor,
		FloorColor: DefaultFloorColor,
		GridColor:  DefaultGridColor,
		DrawGrid:   false,
	}
}

// GridFrame is one rank's contribution to the gathered global grid: its
// inner_rows x inner_cols byte region (wall=1, floor=0), plus its tile
// coordinates in the mesh so Paint can place it in canvas space.
type GridFrame struct {
	TileRow, TileCol int // mesh coordinates (cy, cx)
	Rows, Cols       int // inner_rows, inner_cols
	Cells            []uint8
}

// Painter consumes the gathered N x inner_rows x inner_cols byte arrays
// and fills every floor cell, one rectangle per horizontal run of
// adjacent floor cells. The core never calls
// a drawing primitive directly; it calls BeginFrame/Paint/EndFrame on
// this type.
type Painter struct {
	canvas *Canvas
	theme  Theme
}

// NewPainter creates a Painter targeting canvas with the given theme.
func NewPainter(canvas *Canvas, theme Theme) *Painter {
	return &Painter{canvas: canvas, theme: theme}
}

// BeginFrame clears the canvas to the configured wall color. The core
// calls this once per drawn frame before Paint.
func (p *Painter) BeginFrame() {
	p.canvas.Clear(p.theme.WallColor)
}

// Paint draws every gathered tile's inner region onto the canvas: one
// filled rectangle per horizontal run of floor cells (value 0) within a
// row, skipping wall cells since the background is already the wall
// color.
func (p *Painter) Paint(frames []GridFrame) {
	cw, ch := p.theme.CellWidth, p.theme.CellHeight
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}

	for _, f := range frames {
		originX := f.TileCol * f.Cols * cw
		originY := f.TileRow * f.Rows * ch

		for y := 0; y < f.Rows; y++ {
			x := 0
			for x < f.Cols {
				if f.Cells[y*f.Cols+x] != 0 {
					x++
					continue
				}
				// Coalesce a run of adjacent floor cells into one FillRect.
				runStart := x
				for x < f.Cols && f.Cells[y*f.Cols+x] == 0 {
					x++
				}
				px1 := originX + runStart*cw
				px2 := originX + x*cw
				py1 := originY + y*ch
				py2 := py1 + ch
				p.canvas.FillRect(px1, py1, px2, py2, p.theme.FloorColor)
			}
		}
	}

	if p.theme.DrawGrid {
		p.paintGrid(frames, cw, ch)
	}
}

// paintGrid overlays a line along every tile boundary, one cell-grid
// stroke per mesh row/column seam.
func (p *Painter) paintGrid(frames []GridFrame, cw, ch int) {
	width, height := p.canvas.Width(), p.canvas.Height()
	seenCols := map[int]bool{}
	seenRows := map[int]bool{}
	for _, f := range frames {
		seenCols[f.TileCol*f.Cols*cw] = true
		seenRows[f.TileRow*f.Rows*ch] = true
	}
	for x := range seenCols {
		for dx := 0; dx < cw; dx++ {
			p.canvas.VLine(x+dx, 0, height, p.theme.GridColor)
		}
	}
	for y := range seenRows {
		p.canvas.FillSpanBlend(0, width, y, p.theme.GridColor)
	}
}

// EndFrame is called by the core after Paint completes; Window.Present
// is the out-of-scope collaborator that actually flips the framebuffer.
func (p *Painter) EndFrame() {}

// Canvas returns the backing canvas for saving or presenting.
func (p *Painter) Canvas() *Canvas { return p.canvas }
