package cavegen

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/gocave/cavegen/render"
)

// unboundedGeneration is the sentinel Config.LastGeneration takes to
// mean "run forever".
const unboundedGeneration = -1

// Config is the merged result of defaults, an optional JSON file, and
// CLI flag overrides (CLI wins).
type Config struct {
	Cols             int    `json:"cols"`
	Rows             int    `json:"rows"`
	RandSeed         int64  `json:"rand_seed"`
	LastGeneration   int    `json:"last_generation"`
	ShowGraphics     bool   `json:"show_graphics"`
	IsParallel       bool   `json:"is_parallel"`
	XThreads         int    `json:"x_threads"`
	YThreads         int    `json:"y_threads"`
	ResultsFilePath  string `json:"results_file_path"`
	Roughness        int    `json:"roughness"`
	NeighbourRadius  int    `json:"neighbour_radius"`
	InitialFillPerc  int    `json:"initial_fill_perc"`
	CellSize         int    `json:"cell_size"`
	CellWidth        int    `json:"cell_width"`
	CellHeight       int    `json:"cell_height"`
	DrawEdges        bool   `json:"draw_edges"`
	DrawThreadsGrid  bool   `json:"draw_threads_grid"`
	WallColor        [3]int `json:"wall_color"`
	FloorColor       [3]int `json:"floor_color"`
	ThreadsGridColor [3]int `json:"threads_grid_color"`

	// MaxFrameRate caps how many generations per second the graphic
	// pacer advances, 0 meaning uncapped (paced by the window's own
	// tick alone). Graphics-only: ignored in headless mode.
	MaxFrameRate int `json:"max_frame_rate"`

	// ConfigFilePath is not a JSON key; it records the path Load read
	// from (or "" when running on defaults), for the results CSV's
	// config_file_path column.
	ConfigFilePath string `json:"-"`
}

// DefaultConfig returns the built-in defaults every Load and CLI
// invocation starts from.
func DefaultConfig() Config {
	return Config{
		Cols:             100,
		Rows:             100,
		RandSeed:         1,
		LastGeneration:   unboundedGeneration,
		ShowGraphics:     true,
		IsParallel:       false,
		XThreads:         1,
		YThreads:         1,
		ResultsFilePath:  "",
		Roughness:        1,
		NeighbourRadius:  1,
		InitialFillPerc:  50,
		CellSize:         4,
		CellWidth:        4,
		CellHeight:       4,
		DrawEdges:        false,
		DrawThreadsGrid:  false,
		WallColor:        [3]int{0, 0, 0},
		FloorColor:       [3]int{255, 255, 255},
		ThreadsGridColor: [3]int{255, 0, 0},
		MaxFrameRate:     24,
	}
}

// Load reads a JSON config file at path onto DefaultConfig, leaving
// missing keys at their defaults and ignoring unknown keys (plain
// json.Unmarshal semantics already provide both). If path is empty,
// the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configErrorf("reading config file %q: %v", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, configErrorf("parsing config file %q: %v", path, err)
	}
	cfg.ConfigFilePath = path
	return cfg, nil
}

// RegisterFlags binds fs's flags directly to c's fields, using c's
// current values (defaults, or whatever Load already populated) as
// each flag's default. A flag the user does not pass leaves the field
// untouched; a flag the user does pass overwrites it — CLI takes
// precedence over the JSON file, with no extra merge step required
// after fs.Parse returns.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Cols, "cols", c.Cols, "global grid column count")
	fs.IntVar(&c.Rows, "rows", c.Rows, "global grid row count")
	fs.IntVar(&c.XThreads, "x", c.XThreads, "mesh width P_x")
	fs.IntVar(&c.YThreads, "y", c.YThreads, "mesh height P_y")
	fs.IntVar(&c.NeighbourRadius, "radius", c.NeighbourRadius, "neighborhood radius R")
	fs.IntVar(&c.Roughness, "roughness", c.Roughness, "hysteresis band width")
	fs.IntVar(&c.InitialFillPerc, "fill", c.InitialFillPerc, "initial wall fill percent, 0-100")
	fs.IntVar(&c.MaxFrameRate, "fps", c.MaxFrameRate, "cap on generations per second while rendering, 0 for uncapped")
	fs.StringVar(&c.ResultsFilePath, "o", c.ResultsFilePath, "append a CSV metrics row to this file")
	fs.BoolVar(&c.ShowGraphics, "g", c.ShowGraphics, "enable rendering")
	fs.BoolVar(&c.ShowGraphics, "graphic", c.ShowGraphics, "enable rendering")
	fs.BoolVar(&c.IsParallel, "p", c.IsParallel, "enable parallel mode")
	fs.BoolVar(&c.IsParallel, "parallel", c.IsParallel, "enable parallel mode")
}

// WallRGBA, FloorRGBA, and ThreadsGridRGBA convert the JSON [r,g,b]
// byte triples into render.RGBA values the Painter consumes.
func (c Config) WallRGBA() render.RGBA {
	return render.RGBFromBytes(c.WallColor[0], c.WallColor[1], c.WallColor[2])
}

func (c Config) FloorRGBA() render.RGBA {
	return render.RGBFromBytes(c.FloorColor[0], c.FloorColor[1], c.FloorColor[2])
}

func (c Config) ThreadsGridRGBA() render.RGBA {
	return render.RGBFromBytes(c.ThreadsGridColor[0], c.ThreadsGridColor[1], c.ThreadsGridColor[2])
}

// Unbounded reports whether LastGeneration is the "run forever"
// sentinel.
func (c Config) Unbounded() bool { return c.LastGeneration == unboundedGeneration }

// CellDims resolves the pixel size of one grid cell. cell_size is a
// convenience field for the common square-cell case: whenever it
// differs from the default, it wins over cell_width/cell_height.
// Setting cell_width/cell_height directly is how a config asks for
// non-square cells.
func (c Config) CellDims() (w, h int) {
	const defaultCellSize = 4
	if c.CellSize != defaultCellSize {
		return c.CellSize, c.CellSize
	}
	return c.CellWidth, c.CellHeight
}

// Validate checks the configuration-error conditions: mesh shape vs.
// process count, grid divisibility, and the graphics size cap.
// graphicsCellCap is the cols*rows limit above which rendering is
// refused.
func (c Config) Validate() error {
	n := c.XThreads * c.YThreads
	if c.XThreads < 1 || c.YThreads < 1 {
		return configErrorf("mesh dimensions must be >= 1, got x=%d y=%d", c.XThreads, c.YThreads)
	}
	if c.Rows%c.YThreads != 0 {
		return configErrorf("rows %d not divisible by y_threads %d", c.Rows, c.YThreads)
	}
	if c.Cols%c.XThreads != 0 {
		return configErrorf("cols %d not divisible by x_threads %d", c.Cols, c.XThreads)
	}
	if !c.IsParallel && n != 1 {
		return configErrorf("serial mode requires a 1x1 mesh, got %dx%d", c.XThreads, c.YThreads)
	}
	const graphicsCellCap = 1382400
	if c.ShowGraphics && c.Cols*c.Rows > graphicsCellCap {
		return configErrorf("grid %dx%d (%d cells) exceeds the graphics cap of %d cells", c.Cols, c.Rows, c.Cols*c.Rows, graphicsCellCap)
	}
	return nil
}
