// Command cavegen runs the cellular-automaton cave generator: it reads
// an optional JSON config file and CLI flag overrides, runs the
// simulation in serial or parallel mode, optionally rendering each
// generation to a window, and optionally appends a CSV metrics row.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	cavegen "github.com/gocave/cavegen"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	configPath := resolveConfigPath(args)
	cfg, err := cavegen.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("cavegen", flag.ContinueOnError)

	var cPath string
	fs.StringVar(&cPath, "c", configPath, "path to a JSON config file")
	fs.StringVar(&cPath, "config", configPath, "path to a JSON config file")

	var noGraphic bool
	fs.BoolVar(&noGraphic, "G", false, "disable rendering, overriding -g and the config file")
	fs.BoolVar(&noGraphic, "no-graphic", false, "disable rendering, overriding -g and the config file")

	var serial bool
	fs.BoolVar(&serial, "s", false, "force serial mode (a 1x1 mesh), overriding -p and the config file")
	fs.BoolVar(&serial, "serial", false, "force serial mode (a 1x1 mesh), overriding -p and the config file")

	var helpConfig bool
	fs.BoolVar(&helpConfig, "hc", false, "print the JSON config file schema and exit")
	fs.BoolVar(&helpConfig, "help-config", false, "print the JSON config file schema and exit")

	cfg.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if helpConfig {
		printConfigHelp()
		return 0
	}
	if noGraphic {
		cfg.ShowGraphics = false
	}
	if serial {
		cfg.IsParallel = false
		cfg.XThreads = 1
		cfg.YThreads = 1
	}

	engine, err := cavegen.NewEngine(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	driver := cavegen.NewDriver(engine, nil)
	metrics, err := driver.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cavegen.ErrAborted) {
			return 130
		}
		return 1
	}

	if cfg.ResultsFilePath != "" {
		if err := cavegen.AppendCSV(cfg.ResultsFilePath, metrics); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}

// resolveConfigPath scans args for -c/--config ahead of the full flag
// parse, since Config.Load must run before RegisterFlags can use its
// result as each flag's default.
func resolveConfigPath(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-c" || a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-c="):
			return strings.TrimPrefix(a, "-c=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

func printConfigHelp() {
	fmt.Println(`Config file: a JSON object with any of the following keys (missing
keys keep their default, unknown keys are ignored):

  cols                int      global grid column count
  rows                int      global grid row count
  rand_seed           int      RNG seed for the initial grid
  last_generation     int      generations to run, or -1 to run forever
  show_graphics       bool     render each generation to a window
  is_parallel         bool     run in parallel mode (x_threads * y_threads ranks)
  x_threads           int      mesh width P_x
  y_threads           int      mesh height P_y
  results_file_path   string   append a CSV metrics row here after the run
  roughness           int      hysteresis band width around the neighbor majority
  neighbour_radius    int      neighborhood radius R
  initial_fill_perc   int      initial wall fill percent, 0-100
  max_frame_rate      int      cap on generations per second while rendering, 0 for uncapped
  cell_size           int      pixel size of one square cell (overrides cell_width/cell_height)
  cell_width          int      pixel width of one cell
  cell_height         int      pixel height of one cell
  draw_edges          bool     accepted and stored; the renderer draws no cell outlines
  draw_threads_grid   bool     overlay the mesh tile boundaries
  wall_color          [r,g,b]  wall cell color, 0-255 per channel
  floor_color         [r,g,b]  floor cell color, 0-255 per channel
  threads_grid_color  [r,g,b]  mesh boundary overlay color, 0-255 per channel`)
}
