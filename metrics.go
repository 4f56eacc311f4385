package cavegen

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// FrameMetrics accumulates the four durations the driver measures for
// one generation: time spent in halo exchange, in the local step, in
// drawing, and the frame total.
type FrameMetrics struct {
	Communication time.Duration
	Generation    time.Duration
	Draw          time.Duration
	Total         time.Duration
}

// RunMetrics is the per-run summary the results CSV writer appends,
// one row per invocation.
type RunMetrics struct {
	Totals         FrameMetrics
	Start          time.Time
	End            time.Time
	ShowGraphics   bool
	IsParallel     bool
	NProcs         int
	XThreads       int
	YThreads       int
	Cols           int
	Rows           int
	Radius         int
	Roughness      int
	ConfigFilePath string
}

// csvHeader is the results file's exact column order.
var csvHeader = []string{
	"total_time", "communication_time", "generation_time", "draw_time",
	"start_time", "end_time", "show_graphics", "is_parallel", "n_procs",
	"x_threads", "y_threads", "cols", "rows", "radius", "roughness",
	"config_file_path",
}

// AppendCSV appends one row for m to the CSV file at path, writing the
// header first if the file does not yet exist.
func AppendCSV(path string, m RunMetrics) error {
	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cavegen: opening results file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if needsHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("cavegen: writing results header: %w", err)
		}
	}

	row := []string{
		m.Totals.Total.String(),
		m.Totals.Communication.String(),
		m.Totals.Generation.String(),
		m.Totals.Draw.String(),
		m.Start.Format(time.RFC3339Nano),
		m.End.Format(time.RFC3339Nano),
		fmt.Sprintf("%t", m.ShowGraphics),
		fmt.Sprintf("%t", m.IsParallel),
		fmt.Sprintf("%d", m.NProcs),
		fmt.Sprintf("%d", m.XThreads),
		fmt.Sprintf("%d", m.YThreads),
		fmt.Sprintf("%d", m.Cols),
		fmt.Sprintf("%d", m.Rows),
		fmt.Sprintf("%d", m.Radius),
		fmt.Sprintf("%d", m.Roughness),
		m.ConfigFilePath,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("cavegen: writing results row: %w", err)
	}
	return nil
}
