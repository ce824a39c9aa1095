// Package render draws gap charts of race tables and prints standings.
package render

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/aarondl/opt/null"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/model"
)

var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

type figure struct {
	name  string
	chart chart.Chart
}

type Renderer struct {
	outDir  string
	out     io.Writer
	width   int
	height  int
	figures []figure
	last    *model.Table
	logger  *log.Logger
}

type Option func(r *Renderer)

func WithOutDir(dir string) Option {
	return func(r *Renderer) {
		r.outDir = dir
	}
}

// WithOutput sets the writer receiving the standings summary
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		r.out = w
	}
}

func WithSize(width, height int) Option {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

func New(opts ...Option) *Renderer {
	ret := &Renderer{
		outDir: ".",
		out:    os.Stdout,
		width:  1600,
		height: 900,
		logger: log.Default().Named("render"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Render queues a chart of the gap of each driver over the race progress.
// The x axis is the fractional lap in sector mode, the lap otherwise.
// Drivers with less than two plottable points are left out.
func (r *Renderer) Render(t *model.Table, name, title string) {
	r.last = t
	series := r.driverSeries(t)
	if len(series) == 0 {
		r.logger.Warn("nothing to plot", log.String("name", name))
		return
	}
	xName := "Lap"
	if t.Mode == model.ModeSectorAware {
		xName = "Lap (fractional)"
	}
	c := chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: xName},
		YAxis:  chart.YAxis{Name: "Gap (s)"},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.LegendLeft(&c)}
	r.figures = append(r.figures, figure{name: name, chart: c})
}

// Show writes all queued charts to <outDir>/<name>.png and prints the
// standings of the last rendered table. The queue is emptied.
func (r *Renderer) Show() error {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return err
	}
	var errs []error
	for i := range r.figures {
		if err := r.writeFigure(&r.figures[i]); err != nil {
			errs = append(errs, err)
		}
	}
	r.figures = nil
	if r.last != nil {
		r.printStandings(r.last)
	}
	return errors.Join(errs...)
}

func (r *Renderer) writeFigure(fig *figure) error {
	fn := filepath.Join(r.outDir, fig.name+".png")
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := fig.chart.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render %s: %w", fig.name, err)
	}
	r.logger.Info("chart written", log.String("file", fn))
	return f.Close()
}

type point struct {
	x, y float64
}

func (r *Renderer) driverSeries(t *model.Table) []chart.Series {
	points := map[string][]point{}
	for i := range t.Rows {
		row := &t.Rows[i]
		x, ok1 := t.X(row).Get()
		y, ok2 := row.Gap.Get()
		if !ok1 || !ok2 || row.DriverCode == "" {
			continue
		}
		points[row.DriverCode] = append(points[row.DriverCode], point{x, y})
	}
	codes := lo.Keys(points)
	slices.Sort(codes)

	ret := make([]chart.Series, 0, len(codes))
	for _, code := range codes {
		pts := points[code]
		if len(pts) < 2 {
			r.logger.Debug("skipping driver", log.String("driver", code), log.Int("points", len(pts)))
			continue
		}
		slices.SortStableFunc(pts, func(a, b point) int { return cmp.Compare(a.x, b.x) })
		col := palette[len(ret)%len(palette)]
		ret = append(ret, chart.ContinuousSeries{
			Name:    code,
			XValues: lo.Map(pts, func(p point, _ int) float64 { return p.x }),
			YValues: lo.Map(pts, func(p point, _ int) float64 { return p.y }),
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 1.5},
		})
	}
	return ret
}

// Standings returns the last ranked row of each driver ordered by race
// progress and position.
func Standings(t *model.Table) []model.Row {
	rows := lo.Filter(t.Rows, func(r model.Row, _ int) bool {
		return r.DriverCode != "" && r.Position.IsValue()
	})
	rows = slices.Clone(rows)
	model.SortByDriverCheckpoint(rows)
	byDriver := lo.GroupBy(rows, func(r model.Row) string { return r.DriverCode })
	ret := make([]model.Row, 0, len(byDriver))
	for _, driverRows := range byDriver {
		ret = append(ret, driverRows[len(driverRows)-1])
	}
	slices.SortFunc(ret, func(a, b model.Row) int {
		ca, _ := t.Checkpoint(&a)
		cb, _ := t.Checkpoint(&b)
		if c := cmp.Compare(cb.Lap, ca.Lap); c != 0 {
			return c
		}
		if c := cmp.Compare(cb.Sector, ca.Sector); c != 0 {
			return c
		}
		return model.CompareNullLast(a.Position, b.Position)
	})
	return ret
}

func (r *Renderer) printStandings(t *model.Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Pos", "Driver", "Lap", "Grid", "+/-", "Total", "Gap"})
	for _, row := range Standings(t) {
		tw.AppendRow(table.Row{
			row.Position.GetOrZero(),
			row.DriverCode,
			row.LapNumber.GetOrZero(),
			optional(row.Grid),
			optional(row.PosGained),
			formatSeconds(row.TotalTime.Get()),
			formatSeconds(row.Gap.Get()),
		})
	}
	tw.Render()
}

func optional[T any](v null.Val[T]) string {
	if x, ok := v.Get(); ok {
		return fmt.Sprint(x)
	}
	return "-"
}

func formatSeconds(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}
