package reportfmt

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"drift/internal/ir"
	"drift/internal/reduce"
	"drift/internal/report"
)

// Pretty renders a ranked report for humans. Each deviation gets a
// grep-friendly head line:
//
//	<file>:<line>:<col>: <kind>: <summary> [<confidence>]
//
// followed by indented detail lines for the route, sampled alternate
// routes, and the hint. Shared-route clusters and the provenance footer
// come after the listing.
func Pretty(w io.Writer, rep *report.Report, opts PrettyOpts) {
	pal := newPalette(opts.Color)

	if rep.Empty() {
		pal.good.Fprintln(w, "no deviations")
		if opts.Footer {
			writeFooter(w, pal, rep)
		}
		return
	}

	devs := rep.Deviations()
	shown := len(devs)
	if opts.Max > 0 && opts.Max < shown {
		shown = opts.Max
	}

	for i := 0; i < shown; i++ {
		writeDeviation(w, pal, devs[i], opts)
	}
	if shown < len(devs) {
		pal.dim.Fprintf(w, "%d of %d deviations shown\n", shown, len(devs))
	}

	if opts.Clusters {
		writeClusters(w, pal, rep.Clusters())
	}
	if opts.Footer {
		writeFooter(w, pal, rep)
	}
}

func writeDeviation(w io.Writer, pal *palette, d ir.Deviation, opts PrettyOpts) {
	fmt.Fprintf(w, "%s: %s: %s", d.Location, pal.kind(d.Kind).Sprint(d.Kind), d.Summary)
	if pct := int(math.Round(d.Confidence * 100)); pct < 100 {
		pal.dim.Fprintf(w, " [%d%%]", pct)
	}
	fmt.Fprintln(w)

	if opts.Traces {
		if !d.Trace.Empty() {
			route := strings.Join(d.Trace.Frames, " > ")
			if d.Trace.Truncated {
				route += " (truncated)"
			}
			pal.dim.Fprintf(w, "    route: %s\n", fit(route, opts.Width-11))
			for _, alt := range d.AltTraces {
				pal.dim.Fprintf(w, "    also via: %s\n", fit(strings.Join(alt.Frames, " > "), opts.Width-14))
			}
		}
		if d.RouteCount > 1 {
			pal.dim.Fprintf(w, "    routes: %d\n", d.RouteCount)
		}
	}
	if opts.Hints && d.Hint != "" {
		pal.hint.Fprintf(w, "    hint: %s\n", d.Hint)
	}
}

func writeClusters(w io.Writer, pal *palette, clusters []reduce.Cluster) {
	for _, c := range clusters {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s share the route %s:\n",
			plural(c.Size(), fmt.Sprintf("%s deviation", c.Kind)), pal.frame.Sprint(c.Frame))
		fmt.Fprintf(w, "  - %s\n", c.Best.Summary)
		for _, ref := range c.Rest {
			fmt.Fprintf(w, "  - %s\n", ref.Summary)
		}
	}
}

func writeFooter(w io.Writer, pal *palette, rep *report.Report) {
	prov := rep.Provenance()
	fmt.Fprintln(w)
	pal.dim.Fprintf(w, "%s: %s from %s in %s (run %s)\n",
		prov.Tool,
		plural(prov.Retained, "deviation"),
		plural(prov.Seen, "observation"),
		prov.Duration.Round(100*time.Microsecond),
		shortID(prov.RunID.String()))
	if prov.Partial {
		pal.warn.Fprintf(w, "partial capture: %s\n", prov.PartialNote)
	}
	if prov.TruncatedTraces {
		pal.warn.Fprintln(w, "some routes were cut at the trace depth limit")
	}
}

// palette holds the pretty renderer's colors. Disabled palettes render
// plain text regardless of the process environment.
type palette struct {
	kinds map[ir.DevKind]*color.Color
	other *color.Color
	good  *color.Color
	warn  *color.Color
	hint  *color.Color
	frame *color.Color
	dim   *color.Color
}

func newPalette(enabled bool) *palette {
	pal := &palette{
		kinds: map[ir.DevKind]*color.Color{
			ir.DevBuild:      color.New(color.FgRed, color.Bold),
			ir.DevType:       color.New(color.FgMagenta, color.Bold),
			ir.DevTest:       color.New(color.FgYellow, color.Bold),
			ir.DevRuntime:    color.New(color.FgRed),
			ir.DevBehavioral: color.New(color.FgCyan, color.Bold),
		},
		other: color.New(color.Bold),
		good:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		hint:  color.New(color.FgCyan),
		frame: color.New(color.Bold),
		dim:   color.New(color.Faint),
	}
	all := []*color.Color{pal.other, pal.good, pal.warn, pal.hint, pal.frame, pal.dim}
	for _, c := range pal.kinds {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return pal
}

func (p *palette) kind(k ir.DevKind) *color.Color {
	if c, ok := p.kinds[k]; ok {
		return c
	}
	return p.other
}

// fit cuts value to width display cells. Coloring happens after the cut,
// so escape sequences never count against the width.
func fit(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
