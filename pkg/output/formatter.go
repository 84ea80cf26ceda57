package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ritzau/ecolink/pkg/corridor"
	"github.com/ritzau/ecolink/pkg/risk"
)

var riskColors = map[int]*color.Color{
	1: color.New(color.FgGreen),
	2: color.New(color.FgYellow),
	3: color.New(color.FgHiRed),
	4: color.New(color.FgRed, color.Bold),
}

// PrintCorridor prints a corridor as a numbered list of segments, each
// colored by its risk level, followed by the totals
func PrintCorridor(w io.Writer, c *corridor.Corridor) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	if len(c.Path) == 0 {
		for name, loc := range c.Nodes {
			bold.Fprintf(w, "%s (%s)\n", name, loc.State)
		}
		fmt.Fprintln(w, "Source and destination are the same habitat.")
		return
	}

	bold.Fprintf(w, "Corridor: %s → %s\n", c.Path[0].SourceFull, c.Path[len(c.Path)-1].DestinationFull)
	fmt.Fprintln(w)

	for i, seg := range c.Path {
		fmt.Fprintf(w, "%3d. %s → %s\n", i+1, seg.SourceFull, seg.DestinationFull)
		riskColor(seg.Risk).Fprintf(w, "     %.1f km, risk %d", seg.Distance, seg.Risk)
		if level, ok := risk.Describe(seg.Risk); ok {
			fmt.Fprintf(w, " (%s)", level.Description)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	cyan.Fprintf(w, "Total: %.1f km over %d segment(s), cumulative risk %d\n", c.TotalDistance, len(c.Path), c.TotalRisk)
}

// PrintError prints a query failure the way the API reports it
func PrintError(w io.Writer, err error) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "Error: %s\n", corridor.Message(err))
}

func riskColor(level int) *color.Color {
	if c, ok := riskColors[level]; ok {
		return c
	}
	return color.New(color.Reset)
}
