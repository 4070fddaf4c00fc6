package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/render/adjacency"
)

// diagramCommand creates the diagram command.
func (c *CLI) diagramCommand() *cobra.Command {
	var (
		floor    int
		output   string
		detailed bool
		dotOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "diagram [model.json]",
		Short: "Emit the room adjacency graph of a floor",
		Long: `Emit the room adjacency graph of a floor.

Two rooms are adjacent when they share a wall segment of positive
length. The graph is written as Graphviz DOT, or rendered to SVG via
the embedded Graphviz engine. Use --detailed to include room areas
and zones in the node labels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiagram(args[0], floor, output, detailed, dotOnly)
		},
	}

	cmd.Flags().IntVar(&floor, "floor", 0, "floor index to diagram")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: model name + floor + extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include areas and zones in node labels")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "write DOT source instead of rendered SVG")

	return cmd
}

func (c *CLI) runDiagram(input string, floor int, output string, detailed, dotOnly bool) error {
	m, err := loadModel(input)
	if err != nil {
		return err
	}
	if floor < 0 || floor >= len(m.Floors) {
		return errors.New(errors.ErrCodeInvalidSpec, "floor %d out of range 0..%d", floor, len(m.Floors)-1)
	}

	f := m.Floors[floor]
	dot := adjacency.ToDOT(f, adjacency.Options{Detailed: detailed})
	c.Logger.Debug("adjacency graph built", "floor", floor, "rooms", len(f.Rooms), "edges", adjacency.EdgeCount(dot))

	ext := ".svg"
	if dotOnly {
		ext = ".dot"
	}
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		output = fmt.Sprintf("%s-floor-%d%s", base, floor, ext)
	}

	var data []byte
	if dotOnly {
		data = []byte(dot)
	} else {
		data, err = adjacency.RenderSVG(dot)
		if err != nil {
			return err
		}
	}
	if err := writeFileReport(output, data); err != nil {
		return err
	}

	printSuccess("Diagram written")
	printFile(output)
	return nil
}
