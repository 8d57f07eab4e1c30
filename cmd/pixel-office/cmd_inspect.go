package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddx-510/opencode-pixel-office/internal/grid"
)

// legend maps tile classes to one-character glyphs for the inspect dump.
var legend = map[grid.Class]rune{
	grid.Blocked:     '#',
	grid.Floor:       '.',
	grid.WorkStation: 'W',
	grid.Door:        'D',
	grid.Exit:        'E',
}

func newInspectCmd() *cobra.Command {
	var tileSize int

	cmd := &cobra.Command{
		Use:   "inspect <map.png>",
		Short: "Classify a map asset and print its grid and landmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := grid.ImageSource{Path: args[0], TileSize: tileSize}
			g, err := src.Grid()
			if err != nil {
				return fmt.Errorf("classify %s: %w", args[0], err)
			}
			marks := grid.ExtractLandmarks(g)

			for r := 0; r < g.Rows(); r++ {
				for c := 0; c < g.Cols(); c++ {
					fmt.Print(string(legend[g.ClassAt(grid.Tile{Row: r, Col: c})]))
				}
				fmt.Println()
			}
			fmt.Printf("\n%dx%d tiles @%dpx\n", g.Rows(), g.Cols(), g.TileSize())
			fmt.Printf("work tiles:   %d in %d clusters\n", len(marks.WorkTiles), len(marks.WorkCenters))
			for _, c := range marks.WorkCenters {
				fmt.Printf("  center (%d,%d)\n", c.Row, c.Col)
			}
			fmt.Printf("door tiles:   %d\n", len(marks.DoorTiles))
			fmt.Printf("exit tiles:   %d\n", len(marks.ExitTiles))
			return nil
		},
	}

	cmd.Flags().IntVar(&tileSize, "tile-size", 32, "Tile edge length in pixels")
	return cmd
}
