package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "pixel-office",
		Short: "Pixel office - a live 2D scene for coding-agent activity",
		Long: `pixel-office turns a stream of agent activity into a tile-based office
scene: each agent is a sprite that walks between a desk and wander points,
reacts to status changes, and leaves through an exit when its session ends.`,
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newServeCmd(),
		newInspectCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pixel-office version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
