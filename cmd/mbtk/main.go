// Command mbtk is the toolkit's CLI: tile-algebra conversions, MBTiles
// inspection/linting, metadata editing, and store-to-store copy, wired
// with cobra the way the reference CLI wires its "ut" binary.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "mbtk",
		Short:         "mbtk is a toolkit for working with MBTiles files and slippy-map tile math",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetFlags(log.Ltime | log.Lshortfile)
			} else {
				log.SetFlags(0)
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newTileCmd(),
		newQuadkeyCmd(),
		newPmtileidCmd(),
		newBoundingTileCmd(),
		newParentCmd(),
		newChildrenCmd(),
		newNeighborsCmd(),
		newTilesCmd(),
		newTouchCmd(),
		newTilejsonCmd(),
		newMetadataCmd(),
		newMetadataSetCmd(),
		newMbinfoCmd(),
		newLintCmd(),
		newCopyCmd(),
		newRimrafCmd(),
	)
	return root
}
