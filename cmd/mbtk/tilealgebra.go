package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mbtilekit/tile"
)

// parseZXY accepts "z/x/y", "z,x,y", or a bare "[x, y, z]" JSON array, the
// same flexible tile-argument parsing the reference CLI's TileFmtArgs
// supports.
func parseZXY(arg string) (tile.Tile, error) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "[") {
		var xyz [3]int
		if err := json.Unmarshal([]byte(arg), &xyz); err != nil {
			return tile.Tile{}, fmt.Errorf("parse tile %q: %w", arg, err)
		}
		return tile.New(uint32(xyz[0]), uint32(xyz[1]), uint8(xyz[2]))
	}

	sep := "/"
	if strings.Contains(arg, ",") {
		sep = ","
	}
	parts := strings.Split(arg, sep)
	if len(parts) != 3 {
		return tile.Tile{}, fmt.Errorf("parse tile %q: expected z%sx%sy", arg, sep, sep)
	}
	z, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return tile.Tile{}, fmt.Errorf("parse tile %q: %w", arg, err)
	}
	x, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return tile.Tile{}, fmt.Errorf("parse tile %q: %w", arg, err)
	}
	y, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return tile.Tile{}, fmt.Errorf("parse tile %q: %w", arg, err)
	}
	return tile.New(uint32(x), uint32(y), uint8(z))
}

func tileJSONArr(t tile.Tile) string {
	return fmt.Sprintf("[%d, %d, %d]", t.X, t.Y, t.Z)
}

func newTileCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tile [z/x/y]...",
		Short:   "Echo tile(s) as [x, y, z]",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				t, err := parseZXY(a)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tileJSONArr(t))
			}
			return nil
		},
	}
}

func newQuadkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "quadkey [z/x/y | quadkey]...",
		Aliases: []string{"qk"},
		Short:   "Convert to/from quadkey(s)",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if t, err := parseZXY(a); err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), t.Quadkey())
					continue
				}
				t, err := tile.FromQuadkey(a)
				if err != nil {
					return fmt.Errorf("parse %q as tile or quadkey: %w", a, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), tileJSONArr(t))
			}
			return nil
		},
	}
}

func newPmtileidCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "pmtileid [z/x/y | id]...",
		Aliases: []string{"pmid"},
		Short:   "Convert to/from pmtile id(s)",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if t, err := parseZXY(a); err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), t.PMTileID())
					continue
				}
				id, err := strconv.ParseUint(a, 10, 64)
				if err != nil {
					return fmt.Errorf("parse %q as tile or pmtile id: %w", a, err)
				}
				t, err := tile.FromPMTileID(id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tileJSONArr(t))
			}
			return nil
		},
	}
}

func newBoundingTileCmd() *cobra.Command {
	var west, south, east, north float64
	cmd := &cobra.Command{
		Use:   "bounding-tile",
		Short: "Echo the bounding tile of a bbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := tile.BoundingTile(tile.BBox{West: west, South: south, East: east, North: north})
			fmt.Fprintln(cmd.OutOrStdout(), tileJSONArr(t))
			return nil
		},
	}
	cmd.Flags().Float64Var(&west, "west", -180, "west edge")
	cmd.Flags().Float64Var(&south, "south", -85.0511, "south edge")
	cmd.Flags().Float64Var(&east, "east", 180, "east edge")
	cmd.Flags().Float64Var(&north, "north", 85.0511, "north edge")
	return cmd
}

func newParentCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "parent [z/x/y]...",
		Short: "Echo parent of tile(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				t, err := parseZXY(a)
				if err != nil {
					return err
				}
				p, err := t.Parent(n - 1)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tileJSONArr(p))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "depth", 1, "number of levels up")
	return cmd
}

func newChildrenCmd() *cobra.Command {
	var zoom int
	cmd := &cobra.Command{
		Use:   "children [z/x/y]...",
		Short: "Echo children of tile(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				t, err := parseZXY(a)
				if err != nil {
					return err
				}
				z := t.Z + 1
				if zoom > 0 {
					z = uint8(zoom)
				}
				children, err := t.Children(z)
				if err != nil {
					return err
				}
				for _, c := range children {
					fmt.Fprintln(cmd.OutOrStdout(), tileJSONArr(c))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&zoom, "zoom", 0, "target zoom (default: immediate children)")
	return cmd
}

func newNeighborsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "neighbors [z/x/y]...",
		Short: "Echo neighbors of tile(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				t, err := parseZXY(a)
				if err != nil {
					return err
				}
				for _, n := range t.Neighbors() {
					fmt.Fprintln(cmd.OutOrStdout(), tileJSONArr(n))
				}
			}
			return nil
		},
	}
}

func newTilesCmd() *cobra.Command {
	var west, south, east, north float64
	var zooms []int
	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "Echo tiles of bbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			zs := make([]uint8, len(zooms))
			for i, z := range zooms {
				zs[i] = uint8(z)
			}
			bbox := tile.BBox{West: west, South: south, East: east, North: north}
			for t := range tile.Tiles(bbox, zs) {
				fmt.Fprintln(cmd.OutOrStdout(), tileJSONArr(t))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&west, "west", -180, "west edge")
	cmd.Flags().Float64Var(&south, "south", -85.0511, "south edge")
	cmd.Flags().Float64Var(&east, "east", 180, "east edge")
	cmd.Flags().Float64Var(&north, "north", 85.0511, "north edge")
	cmd.Flags().IntSliceVar(&zooms, "zoom", nil, "zoom level(s)")
	_ = cmd.MarkFlagRequired("zoom")
	return cmd
}
