package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mbtilekit/copypipeline"
	"mbtilekit/transform"
)

func newCopyCmd() *cobra.Command {
	var (
		zoomList   []int
		zoomMin    int
		zoomMax    int
		bbox       []float64
		onConflict string
		reencode   string
		jobs       int
	)

	cmd := &cobra.Command{
		Use:     "copy [src] [dst]",
		Aliases: []string{"cp"},
		Short:   "Copy tiles from src -> dst",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := copypipeline.CopyConfig{
				Src:         args[0],
				Dst:         args[1],
				Strategy:    parseInsertStrategy(onConflict),
				Concurrency: jobs,
			}

			if len(zoomList) > 0 {
				zooms := make([]uint8, len(zoomList))
				for i, z := range zoomList {
					zooms[i] = uint8(z)
				}
				cfg.Zoom.Zooms = zooms
			} else if cmd.Flags().Changed("minzoom") || cmd.Flags().Changed("maxzoom") {
				min, max := uint8(zoomMin), uint8(zoomMax)
				cfg.Zoom.Min, cfg.Zoom.Max = &min, &max
			}

			if len(bbox) == 4 {
				cfg.Bbox = copypipeline.BboxSelector{
					Set: true, West: bbox[0], South: bbox[1], East: bbox[2], North: bbox[3],
				}
			}

			if reencode != "" {
				cfg.Transform = reencodeTransform(reencode)
			}

			result, err := copypipeline.Copy(cmd.Context(), cfg, func(p copypipeline.Progress) {
				if p.Total > 0 && p.Done%500 == 0 {
					fmt.Fprintf(os.Stderr, "copy: %d/%d\n", p.Done, p.Total)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d tiles (%d skipped) in %s\n",
				result.TilesCopied, result.TilesSkipped, result.Elapsed)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&zoomList, "zoom", nil, "explicit zoom level(s)")
	cmd.Flags().IntVar(&zoomMin, "minzoom", 0, "minimum zoom")
	cmd.Flags().IntVar(&zoomMax, "maxzoom", 24, "maximum zoom")
	cmd.Flags().Float64SliceVar(&bbox, "bbox", nil, "west,south,east,north")
	cmd.Flags().StringVar(&onConflict, "on-conflict", "none", "none, ignore, replace, abort")
	cmd.Flags().StringVar(&reencode, "reencode", "", "re-encode tiles to this image format: png, jpeg")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "transformer concurrency (0: max(4, ncpus))")
	return cmd
}

func parseInsertStrategy(s string) copypipeline.InsertStrategy {
	switch s {
	case "ignore":
		return copypipeline.InsertIgnore
	case "replace":
		return copypipeline.InsertReplace
	case "abort":
		return copypipeline.InsertAbort
	default:
		return copypipeline.InsertNone
	}
}

func reencodeTransform(format string) copypipeline.Transform {
	switch format {
	case "jpeg", "jpg":
		return transform.ImageReencode{Target: transform.FormatJPEG}
	default:
		return transform.ImageReencode{Target: transform.FormatPNG}
	}
}
