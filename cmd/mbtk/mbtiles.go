package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mbtilekit/mbtiles"
	"mbtilekit/metadata"
	"mbtilekit/sqlitedb"
)

func newTouchCmd() *cobra.Command {
	var schemaFlag string
	cmd := &cobra.Command{
		Use:   "touch [path]",
		Short: "create new mbtiles file(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := mbtiles.Flat
			switch schemaFlag {
			case "hash":
				typ = mbtiles.Hash
			case "norm", "normalized":
				typ = mbtiles.Normalized
			}
			store, err := mbtiles.OpenNew(cmd.Context(), args[0], typ)
			if err != nil {
				return err
			}
			return store.Close()
		},
	}
	cmd.Flags().StringVar(&schemaFlag, "schema", "flat", "schema type: flat, hash, norm")
	return cmd
}

func newTilejsonCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tilejson [path]...",
		Aliases: []string{"tj"},
		Short:   "Echo tilejson for mbtiles file(s)",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for _, path := range args {
				store, err := mbtiles.OpenReadonly(ctx, path, 1)
				if err != nil {
					return err
				}
				rows, err := store.MetadataRows(ctx)
				store.Close()
				if err != nil {
					return err
				}
				j := metadata.FromRows(rows)
				out := map[string]any{"tilejson": "3.0.0"}
				for _, k := range j.Keys() {
					if v, ok := j.Get(k); ok {
						out[k] = v
					}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "metadata [path]",
		Aliases: []string{"meta", "md"},
		Short:   "Echo metadata (table) as json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := mbtiles.OpenReadonly(ctx, args[0], 1)
			if err != nil {
				return err
			}
			defer store.Close()
			rows, err := store.MetadataRows(ctx)
			if err != nil {
				return err
			}
			j := metadata.FromRows(rows)
			data := map[string]any{}
			for _, k := range j.Keys() {
				if v, ok := j.Get(k); ok {
					data[k] = v
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		},
	}
}

func newMetadataSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "metadata-set [path] [name] [value]",
		Aliases: []string{"meta-set", "mds"},
		Short:   "Set metadata key/value",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := mbtiles.OpenExisting(ctx, args[0], sqlitedb.Client, 1)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.MetadataSet(ctx, args[1], args[2])
		},
	}
}

func newMbinfoCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "mbinfo [path]",
		Short: "Echo basic stats on mbtiles file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := mbtiles.OpenReadonly(ctx, args[0], 1)
			if err != nil {
				return err
			}
			defer store.Close()
			stats, err := store.MbtStats(ctx, full)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "include per-zoom min/max/avg tile size")
	return cmd
}

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [path]...",
		Short: "Lint mbtiles file(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var anyFindings bool
			for _, path := range args {
				store, err := mbtiles.OpenReadonly(ctx, path, 1)
				if err != nil {
					return err
				}
				findings, err := store.Lint(ctx, mbtiles.LintOptions{})
				store.Close()
				if err != nil {
					return err
				}
				for _, f := range findings {
					anyFindings = true
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, f.Msg)
				}
			}
			if anyFindings {
				os.Exit(1)
			}
			return nil
		},
	}
	return cmd
}
