package copypipeline

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"mbtilekit/mbtiles"
)

// PreflightAnalysis is the result of inspecting a copy's source and
// destination before any writing happens, mirroring pasta.rs's
// preflight_check: it resolves whether the destination exists and is
// mbtiles-shaped, what schema type the copy will target, and whether the
// source and destination paths are the same file.
type PreflightAnalysis struct {
	DstExists    bool
	DstIsMbtiles bool
	DstType      mbtiles.Type
	SamePath     bool
}

// Preflight inspects cfg.Src/cfg.Dst without mutating either file.
func Preflight(ctx context.Context, cfg CopyConfig) (PreflightAnalysis, error) {
	if err := cfg.Check(); err != nil {
		return PreflightAnalysis{}, err
	}

	var out PreflightAnalysis
	if samePath, err := samePath(cfg.Src, cfg.Dst); err != nil {
		return out, err
	} else {
		out.SamePath = samePath
	}
	if out.SamePath {
		return out, fmt.Errorf("copypipeline: src and dst resolve to the same file")
	}

	if _, err := os.Stat(cfg.Dst); err != nil {
		if os.IsNotExist(err) {
			out.DstType = resolveDstType(cfg)
			return out, nil
		}
		return out, err
	}
	out.DstExists = true

	dst, err := mbtiles.OpenReadonly(ctx, cfg.Dst, 1)
	if err != nil {
		return out, fmt.Errorf("copypipeline: opening existing dst: %w", err)
	}
	defer dst.Close()

	isMbt, err := dst.IsMbtilesLike(ctx)
	if err != nil {
		return out, err
	}
	out.DstIsMbtiles = isMbt
	out.DstType = dst.Type()
	return out, nil
}

func resolveDstType(cfg CopyConfig) mbtiles.Type {
	if cfg.DstType != nil {
		return *cfg.DstType
	}
	return mbtiles.Flat
}

func samePath(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, nil // src doesn't exist yet is someone else's problem
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, nil
	}
	return os.SameFile(ai, bi), nil
}

// CheckConflict reports whether any tile selected for copy already exists
// in the destination at the same (zoom, column, row), per pasta.rs's
// check_conflict: a cheap LIMIT-1 existence probe, not a full diff.
func CheckConflict(ctx context.Context, src, dst *mbtiles.Store, where string) (bool, error) {
	var exists bool
	err := dst.Adapter().Run(ctx, func(c *sql.Conn) error {
		row := c.QueryRowContext(ctx, fmt.Sprintf(`
			SELECT 1 FROM (SELECT zoom_level, tile_column, tile_row FROM src.tiles WHERE %s) s
			JOIN tiles d ON d.zoom_level = s.zoom_level
				AND d.tile_column = s.tile_column
				AND d.tile_row = s.tile_row
			LIMIT 1`, where))
		var one int
		err := row.Scan(&one)
		if err == sql.ErrNoRows {
			return nil
		}
		if err == nil {
			exists = true
		}
		return err
	})
	return exists, err
}

// checkConflictIfRequired attaches src onto dst just long enough to run
// CheckConflict for the selected where-clause, then detaches again. Used
// by StreamCopy, which otherwise never attaches src (it reads source rows
// through Go, not via dst's connection) but still must honor property 20:
// InsertNone against a dst with overlapping tiles fails before any write.
func checkConflictIfRequired(ctx context.Context, cfg CopyConfig, src, dst *mbtiles.Store, where string) error {
	if !cfg.Strategy.RequiresCheck() {
		return nil
	}
	detach, err := attachSrc(ctx, dst, src.Adapter().Path())
	if err != nil {
		return err
	}
	defer detach()

	conflict, err := CheckConflict(ctx, src, dst, where)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("copypipeline: destination already has tiles in the selected range")
	}
	return nil
}

// attachSrc attaches src onto dst's connection under the "src" alias,
// returning a detach func that's safe to defer unconditionally — cleanup
// always runs, success or failure, matching pasta.rs's guarantee.
func attachSrc(ctx context.Context, dst *mbtiles.Store, srcPath string) (func(), error) {
	if err := dst.Attach(ctx, srcPath, "src"); err != nil {
		return func() {}, fmt.Errorf("copypipeline: attach src: %w", err)
	}
	return func() { _ = dst.Detach(ctx, "src") }, nil
}
