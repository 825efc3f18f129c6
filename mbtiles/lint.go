package mbtiles

import (
	"context"
	"fmt"

	"mbtilekit/sqlitedb"
)

// requiredMetadataFields mirrors the reference linter's REQUIRED_METADATA_FIELDS.
var requiredMetadataFields = []string{"bounds", "format", "maxzoom", "minzoom", "name"}

// LintFinding is one rule violation surfaced by Lint.
type LintFinding struct {
	Kind ErrorKind
	Msg  string
}

func (f LintFinding) Error() string { return f.Msg }

// LintOptions configures a lint pass. Fix is reserved for a future
// apply-corrections mode; the linter itself never mutates the database.
type LintOptions struct {
	Fix bool
}

// Lint runs the fixed rule set from spec §4.3 against an already-open,
// read-only store and returns every finding (empty slice means clean).
func (s *Store) Lint(ctx context.Context, opts LintOptions) ([]LintFinding, error) {
	var findings []LintFinding

	appID, err := s.adapter.ApplicationID(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case appID == 0:
		findings = append(findings, LintFinding{Kind: ErrMissingMagicNumber, Msg: "missing mbtiles magic-number/application_id"})
	case appID != sqlitedb.MbtilesApplicationID:
		findings = append(findings, LintFinding{
			Kind: ErrUnknownMagicNumber,
			Msg:  fmt.Sprintf("unrecognized mbtiles magic-number/application_id: %d != 0x%08X", appID, sqlitedb.MbtilesApplicationID),
		})
	}

	like, err := s.IsMbtilesLike(ctx)
	if err != nil {
		return nil, err
	}
	if !like {
		findings = append(findings, LintFinding{Kind: ErrMissingMetadata, Msg: "no metadata table/view"})
	}
	if s.typ == Unknown {
		findings = append(findings, LintFinding{Kind: ErrMissingTiles, Msg: "no tiles table/view"})
	}

	if like {
		hasUniqueIdx, err := s.HasUniqueIndexOnMetadata(ctx)
		if err != nil {
			return nil, err
		}
		if !hasUniqueIdx {
			findings = append(findings, LintFinding{Kind: ErrMissingUniqueIndex, Msg: "missing index: metadata.name"})
		}

		rows, err := s.MetadataRows(ctx)
		if err != nil {
			return nil, err
		}
		present := make(map[string]bool, len(rows))
		for _, r := range rows {
			present[r.Name] = true
		}
		for _, field := range requiredMetadataFields {
			if !present[field] {
				findings = append(findings, LintFinding{Kind: ErrMissingMetadataKV, Msg: fmt.Sprintf("metadata k/v missing: %s", field)})
			}
		}

		dupes, err := s.MetadataDuplicateKeyValues(ctx)
		if err != nil {
			return nil, err
		}
		for _, name := range dupes {
			findings = append(findings, LintFinding{Kind: ErrDuplicateMetadataKey, Msg: fmt.Sprintf("duplicate metadata key: %s", name)})
		}
	}

	return findings, nil
}
