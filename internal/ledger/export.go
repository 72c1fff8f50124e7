// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notion-migrate/pkg/types"
)

// Export is the full record of one run.
type Export struct {
	Run    Run                `json:"run" yaml:"run"`
	Files  []types.FileRecord `json:"files" yaml:"files"`
	Issues []IssueEntry       `json:"issues" yaml:"issues"`
}

// ExportYAML writes the record of runID (zero for the latest run) to
// export-<id>.yaml next to the database and returns the file path.
func (s *Store) ExportYAML(ctx context.Context, runID int64) (string, error) {
	exp, err := s.export(ctx, runID)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(&exp)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(exp.Run.ID, "yaml", data)
}

// ExportJSON writes the record of runID (zero for the latest run) to
// export-<id>.json next to the database and returns the file path.
func (s *Store) ExportJSON(ctx context.Context, runID int64) (string, error) {
	exp, err := s.export(ctx, runID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(exp.Run.ID, "json", data)
}

func (s *Store) export(ctx context.Context, runID int64) (Export, error) {
	run, err := s.Run(ctx, runID)
	if err != nil {
		return Export{}, err
	}
	files, err := s.Files(ctx, run.ID)
	if err != nil {
		return Export{}, err
	}
	issues, err := s.Issues(ctx, IssueFilter{RunID: run.ID})
	if err != nil {
		return Export{}, err
	}
	return Export{Run: run, Files: files, Issues: issues}, nil
}

func (s *Store) writeExport(runID int64, ext string, data []byte) (string, error) {
	path := filepath.Join(filepath.Dir(s.path), fmt.Sprintf("export-%d.%s", runID, ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
