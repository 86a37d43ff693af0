// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the named run to <dir>/<name>.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, name string) (string, error) {
	run, err := s.LoadRun(ctx, name)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(run)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, name+".yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the named run to <dir>/<name>.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, name string) (string, error) {
	run, err := s.LoadRun(ctx, name)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dir, name+".json")
	return path, os.WriteFile(path, data, 0o644)
}
