// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package papers loads paper records from a directory of YAML files. Each
// file holds one paper; the filename stem is the default paper ID.
package papers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resynth/pkg/types"
)

// LoadFile reads a single paper from a YAML file. A paper without an
// explicit id falls back to the filename stem.
func LoadFile(path string) (*types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var paper types.Paper
	if err := yaml.Unmarshal(data, &paper); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if paper.ID == "" {
		base := filepath.Base(path)
		paper.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &paper, nil
}

// LoadDir reads every .yaml/.yml file in dir, in filename order. Files
// that fail to parse are reported on w and skipped rather than aborting
// the whole load.
func LoadDir(dir string, w io.Writer) ([]*types.Paper, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading papers directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var loaded []*types.Paper
	for _, name := range names {
		paper, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			continue
		}
		loaded = append(loaded, paper)
	}
	return loaded, nil
}
