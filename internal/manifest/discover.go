// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package manifest

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/monadic/kubefzf/internal/clierr"
	"github.com/monadic/kubefzf/internal/textutil"
)

// DefaultMarkers are the file names that make a directory a kustomization.
var DefaultMarkers = []string{"kustomization.yaml", "kustomization.yml", "Kustomization"}

// Discover walks root and returns every directory holding one of the marker
// files, sorted. Hidden directories below root are skipped. Finding none is
// a usage error.
func Discover(root string, markers []string) ([]string, error) {
	if root == "" {
		root = "."
	}
	if len(markers) == 0 {
		markers = DefaultMarkers
	}

	seen := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if textutil.Contains(d.Name(), markers) {
			seen[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return nil, clierr.Usage("cannot search %s for kustomizations: %v", root, err)
	}

	folders := make([]string, 0, len(seen))
	for dir := range seen {
		folders = append(folders, dir)
	}
	if len(folders) == 0 {
		return nil, clierr.Usage("no kustomization found under %s", root)
	}
	sort.Strings(folders)
	return folders, nil
}
