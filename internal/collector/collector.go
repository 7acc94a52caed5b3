// Package collector is the boundary to the external asset inventory
// supplier. The evaluation core never fetches cloud state itself; it
// consumes whatever snapshot a collector hands it.
package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hipaaguard/hipaaguard/internal/asset"
)

// Collector supplies the asset inventory for one project.
type Collector interface {
	Collect(ctx context.Context, projectID string) ([]asset.Asset, error)
}

// Snapshot is an in-memory collector, used for inline API payloads and tests.
type Snapshot []asset.Asset

func (s Snapshot) Collect(ctx context.Context, projectID string) ([]asset.Asset, error) {
	return s, nil
}

// FileCollector reads Cloud Asset Inventory export files from a directory,
// one file per project (<project>.json or <project>.ndjson).
type FileCollector struct {
	Dir string
}

func (f FileCollector) Collect(ctx context.Context, projectID string) ([]asset.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, fmt.Errorf("collect: project id is required")
	}

	var lastErr error
	for _, name := range []string{projectID + ".json", projectID + ".ndjson"} {
		path := filepath.Join(f.Dir, name)
		file, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		defer file.Close()

		assets, err := asset.DecodeSnapshot(file)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", path, err)
		}
		return assets, nil
	}
	return nil, fmt.Errorf("collect: no snapshot for project %q: %w", projectID, lastErr)
}
