package asset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// snapshotRecord is one entry of a Cloud Asset Inventory export: the asset
// name, the long asset type ("storage.googleapis.com/Bucket"), and the
// provider resource payload under resource.data.
type snapshotRecord struct {
	Name      string `json:"name"`
	AssetType string `json:"assetType"`
	Resource  struct {
		Data map[string]any `json:"data"`
	} `json:"resource"`
}

// shortTypes maps Cloud Asset Inventory asset types to the short identifiers
// the rule library is keyed on. Unknown types fall through to a generic
// service.Kind form so new resource kinds flow through without engine changes.
var shortTypes = map[string]string{
	"storage.googleapis.com/Bucket":               "storage.bucket",
	"compute.googleapis.com/Instance":             "compute.instance",
	"compute.googleapis.com/Firewall":             "compute.firewall",
	"sqladmin.googleapis.com/Instance":            "sql.instance",
	"iam.googleapis.com/ServiceAccount":           "iam.serviceAccount",
	"container.googleapis.com/Cluster":            "container.cluster",
	"logging.googleapis.com/LogSink":              "logging.sink",
	"logging.googleapis.com/LogBucket":            "logging.bucket",
	"cloudfunctions.googleapis.com/CloudFunction": "cloudfunctions.function",
}

// ShortType normalizes a Cloud Asset Inventory asset type to the short form
// used throughout the engine. Types already in short form pass through.
func ShortType(assetType string) string {
	assetType = strings.TrimSpace(assetType)
	if short, ok := shortTypes[assetType]; ok {
		return short
	}
	service, kind, ok := strings.Cut(assetType, "/")
	if !ok {
		return assetType
	}
	service, _, _ = strings.Cut(service, ".")
	return service + "." + lowerFirst(kind)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// DecodeSnapshot reads a Cloud Asset Inventory export and returns the
// normalized asset list. Both export encodings are accepted: a JSON array of
// records, or newline-delimited JSON as produced by asset export jobs.
func DecodeSnapshot(r io.Reader) ([]Asset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	var records []snapshotRecord
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode snapshot array: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(trimmed))
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			raw := bytes.TrimSpace(scanner.Bytes())
			if len(raw) == 0 {
				continue
			}
			var rec snapshotRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("decode snapshot line %d: %w", line, err)
			}
			records = append(records, rec)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
	}

	assets := make([]Asset, 0, len(records))
	for _, rec := range records {
		assets = append(assets, Asset{
			Type:       ShortType(rec.AssetType),
			Name:       strings.TrimSpace(rec.Name),
			Properties: rec.Resource.Data,
		})
	}
	return assets, nil
}
