package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotCollect(t *testing.T) {
	snap := Snapshot{{Type: "storage.bucket", Name: "b"}}
	assets, err := snap.Collect(context.Background(), "any-project")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(assets) != 1 || assets[0].Name != "b" {
		t.Fatalf("assets = %+v", assets)
	}
}

func TestFileCollectorReadsJSON(t *testing.T) {
	dir := t.TempDir()
	content := `[{"name": "//storage.googleapis.com/projects/_/buckets/a", "assetType": "storage.googleapis.com/Bucket", "resource": {"data": {}}}]`
	if err := os.WriteFile(filepath.Join(dir, "prod-phi.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	assets, err := FileCollector{Dir: dir}.Collect(context.Background(), "prod-phi")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(assets) != 1 || assets[0].Type != "storage.bucket" {
		t.Fatalf("assets = %+v", assets)
	}
}

func TestFileCollectorReadsNDJSON(t *testing.T) {
	dir := t.TempDir()
	content := `{"name": "//sqladmin.googleapis.com/projects/p/instances/db", "assetType": "sqladmin.googleapis.com/Instance", "resource": {"data": {}}}`
	if err := os.WriteFile(filepath.Join(dir, "staging.ndjson"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	assets, err := FileCollector{Dir: dir}.Collect(context.Background(), "staging")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(assets) != 1 || assets[0].Type != "sql.instance" {
		t.Fatalf("assets = %+v", assets)
	}
}

func TestFileCollectorMissingProject(t *testing.T) {
	if _, err := (FileCollector{Dir: t.TempDir()}).Collect(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestFileCollectorEmptyProjectID(t *testing.T) {
	if _, err := (FileCollector{Dir: t.TempDir()}).Collect(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty project id")
	}
}

var _ Collector = Snapshot(nil)
var _ Collector = FileCollector{}
