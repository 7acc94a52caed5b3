package config

import "testing"

func TestLoadWithOptions_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SCAN_INTERVAL", "")
	t.Setenv("SCAN_WORKERS", "")
	t.Setenv("SCAN_PROJECTS", "")

	cfg, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.HTTPAddr != defaultHTTPAddr {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, defaultHTTPAddr)
	}
	if cfg.ScanInterval != defaultScanInterval {
		t.Fatalf("ScanInterval = %s, want %s", cfg.ScanInterval, defaultScanInterval)
	}
	if cfg.ScanWorkers != defaultScanWorkers {
		t.Fatalf("ScanWorkers = %d, want %d", cfg.ScanWorkers, defaultScanWorkers)
	}
	if len(cfg.ScanProjects) != 0 {
		t.Fatalf("ScanProjects = %v, want empty", cfg.ScanProjects)
	}
}

func TestLoadWithOptions_ParsesScanInterval(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SCAN_INTERVAL", "27m")

	cfg, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.ScanInterval.String() != "27m0s" {
		t.Fatalf("ScanInterval = %s, want %s", cfg.ScanInterval, "27m0s")
	}
}

func TestLoadWithOptions_SplitsProjects(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SCAN_PROJECTS", "prod-phi, staging , ,analytics")

	cfg, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	want := []string{"prod-phi", "staging", "analytics"}
	if len(cfg.ScanProjects) != len(want) {
		t.Fatalf("ScanProjects = %v, want %v", cfg.ScanProjects, want)
	}
	for i, p := range want {
		if cfg.ScanProjects[i] != p {
			t.Fatalf("ScanProjects[%d] = %q, want %q", i, cfg.ScanProjects[i], p)
		}
	}
}

func TestLoadWithOptions_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadWithOptions(LoadOptions{RequireDatabaseURL: true}); err == nil {
		t.Fatal("expected DATABASE_URL error")
	}
}
