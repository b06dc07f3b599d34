package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("missing file = %+v, want defaults", cfg)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := DefaultConfig()
	want.Backend = BackendConfig{URL: "https://analytics.example.com:8443", Token: "secret-token"}
	want.Filter = FilterConfig{ProjectKey: "PROJ", RepoName: "backend", LookbackDays: 30}
	want.UI.PollIntervalSeconds = 10
	want.Export.Dir = "/tmp/reports"

	if err := SaveTo(want, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != want {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveToRestrictsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Backend.Token = "secret"
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600 (may carry the token)", perm)
	}
}

func TestLoadFromTrimsTrailingSlash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend:\n  url: http://localhost:5000/\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:5000" {
		t.Errorf("URL = %q, want trailing slash trimmed", cfg.Backend.URL)
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend:\n  url: http://host:9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Filter.LookbackDays != 7 {
		t.Errorf("LookbackDays = %d, want default 7", cfg.Filter.LookbackDays)
	}
	if cfg.UI.PollIntervalSeconds != 5 {
		t.Errorf("PollIntervalSeconds = %d, want default 5", cfg.UI.PollIntervalSeconds)
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: [not a mapping"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestPollIntervalFloor(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{0, 5 * time.Second},
		{-3, 5 * time.Second},
		{1, time.Second},
		{12, 12 * time.Second},
	}
	for _, tc := range tests {
		cfg := Config{UI: UIConfig{PollIntervalSeconds: tc.seconds}}
		if got := cfg.PollInterval(); got != tc.want {
			t.Errorf("PollInterval(%d) = %v, want %v", tc.seconds, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid http", "http://localhost:5000", false},
		{"valid https", "https://analytics.example.com", false},
		{"empty", "", true},
		{"no scheme", "localhost:5000", true},
		{"scheme only", "http://", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Backend: BackendConfig{URL: tc.url}}
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate(%q) = %v, wantErr %v", tc.url, err, tc.wantErr)
			}
		})
	}
}
