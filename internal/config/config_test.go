package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Policy.Name != "LEAST_USED" {
		t.Errorf("default policy = %q, want LEAST_USED", cfg.Policy.Name)
	}
	if cfg.Pool.MemCapacity <= 0 {
		t.Error("default mem capacity must be positive")
	}
	if cfg.Policy.ProviderOverheadBase != 3000.0 || cfg.Policy.ProviderOverheadPct != 0.2 {
		t.Errorf("unexpected default cold-start overhead: %+v", cfg.Policy)
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"policy":{"name":"CLOUD21"},"pool":{"mem_capacity":4096}}`), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Policy.Name != "CLOUD21" {
		t.Errorf("Policy.Name = %q, want CLOUD21", cfg.Policy.Name)
	}
	if cfg.Pool.MemCapacity != 4096 {
		t.Errorf("Pool.MemCapacity = %d, want 4096", cfg.Pool.MemCapacity)
	}
	if cfg.Run.Label != "default" {
		t.Errorf("unset fields should keep their default, got Label=%q", cfg.Run.Label)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CACHESIM_POLICY", "MAX_MEM")
	t.Setenv("CACHESIM_MEM_CAPACITY", "2048")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.Policy.Name != "MAX_MEM" {
		t.Errorf("Policy.Name = %q, want MAX_MEM", cfg.Policy.Name)
	}
	if cfg.Pool.MemCapacity != 2048 {
		t.Errorf("Pool.MemCapacity = %d, want 2048", cfg.Pool.MemCapacity)
	}
}
