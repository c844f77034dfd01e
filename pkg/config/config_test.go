package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.NodeHalfExtent != 25 {
		t.Errorf("NodeHalfExtent = %g, want 25", cfg.NodeHalfExtent)
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("TOPOFORGE_PORT", "9999")
	t.Setenv("TOPOFORGE_COMPRESS", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999 from env", cfg.Port)
	}
	if !cfg.Compress {
		t.Error("Compress should be true from env")
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TOPOFORGE_PORT", "9999")

	f := Flags()
	if err := f.Parse([]string{"--port", "7000"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7000 {
		t.Errorf("Port = %d, want 7000 from flag", cfg.Port)
	}
}
