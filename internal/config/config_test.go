package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Analysis.Workers != 25 {
		t.Errorf("Workers = %d, want 25", cfg.Analysis.Workers)
	}
	if cfg.Analysis.Permutations != 5000 {
		t.Errorf("Permutations = %d, want 5000", cfg.Analysis.Permutations)
	}
	if cfg.Analysis.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Analysis.Seed)
	}
	if cfg.Analysis.MinSetSize != 10 || cfg.Analysis.MaxSetSize != 200 {
		t.Errorf("size window %d..%d, want 10..200", cfg.Analysis.MinSetSize, cfg.Analysis.MaxSetSize)
	}
	if cfg.Database.Enabled {
		t.Error("database enabled without DATABASE_URL")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ANALYSIS_WORKERS", "4")
	t.Setenv("ANALYSIS_PERMUTATIONS", "100")
	t.Setenv("ANALYSIS_SEED", "7")
	t.Setenv("DATABASE_URL", "postgres://localhost/generank")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Analysis.Workers != 4 || cfg.Analysis.Permutations != 100 || cfg.Analysis.Seed != 7 {
		t.Errorf("analysis config = %+v", cfg.Analysis)
	}
	if !cfg.Database.Enabled {
		t.Error("database not enabled with DATABASE_URL set")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero workers", "ANALYSIS_WORKERS", "0"},
		{"zero permutations", "ANALYSIS_PERMUTATIONS", "0"},
		{"negative min size", "GENESET_MIN_SIZE", "-1"},
		{"inverted size window", "GENESET_MAX_SIZE", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("ANALYSIS_WORKERS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Analysis.Workers != 25 {
		t.Errorf("Workers = %d, want default 25", cfg.Analysis.Workers)
	}
}
