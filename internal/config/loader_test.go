package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cwd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "auto" {
		t.Fatalf("log defaults wrong: %+v", cfg.Log)
	}
	if cfg.Server.Port != 8787 {
		t.Fatalf("server port default wrong: %d", cfg.Server.Port)
	}
	if cfg.State.Backend != "json" {
		t.Fatalf("state backend default wrong: %q", cfg.State.Backend)
	}
	if cfg.Quiz.QuestionsPerObjective != 3 || !cfg.Quiz.Prefetch {
		t.Fatalf("quiz defaults wrong: %+v", cfg.Quiz)
	}
	if !cfg.Reflection.Enabled || cfg.Reflection.MaxIterations != 2 || cfg.Reflection.ClarityThreshold != 7 {
		t.Fatalf("reflection defaults wrong: %+v", cfg.Reflection)
	}
	if cfg.Model.Timeout != 5*time.Minute {
		t.Fatalf("model timeout default wrong: %v", cfg.Model.Timeout)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutor.yaml")
	content := `
log:
  level: debug
server:
  port: 9999
state:
  backend: sqlite
reflection:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewLoader().WithConfigFile(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("file value not applied: %+v", cfg.Log)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("file value not applied: %+v", cfg.Server)
	}
	if cfg.State.Backend != "sqlite" {
		t.Fatalf("file value not applied: %+v", cfg.State)
	}
	if cfg.Reflection.Enabled {
		t.Fatalf("file value not applied: %+v", cfg.Reflection)
	}
	// Untouched keys keep defaults.
	if cfg.Quiz.QuestionsPerObjective != 3 {
		t.Fatalf("default lost: %+v", cfg.Quiz)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutor.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TUTOR_LOG_LEVEL", "error")

	cfg, err := NewLoader().WithConfigFile(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Fatalf("env should override file, got %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cwd, _ := os.Getwd()
		dir := t.TempDir()
		_ = os.Chdir(dir)
		defer func() { _ = os.Chdir(cwd) }()
		cfg, err := NewLoader().Load()
		if err != nil {
			t.Fatalf("load defaults: %v", err)
		}
		return cfg
	}

	if err := Validate(valid()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad backend", func(c *Config) { c.State.Backend = "redis" }, "state.backend"},
		{"no model path", func(c *Config) { c.Model.Path = "" }, "model.path"},
		{"bad temperature", func(c *Config) { c.Model.Temperature = 3 }, "model.temperature"},
		{"bad question count", func(c *Config) { c.Quiz.QuestionsPerObjective = 0 }, "quiz.questions_per_objective"},
		{"bad iterations", func(c *Config) { c.Reflection.MaxIterations = 9 }, "reflection.max_iterations"},
		{"bad clarity", func(c *Config) { c.Reflection.ClarityThreshold = 0 }, "reflection.clarity_threshold"},
		{"bad expertise", func(c *Config) { c.Helper.Expertise = "guru" }, "helper.expertise"},
		{"bad excerpt cap", func(c *Config) { c.Helper.ExcerptRunes = 0 }, "helper.excerpt_runes"},
		{"bad turn cap", func(c *Config) { c.Helper.MaxTurns = -1 }, "helper.max_turns"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mod(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.field)
			}
			errs, ok := err.(ValidationErrors)
			if !ok {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			found := false
			for _, e := range errs {
				if e.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected error on %s, got %v", tc.field, errs)
			}
		})
	}
}
