package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Terrain defaults
	if cfg.Terrain.Heightmap == "" {
		t.Error("expected a default heightmap path")
	}
	if cfg.Terrain.Segments <= 0 {
		t.Errorf("expected positive segment count, got %d", cfg.Terrain.Segments)
	}
	if cfg.Terrain.WorldSize <= 0 {
		t.Errorf("expected positive world size, got %f", cfg.Terrain.WorldSize)
	}

	// Character defaults
	if cfg.Character.RunSpeed <= cfg.Character.WalkSpeed {
		t.Error("expected run speed above walk speed")
	}
	if cfg.Character.JumpDuration <= 0 {
		t.Errorf("expected positive jump duration, got %f", cfg.Character.JumpDuration)
	}

	// Camera defaults
	if cfg.Camera.MinDistance >= cfg.Camera.MaxDistance {
		t.Error("expected camera min distance below max distance")
	}
	if cfg.Camera.Distance < cfg.Camera.MinDistance || cfg.Camera.Distance > cfg.Camera.MaxDistance {
		t.Errorf("expected default camera distance within [min, max], got %f", cfg.Camera.Distance)
	}

	// Server defaults
	if cfg.Server.Port != 8000 {
		t.Errorf("expected server port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Root != "web" {
		t.Errorf("expected server root 'web', got %s", cfg.Server.Root)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

terrain:
  heightmap: "maps/island.png"
  world_size: 300
  segments: 192
  height_scale: 20
  smoothing: 4

character:
  walk_speed: 3.5
  run_speed: 8
  jump_duration: 0.5

camera:
  distance: 12
  pitch: 25

audio:
  enabled: false
  master_volume: 0.5

server:
  port: 9000
  root: "public"

logging:
  level: "debug"
  log_file: "walkabout.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Terrain.Heightmap != "maps/island.png" {
		t.Errorf("expected heightmap 'maps/island.png', got %s", cfg.Terrain.Heightmap)
	}
	if cfg.Terrain.Segments != 192 {
		t.Errorf("expected 192 segments, got %d", cfg.Terrain.Segments)
	}
	if cfg.Terrain.Smoothing != 4 {
		t.Errorf("expected smoothing 4, got %d", cfg.Terrain.Smoothing)
	}
	// Values absent from the file keep their defaults.
	if cfg.Terrain.Texture != Default().Terrain.Texture {
		t.Errorf("expected default texture, got %s", cfg.Terrain.Texture)
	}

	if cfg.Character.WalkSpeed != 3.5 {
		t.Errorf("expected walk speed 3.5, got %f", cfg.Character.WalkSpeed)
	}
	if cfg.Character.JumpDuration != 0.5 {
		t.Errorf("expected jump duration 0.5, got %f", cfg.Character.JumpDuration)
	}

	if cfg.Camera.Distance != 12 {
		t.Errorf("expected camera distance 12, got %f", cfg.Camera.Distance)
	}

	if cfg.Audio.Enabled {
		t.Error("expected audio to be disabled")
	}
	if cfg.Audio.MasterVolume != 0.5 {
		t.Errorf("expected master volume 0.5, got %f", cfg.Audio.MasterVolume)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected server port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Root != "public" {
		t.Errorf("expected server root 'public', got %s", cfg.Server.Root)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "walkabout.log" {
		t.Errorf("expected log file 'walkabout.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty absolute path; the exact
	// location depends on the OS.
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "data flag",
			setup: func() {
				*flagData = "/srv/walkabout-assets"
			},
			verify: func(cfg *Config) {
				if cfg.Data.Dir != "/srv/walkabout-assets" {
					t.Errorf("expected data dir /srv/walkabout-assets, got %s", cfg.Data.Dir)
				}
			},
			teardown: func() {
				*flagData = ""
			},
		},
		{
			name: "heightmap flag",
			setup: func() {
				*flagHeightmap = "maps/crater.png"
			},
			verify: func(cfg *Config) {
				if cfg.Terrain.Heightmap != "maps/crater.png" {
					t.Errorf("expected heightmap maps/crater.png, got %s", cfg.Terrain.Heightmap)
				}
			},
			teardown: func() {
				*flagHeightmap = ""
			},
		},
		{
			name: "server flags",
			setup: func() {
				*flagPort = 8080
				*flagRoot = "dist"
			},
			verify: func(cfg *Config) {
				if cfg.Server.Port != 8080 {
					t.Errorf("expected server port 8080, got %d", cfg.Server.Port)
				}
				if cfg.Server.Root != "dist" {
					t.Errorf("expected server root 'dist', got %s", cfg.Server.Root)
				}
			},
			teardown: func() {
				*flagPort = 0
				*flagRoot = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 1440
	cfg.Server.Port = 9999

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if loaded.Graphics.Width != 1440 {
		t.Errorf("expected reloaded width 1440, got %d", loaded.Graphics.Width)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("expected reloaded port 9999, got %d", loaded.Server.Port)
	}
}
