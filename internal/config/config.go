// Package config handles configuration loading and management.
package config

// Config holds all viewer and server settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Character CharacterConfig `yaml:"character"`
	Camera    CameraConfig    `yaml:"camera"`
	Scene     SceneConfig     `yaml:"scene"`
	Audio     AudioConfig     `yaml:"audio"`
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// TerrainConfig holds heightmap terrain settings.
// Heightmap and Texture are paths relative to the data directory.
type TerrainConfig struct {
	Heightmap     string     `yaml:"heightmap"`
	Texture       string     `yaml:"texture"`
	WorldSize     float32    `yaml:"world_size"`
	Segments      int        `yaml:"segments"`
	HeightScale   float32    `yaml:"height_scale"`
	Smoothing     int        `yaml:"smoothing"`
	TextureRepeat float32    `yaml:"texture_repeat"`
	FallbackColor [3]float32 `yaml:"fallback_color"`
}

// CharacterConfig holds the player model and locomotion tuning.
// TurnSpeed is in degrees per second, speeds in world units per second.
type CharacterConfig struct {
	Model        string  `yaml:"model"`
	ClipsDir     string  `yaml:"clips_dir"`
	Scale        float32 `yaml:"scale"`
	WalkSpeed    float32 `yaml:"walk_speed"`
	RunSpeed     float32 `yaml:"run_speed"`
	BackSpeed    float32 `yaml:"back_speed"`
	TurnSpeed    float32 `yaml:"turn_speed"`
	JumpHeight   float32 `yaml:"jump_height"`
	JumpDuration float32 `yaml:"jump_duration"`
	StrideLength float32 `yaml:"stride_length"`
}

// CameraConfig holds follow camera settings. Pitch is in degrees.
type CameraConfig struct {
	Distance        float32 `yaml:"distance"`
	MinDistance     float32 `yaml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance"`
	Pitch           float32 `yaml:"pitch"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
	Smoothing       float32 `yaml:"smoothing"`
}

// SceneConfig holds sky, fog and shadow settings.
type SceneConfig struct {
	SkyColor [3]float32 `yaml:"sky_color"`
	Fog      FogConfig  `yaml:"fog"`
	Shadows  bool       `yaml:"shadows"`
}

// FogConfig holds linear fog settings.
type FogConfig struct {
	Enabled bool    `yaml:"enabled"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Enabled       bool    `yaml:"enabled"`
	MasterVolume  float32 `yaml:"master_volume"`
	EffectsVolume float32 `yaml:"effects_volume"`
}

// ServerConfig holds static file server settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	Root      string `yaml:"root"`
	AssetsDir string `yaml:"assets_dir"`
}

// DataConfig holds asset file locations.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Terrain: TerrainConfig{
			Heightmap:     "terrain/heightmap.png",
			Texture:       "terrain/grass.png",
			WorldSize:     200,
			Segments:      128,
			HeightScale:   14,
			Smoothing:     2,
			TextureRepeat: 24,
			FallbackColor: [3]float32{0.35, 0.48, 0.3},
		},
		Character: CharacterConfig{
			Model:        "character/hero.skm",
			ClipsDir:     "character/clips",
			Scale:        1,
			WalkSpeed:    4,
			RunSpeed:     9,
			BackSpeed:    2.5,
			TurnSpeed:    150,
			JumpHeight:   1.6,
			JumpDuration: 0.65,
			StrideLength: 1.7,
		},
		Camera: CameraConfig{
			Distance:        8,
			MinDistance:     3,
			MaxDistance:     22,
			Pitch:           18,
			DragSensitivity: 0.3,
			ZoomSensitivity: 0.09,
			Smoothing:       0.12,
		},
		Scene: SceneConfig{
			SkyColor: [3]float32{0.53, 0.72, 0.87},
			Fog: FogConfig{
				Enabled: true,
				Near:    40,
				Far:     160,
			},
			Shadows: true,
		},
		Audio: AudioConfig{
			Enabled:       true,
			MasterVolume:  0.8,
			EffectsVolume: 0.8,
		},
		Server: ServerConfig{
			Port:      8000,
			Root:      "web",
			AssetsDir: "assets",
		},
		Data: DataConfig{
			Dir: "assets",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
