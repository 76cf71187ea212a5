package states

import (
	"fmt"
	"image"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mosslight/walkabout/internal/config"
	"github.com/mosslight/walkabout/internal/engine/input"
	"github.com/mosslight/walkabout/internal/engine/renderer"
	"github.com/mosslight/walkabout/internal/engine/terrain"
	"github.com/mosslight/walkabout/internal/engine/texture"
	"github.com/mosslight/walkabout/internal/logger"
	"github.com/mosslight/walkabout/pkg/formats"
)

// worldAssets is everything the loading state decodes for the play
// state. Nil fields mean the asset was missing and the play state runs
// degraded: no ground texture draws a flat color, no model draws
// terrain only.
type worldAssets struct {
	heightfield *terrain.Heightfield
	groundTex   *image.RGBA
	model       *formats.SKM
	modelTex    *image.RGBA
	clips       []*formats.SKA
}

// LoadingState decodes all assets on background goroutines, then hands
// them to the play state. Nothing here touches the GL context; uploads
// happen on the main thread after the join.
type LoadingState struct {
	manager *Manager

	mu       sync.Mutex
	loaded   worldAssets
	warnings []string
	done     int
	total    int

	ready     chan struct{}
	startTime time.Time
}

// NewLoadingState creates the loading state.
func NewLoadingState(manager *Manager) *LoadingState {
	return &LoadingState{
		manager: manager,
		ready:   make(chan struct{}),
	}
}

// Enter kicks off one goroutine per asset.
func (s *LoadingState) Enter() error {
	cfg := s.manager.ctx.Config
	s.startTime = time.Now()

	clipFiles := s.listClips(cfg.Character.ClipsDir)

	tasks := []func(){
		func() { s.loadHeightfield(cfg.Terrain) },
		func() { s.loadGroundTexture(cfg.Terrain.Texture) },
		func() { s.loadModel(cfg.Character.Model) },
	}
	for _, name := range clipFiles {
		clipPath := path.Join(cfg.Character.ClipsDir, name)
		tasks = append(tasks, func() { s.loadClip(clipPath) })
	}
	s.total = len(tasks)

	logger.Info("loading assets",
		zap.String("dir", cfg.Data.Dir),
		zap.Int("tasks", s.total))

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(run func()) {
			defer wg.Done()
			run()
		}(task)
	}
	go func() {
		wg.Wait()
		close(s.ready)
	}()

	return nil
}

// Exit is called when leaving this state.
func (s *LoadingState) Exit() error {
	return nil
}

// Update transitions to the play state once every loader has finished.
func (s *LoadingState) Update(dt float64) error {
	select {
	case <-s.ready:
		s.mu.Lock()
		loaded := s.loaded
		s.mu.Unlock()

		logger.Info("assets loaded",
			zap.Duration("elapsed", time.Since(s.startTime)),
			zap.Bool("terrainTexture", loaded.groundTex != nil),
			zap.Bool("model", loaded.model != nil),
			zap.Int("clips", len(loaded.clips)))

		s.manager.Change(NewPlayState(s.manager, loaded))
	default:
	}
	return nil
}

// Render clears to the sky color while loading runs.
func (s *LoadingState) Render() error {
	sky := s.manager.ctx.Config.Scene.SkyColor
	renderer.Clear(sky[0], sky[1], sky[2], 1.0)
	return nil
}

// HandleInput ignores input during loading.
func (s *LoadingState) HandleInput(ev input.Event) error {
	return nil
}

// Progress returns the completed fraction of loading tasks, 0 to 1.
func (s *LoadingState) Progress() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == 0 {
		return 1
	}
	return float32(s.done) / float32(s.total)
}

// Warnings returns the degradation messages collected so far.
func (s *LoadingState) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

func (s *LoadingState) listClips(dir string) []string {
	names, err := s.manager.ctx.Assets.List(dir)
	if err != nil {
		s.warn(fmt.Sprintf("no animation clips at %s: %v", dir, err))
		return nil
	}
	clips := names[:0]
	for _, name := range names {
		if strings.EqualFold(path.Ext(name), ".ska") {
			clips = append(clips, name)
		}
	}
	return clips
}

func (s *LoadingState) loadHeightfield(cfg config.TerrainConfig) {
	defer s.taskDone()

	opts := terrainOptions(cfg)
	hf, err := s.decodeHeightfield(cfg.Heightmap, opts)
	if err != nil {
		s.warn(fmt.Sprintf("heightmap %s unavailable, using flat ground: %v", cfg.Heightmap, err))
		if hf, err = terrain.Flat(opts); err != nil {
			hf, _ = terrain.Flat(terrain.DefaultOptions())
		}
	}

	s.mu.Lock()
	s.loaded.heightfield = hf
	s.mu.Unlock()
}

func (s *LoadingState) decodeHeightfield(assetPath string, opts terrain.Options) (*terrain.Heightfield, error) {
	data, err := s.manager.ctx.Assets.Load(assetPath)
	if err != nil {
		return nil, err
	}
	img, err := texture.DecodeImage(data, assetPath)
	if err != nil {
		return nil, err
	}
	return terrain.FromImage(img, opts)
}

func (s *LoadingState) loadGroundTexture(assetPath string) {
	defer s.taskDone()

	img, err := s.decodeTexture(assetPath)
	if err != nil {
		s.warn(fmt.Sprintf("ground texture %s unavailable, using flat color: %v", assetPath, err))
		return
	}

	s.mu.Lock()
	s.loaded.groundTex = img
	s.mu.Unlock()
}

func (s *LoadingState) loadModel(assetPath string) {
	defer s.taskDone()

	data, err := s.manager.ctx.Assets.Load(assetPath)
	if err == nil {
		var model *formats.SKM
		if model, err = formats.ParseSKM(data); err == nil {
			s.mu.Lock()
			s.loaded.model = model
			s.mu.Unlock()
			s.loadModelTexture(assetPath, model.Texture)
			return
		}
	}
	s.warn(fmt.Sprintf("character model %s unavailable, showing terrain only: %v", assetPath, err))
}

// loadModelTexture resolves the texture named inside the model relative
// to the model's own directory.
func (s *LoadingState) loadModelTexture(modelPath, texName string) {
	if texName == "" {
		return
	}

	texPath := path.Join(path.Dir(modelPath), texName)
	img, err := s.decodeTexture(texPath)
	if err != nil {
		s.warn(fmt.Sprintf("character texture %s unavailable, using flat color: %v", texPath, err))
		return
	}

	s.mu.Lock()
	s.loaded.modelTex = img
	s.mu.Unlock()
}

func (s *LoadingState) loadClip(assetPath string) {
	defer s.taskDone()

	data, err := s.manager.ctx.Assets.Load(assetPath)
	if err == nil {
		var clip *formats.SKA
		if clip, err = formats.ParseSKA(data); err == nil {
			s.mu.Lock()
			s.loaded.clips = append(s.loaded.clips, clip)
			s.mu.Unlock()
			return
		}
	}
	s.warn(fmt.Sprintf("animation clip %s skipped: %v", assetPath, err))
}

func (s *LoadingState) decodeTexture(assetPath string) (*image.RGBA, error) {
	data, err := s.manager.ctx.Assets.Load(assetPath)
	if err != nil {
		return nil, err
	}
	return texture.DecodeRGBA(data, assetPath)
}

func (s *LoadingState) warn(msg string) {
	logger.Warn("asset degraded", zap.String("detail", msg))
	s.mu.Lock()
	s.warnings = append(s.warnings, msg)
	s.mu.Unlock()
}

func (s *LoadingState) taskDone() {
	s.mu.Lock()
	s.done++
	s.mu.Unlock()
}

// terrainOptions maps the terrain config onto heightfield options.
func terrainOptions(cfg config.TerrainConfig) terrain.Options {
	return terrain.Options{
		WorldSize:     cfg.WorldSize,
		Segments:      cfg.Segments,
		HeightScale:   cfg.HeightScale,
		Smoothing:     cfg.Smoothing,
		TextureRepeat: cfg.TextureRepeat,
	}
}
