// Package pipeline turns a wallpaper into an applied theme.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wallseed/wallseed/pkg/cache"
	seederrors "github.com/wallseed/wallseed/pkg/errors"
	"github.com/wallseed/wallseed/pkg/imageproc"
	"github.com/wallseed/wallseed/pkg/logger"
	"github.com/wallseed/wallseed/pkg/models"
	"github.com/wallseed/wallseed/pkg/vision"
)

// Renderer generates a theme from a seed color or an image.
type Renderer interface {
	RenderColor(ctx context.Context, seed string, mode models.Mode) error
	RenderImage(ctx context.Context, path string, mode models.Mode) error
}

// Reloader notifies consumer applications. It never fails.
type Reloader interface {
	Reload(ctx context.Context)
}

// Recorder stores apply history.
type Recorder interface {
	Record(ctx context.Context, rec models.ApplyRecord) error
}

// Options wires a Service. Recorder may be nil.
type Options struct {
	DefaultMode models.Mode
	DryRun      bool
	Cache       *cache.Cache
	Querier     vision.Querier
	Renderer    Renderer
	Reloader    Reloader
	Recorder    Recorder
	Log         *logger.Logger
}

// Service applies wallpapers.
type Service struct {
	defaultMode models.Mode
	dryRun      bool
	cache       *cache.Cache
	querier     vision.Querier
	renderer    Renderer
	reloader    Reloader
	recorder    Recorder
	log         *logger.Logger
}

// ApplyResult describes a completed apply.
type ApplyResult struct {
	ImagePath string
	Hash      string
	Mode      models.Mode
	// Luminance is negative when the mode was not derived from the image.
	Luminance  float64
	Source     models.Source
	RenderPath models.RenderPath
	Palette    models.Palette
	Duration   time.Duration
}

// New creates a Service. An empty DefaultMode means auto.
func New(opts Options) *Service {
	mode := opts.DefaultMode
	if mode == "" {
		mode = models.ModeAuto
	}
	return &Service{
		defaultMode: mode,
		dryRun:      opts.DryRun,
		cache:       opts.Cache,
		querier:     opts.Querier,
		renderer:    opts.Renderer,
		reloader:    opts.Reloader,
		recorder:    opts.Recorder,
		log:         opts.Log,
	}
}

// Apply derives a palette for imagePath and hands it to the renderer, falling
// back to rendering from the image itself when no palette is available.
// An empty modeOverride uses the configured default. force skips cache reads.
func (s *Service) Apply(ctx context.Context, imagePath string, modeOverride models.Mode, force bool) (*ApplyResult, error) {
	start := time.Now()
	log := s.log.WithField("image", imagePath)

	mode := s.defaultMode
	if modeOverride != "" {
		mode = modeOverride
	}
	resolved, lum, err := imageproc.ResolveMode(mode, imagePath)
	if err != nil {
		return nil, err
	}
	if mode == models.ModeAuto {
		log.WithFields(map[string]any{"luminance": lum, "mode": resolved.String()}).Debug("derived mode from luminance")
	}

	hash, err := cache.HashFile(imagePath)
	if err != nil {
		return nil, seederrors.NewDecodeError(imagePath, err)
	}

	pal, source, err := s.acquire(ctx, log, imagePath, hash, force)
	if err != nil {
		return nil, err
	}

	res := &ApplyResult{
		ImagePath: imagePath,
		Hash:      hash,
		Mode:      resolved,
		Luminance: lum,
		Source:    source,
		Palette:   pal,
	}

	if !pal.Empty() {
		res.RenderPath = models.RenderFromColor
		for _, seed := range pal.Values() {
			if err := s.renderer.RenderColor(ctx, seed, resolved); err != nil {
				return nil, err
			}
		}
	} else {
		res.RenderPath = models.RenderFromImage
		if err := s.renderer.RenderImage(ctx, imagePath, resolved); err != nil {
			return nil, err
		}
	}

	s.reloader.Reload(ctx)

	res.Duration = time.Since(start)
	s.record(ctx, log, res)

	log.WithFields(map[string]any{
		"mode":   resolved.String(),
		"source": string(source),
		"render": string(res.RenderPath),
		"colors": len(pal),
	}).Info("applied wallpaper theme")
	return res, nil
}

// acquire returns the palette from cache or model. Model and decode failures
// degrade to no palette; only a failed cache write is returned.
func (s *Service) acquire(ctx context.Context, log *logger.Logger, imagePath, hash string, force bool) (models.Palette, models.Source, error) {
	if p, ok := s.cache.Get(hash, force); ok {
		log.WithField("hash", hash).Debug("palette cache hit")
		return p, models.SourceCache, nil
	}

	img, err := imageproc.Open(imagePath)
	if err != nil {
		log.Warn(err, "could not decode image for model query, rendering from image")
		return nil, models.SourceNone, nil
	}

	p, err := s.querier.Query(ctx, img)
	if err != nil {
		log.Warn(err, "model query failed, rendering from image")
		return nil, models.SourceNone, nil
	}

	if s.dryRun {
		return p, models.SourceModel, nil
	}
	if err := s.cache.Put(hash, p); err != nil {
		return nil, "", fmt.Errorf("store palette: %w", err)
	}
	return p, models.SourceModel, nil
}

func (s *Service) record(ctx context.Context, log *logger.Logger, res *ApplyResult) {
	if s.recorder == nil || s.dryRun {
		return
	}
	err := s.recorder.Record(ctx, models.ApplyRecord{
		ImagePath:  res.ImagePath,
		ImageHash:  res.Hash,
		Mode:       res.Mode,
		Source:     res.Source,
		RenderPath: res.RenderPath,
		Palette:    res.Palette,
		Duration:   res.Duration,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		log.Warn(err, "failed to record apply history")
	}
}
