// Package vision asks a vision-language model for a wallpaper palette.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/wallseed/wallseed/pkg/config"
	seederrors "github.com/wallseed/wallseed/pkg/errors"
	"github.com/wallseed/wallseed/pkg/imageproc"
	"github.com/wallseed/wallseed/pkg/logger"
	"github.com/wallseed/wallseed/pkg/models"
	"github.com/wallseed/wallseed/pkg/palette"
)

// Prompt instructs the model to answer with the palette schema only.
const Prompt = `System: You are a wallpaper-to-UI theming assistant.
User: Analyze the attached image and respond ONLY with a JSON object in this exact schema:
{
  "primary_hex":"#RRGGBB",
  "secondary_hex":"#RRGGBB",
  "tertiary_hex":"#RRGGBB",
  "accent1_hex":"#RRGGBB",
  "accent2_hex":"#RRGGBB",
  "neutral1_hex":"#RRGGBB",
  "neutral2_hex":"#RRGGBB"
}
Rules:
- Every value must be a 7-character hex string like "#82A3FF".
- Colors should be suitable for UI theming with good contrast.
- Avoid neon extremes and near-grayscale tones.
- Return only the JSON object, no extra text.`

// MaxAttempts bounds how many times a reachable model is asked before giving up.
const MaxAttempts = 2

// Querier returns a validated palette for an image.
type Querier interface {
	Query(ctx context.Context, img image.Image) (models.Palette, error)
}

// New builds the Querier selected by cfg.Provider.
func New(ctx context.Context, cfg config.ModelConfig, log *logger.Logger) (Querier, error) {
	switch cfg.Provider {
	case "", "ollama":
		return NewOllama(cfg, log), nil
	case "gemini":
		return NewGemini(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// sendFunc performs one round trip and returns the raw answer text.
// Returned errors are transport failures and end the query immediately.
type sendFunc func(ctx context.Context) (string, error)

// queryWithRetry sends until an answer yields a palette or MaxAttempts is spent.
func queryWithRetry(ctx context.Context, send sendFunc, log *logger.Logger) (models.Palette, error) {
	var last string
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		text, err := send(ctx)
		if err != nil {
			return nil, err
		}
		if p, ok := palette.Extract(text); ok {
			log.WithFields(map[string]any{"attempt": attempt, "colors": len(p)}).Debug("model returned palette")
			return p, nil
		}
		last = text
		log.WithField("attempt", attempt).Debug("model answer held no usable palette")
	}
	return nil, seederrors.NewUnusableResponseError(MaxAttempts, last)
}

// encodeForModel downscales img to ModelMaxDim and encodes it as PNG.
func encodeForModel(img image.Image) ([]byte, error) {
	return imageproc.EncodePNG(imageproc.Downscale(img, imageproc.ModelMaxDim))
}

// encodeForModelBase64 is encodeForModel for JSON transports.
func encodeForModelBase64(img image.Image) (string, error) {
	data, err := encodeForModel(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
