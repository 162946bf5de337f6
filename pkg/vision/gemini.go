package vision

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/wallseed/wallseed/pkg/config"
	seederrors "github.com/wallseed/wallseed/pkg/errors"
	"github.com/wallseed/wallseed/pkg/logger"
	"github.com/wallseed/wallseed/pkg/models"
	"google.golang.org/genai"
)

// Gemini queries Google's Gemini API through the genai SDK.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	log         *logger.Logger
}

// NewGemini creates a Gemini client. The endpoint setting is not used.
func NewGemini(ctx context.Context, cfg config.ModelConfig, log *logger.Logger) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini provider requires model.api_key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout(),
		log:         log.WithField("provider", "gemini"),
	}, nil
}

// Query implements Querier.
func (g *Gemini) Query(ctx context.Context, img image.Image) (models.Palette, error) {
	data, err := encodeForModel(img)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(Prompt),
			{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}},
		}, genai.RoleUser),
	}
	temperature := g.temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}

	return queryWithRetry(ctx, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
		if err != nil {
			return "", seederrors.NewNetworkError("gemini:"+g.model, err)
		}
		return strings.TrimSpace(resp.Text()), nil
	}, g.log)
}
