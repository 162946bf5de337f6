package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"github.com/wallseed/wallseed/pkg/config"
	seederrors "github.com/wallseed/wallseed/pkg/errors"
	"github.com/wallseed/wallseed/pkg/logger"
	"github.com/wallseed/wallseed/pkg/models"
)

// Ollama queries an Ollama-compatible /api/generate endpoint.
type Ollama struct {
	endpoint    string
	model       string
	temperature float64
	client      *http.Client
	log         *logger.Logger
}

// NewOllama creates an Ollama client with the configured request timeout.
func NewOllama(cfg config.ModelConfig, log *logger.Logger) *Ollama {
	return &Ollama{
		endpoint:    strings.TrimRight(cfg.Endpoint, "/") + "/api/generate",
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout()},
		log:         log.WithField("provider", "ollama"),
	}
}

// Query implements Querier.
func (o *Ollama) Query(ctx context.Context, img image.Image) (models.Palette, error) {
	b64, err := encodeForModelBase64(img)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(models.GenerateRequest{
		Model:   o.model,
		Prompt:  Prompt,
		Images:  []string{b64},
		Stream:  false,
		Options: models.GenerateOptions{Temperature: o.temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	return queryWithRetry(ctx, func(ctx context.Context) (string, error) {
		return o.generate(ctx, body)
	}, o.log)
}

// generate posts body once and returns the response text. HTTP status codes
// are not inspected; an error page simply fails to parse.
func (o *Ollama) generate(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", seederrors.NewNetworkError(o.endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", seederrors.NewNetworkError(o.endpoint, fmt.Errorf("read response: %w", err))
	}
	o.log.WithFields(map[string]any{"status": resp.StatusCode, "bytes": len(respBody)}).Debug("model responded")
	return string(respBody), nil
}
