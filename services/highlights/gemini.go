package highlights

import (
	"context"
	"net/http"
	"time"

	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/prompt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// generator is the part of *genai.Models the client uses.
type generator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiClient asks a Gemini model for highlights as constrained JSON.
type GeminiClient struct {
	models      generator
	model       string
	temperature float32
	limiter     *rate.Limiter
	logger      *logrus.Logger
}

func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GenAI client")
	}

	return newGeminiClient(client.Models, cfg), nil
}

func newGeminiClient(models generator, cfg Config) *GeminiClient {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	limit := rate.Inf
	if d := cfg.interval(); d > 0 {
		limit = rate.Every(d)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &GeminiClient{
		models:      models,
		model:       model,
		temperature: cfg.Temperature,
		limiter:     rate.NewLimiter(limit, burst),
		logger:      logrus.StandardLogger(),
	}
}

func (c *GeminiClient) Find(ctx context.Context, req prompt.Request) ([]models.Highlight, error) {
	logger := c.logger.WithContext(ctx).WithField("model", c.model)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "rate limiter: %v", err)
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Text), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenAISchema(req.Schema),
		Temperature:      genai.Ptr(c.temperature),
	})
	if err != nil {
		logger.WithError(err).Error("Error calling Gemini API")
		return nil, errors.Wrapf(ErrUnavailable, "generate content: %v", err)
	}
	if resp == nil {
		return nil, errors.Wrap(ErrUnavailable, "nil response")
	}

	highlights, err := ParseHighlights([]byte(resp.Text()))
	if err != nil {
		logger.WithError(err).Error("Gemini response failed schema validation")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"count":    len(highlights),
		"duration": time.Since(start),
	}).Info("Highlights generated")

	return highlights, nil
}

func toGenAISchema(s prompt.Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
		}
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			Required:         s.Names(),
			PropertyOrdering: s.Names(),
		},
	}
}
