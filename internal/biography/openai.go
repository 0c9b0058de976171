package biography

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mesh-intelligence/familytree/pkg/types"
)

// Endpoint defaults. Gemini serves an OpenAI-compatible chat completion API
// at DefaultBaseURL.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 30 * time.Second
)

// errNoChoices is returned by the service wrapper when a completion carries
// no choices.
var errNoChoices = errors.New("completion returned no choices")

// OpenAI generates biographies through an OpenAI-compatible chat completion
// endpoint.
type OpenAI struct {
	client   *openai.Client
	model    string
	language string
	words    int
	timeout  time.Duration
	logger   *slog.Logger
}

// NewOpenAI creates a generator from cfg. Empty settings fall back to the
// package defaults. A generator without an API key is still returned; every
// call then yields the PlaceholderNoAPIKey failure.
func NewOpenAI(cfg types.BiographyConfig, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = slog.Default()
	}
	g := &OpenAI{
		model:    cfg.Model,
		language: cfg.Language,
		words:    cfg.Words,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if cfg.APIKey == "" {
		logger.Warn("biography API key not set; generation is disabled")
		return g
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DefaultBaseURL
	}
	clientCfg.BaseURL = strings.TrimRight(clientCfg.BaseURL, "/")
	g.client = openai.NewClientWithConfig(clientCfg)

	logger.Info("initializing biography generator", "model", g.model, "base_url", clientCfg.BaseURL)
	return g
}

// Generate implements Generator.
func (g *OpenAI) Generate(ctx context.Context, req Request) Result {
	if g.client == nil {
		return Failed(PlaceholderNoAPIKey, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.logger.Debug("generating biography", "model", g.model, "name", req.Name)
	text, err := g.complete(ctx, Prompt(req, g.language, g.words))
	if err != nil {
		g.logger.Error("biography generation failed", "name", req.Name, "error", err)
		return Failed(PlaceholderError, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		g.logger.Warn("biography service returned empty content", "name", req.Name)
		return Failed(PlaceholderEmpty, nil)
	}
	return Result{Text: text}
}

func (g *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	g.logger.Debug("received biography", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
