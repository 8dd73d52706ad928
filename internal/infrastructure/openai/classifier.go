package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"context"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/peerfact/peerfact/internal/domain/entity"
	"github.com/peerfact/peerfact/internal/engine"
)

const systemPrompt = "You are a concise fact-checking assistant. Summarize the claim in one sentence " +
	"and classify it as Likely True / Likely False / Unclear without overclaiming. " +
	"Respond with compact JSON only, keys: summary, label, confidence (0..1)."

// Classifier analyzes claims through the OpenAI chat completions API. It is
// one implementation of engine.Classifier; the gateway owns timeout and
// fallback behavior, so every failure here is simply returned.
type Classifier struct {
	client *gopenai.Client
	model  string
}

// New builds a classifier. baseURL overrides the API endpoint, mainly for
// tests and compatible gateways.
func New(apiKey, baseURL, model string) (*Classifier, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	cfg := gopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = gopenai.GPT4oMini
	}
	return &Classifier{client: gopenai.NewClientWithConfig(cfg), model: model}, nil
}

type modelReply struct {
	Summary    string   `json:"summary"`
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
}

func (c *Classifier) Analyze(ctx context.Context, text, link string) (engine.Analysis, error) {
	prompt := "Claim: " + text
	if link != "" {
		prompt += "\nClaimed source: " + link
	}
	prompt += "\nReturn compact JSON only."

	resp, err := c.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []gopenai.ChatCompletionMessage{
			{Role: gopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: gopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   300,
		Temperature: 0.2,
	})
	if err != nil {
		return engine.Analysis{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return engine.Analysis{}, errors.New("openai: empty response")
	}
	return parseReply(resp.Choices[0].Message.Content)
}

// parseReply decodes the model's JSON. Models sometimes wrap JSON in a code
// fence; strip it before decoding. Anything unparseable is an error so the
// gateway falls back to the heuristic.
func parseReply(content string) (engine.Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var reply modelReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return engine.Analysis{}, fmt.Errorf("openai: malformed reply: %w", err)
	}
	label, err := normalizeLabel(reply.Label)
	if err != nil {
		return engine.Analysis{}, err
	}
	confidence := 0.7
	if reply.Confidence != nil {
		confidence = math.Min(1, math.Max(0, *reply.Confidence))
	}
	return engine.Analysis{Label: label, Summary: strings.TrimSpace(reply.Summary), Confidence: confidence}, nil
}

func normalizeLabel(s string) (entity.Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "likely true":
		return entity.LabelLikelyTrue, nil
	case "likely false":
		return entity.LabelLikelyFalse, nil
	case "unclear":
		return entity.LabelUnclear, nil
	}
	return "", fmt.Errorf("openai: unknown label %q", s)
}

var _ engine.Classifier = (*Classifier)(nil)
