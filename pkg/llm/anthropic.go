package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string, timeout time.Duration) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) ModelName() string {
	return c.modelName
}

func (c *AnthropicClient) Curate(ctx context.Context, articles []ArticleInput, topK int, topic string) ([]int, error) {
	userPrompt := fmt.Sprintf(
		"Review these %d headlines and select the TOP %d most critical for institutional crypto investors.\n\n%s\nReturn ONLY the %d IDs, separated by commas:",
		len(articles), topK, formatHeadlines(articles), topK,
	)
	if topic != "" {
		userPrompt = fmt.Sprintf("Focus on headlines related to %q.\n\n%s", topic, userPrompt)
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 100,
		System: []anthropic.TextBlockParam{
			{Text: curationPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no response from anthropic")
	}

	return parseSelectedIDs(resp.Content[0].Text, len(articles), topK), nil
}

func (c *AnthropicClient) Analyze(ctx context.Context, articles []ArticleInput) (string, error) {
	userPrompt := fmt.Sprintf(
		"Analyze this news story for our trading desk.\n\n**News Story:**\n%s\nWrite the analysis now. Start directly with the hook.",
		formatArticles(articles),
	)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: datedAnalysisPrompt(time.Now())},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return cleanResponse(resp.Content[0].Text), nil
}
