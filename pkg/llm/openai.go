package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

const defaultOpenAIModel = "deepseek/deepseek-chat"

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

// NewOpenAIClient talks to any OpenAI-compatible endpoint; pass
// OpenRouterBaseURL to route through OpenRouter. Each request is bounded
// by timeout.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	if model == "" {
		model = defaultOpenAIModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModel(model),
		modelName: model,
	}
}

func (c *OpenAIClient) ModelName() string {
	return c.modelName
}

func (c *OpenAIClient) Curate(ctx context.Context, articles []ArticleInput, topK int, topic string) ([]int, error) {
	userPrompt := fmt.Sprintf(
		"Review these %d headlines and select the TOP %d most critical for institutional crypto investors.\n\n%s\nReturn ONLY the %d IDs, separated by commas:",
		len(articles), topK, formatHeadlines(articles), topK,
	)
	if topic != "" {
		userPrompt = fmt.Sprintf("Focus on headlines related to %q.\n\n%s", topic, userPrompt)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     c.model,
		MaxTokens: openai.Int(100),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(curationPrompt),
			openai.UserMessage(userPrompt),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	return parseSelectedIDs(resp.Choices[0].Message.Content, len(articles), topK), nil
}

func (c *OpenAIClient) Analyze(ctx context.Context, articles []ArticleInput) (string, error) {
	userPrompt := fmt.Sprintf(
		"Analyze this news story for our trading desk.\n\n**News Story:**\n%s\nWrite the analysis now. Start directly with the hook.",
		formatArticles(articles),
	)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     c.model,
		MaxTokens: openai.Int(1024),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(datedAnalysisPrompt(time.Now())),
			openai.UserMessage(userPrompt),
		},
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return cleanResponse(resp.Choices[0].Message.Content), nil
}

// datedAnalysisPrompt pins the model to the real current date so the note
// does not reference past years as the future.
func datedAnalysisPrompt(now time.Time) string {
	return fmt.Sprintf(
		"CRITICAL CONTEXT: Today is %s. All analysis must align with this timeline.\n\n%s",
		now.Format("Monday, January 2, 2006"), analysisPrompt,
	)
}
