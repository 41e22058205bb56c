package service

import (
	"context"
	"fmt"
	"strings"
	"werise_backend/internal/config"
	"werise_backend/internal/util"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
)

type completionRequest struct {
	Model     string
	System    string
	Prompt    string
	MaxTokens int
	JSON      bool // 要求模型只输出 JSON
}

// completer 单轮补全，返回模型的原始文本
type completer interface {
	Complete(ctx context.Context, req completionRequest) (string, error)
}

func newCompleter(cfg config.AIConfig) (completer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	switch cfg.Provider {
	case util.AIProviderOpenAI:
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
		}
		return &openAICompleter{client: openai.NewClientWithConfig(clientConfig)}, nil
	case util.AIProviderAnthropic:
		var opts []anthropic.ClientOption
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")))
		}
		return &anthropicCompleter{client: anthropic.NewClient(cfg.APIKey, opts...)}, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// openAICompleter OpenAI 兼容接口（OpenAI、DeepSeek、vLLM 等）
type openAICompleter struct {
	client *openai.Client
}

func (c *openAICompleter) Complete(ctx context.Context, req completionRequest) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	chatReq := openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicCompleter struct {
	client *anthropic.Client
}

func (c *anthropicCompleter) Complete(ctx context.Context, req completionRequest) (string, error) {
	prompt := req.Prompt
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(req.Model),
		System:    req.System,
		MaxTokens: req.MaxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text, nil
		}
	}
	return "", fmt.Errorf("no text block in response")
}
