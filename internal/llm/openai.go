package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client with OpenAI function calling.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates an OpenAI-backed advisor client.
func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAIClient) ProviderName() string { return ProviderOpenAI }
func (o *OpenAIClient) ModelName() string    { return o.model }

func (o *OpenAIClient) Advise(ctx context.Context, brief Brief) (*Advice, error) {
	tools := []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        submitAdviceTool,
				Description: "Submit your review of the print configuration.",
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": adviceSchema,
					"required":   []string{"summary", "recommendations"},
				},
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(brief)},
		},
		Tools: tools,
	})
	if err != nil {
		return nil, fmt.Errorf("openai API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	msg := resp.Choices[0].Message
	for _, toolCall := range msg.ToolCalls {
		if toolCall.Function.Name != submitAdviceTool {
			continue
		}
		var advice Advice
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &advice); err != nil {
			return nil, fmt.Errorf("parsing tool arguments: %w", err)
		}
		if err := advice.validate(o.ProviderName()); err != nil {
			return nil, err
		}
		return &advice, nil
	}

	if summary := strings.TrimSpace(msg.Content); summary != "" {
		return &Advice{Summary: summary, Recommendations: []string{}}, nil
	}
	return nil, fmt.Errorf("openai returned no advice (finish reason %s)", resp.Choices[0].FinishReason)
}
