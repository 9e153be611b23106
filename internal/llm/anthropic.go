package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// AnthropicClient implements Client with Claude. A custom submit_advice tool
// makes Claude return structured JSON instead of free-form text.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a Claude-backed advisor client.
func NewAnthropicClient(apiKey string, model string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{
		client: &client,
		model:  model,
	}
}

func (a *AnthropicClient) ProviderName() string { return ProviderAnthropic }
func (a *AnthropicClient) ModelName() string    { return a.model }

func (a *AnthropicClient) Advise(ctx context.Context, brief Brief) (*Advice, error) {
	submitTool := anthropic.ToolParam{
		Name:        submitAdviceTool,
		Description: param.NewOpt("Submit your review of the print configuration."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: adviceSchema,
		},
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(brief))),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &submitTool},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	var text []string
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.ToolUseBlock:
			if b.Name != submitAdviceTool {
				continue
			}
			inputBytes, err := json.Marshal(b.Input)
			if err != nil {
				return nil, fmt.Errorf("marshaling tool input: %w", err)
			}
			var advice Advice
			if err := json.Unmarshal(inputBytes, &advice); err != nil {
				return nil, fmt.Errorf("parsing tool input: %w", err)
			}
			if err := advice.validate(a.ProviderName()); err != nil {
				return nil, err
			}
			return &advice, nil
		case anthropic.TextBlock:
			text = append(text, b.Text)
		}
	}

	// Claude answered in prose instead of calling the tool; keep the answer.
	if summary := strings.TrimSpace(strings.Join(text, "\n")); summary != "" {
		return &Advice{Summary: summary, Recommendations: []string{}}, nil
	}
	return nil, fmt.Errorf("claude returned no advice (stop reason %s)", message.StopReason)
}
