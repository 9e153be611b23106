// Package llm provides a provider-agnostic interface for asking an LLM to
// review a print configuration and suggest improvements (paper choice,
// framing, resolution) before the customer orders.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider names, as recorded on every advice call.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Providers lists every supported provider.
var Providers = []string{ProviderAnthropic, ProviderOpenAI}

// Brief is what the model is told about a configuration.
type Brief struct {
	Product     string
	Paper       string
	WidthCM     float64
	HeightCM    float64
	ImageWidth  float64
	ImageHeight float64
	Border      int
	Mat         int
	Quantity    int
	Rush        string
	Total       string
	Errors      []string
	Warnings    []string
	// DPI is the artwork's effective resolution at print size, 0 when unknown.
	DPI float64
}

// Advice is the structured answer returned by every provider.
type Advice struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// Client is the interface for LLM providers that can review a configuration.
// Anthropic and OpenAI both implement it, so the advisor can fall back from
// one to the other.
type Client interface {
	Advise(ctx context.Context, brief Brief) (*Advice, error)
	ProviderName() string
	ModelName() string
}

const submitAdviceTool = "submit_advice"

const systemPrompt = `You are a fine-art print consultant for a Brazilian print shop.
You review a customer's print configuration and give short, practical advice in Brazilian Portuguese.
Focus on paper choice, framing and glazing, passe-partout, size versus image resolution, and delivery.
Never change prices; the quoted total is final. Always answer by calling the submit_advice tool.`

// adviceSchema is the JSON schema of the submit_advice tool input.
var adviceSchema = map[string]interface{}{
	"summary": map[string]interface{}{
		"type":        "string",
		"description": "One or two sentences assessing the configuration.",
	},
	"recommendations": map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Up to five concrete suggestions, most important first.",
	},
}

// buildPrompt renders the brief as the user message.
func buildPrompt(b Brief) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Produto: %s\n", b.Product)
	fmt.Fprintf(&sb, "Papel: %s\n", b.Paper)
	fmt.Fprintf(&sb, "Tamanho total: %g x %g cm (imagem %g x %g cm)\n", b.WidthCM, b.HeightCM, b.ImageWidth, b.ImageHeight)
	if b.Border > 0 {
		fmt.Fprintf(&sb, "Borda: %d cm\n", b.Border)
	}
	if b.Mat > 0 {
		fmt.Fprintf(&sb, "Passe-partout: %d cm\n", b.Mat)
	}
	fmt.Fprintf(&sb, "Quantidade: %d\n", b.Quantity)
	fmt.Fprintf(&sb, "Prazo: %s\n", b.Rush)
	fmt.Fprintf(&sb, "Total: %s\n", b.Total)
	if b.DPI > 0 {
		fmt.Fprintf(&sb, "Resolução efetiva do arquivo: %.0f DPI\n", b.DPI)
	}
	for _, e := range b.Errors {
		fmt.Fprintf(&sb, "Erro de validação: %s\n", e)
	}
	for _, w := range b.Warnings {
		fmt.Fprintf(&sb, "Aviso: %s\n", w)
	}
	sb.WriteString("\nRevise esta configuração e chame submit_advice com sua avaliação.")
	return sb.String()
}

func (a *Advice) validate(provider string) error {
	if strings.TrimSpace(a.Summary) == "" {
		return fmt.Errorf("%s returned advice without a summary", provider)
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	return nil
}
