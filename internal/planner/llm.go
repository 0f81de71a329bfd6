package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"concierge/internal/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
)

// Live generation defaults
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTimeout     = 60 * time.Second
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7
)

var mealPlanPrompt = prompts.NewPromptTemplate(`Create a {{.days}}-day meal plan using the following fridge inventory as much as possible:

{{.inventory}}
{{.preferences}}

Please provide:
1. A day-by-day meal plan (breakfast, lunch, dinner)
2. A grocery shopping list for missing ingredients
3. Prioritize using items that expire soon

Respond with JSON only, using this structure:
{
    "meal_plan": {
        "day_1": {"breakfast": "...", "lunch": "...", "dinner": "..."},
        ...
    },
    "grocery_list": [
        {"name": "item", "quantity": 1, "unit": "piece", "category": "vegetable", "estimated_price": 1.99, "reason": "for recipe X"}
    ],
    "notes": ["helpful cooking tips or substitutions"]
}`, []string{"days", "inventory", "preferences"})

// LLMGenerator asks a language model for a meal plan
type LLMGenerator struct {
	model       llms.Model
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

var _ Generator = (*LLMGenerator)(nil)

// LLMOption configures an LLMGenerator
type LLMOption func(*LLMGenerator)

// WithTimeout bounds a single generation request
func WithTimeout(d time.Duration) LLMOption {
	return func(g *LLMGenerator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithMaxTokens caps the response length
func WithMaxTokens(n int) LLMOption {
	return func(g *LLMGenerator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// NewLLMGenerator wraps a langchaingo model
func NewLLMGenerator(model llms.Model, opts ...LLMOption) *LLMGenerator {
	g := &LLMGenerator{
		model:       model,
		timeout:     DefaultTimeout,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewOpenAIModel initializes an OpenAI chat model
func NewOpenAIModel(apiKey, model, baseURL string) (llms.Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithToken(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
	}
	return llm, nil
}

// LLM providers
const (
	ProviderOpenAI       = "openai"
	ProviderGitHubModels = "github_models"
)

// GitHubModelsBaseURL is the OpenAI-compatible GitHub Models endpoint
const GitHubModelsBaseURL = "https://models.inference.ai.azure.com"

// NewModel initializes a chat model for the named provider. GitHub Models
// speaks the OpenAI API, so both go through the langchaingo OpenAI client.
func NewModel(provider, token, model, baseURL string) (llms.Model, error) {
	switch provider {
	case "", ProviderOpenAI:
		return NewOpenAIModel(token, model, baseURL)
	case ProviderGitHubModels:
		if token == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN is required for GitHub Models")
		}
		if baseURL == "" {
			baseURL = GitHubModelsBaseURL
		}
		return NewOpenAIModel(token, model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", provider)
	}
}

// Generate implements Generator. The request is made once and cancelled
// when the timeout elapses.
func (g *LLMGenerator) Generate(ctx context.Context, inventory []models.InventoryLine, days int, preferences []string) (*models.MealPlan, error) {
	prompt, err := BuildPrompt(inventory, days, preferences)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithMaxTokens(g.maxTokens),
		llms.WithTemperature(g.temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("meal plan request failed: %w", err)
	}

	plan, err := ParsePlan(content, days)
	if err != nil {
		return nil, err
	}
	plan.Source = models.PlanSourceLLM
	return plan, nil
}

// BuildPrompt renders the meal plan prompt for an inventory snapshot
func BuildPrompt(inventory []models.InventoryLine, days int, preferences []string) (string, error) {
	lines := make([]string, len(inventory))
	for i, item := range inventory {
		lines[i] = fmt.Sprintf("- %s: %d %s (expires: %s)", item.Name, item.Quantity, item.Unit, item.ExpiryDate)
	}

	var prefs string
	if len(preferences) > 0 {
		prefs = "Dietary preferences/restrictions: " + strings.Join(preferences, ", ")
	}

	prompt, err := mealPlanPrompt.Format(map[string]any{
		"days":        days,
		"inventory":   strings.Join(lines, "\n"),
		"preferences": prefs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render meal plan prompt: %w", err)
	}
	return prompt, nil
}
