package llm

import (
	"testing"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
)

func baseConfig() Config {
	return Config{
		BaseURL:            "https://api.openai.com/v1",
		APIKey:             "sk-test",
		Model:              "gpt-4o-mini",
		MaxCompletionToken: 1000,
		Temperature:        0.1,
		ProductTemperature: -1,
		OrderTemperature:   -1,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.APIKey = "   "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank api key")
	}

	cfg = baseConfig()
	cfg.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank model")
	}
}

func TestOpenRouterForDefaults(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	got := cfg.OpenRouterFor(contractx.AgentProduct)
	if got.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", got.Model)
	}
	if got.Temperature != 0.1 {
		t.Fatalf("temperature = %v", got.Temperature)
	}
	if got.MaxCompletionToken == nil || *got.MaxCompletionToken != 1000 {
		t.Fatalf("max tokens = %v", got.MaxCompletionToken)
	}
}

func TestOpenRouterForOverrides(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.OrderModel = "gpt-4o"
	cfg.OrderTemperature = 0

	got := cfg.OpenRouterFor(contractx.AgentOrder)
	if got.Model != "gpt-4o" {
		t.Fatalf("model = %q, want order override", got.Model)
	}
	if got.Temperature != 0 {
		t.Fatalf("temperature = %v, want explicit zero override", got.Temperature)
	}

	// The product agent keeps the shared defaults.
	got = cfg.OpenRouterFor(contractx.AgentProduct)
	if got.Model != "gpt-4o-mini" || got.Temperature != 0.1 {
		t.Fatalf("product config leaked overrides: %+v", got)
	}
}
