package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
	openrouterx "github.com/chatcommerce/shopagent/pkg/openrouter"
)

// Config carries the shared model settings plus optional per-agent overrides.
// A low default temperature keeps tool selection deterministic.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.1"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ProductModel       string  `envconfig:"PRODUCT_MODEL" split_words:"true"`
	OrderModel         string  `envconfig:"ORDER_MODEL" split_words:"true"`
	ProductTemperature float32 `envconfig:"PRODUCT_TEMPERATURE" split_words:"true" default:"-1"`
	OrderTemperature   float32 `envconfig:"ORDER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: model api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model settings for one agent, applying any
// per-agent override on top of the shared defaults.
func (c Config) OpenRouterFor(agentID string) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentID {
	case contractx.AgentProduct:
		if v := strings.TrimSpace(c.ProductModel); v != "" {
			modelName = v
		}
		if c.ProductTemperature >= 0 {
			temp = c.ProductTemperature
		}
	case contractx.AgentOrder:
		if v := strings.TrimSpace(c.OrderModel); v != "" {
			modelName = v
		}
		if c.OrderTemperature >= 0 {
			temp = c.OrderTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
