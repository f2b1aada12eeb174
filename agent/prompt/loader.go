package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/product.txt
	productRaw string

	//go:embed template/order.txt
	orderRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Product string
	Order   string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Product: strings.TrimSpace(productRaw),
		Order:   strings.TrimSpace(orderRaw),
	}
}
