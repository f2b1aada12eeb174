// Package extract mines an implicit order context from recent dialogue.
//
// Extraction is pure and best-effort: absent matches degrade to defaults and
// never produce an error. Its output grounds prompts and backfills tool
// arguments, but it never authorizes order mutations on its own.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chatcommerce/shopagent/agent/contract"
)

// tailWindow is how many trailing turns are scanned per extraction.
const tailWindow = 10

const (
	minQuantity = 1
	maxQuantity = 100
)

var (
	productPatterns = []*regexp.Regexp{
		// "iPhone 15 - $999"
		regexp.MustCompile(`(\w+(?:\s+\w+)*)\s*-\s*\$[\d,]+(?:\.\d{2})?`),
		// "Product: MacBook Pro"
		regexp.MustCompile(`Product:\s*([^,\n]+)`),
		// "MacBook Pro $1999"
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]*)*(?:\s+\d+)?)\s*\$[\d,]+`),
	}

	pricePattern = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)

	quantityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:x|×|pieces?|units?|items?)`),
		regexp.MustCompile(`quantity[:\s]*(\d+)`),
		regexp.MustCompile(`(\d+)\s*of\s+`),
		regexp.MustCompile(`take\s+(\d+)`),
		regexp.MustCompile(`want\s+(\d+)`),
		regexp.MustCompile(`buy\s+(\d+)`),
	}

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\b\d{3}-?\d{3}-?\d{4}\b`)
)

// Context is the ephemeral order context recovered from a transcript tail.
type Context struct {
	ProductName string
	Quantity    int
	Price       float64
	HasPrice    bool

	// Raw candidate lists, kept for traceability.
	ProductsMentioned   []string
	QuantitiesMentioned []int

	CustomerEmail string
	CustomerPhone string
}

// Extract scans the last turns of a transcript for order details.
//
// Resolution policy, kept deliberately asymmetric: product name and quantity
// take the most recent mention (what the customer is referring to now), while
// the first quoted price is the authoritative anchor and is never overwritten.
func Extract(transcript []contract.DialogueTurn) Context {
	ctx := Context{Quantity: minQuantity}

	start := 0
	if len(transcript) > tailWindow {
		start = len(transcript) - tailWindow
	}

	for _, turn := range transcript[start:] {
		content := turn.Content
		lower := strings.ToLower(content)

		for _, pattern := range productPatterns {
			for _, match := range pattern.FindAllStringSubmatch(content, -1) {
				name := strings.TrimSpace(match[1])
				if name != "" {
					ctx.ProductsMentioned = append(ctx.ProductsMentioned, name)
				}
			}
		}

		if !ctx.HasPrice {
			if raw := pricePattern.FindString(content); raw != "" {
				if price, err := parsePrice(raw); err == nil {
					ctx.Price = price
					ctx.HasPrice = true
				}
			}
		}

		for _, pattern := range quantityPatterns {
			for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
				qty, err := strconv.Atoi(match[1])
				if err != nil {
					continue
				}
				if qty >= minQuantity && qty <= maxQuantity {
					ctx.QuantitiesMentioned = append(ctx.QuantitiesMentioned, qty)
				}
			}
		}

		if email := emailPattern.FindString(content); email != "" {
			ctx.CustomerEmail = email
		}
		if phone := phonePattern.FindString(content); phone != "" {
			ctx.CustomerPhone = phone
		}
	}

	if n := len(ctx.ProductsMentioned); n > 0 {
		ctx.ProductName = ctx.ProductsMentioned[n-1]
	}
	if n := len(ctx.QuantitiesMentioned); n > 0 {
		ctx.Quantity = ctx.QuantitiesMentioned[n-1]
	}

	return ctx
}

func parsePrice(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
	return strconv.ParseFloat(cleaned, 64)
}

// CustomerInfo renders the contact fields as a map for tool arguments,
// or nil when nothing was found.
func (c Context) CustomerInfo() map[string]string {
	if c.CustomerEmail == "" && c.CustomerPhone == "" {
		return nil
	}
	info := make(map[string]string, 2)
	if c.CustomerEmail != "" {
		info["email"] = c.CustomerEmail
	}
	if c.CustomerPhone != "" {
		info["phone"] = c.CustomerPhone
	}
	return info
}
