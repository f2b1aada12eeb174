package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatcommerce/shopagent/store"
	"github.com/chatcommerce/shopagent/vector"
)

// Searcher is the semantic product lookup the tools run against.
// *vector.Index satisfies it.
type Searcher interface {
	SearchProducts(ctx context.Context, query string, limit int, category string, price vector.PriceRange) ([]vector.Result, error)
}

const (
	defaultSearchResults = 5
	maxSearchResults     = 20
	defaultCategoryLimit = 10
	maxAlternatives      = 3
	descriptionPreview   = 200
)

// ProductHit is one catalog match in a tool payload.
type ProductHit struct {
	ProductID       string         `json:"product_id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Price           float64        `json:"price"`
	StockStatus     string         `json:"stock_status"`
	Category        string         `json:"category"`
	SimilarityScore float64        `json:"similarity_score,omitempty"`
	Specifications  map[string]any `json:"specifications,omitempty"`
}

type SearchProductsPayload struct {
	Success       bool         `json:"success"`
	Query         string       `json:"query,omitempty"`
	ProductsFound int          `json:"products_found"`
	Products      []ProductHit `json:"products,omitempty"`
	Message       string       `json:"message,omitempty"`
	Error         string       `json:"error,omitempty"`
}

type ProductDetailsPayload struct {
	Success bool        `json:"success"`
	Product *ProductHit `json:"product,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type AvailabilityPayload struct {
	Success      bool         `json:"success"`
	ProductName  string       `json:"product_name,omitempty"`
	ProductID    string       `json:"product_id,omitempty"`
	Available    bool         `json:"available"`
	StockStatus  string       `json:"stock_status,omitempty"`
	Price        float64      `json:"price,omitempty"`
	Alternatives []ProductHit `json:"alternatives,omitempty"`
	Message      string       `json:"message,omitempty"`
	Error        string       `json:"error,omitempty"`
}

type CategoryPayload struct {
	Success  bool         `json:"success"`
	Category string       `json:"category,omitempty"`
	Count    int          `json:"count"`
	Products []ProductHit `json:"products,omitempty"`
	Message  string       `json:"message,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// NewProductTools wires the product tool handlers over the semantic index and
// the catalog store and validates them against their declared schemas.
func NewProductTools(search Searcher, st store.Store) (*Registry, error) {
	handlers := map[string]Handler{
		ToolSearchProducts:           searchProductsHandler(search),
		ToolGetProductDetails:        productDetailsHandler(st),
		ToolCheckProductAvailability: availabilityHandler(st),
		ToolGetProductsByCategory:    categoryHandler(st),
	}
	return NewRegistry(ProductToolInfos(), handlers)
}

func searchProductsHandler(search Searcher) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		query, ok := stringArg(args, "query")
		if !ok {
			return SearchProductsPayload{Success: false, Error: "query is required"}, nil
		}

		limit := defaultSearchResults
		if n, ok := intArg(args, "max_results"); ok {
			limit = n
		}
		if limit < 1 {
			limit = 1
		}
		if limit > maxSearchResults {
			limit = maxSearchResults
		}

		category, _ := stringArg(args, "category")
		var price vector.PriceRange
		if min, ok := floatArg(args, "price_min"); ok {
			price.Min = &min
		}
		if max, ok := floatArg(args, "price_max"); ok {
			price.Max = &max
		}

		results, err := search.SearchProducts(ctx, query, limit, category, price)
		if err != nil {
			return SearchProductsPayload{
				Success: false,
				Query:   query,
				Error:   fmt.Sprintf("product search failed: %v", err),
			}, nil
		}

		hits := make([]ProductHit, 0, len(results))
		for _, r := range results {
			hit := hitFromProduct(&r.Product)
			hit.SimilarityScore = r.Score
			hits = append(hits, hit)
		}

		msg := fmt.Sprintf("Found %d products matching %q", len(hits), query)
		if len(hits) == 0 {
			msg = fmt.Sprintf("No products found matching %q", query)
		}
		return SearchProductsPayload{
			Success:       true,
			Query:         query,
			ProductsFound: len(hits),
			Products:      hits,
			Message:       msg,
		}, nil
	}
}

func productDetailsHandler(st store.Store) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		id, ok := stringArg(args, "product_id")
		if !ok {
			return ProductDetailsPayload{Success: false, Error: "product_id is required"}, nil
		}

		p, err := st.Product(ctx, id)
		if err != nil {
			return ProductDetailsPayload{
				Success: false,
				Error:   fmt.Sprintf("Product '%s' not found", id),
			}, nil
		}

		hit := hitFromProduct(p)
		return ProductDetailsPayload{
			Success: true,
			Product: &hit,
			Message: fmt.Sprintf("%s - $%.2f (%s)", p.Name, p.Price, p.StockStatus),
		}, nil
	}
}

func availabilityHandler(st store.Store) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		name, ok := stringArg(args, "product_name")
		if !ok {
			return AvailabilityPayload{Success: false, Available: false, Error: "product_name is required"}, nil
		}

		matches, err := st.SearchProducts(ctx, name, "", defaultSearchResults)
		if err != nil {
			return AvailabilityPayload{
				Success:     false,
				ProductName: name,
				Available:   false,
				Error:       fmt.Sprintf("availability lookup failed: %v", err),
			}, nil
		}
		if len(matches) == 0 {
			return AvailabilityPayload{
				Success:     true,
				ProductName: name,
				Available:   false,
				Message:     fmt.Sprintf("No product matching '%s' was found", name),
			}, nil
		}

		target := bestNameMatch(name, matches)
		available := target.StockStatus == store.StockInStock

		msg := fmt.Sprintf("%s is in stock at $%.2f", target.Name, target.Price)
		if !available {
			msg = fmt.Sprintf("%s is currently %s", target.Name, strings.ReplaceAll(string(target.StockStatus), "_", " "))
		}

		var alternatives []ProductHit
		if !available {
			for _, m := range matches {
				if m.ProductID == target.ProductID || m.StockStatus != store.StockInStock {
					continue
				}
				alternatives = append(alternatives, hitFromProduct(m))
				if len(alternatives) == maxAlternatives {
					break
				}
			}
		}

		return AvailabilityPayload{
			Success:      true,
			ProductName:  target.Name,
			ProductID:    target.ProductID,
			Available:    available,
			StockStatus:  string(target.StockStatus),
			Price:        target.Price,
			Alternatives: alternatives,
			Message:      msg,
		}, nil
	}
}

func categoryHandler(st store.Store) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		category, ok := stringArg(args, "category")
		if !ok {
			return CategoryPayload{Success: false, Error: "category is required"}, nil
		}

		limit := defaultCategoryLimit
		if n, ok := intArg(args, "limit"); ok && n > 0 {
			limit = n
		}

		products, err := st.SearchProducts(ctx, "", category, limit)
		if err != nil {
			return CategoryPayload{
				Success:  false,
				Category: category,
				Error:    fmt.Sprintf("category lookup failed: %v", err),
			}, nil
		}

		hits := make([]ProductHit, 0, len(products))
		for _, p := range products {
			hit := hitFromProduct(p)
			hit.Description = truncate(hit.Description, descriptionPreview)
			hit.Specifications = nil
			hits = append(hits, hit)
		}

		msg := fmt.Sprintf("Found %d products in category %q", len(hits), category)
		if len(hits) == 0 {
			msg = fmt.Sprintf("No products found in category %q", category)
		}
		return CategoryPayload{
			Success:  true,
			Category: category,
			Count:    len(hits),
			Products: hits,
			Message:  msg,
		}, nil
	}
}

// bestNameMatch prefers an exact case-insensitive name match, then a
// substring match, then the first result.
func bestNameMatch(name string, matches []*store.Product) *store.Product {
	lower := strings.ToLower(name)
	for _, m := range matches {
		if strings.ToLower(m.Name) == lower {
			return m
		}
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m.Name), lower) {
			return m
		}
	}
	return matches[0]
}

func hitFromProduct(p *store.Product) ProductHit {
	return ProductHit{
		ProductID:      p.ProductID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		StockStatus:    string(p.StockStatus),
		Category:       p.Category,
		Specifications: p.Specifications,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
