// Package vector provides similarity search over the product catalog.
//
// It is a collaborator of the agent core: the tool handlers consume it
// through a narrow interface and never depend on chromem directly.
package vector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"

	storex "github.com/chatcommerce/shopagent/store"
)

type Config struct {
	// Path enables on-disk persistence; empty keeps the index in memory.
	Path       string `envconfig:"PATH" split_words:"true"`
	Collection string `envconfig:"COLLECTION" split_words:"true" default:"products"`
	TopK       int    `envconfig:"TOP_K" split_words:"true" default:"5"`
}

// Result is one similarity hit with its score in [0,1].
type Result struct {
	Product storex.Product
	Score   float64
}

// PriceRange bounds a search; nil bounds are open.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Index is a chromem-backed vector index of products.
type Index struct {
	col  *chromem.Collection
	topK int
}

func NewIndex(cfg Config, embed chromem.EmbeddingFunc) (*Index, error) {
	if embed == nil {
		return nil, errors.New("embedding function is required")
	}

	var (
		db  *chromem.DB
		err error
	)
	if path := strings.TrimSpace(cfg.Path); path != "" {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open vector db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	name := strings.TrimSpace(cfg.Collection)
	if name == "" {
		name = "products"
	}
	col, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}

	return &Index{col: col, topK: topK}, nil
}

// AddProduct embeds and indexes one product. The full product record rides
// along in metadata so results rehydrate without a store round trip.
func (i *Index) AddProduct(ctx context.Context, product *storex.Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	if err := product.Validate(); err != nil {
		return err
	}

	encoded, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", product.ProductID, err)
	}

	doc := chromem.Document{
		ID:      product.ProductID,
		Content: documentText(product),
		Metadata: map[string]string{
			"category": strings.ToLower(product.Category),
			"product":  string(encoded),
		},
	}
	if err := i.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("index product %s: %w", product.ProductID, err)
	}
	return nil
}

func (i *Index) AddProducts(ctx context.Context, products []*storex.Product) error {
	for _, product := range products {
		if err := i.AddProduct(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// SearchProducts runs a similarity query. Category narrows via metadata;
// the price range is post-filtered since chromem only matches equality.
func (i *Index) SearchProducts(ctx context.Context, query string, limit int, category string, price PriceRange) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = i.topK
	}

	// chromem rejects nResults above the collection size.
	if count := i.col.Count(); limit > count {
		limit = count
	}
	if limit == 0 {
		return nil, nil
	}

	var where map[string]string
	if category = strings.ToLower(strings.TrimSpace(category)); category != "" {
		where = map[string]string{"category": category}
	}

	hits, err := i.col.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		var product storex.Product
		if err := json.Unmarshal([]byte(hit.Metadata["product"]), &product); err != nil {
			return nil, fmt.Errorf("decode indexed product %s: %w", hit.ID, err)
		}
		if price.Min != nil && product.Price < *price.Min {
			continue
		}
		if price.Max != nil && product.Price > *price.Max {
			continue
		}
		results = append(results, Result{Product: product, Score: float64(hit.Similarity)})
	}
	return results, nil
}

func documentText(product *storex.Product) string {
	var b strings.Builder
	b.WriteString(product.Name)
	b.WriteString(". ")
	b.WriteString(product.Description)
	b.WriteString(" Category: ")
	b.WriteString(product.Category)
	if len(product.Specifications) > 0 {
		b.WriteString(" Specifications:")
		for key, value := range product.Specifications {
			fmt.Fprintf(&b, " %s=%v", key, value)
		}
	}
	return b.String()
}
