package vector

import (
	"context"
	"errors"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/philippgille/chromem-go"
)

const DefaultEmbeddingModel = "text-embedding-3-small"

// OpenAIEmbedding adapts an OpenAI SDK client to chromem's embedding
// function. The client may point at any OpenAI-compatible endpoint.
func OpenAIEmbedding(client *openaisdk.Client, model string) chromem.EmbeddingFunc {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return func(ctx context.Context, text string) ([]float32, error) {
		if client == nil {
			return nil, errors.New("embedding client is nil")
		}

		resp, err := client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
			Input: openaisdk.EmbeddingNewParamsInputUnion{
				OfString: openaisdk.String(text),
			},
			Model: openaisdk.EmbeddingModel(model),
		})
		if err != nil {
			return nil, fmt.Errorf("create embedding: %w", err)
		}
		if len(resp.Data) == 0 {
			return nil, errors.New("embedding response is empty")
		}

		raw := resp.Data[0].Embedding
		embedding := make([]float32, len(raw))
		for i, v := range raw {
			embedding[i] = float32(v)
		}
		return embedding, nil
	}
}
