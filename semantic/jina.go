package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultJinaModel is used when no model is configured.
const DefaultJinaModel = "jina-embeddings-v3"

// jinaChunkSize caps how many texts go into one API call.
const jinaChunkSize = 25

// JinaEmbedder generates embeddings via the Jina AI API. Requests are rate
// limited client-side to stay under the free-tier RPM cap.
type JinaEmbedder struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

type jinaEmbedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions"`
	Truncate   bool     `json:"truncate"`
}

type jinaEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewJinaEmbedder creates an embedder with the given API key and model.
func NewJinaEmbedder(apiKey, model string) *JinaEmbedder {
	if model == "" {
		model = DefaultJinaModel
	}
	return &JinaEmbedder{
		apiKey:   apiKey,
		model:    model,
		endpoint: "https://api.jina.ai/v1/embeddings",
		client:   &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(750*time.Millisecond), 1), // ~80 RPM
	}
}

// Available returns true if an API key is configured.
func (e *JinaEmbedder) Available() bool {
	return e.apiKey != ""
}

// Embed generates an embedding for one text.
func (e *JinaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts, chunking requests to
// respect API limits. Result order matches input order.
func (e *JinaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	results := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += jinaChunkSize {
		end := start + jinaChunkSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk := texts[start:end]

		resp, err := e.embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("semantic: chunk starting at %d: %w", start, err)
		}
		for _, item := range resp.Data {
			if item.Index < 0 || item.Index >= len(chunk) {
				return nil, fmt.Errorf("semantic: jina returned out-of-range index %d for chunk of %d", item.Index, len(chunk))
			}
			results[start+item.Index] = item.Embedding
		}
	}

	for i, r := range results {
		if r == nil {
			return nil, fmt.Errorf("semantic: missing embedding for index %d", i)
		}
	}
	return results, nil
}

func (e *JinaEmbedder) embed(ctx context.Context, input []string) (*jinaEmbedResponse, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("semantic: rate limiter wait: %w", err)
	}

	body, err := json.Marshal(jinaEmbedRequest{
		Model:      e.model,
		Input:      input,
		Dimensions: 1024,
		Truncate:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("semantic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("semantic: request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("semantic: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("semantic: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("semantic: jina returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out jinaEmbedResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("semantic: parse response: %w", err)
	}
	return &out, nil
}
