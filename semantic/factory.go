package semantic

import (
	"os"

	"github.com/intentlab/intentprint/internal/logging"
)

// NewEmbedderFromEnv picks an embedding backend from the environment:
// JINA_API_KEY selects Jina, otherwise a local Ollama server is probed.
// Returns nil when no backend is reachable.
//
// Environment:
//
//	JINA_API_KEY             Jina AI API key
//	OLLAMA_HOST              Ollama endpoint (default http://localhost:11434)
//	INTENTPRINT_EMBED_MODEL  model override for either backend
func NewEmbedderFromEnv() Embedder {
	model := os.Getenv("INTENTPRINT_EMBED_MODEL")

	if key := os.Getenv("JINA_API_KEY"); key != "" {
		e := NewJinaEmbedder(key, model)
		logging.Info("embedder initialized", "backend", "jina", "model", e.model)
		return e
	}

	endpoint := os.Getenv("OLLAMA_HOST")
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	ollama := NewOllamaEmbedder(endpoint, model)
	if ollama.Available() {
		logging.Info("embedder initialized", "backend", "ollama", "model", ollama.model)
		return ollama
	}

	logging.Warn("no embedding backend available")
	return nil
}
