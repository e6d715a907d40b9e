package assist

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingMemory keeps conversation embeddings in process memory and
// answers similarity queries over them. Persistence across restarts is
// out of scope, so the index starts empty at process start.
type EmbeddingMemory struct {
	client *openai.Client

	mu      sync.RWMutex
	entries []memoryEntry
}

type memoryEntry struct {
	id     string
	text   string
	vector []float32
}

func NewEmbeddingMemory(apiKey string) *EmbeddingMemory {
	return &EmbeddingMemory{client: openai.NewClient(apiKey)}
}

func (m *EmbeddingMemory) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := m.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.SmallEmbedding3,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings: empty response")
	}
	return resp.Data[0].Embedding, nil
}

func (m *EmbeddingMemory) SaveConversation(ctx context.Context, id, transcript string) error {
	if transcript == "" {
		return nil
	}
	vec, err := m.embed(ctx, transcript)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries = append(m.entries, memoryEntry{id: id, text: transcript, vector: vec})
	m.mu.Unlock()
	log.Info().Str("module", "assist.memory").Str("conversation", id).Msg("saved conversation embedding")
	return nil
}

func (m *EmbeddingMemory) Related(ctx context.Context, query string, k int) ([]string, error) {
	vec, err := m.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	scored := make([]struct {
		score float64
		text  string
	}, 0, len(m.entries))
	for _, e := range m.entries {
		scored = append(scored, struct {
			score float64
			text  string
		}{cosine(vec, e.vector), e.text})
	}
	m.mu.RUnlock()

	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if k > len(scored) {
		k = len(scored)
	}
	out := make([]string, 0, k)
	for _, s := range scored[:k] {
		out = append(out, s.text)
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
