package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// EmbeddingCache stores vectors keyed by model and normalized query text
type EmbeddingCache struct {
	client Client
	model  string
	ttl    time.Duration
}

func NewEmbeddingCache(client Client, model string, ttl time.Duration) *EmbeddingCache {
	return &EmbeddingCache{client: client, model: model, ttl: ttl}
}

// Get returns ErrCacheMiss when the text has not been embedded with this model
func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float32, error) {
	raw, err := c.client.Get(ctx, c.key(text))
	if err != nil {
		return nil, err
	}
	return decodeVector(raw)
}

func (c *EmbeddingCache) Put(ctx context.Context, text string, vector []float32) error {
	return c.client.Set(ctx, c.key(text), encodeVector(vector), c.ttl)
}

func (c *EmbeddingCache) key(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return "emb:" + c.model + ":" + hex.EncodeToString(sum[:])
}

// vectors are stored as little-endian float32s
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("corrupt cached vector of %d bytes", len(raw))
	}
	vector := make([]float32, len(raw)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vector, nil
}
