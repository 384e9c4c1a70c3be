package faceclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// EmbeddingSize is the vector length the embedding service returns.
const EmbeddingSize = 128

// Client calls the face-embedding microservice. When Skip is set it returns a
// deterministic stub so the rest of the stack runs without the service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 30 * time.Second, // embedding generation can take a while
		},
	}
}

// Embed requests a face embedding for raw image bytes.
func (c *Client) Embed(ctx context.Context, image []byte) ([]float32, error) {
	if c.Skip {
		vec := make([]float32, EmbeddingSize)
		for i := range vec {
			vec[i] = float32(i%7) / 10
		}
		return vec, nil
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("image bytes required")
	}

	body, _ := json.Marshal(map[string]string{
		"image_b64": base64.StdEncoding.EncodeToString(image),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service error %s: %s", resp.Status, string(bodyBytes))
	}

	var out struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("no face detected in image")
	}
	if len(out.Embedding) != EmbeddingSize {
		return nil, fmt.Errorf("unexpected embedding size %d", len(out.Embedding))
	}

	return out.Embedding, nil
}

// CosineSimilarity returns similarity in roughly [-1, 1]. Zero vectors and
// mismatched lengths score 0 so they never clear the match threshold.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
