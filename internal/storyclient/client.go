package storyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AdviceRequest describes the child profile the text-generation service uses
// to compose an encouragement message.
type AdviceRequest struct {
	Name     string `json:"name"`
	AgeGroup string `json:"age_group"`
	Points   int    `json:"points"`
	Rank     int    `json:"rank"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

type Story struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Quiz    []QuizQuestion `json:"quiz"`
}

// Client calls the text-generation microservice. Skip mode returns canned
// content for development.
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
			Timeout: 30 * time.Second,
		},
	}
}

// Advice returns a short motivational message for the child.
func (c *Client) Advice(ctx context.Context, req AdviceRequest) (string, error) {
	if c.Skip {
		return fmt.Sprintf("Great job, %s! Keep earning those points.", req.Name), nil
	}

	var out struct {
		Advice string `json:"advice"`
	}
	if err := c.post(ctx, "/advice", req, &out); err != nil {
		return "", err
	}
	if out.Advice == "" {
		return "", fmt.Errorf("empty advice response")
	}
	return out.Advice, nil
}

// Story returns an age-appropriate bedtime story with a short quiz.
func (c *Client) Story(ctx context.Context, name, ageGroup string) (Story, error) {
	if c.Skip {
		return Story{
			Title:   "The Faithful Shepherd",
			Content: "Once upon a time a shepherd counted every sheep, every night...",
			Quiz: []QuizQuestion{
				{Question: "What did the shepherd count?", Options: []string{"Stars", "Sheep", "Coins"}, Answer: 1},
			},
		}, nil
	}

	var out Story
	err := c.post(ctx, "/story", map[string]string{"name": name, "age_group": ageGroup}, &out)
	if err != nil {
		return Story{}, err
	}
	if out.Content == "" {
		return Story{}, fmt.Errorf("empty story response")
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("story service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("story service error %s: %s", resp.Status, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode story response: %w", err)
	}
	return nil
}
