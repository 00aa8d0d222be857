package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Classification is the structured result of an LLM tagging call.
type Classification struct {
	Tags             []string           `json:"tags"`
	StructureMetrics map[string]float64 `json:"structure_metrics"`
}

// LLMService calls the DeepSeek chat-completions API to classify free-form
// tasting text into the controlled vocabulary.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService() (*LLMService, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	model := os.Getenv("DEEPSEEK_MODEL")
	if model == "" {
		model = "deepseek-chat"
	}

	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the DeepSeek API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

const classifySystemPrompt = `You are a sommelier and spirits educator. Given a tasting description, respond only with JSON of the form:
{
    "tags": ["smoke_peat", "vanilla_oak"],
    "structure_metrics": {"body": 0.7, "sweetness_level": 0.3, "acidity": 0.4, "tannin": 0.2, "finish_length": 0.6, "peat_level": 0.8, "alcohol_intensity": 0.5}
}

The tags field MUST only use terms from this list: sweet, smoke_peat, spice, vanilla_oak, dried_fruit, citrus, floral, nutty, saline, umami, bitter, creamy, tannic, herbal, earthy, tropical, stone_fruit, berry, chocolate, caramel, honey.
Every structure metric MUST be a number between 0 and 1. Omit metrics you cannot judge from the text.`

// Classify sends the description to the model and decodes the structured
// result. Callers are expected to re-filter tags against the controlled
// vocabulary; the model is told the rules but not trusted to follow them.
func (s *LLMService) Classify(ctx context.Context, description string) (*Classification, error) {
	messages := []Message{
		{Role: "system", Content: classifySystemPrompt},
		{Role: "user", Content: description},
	}

	reqBody := Request{
		Model:    s.model,
		Messages: messages,
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: 0.2, // classification, not creativity
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	var classification Classification
	if err := json.Unmarshal([]byte(result.Choices[0].Message.Content), &classification); err != nil {
		return nil, fmt.Errorf("failed to parse classification: %w", err)
	}

	return &classification, nil
}
