// clients/openai.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"game-contest-system/config"
	"game-contest-system/models"
)

const openAIChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// OpenAIJudge asks a chat model to pick a winning entry. Any transport,
// API, or parse problem is returned as a single error; the winner selector
// owns the fallback behavior.
type OpenAIJudge struct {
	URL        string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewOpenAIJudge(cfg config.Config) *OpenAIJudge {
	return &OpenAIJudge{
		URL:        openAIChatCompletionsURL,
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.OpenAIModel,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type openAIChatRequest struct {
	Model          string              `json:"model"`
	Messages       []openAIChatMessage `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type judgeVerdict struct {
	Result struct {
		Wallet  string `json:"wallet"`
		ReplyID string `json:"reply_id"`
	} `json:"result"`
	ChainOfThought string `json:"chain_of_thought"`
}

// Judge sends the prompt and parses the model's JSON verdict.
func (j *OpenAIJudge) Judge(ctx context.Context, prompt string) (models.Verdict, error) {
	if strings.TrimSpace(j.APIKey) == "" {
		return models.Verdict{}, errors.New("openai api key is not configured")
	}

	reqBody := openAIChatRequest{
		Model: j.Model,
		Messages: []openAIChatMessage{
			{Role: "user", Content: prompt},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("failed to build openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.URL, bytes.NewReader(payload))
	if err != nil {
		return models.Verdict{}, fmt.Errorf("failed to build openai request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(j.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.HTTPClient.Do(req)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("failed to reach openai: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("failed to read openai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Verdict{}, fmt.Errorf("openai request failed (%d): %s", resp.StatusCode, string(body[:min(len(body), 512)]))
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.Verdict{}, fmt.Errorf("failed to parse openai response: %w", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return models.Verdict{}, fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return models.Verdict{}, errors.New("openai returned no choices")
	}

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &verdict); err != nil {
		return models.Verdict{}, fmt.Errorf("failed to parse judge verdict: %w", err)
	}
	return models.Verdict{
		Wallet:         strings.TrimSpace(verdict.Result.Wallet),
		ReplyID:        verdict.Result.ReplyID,
		ChainOfThought: verdict.ChainOfThought,
	}, nil
}
