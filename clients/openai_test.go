package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestJudge(serverURL string) *OpenAIJudge {
	return &OpenAIJudge{
		URL:        serverURL,
		APIKey:     "test-key",
		Model:      "gpt-4o",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func chatResponse(content string) string {
	encoded, _ := json.Marshal(content)
	return `{"choices":[{"message":{"content":` + string(encoded) + `}}]}`
}

func TestJudgeParsesVerdict(t *testing.T) {
	var gotRequest openAIChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Write([]byte(chatResponse(`{"result":{"wallet":"wallet-a","reply_id":"r1"},"chain_of_thought":"best entry"}`)))
	}))
	defer server.Close()

	judge := newTestJudge(server.URL)
	verdict, err := judge.Judge(context.Background(), "pick a winner")
	if err != nil {
		t.Fatalf("expected verdict, got %v", err)
	}
	if verdict.Wallet != "wallet-a" || verdict.ReplyID != "r1" || verdict.ChainOfThought != "best entry" {
		t.Fatalf("unexpected verdict %+v", verdict)
	}
	if gotRequest.Model != "gpt-4o" {
		t.Fatalf("expected configured model, got %q", gotRequest.Model)
	}
	if gotRequest.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json response format, got %q", gotRequest.ResponseFormat.Type)
	}
	if len(gotRequest.Messages) != 1 || !strings.Contains(gotRequest.Messages[0].Content, "pick a winner") {
		t.Fatalf("expected prompt forwarded, got %+v", gotRequest.Messages)
	}
}

func TestJudgeTrimsWallet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse(`{"result":{"wallet":"  ","reply_id":""},"chain_of_thought":"no winner"}`)))
	}))
	defer server.Close()

	judge := newTestJudge(server.URL)
	verdict, err := judge.Judge(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected verdict, got %v", err)
	}
	if verdict.Wallet != "" {
		t.Fatalf("expected whitespace wallet treated as empty, got %q", verdict.Wallet)
	}
}

func TestJudgeUnparseableContentIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse("I think the winner should be the second one.")))
	}))
	defer server.Close()

	judge := newTestJudge(server.URL)
	if _, err := judge.Judge(context.Background(), "prompt"); err == nil {
		t.Fatal("expected parse error for non-JSON verdict")
	}
}

func TestJudgeAPIErrorIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad request"}}`))
	}))
	defer server.Close()

	judge := newTestJudge(server.URL)
	if _, err := judge.Judge(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for API failure")
	}
}

func TestJudgeNoChoicesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	judge := newTestJudge(server.URL)
	if _, err := judge.Judge(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestJudgeMissingAPIKeyIsError(t *testing.T) {
	judge := newTestJudge("http://unused")
	judge.APIKey = ""
	if _, err := judge.Judge(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
