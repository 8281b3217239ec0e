package trends

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"server/internal/domain"
)

func chatReply(t *testing.T, content string) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(body)
}

func TestBannerContentExtractsEmbeddedJSON(t *testing.T) {
	reply := "Sure! Here is the banner you asked for:\n```json\n{\"title\":\"Lead with AI\",\"description\":\"Make AI work for you\",\"content\":\"Body text.\",\"image_search_term\":\"modern office\"}\n```\nLet me know if you need edits."

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		_, _ = w.Write([]byte(chatReply(t, reply)))
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	content, err := client.BannerContent(context.Background(), "AI everywhere")
	if err != nil {
		t.Fatalf("BannerContent returned error: %v", err)
	}
	if content.Title != "Lead with AI" {
		t.Fatalf("title mismatch: %q", content.Title)
	}
	if content.ImageSearchTerm != "modern office" {
		t.Fatalf("image search term mismatch: %q", content.ImageSearchTerm)
	}
}

func TestBannerContentUnparsableReplyIsProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply(t, "I could not produce JSON today, sorry.")))
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	if _, err := client.BannerContent(context.Background(), "topic"); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestHotTopicsNon2xxIsProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	if _, err := client.HotTopics(context.Background()); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestHotTopicsMissingKeyIsNoCredential(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://127.0.0.1:0"})
	if _, err := client.HotTopics(context.Background()); !errors.Is(err, domain.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"leading prose", `reply: {"a":{"b":2}} trailing`, `{"a":{"b":2}}`},
		{"brace inside string", `{"a":"}"}`, `{"a":"}"}`},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"no object", "just words", ""},
		{"unbalanced", `{"a":1`, ""},
	}
	for _, tc := range cases {
		if got := ExtractJSONObject(tc.in); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestHotTopicsUsesFirstNonEmptyChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "   "}},
				{"message": map[string]string{"content": "1. AI at work\n2. Remote collaboration\n3. Security awareness"}},
			},
		})
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	topics, err := client.HotTopics(context.Background())
	if err != nil {
		t.Fatalf("HotTopics returned error: %v", err)
	}
	if !strings.Contains(topics, "Remote collaboration") {
		t.Fatalf("unexpected topics text: %q", topics)
	}
}
