// Package trends wraps the Perplexity-style chat-completions API used for hot
// topic research and daily banner copy. Failed or malformed responses surface
// as wrapped domain.ErrProviderFailure; substituting degraded content is the
// caller's concern.
package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar-pro"
	defaultTimeout = 30 * time.Second

	topicsSystemPrompt  = "You are a professional trends analyst. Provide concise, accurate information about current technology and professional development trends."
	contentSystemPrompt = "You are a content creator specializing in professional development content. Always respond with valid JSON format."
)

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client calls the chat-completions endpoint with per-call context deadlines.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// Content is the structured banner copy produced by the model.
type Content struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Body            string `json:"content"`
	ImageSearchTerm string `json:"image_search_term"`
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{apiKey: opts.APIKey, model: model, baseURL: baseURL, client: client}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// HotTopics returns a free-text summary of the current top trends for
// professional development.
func (c *Client) HotTopics(ctx context.Context) (string, error) {
	month := time.Now().UTC().Format("January 2006")
	prompt := fmt.Sprintf("What are the top 3 trending topics in technology, AI, and professional development for %s? Focus on topics that would be relevant for professionals and career development. Please provide a brief description of each trend and why it's significant.", month)

	text, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: topicsSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// BannerContent generates structured banner copy for the given hot-topic
// context. The model is asked for JSON but may wrap it in prose or code
// fences; the first balanced object span is extracted before parsing, and a
// parse failure is reported like any other provider failure.
func (c *Client) BannerContent(ctx context.Context, hotTopic string) (*Content, error) {
	day := time.Now().UTC().Format("Monday, January 2, 2006")
	prompt := fmt.Sprintf(`Create engaging banner content for a professional skills development platform for %s.

Hot Topic Context: %s

Please provide:
1. A catchy title (max 50 characters) that relates to the hot topic and professional growth
2. A compelling description (max 150 characters) that motivates professionals
3. Main content (max 300 words) that provides valuable insights about the hot topic and how professionals can leverage it for career growth
4. Suggest a relevant professional stock image search term for the banner background

Format your response as JSON:
{"title": "...", "description": "...", "content": "...", "image_search_term": "..."}`, day, hotTopic)

	text, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: contentSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   1500,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, err
	}

	fragment := ExtractJSONObject(text)
	if fragment == "" {
		return nil, fmt.Errorf("trends: no JSON object in model reply: %w", domain.ErrProviderFailure)
	}
	var content Content
	if err := json.Unmarshal([]byte(fragment), &content); err != nil {
		return nil, fmt.Errorf("trends: parse banner content: %v: %w", err, domain.ErrProviderFailure)
	}
	return &content, nil
}

func (c *Client) complete(ctx context.Context, payload chatRequest) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", fmt.Errorf("trends: api key not configured: %w", domain.ErrNoCredential)
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("trends: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("trends: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("trends: call completions: %v: %w", err, domain.ErrProviderFailure)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("trends: completions status %d: %w", resp.StatusCode, domain.ErrProviderFailure)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("trends: decode response: %v: %w", err, domain.ErrProviderFailure)
	}
	for _, choice := range out.Choices {
		if strings.TrimSpace(choice.Message.Content) != "" {
			return choice.Message.Content, nil
		}
	}
	return "", fmt.Errorf("trends: empty completion: %w", domain.ErrProviderFailure)
}

// ExtractJSONObject returns the first balanced {...} span in raw, with any
// surrounding prose or markdown code fence stripped. It returns "" when no
// balanced object is present.
func ExtractJSONObject(raw string) string {
	text := trimCodeFence(strings.TrimSpace(raw))
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
