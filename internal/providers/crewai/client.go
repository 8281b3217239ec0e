// Package crewai wraps the CrewAI analysis service that performs LinkedIn
// profile reviews and peer career-inspiration comparisons. The service's reply
// shapes are loose (scalar-or-array fields, string-or-object narratives), so
// coercion into fixed Go types happens here, once, at the ingestion boundary.
package crewai

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
	defaultBaseURL            = "http://localhost:8000"
	defaultAnalysisTimeout    = 60 * time.Second
	defaultInspirationTimeout = 45 * time.Second
)

type Options struct {
	BaseURL            string
	HTTPClient         *http.Client
	AnalysisTimeout    time.Duration
	InspirationTimeout time.Duration
}

type Client struct {
	baseURL            string
	client             *http.Client
	analysisTimeout    time.Duration
	inspirationTimeout time.Duration
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	analysisTimeout := opts.AnalysisTimeout
	if analysisTimeout <= 0 {
		analysisTimeout = defaultAnalysisTimeout
	}
	inspirationTimeout := opts.InspirationTimeout
	if inspirationTimeout <= 0 {
		inspirationTimeout = defaultInspirationTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		baseURL:            baseURL,
		client:             client,
		analysisTimeout:    analysisTimeout,
		inspirationTimeout: inspirationTimeout,
	}
}

// UserContext describes a user profile as sent to the analysis service.
type UserContext struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Department      string   `json:"department"`
	Bio             string   `json:"bio,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experience_level"`
	LinkedinProfile string   `json:"linkedinProfile,omitempty"`
	TwitterProfile  string   `json:"twitterProfile,omitempty"`
}

// ProfileRequest is the payload for a LinkedIn profile analysis.
type ProfileRequest struct {
	UserID          string      `json:"user_id"`
	LinkedinProfile string      `json:"linkedin_profile"`
	CurrentUser     UserContext `json:"current_user"`
}

// InspirationRequest is the payload for a peer comparison.
type InspirationRequest struct {
	CurrentUser     UserContext `json:"current_user"`
	InspirationUser UserContext `json:"inspiration_user"`
}

// Result is a normalized analysis reply. Recommendation fields are already
// coerced to string sequences.
type Result struct {
	ProfileOptimization FlexStrings `json:"profile_optimization"`
	Networking          FlexStrings `json:"networking"`
	ContentStrategy     FlexStrings `json:"content_strategy"`
	SkillDevelopment    FlexStrings `json:"skill_development"`
	CareerRoadmap       FlexStrings `json:"career_roadmap"`
	AnalysisResult      FlexText    `json:"analysis_result"`
	ProfileAnalyzed     string      `json:"profile_analyzed"`
	CompletedAt         string      `json:"completed_at"`
	UserID              string      `json:"user_id"`
}

// AnalyzeProfile runs a LinkedIn profile analysis.
func (c *Client) AnalyzeProfile(ctx context.Context, req ProfileRequest) (*Result, error) {
	return c.post(ctx, "/analyze-linkedin-profile", req, c.analysisTimeout)
}

// CareerInspiration compares the current user against a peer profile.
func (c *Client) CareerInspiration(ctx context.Context, req InspirationRequest) (*Result, error) {
	return c.post(ctx, "/generate-career-inspiration", req, c.inspirationTimeout)
}

func (c *Client) post(ctx context.Context, path string, payload any, timeout time.Duration) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("crewai: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("crewai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crewai: call %s: %v: %w", path, err, domain.ErrProviderFailure)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("crewai: %s status %d: %w", path, resp.StatusCode, domain.ErrProviderFailure)
	}
	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("crewai: decode response: %v: %w", err, domain.ErrProviderFailure)
	}
	return &out, nil
}

// FlexStrings decodes a field the service may return as null, a scalar, or a
// list. Scalars become single-element sequences; non-string elements keep
// their compact JSON rendering.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = nil
		return nil
	}
	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, elem := range raw {
			items = append(items, rawToString(elem))
		}
		*f = items
		return nil
	}
	*f = []string{rawToString(trimmed)}
	return nil
}

// FlexText decodes a field the service may return either as a plain string or
// as an object carrying an analysis_text member.
type FlexText string

func (f *FlexText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexText(s)
		return nil
	}
	var wrapped struct {
		AnalysisText string `json:"analysis_text"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	*f = FlexText(wrapped.AnalysisText)
	return nil
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	compact := &bytes.Buffer{}
	if err := json.Compact(compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
