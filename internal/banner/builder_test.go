package banner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/imagesearch"
	"server/internal/providers/trends"
)

type fakeTopics struct {
	topics     string
	topicsErr  error
	content    *trends.Content
	contentErr error
	gotContext string
}

func (f *fakeTopics) HotTopics(context.Context) (string, error) {
	return f.topics, f.topicsErr
}

func (f *fakeTopics) BannerContent(_ context.Context, hotTopic string) (*trends.Content, error) {
	f.gotContext = hotTopic
	return f.content, f.contentErr
}

type fakeImages struct {
	url       string
	searchErr error
	image     *imagesearch.Image
	fetchErr  error
	gotTerm   string
	gotURL    string
}

func (f *fakeImages) Search(_ context.Context, term string) (string, error) {
	f.gotTerm = term
	return f.url, f.searchErr
}

func (f *fakeImages) Fetch(_ context.Context, imageURL string) (*imagesearch.Image, error) {
	f.gotURL = imageURL
	return f.image, f.fetchErr
}

var testDay = time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)

func TestBuildHappyPath(t *testing.T) {
	topics := &fakeTopics{
		topics: "1. AI tooling is everywhere",
		content: &trends.Content{
			Title:           "Ride the AI Wave",
			Description:     "Practical AI for your day job",
			Body:            "Longer body text.",
			ImageSearchTerm: "team using laptops",
		},
	}
	images := &fakeImages{
		url:   "https://images.example.com/a.jpg",
		image: &imagesearch.Image{Data: []byte{1, 2, 3}, ContentType: "image/jpeg"},
	}

	b := NewBuilder(topics, images, zerolog.Nop()).Build(context.Background(), testDay)

	if b.Title != "Ride the AI Wave" {
		t.Fatalf("title: %q", b.Title)
	}
	if b.Date != domain.TruncateToDay(testDay) {
		t.Fatalf("date not truncated: %s", b.Date)
	}
	if images.gotTerm != "team using laptops" {
		t.Fatalf("search term not propagated: %q", images.gotTerm)
	}
	if images.gotURL != images.url {
		t.Fatalf("fetch url not propagated: %q", images.gotURL)
	}
	if b.ImageContentType != "image/jpeg" {
		t.Fatalf("content type: %q", b.ImageContentType)
	}
	if b.Status != domain.BannerStatusActive {
		t.Fatalf("status: %q", b.Status)
	}
	if !b.ExpiresAt.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expires_at: %s", b.ExpiresAt)
	}
}

func TestBuildAllStagesFailing(t *testing.T) {
	boom := errors.New("boom")
	topics := &fakeTopics{topicsErr: boom, contentErr: boom}
	images := &fakeImages{searchErr: boom, fetchErr: boom}

	b := NewBuilder(topics, images, zerolog.Nop()).Build(context.Background(), testDay)

	if b.Title != "🚀 Boost Your Career Today!" {
		t.Fatalf("title: %q", b.Title)
	}
	if b.Description != "Discover trending skills and opportunities in today's dynamic professional landscape" {
		t.Fatalf("description: %q", b.Description)
	}
	if !strings.Contains(b.Content, "Today's focus:") {
		t.Fatalf("body: %q", b.Content)
	}
	if b.ImageContentType != FallbackContentType {
		t.Fatalf("content type: %q", b.ImageContentType)
	}
	if b.ImageURL != PlaceholderImageURL() {
		t.Fatalf("image url: %q", b.ImageURL)
	}
	if !strings.HasPrefix(b.HotTopic, "Current trending topics in tech:") {
		t.Fatalf("hot topic: %q", b.HotTopic)
	}
	// Provenance is still freshly computed even when every stage degraded.
	if b.Meta.GeneratedAt.IsZero() || b.Meta.Source == "" {
		t.Fatalf("meta not populated: %#v", b.Meta)
	}
	if b.Date != domain.TruncateToDay(testDay) {
		t.Fatalf("date: %s", b.Date)
	}
}

func TestBuildContentFailureDoesNotStopLaterStages(t *testing.T) {
	topics := &fakeTopics{
		topics:     "fresh topics",
		contentErr: errors.New("model outage"),
	}
	images := &fakeImages{
		url:   "https://images.example.com/b.jpg",
		image: &imagesearch.Image{Data: []byte{9}, ContentType: "image/png"},
	}

	b := NewBuilder(topics, images, zerolog.Nop()).Build(context.Background(), testDay)

	// Stage C ran against the fallback copy's search term.
	if images.gotTerm != "professional development technology workspace" {
		t.Fatalf("search term: %q", images.gotTerm)
	}
	if b.ImageContentType != "image/png" {
		t.Fatalf("content type: %q", b.ImageContentType)
	}
	if !strings.Contains(b.Content, "fresh topics") {
		t.Fatalf("fallback body should carry the live topic context: %q", b.Content)
	}
}

func TestBuildImageFetchFailureUsesVectorFallback(t *testing.T) {
	topics := &fakeTopics{
		topics:  "topics",
		content: &trends.Content{Title: "T", Description: "D", Body: "B", ImageSearchTerm: "term"},
	}
	images := &fakeImages{
		url:      "https://images.example.com/c.jpg",
		fetchErr: errors.New("timeout"),
	}

	b := NewBuilder(topics, images, zerolog.Nop()).Build(context.Background(), testDay)

	if b.ImageContentType != "image/svg+xml" {
		t.Fatalf("content type: %q", b.ImageContentType)
	}
	if !strings.Contains(string(b.ImageBinary), "SkillSync AI") {
		t.Fatalf("fallback image payload missing overlay text")
	}
	// The resolved URL is kept even though its fetch failed.
	if b.ImageURL != "https://images.example.com/c.jpg" {
		t.Fatalf("image url: %q", b.ImageURL)
	}
}

func TestBuildTruncatesHotTopic(t *testing.T) {
	topics := &fakeTopics{
		topics:  strings.Repeat("é", 450),
		content: &trends.Content{Title: "T", ImageSearchTerm: "term"},
	}
	images := &fakeImages{url: "u", image: &imagesearch.Image{Data: []byte{1}, ContentType: "image/jpeg"}}

	b := NewBuilder(topics, images, zerolog.Nop()).Build(context.Background(), testDay)

	if got := len([]rune(b.HotTopic)); got != 200 {
		t.Fatalf("hot topic rune length: %d", got)
	}
}
