package banner

import (
	"fmt"
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/providers/imagesearch"
	"server/internal/providers/trends"
)

// Deterministic substitutes for every pipeline stage. The pipeline must always
// terminate with a renderable banner; a missing banner is worse than a generic
// one, so none of these can fail.

const (
	FallbackContentType = "image/svg+xml"

	placeholderWidth      = 1200
	placeholderHeight     = 300
	placeholderBackground = "667eea"
	placeholderForeground = "ffffff"
	placeholderLabel      = "professional development"

	fallbackTitle       = "🚀 Boost Your Career Today!"
	fallbackDescription = "Discover trending skills and opportunities in today's dynamic professional landscape"
	fallbackSearchTerm  = "professional development technology workspace"

	fallbackTopics = `Current trending topics in tech:
1. AI Integration in Workplace - Companies are rapidly adopting AI tools for productivity
2. Remote Work Technologies - New collaboration tools and virtual office solutions
3. Cybersecurity Awareness - Growing focus on data protection and privacy`
)

var titleCaser = cases.Title(language.English)

// FallbackHotTopics returns the fixed three-item trend summary used when topic
// research is unavailable.
func FallbackHotTopics() string {
	return fallbackTopics
}

// FallbackContent returns the fixed banner copy, with the body interpolating
// whatever hot-topic context the pipeline has at that point.
func FallbackContent(hotTopic string) *trends.Content {
	return &trends.Content{
		Title:           fallbackTitle,
		Description:     fallbackDescription,
		Body:            fmt.Sprintf("Welcome to another day of professional growth! Today's focus: %s. Stay ahead of the curve by developing relevant skills and connecting with industry peers. Your career journey continues with every new challenge and opportunity.", hotTopic),
		ImageSearchTerm: fallbackSearchTerm,
	}
}

// PlaceholderImageURL builds the locator for the placeholder service,
// encoding the requested dimensions and a URL-encoded label.
func PlaceholderImageURL() string {
	label := url.QueryEscape(titleCaser.String(placeholderLabel))
	return fmt.Sprintf("https://via.placeholder.com/%dx%d/%s/%s?text=%s",
		placeholderWidth, placeholderHeight, placeholderBackground, placeholderForeground, label)
}

// FallbackImage renders a gradient vector banner. Its content type is
// deliberately distinct from a photographic one so callers can tell a degraded
// image apart.
func FallbackImage() *imagesearch.Image {
	svg := fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="grad1" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#667eea;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:#764ba2;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="100%%" height="100%%" fill="url(#grad1)"/>
  <text x="50%%" y="50%%" font-family="Arial, sans-serif" font-size="48" font-weight="bold"
        text-anchor="middle" dy=".3em" fill="white">SkillSync AI</text>
  <text x="50%%" y="70%%" font-family="Arial, sans-serif" font-size="24"
        text-anchor="middle" dy=".3em" fill="rgba(255,255,255,0.9)">%s Platform</text>
</svg>`, placeholderWidth, placeholderHeight, titleCaser.String(placeholderLabel))

	return &imagesearch.Image{Data: []byte(svg), ContentType: FallbackContentType}
}
