package social

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Previewer fetches and parses RSS/Podcast profile URLs so a contact's
// published content can be inspected without leaving the dashboard.
type Previewer struct {
	parser *gofeed.Parser
	client *http.Client
}

// NewPreviewer creates a feed previewer with a bounded request timeout.
func NewPreviewer() *Previewer {
	parser := gofeed.NewParser()
	parser.UserAgent = "Outreach/1.0"
	return &Previewer{
		parser: parser,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// Preview is the parsed summary of a feed-backed social profile.
type Preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
}

// Item is one recent entry from the feed.
type Item struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Published *time.Time `json:"published,omitempty"`
}

// FetchError wraps any upstream failure (network, HTTP status, parse) so
// callers can distinguish a bad feed from their own errors.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Preview fetches feedURL and returns its title, description, and up to
// maxItems recent entries.
func (p *Previewer) Preview(ctx context.Context, feedURL string, maxItems int) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", feedURL, err)
	}
	req.Header.Set("User-Agent", "Outreach/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: feedURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}

	parsed, err := p.parser.ParseString(string(body))
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}

	preview := &Preview{
		Title:       parsed.Title,
		Description: parsed.Description,
	}
	for i, item := range parsed.Items {
		if i >= maxItems {
			break
		}
		preview.Items = append(preview.Items, Item{
			Title:     item.Title,
			URL:       item.Link,
			Published: item.PublishedParsed,
		})
	}
	return preview, nil
}
