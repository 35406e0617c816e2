package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const maxSummaryChars = 500

const defaultFetchTimeout = 30 * time.Second

type RSSClient struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewRSSClient builds a client for one feed. Every fetch is bounded by
// timeout; a stalled feed server cannot hang a cycle.
func NewRSSClient(feedURL string, timeout time.Duration) *RSSClient {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &RSSClient{
		feedURL: feedURL,
		parser:  parser,
	}
}

func (c *RSSClient) Name() string {
	if u, err := url.Parse(c.feedURL); err == nil && u.Host != "" {
		return u.Host
	}
	return c.feedURL
}

func (c *RSSClient) Fetch(ctx context.Context, since time.Time) ([]Item, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", c.feedURL, err)
	}

	source := feed.Title
	if source == "" {
		source = c.Name()
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		published := publishedTime(entry)
		if published.Before(since) {
			continue
		}

		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}

		items = append(items, Item{
			Title:       entry.Title,
			URL:         entry.Link,
			Source:      source,
			Summary:     truncate(stripHTML(summary), maxSummaryChars),
			PublishedAt: published,
		})
	}

	return items, nil
}

func publishedTime(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	// Feeds without dates still count as fresh.
	return time.Now()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
