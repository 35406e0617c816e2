package news

import (
	"context"
	"net/http"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string, timeout time.Duration) *FinnHubClient {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) Fetch(ctx context.Context, since time.Time) ([]Item, error) {
	res, _, err := c.client.MarketNews(ctx).Category("crypto").Execute()
	if err != nil {
		return nil, err
	}

	var items []Item

	for _, entry := range res {
		item := Item{
			Source: c.Name(),
		}

		if entry.Headline != nil {
			item.Title = *entry.Headline
		}

		if entry.Summary != nil {
			item.Summary = truncate(*entry.Summary, maxSummaryChars)
		}

		if entry.Url != nil {
			item.URL = *entry.Url
		}

		if entry.Datetime != nil {
			item.PublishedAt = time.Unix(*entry.Datetime, 0)
		}

		if entry.Source != nil {
			item.Publisher = *entry.Source
		}

		if item.PublishedAt.Before(since) {
			continue
		}

		items = append(items, item)
	}

	return items, nil
}
