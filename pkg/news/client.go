package news

import (
	"context"
	"time"
)

type Item struct {
	Title       string
	URL         string
	Source      string
	Publisher   string
	Summary     string
	PublishedAt time.Time
}

type Client interface {
	Fetch(ctx context.Context, since time.Time) ([]Item, error)
	Name() string
}
