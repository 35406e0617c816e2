package news

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentFetches = 4

// FetchAll pulls items from every source in a bounded pool. A source that
// fails is logged and skipped; the merged result is sorted newest-first,
// de-duplicated by URL within the batch and capped at limit.
func FetchAll(ctx context.Context, clients []Client, since time.Time, limit int) []Item {
	var (
		mu  sync.Mutex
		all []Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, client := range clients {
		c := client
		g.Go(func() error {
			items, err := c.Fetch(gctx, since)
			if err != nil {
				slog.Error("error fetching source", "source", c.Name(), "error", err)
				return nil
			}

			mu.Lock()
			all = append(all, items...)
			mu.Unlock()

			slog.Info("source fetched", "source", c.Name(), "items", len(items))
			return nil
		})
	}

	g.Wait()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	seen := make(map[string]bool, len(all))
	deduped := all[:0]
	for _, item := range all {
		if item.URL != "" && seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		deduped = append(deduped, item)
	}

	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}

	return deduped
}

// Filter keeps items whose title or summary contains at least one keyword,
// case-insensitive. An empty keyword list passes everything through.
func Filter(items []Item, keywords []string) []Item {
	if len(keywords) == 0 {
		return items
	}

	var matched []Item
	for _, item := range items {
		text := strings.ToLower(item.Title + " " + item.Summary)
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(kw)) {
				matched = append(matched, item)
				break
			}
		}
	}

	return matched
}
