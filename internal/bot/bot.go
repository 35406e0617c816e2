package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HashedAlex/tweet-post/internal/config"
	"github.com/HashedAlex/tweet-post/internal/model"
	"github.com/HashedAlex/tweet-post/internal/repository"
	"github.com/HashedAlex/tweet-post/pkg/llm"
	"github.com/HashedAlex/tweet-post/pkg/news"
)

// DedupStore is the posting-history contract the pipeline depends on. A
// store error aborts the cycle: without durable dedup tracking we would
// risk reposting.
type DedupStore interface {
	IsPosted(hash string) (bool, error)
	MarkPosted(record *model.PostedRecord) error
}

type Poster interface {
	PostThread(ctx context.Context, texts []string) ([]string, error)
}

type Bot struct {
	cfg     *config.Config
	sources []news.Client
	analyst llm.Analyst
	poster  Poster
	store   DedupStore

	// FetchWindow defaults to the scan interval; cmd/bot can override it.
	FetchWindow time.Duration
	// Topic narrows curation to one subject when set.
	Topic string
	// ArchiveDir receives latest_tweet.md and tweet_archive.md.
	ArchiveDir string
}

func New(cfg *config.Config, sources []news.Client, analyst llm.Analyst, poster Poster, store DedupStore) *Bot {
	return &Bot{
		cfg:         cfg,
		sources:     sources,
		analyst:     analyst,
		poster:      poster,
		store:       store,
		FetchWindow: cfg.ScanInterval,
		ArchiveDir:  ".",
	}
}

// RunCycle executes one fetch, filter, dedupe, curate, analyze, post,
// record pass. Steps after fetching are strictly sequential so articles
// are recorded only once their content went out.
func (b *Bot) RunCycle(ctx context.Context) error {
	slog.Info("starting bot cycle", "window", b.FetchWindow.String(), "sources", len(b.sources))

	since := time.Now().Add(-b.FetchWindow)
	items := news.FetchAll(ctx, b.sources, since, b.cfg.FetchLimit)
	if len(items) == 0 {
		slog.Warn("no headlines found, skipping this cycle")
		return nil
	}

	matched := news.Filter(items, b.cfg.Keywords)
	slog.Info("relevance filter applied", "fetched", len(items), "matched", len(matched))
	if len(matched) == 0 {
		slog.Warn("no relevant headlines, skipping this cycle")
		return nil
	}

	fresh, err := b.dropAlreadyPosted(matched)
	if err != nil {
		return fmt.Errorf("checking posting history: %w", err)
	}
	if len(fresh) == 0 {
		slog.Info("all relevant articles already posted, skipping this cycle")
		return nil
	}

	selected := b.curate(ctx, fresh)
	slog.Info("articles selected for analysis", "count", len(selected))
	for i, item := range selected {
		slog.Info("selected article", "rank", i+1, "title", item.Title, "source", item.Source)
	}

	raw, err := b.analyst.Analyze(ctx, toInputs(selected))
	if err != nil {
		return fmt.Errorf("analysis failed, skipping posting this cycle: %w", err)
	}

	posts := llm.ParseThread(raw, b.cfg.MaxTweetLength)
	if len(posts) == 0 {
		return fmt.Errorf("analysis produced no usable posts, skipping posting this cycle")
	}

	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Text
	}

	b.archiveDraft(texts)

	ids, postErr := b.poster.PostThread(ctx, texts)
	if len(ids) == 0 && postErr != nil {
		return fmt.Errorf("posting failed: %w", postErr)
	}

	tweetText := strings.Join(texts, "\n")
	for _, item := range selected {
		record := &model.PostedRecord{
			NewsHash:  repository.NewsHash(item.Title, item.Source),
			Title:     item.Title,
			Source:    item.Source,
			URL:       item.URL,
			TweetText: tweetText,
		}
		if err := b.store.MarkPosted(record); err != nil {
			return fmt.Errorf("recording posted article %q: %w", item.Title, err)
		}
	}

	if postErr != nil {
		// Part of the thread went out, so the articles are recorded, but
		// the failure still surfaces.
		return fmt.Errorf("thread partially posted (%d/%d): %w", len(ids), len(texts), postErr)
	}

	slog.Info("cycle completed", "tweets", len(ids), "articles", len(selected))
	return nil
}

func (b *Bot) dropAlreadyPosted(items []news.Item) ([]news.Item, error) {
	var fresh []news.Item
	for _, item := range items {
		hash := repository.NewsHash(item.Title, item.Source)
		posted, err := b.store.IsPosted(hash)
		if err != nil {
			return nil, err
		}
		if posted {
			slog.Info("skipping already posted article", "title", item.Title, "key", hash)
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh, nil
}

// curate asks the model to rank the headlines; on any curation problem it
// falls back to the most recent ones rather than aborting the cycle.
func (b *Bot) curate(ctx context.Context, items []news.Item) []news.Item {
	topK := b.cfg.TweetsPerDay
	if topK <= 0 {
		topK = 1
	}
	if topK > len(items) {
		topK = len(items)
	}

	ids, err := b.analyst.Curate(ctx, toInputs(items), topK, b.Topic)
	if err != nil || len(ids) == 0 {
		slog.Warn("curation unavailable, falling back to most recent", "error", err)
		return items[:topK]
	}

	selected := make([]news.Item, 0, len(ids))
	for _, id := range ids {
		// The providers validate their own output, but the interface does
		// not guarantee in-range indices.
		if id < 0 || id >= len(items) {
			slog.Warn("curation returned out-of-range id", "id", id, "articles", len(items))
			continue
		}
		selected = append(selected, items[id])
	}

	if len(selected) == 0 {
		slog.Warn("curation returned no usable ids, falling back to most recent")
		return items[:topK]
	}

	return selected
}

// RetryPost re-publishes the last saved draft without fetching or
// re-analyzing, for recovery after a failed post. The draft's source
// articles are unknown at this point, so nothing is recorded.
func (b *Bot) RetryPost(ctx context.Context) error {
	path := filepath.Join(b.ArchiveDir, "latest_tweet.md")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("no saved draft to retry: %w", err)
	}

	posts := llm.ParseThread(string(data), b.cfg.MaxTweetLength)
	if len(posts) == 0 {
		return fmt.Errorf("saved draft %s has no usable posts", path)
	}

	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Text
	}

	slog.Info("retrying saved draft", "path", path, "tweets", len(texts))

	ids, err := b.poster.PostThread(ctx, texts)
	if err != nil {
		return fmt.Errorf("retrying saved draft (%d/%d posted): %w", len(ids), len(texts), err)
	}

	slog.Info("saved draft re-posted", "tweets", len(ids))
	return nil
}

func (b *Bot) archiveDraft(texts []string) {
	content := strings.Join(texts, "\n\n---\n\n")

	latest := filepath.Join(b.ArchiveDir, "latest_tweet.md")
	if err := os.WriteFile(latest, []byte(content), 0o644); err != nil {
		slog.Warn("could not save draft", "path", latest, "error", err)
	}

	archive := filepath.Join(b.ArchiveDir, "tweet_archive.md")
	f, err := os.OpenFile(archive, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("could not open archive", "path", archive, "error", err)
		return
	}
	defer f.Close()

	stamp := time.Now().Format("2006-01-02 15:04")
	fmt.Fprintf(f, "\n\n--- [%s] ---\n\n%s", stamp, content)
}

func toInputs(items []news.Item) []llm.ArticleInput {
	inputs := make([]llm.ArticleInput, len(items))
	for i, item := range items {
		inputs[i] = llm.ArticleInput{
			Title:   item.Title,
			Source:  item.Source,
			Summary: item.Summary,
		}
	}
	return inputs
}
