package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/HashedAlex/tweet-post/internal/config"
	"github.com/HashedAlex/tweet-post/internal/model"
	"github.com/HashedAlex/tweet-post/internal/repository"
	"github.com/HashedAlex/tweet-post/pkg/llm"
	"github.com/HashedAlex/tweet-post/pkg/news"
)

const analysisNote = `The Fed just cut. Markets repricing the front end while the ETF bid holds BTC above support.

Our desk sees the move as confirmation of the easing regime rather than a growth scare. Positioning remains light.

$BTC #Macro`

type fakeSource struct {
	items []news.Item
	err   error
}

func (f *fakeSource) Fetch(ctx context.Context, since time.Time) ([]news.Item, error) {
	return f.items, f.err
}

func (f *fakeSource) Name() string { return "fake" }

type fakeStore struct {
	posted  map[string]bool
	records []*model.PostedRecord
	lookErr error
	markErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{posted: map[string]bool{}}
}

func (f *fakeStore) IsPosted(hash string) (bool, error) {
	return f.posted[hash], f.lookErr
}

func (f *fakeStore) MarkPosted(record *model.PostedRecord) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.posted[record.NewsHash] = true
	f.records = append(f.records, record)
	return nil
}

type fakeAnalyst struct {
	curated    []int
	curateErr  error
	response   string
	analyzeErr error
	analyzed   [][]llm.ArticleInput
}

func (f *fakeAnalyst) Curate(ctx context.Context, articles []llm.ArticleInput, topK int, topic string) ([]int, error) {
	return f.curated, f.curateErr
}

func (f *fakeAnalyst) Analyze(ctx context.Context, articles []llm.ArticleInput) (string, error) {
	f.analyzed = append(f.analyzed, articles)
	return f.response, f.analyzeErr
}

func (f *fakeAnalyst) ModelName() string { return "fake-model" }

type fakePoster struct {
	threads [][]string
	ids     []string
	err     error
}

func (f *fakePoster) PostThread(ctx context.Context, texts []string) ([]string, error) {
	f.threads = append(f.threads, texts)
	return f.ids, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Keywords:       []string{"Fed", "BTC"},
		ScanInterval:   8 * time.Hour,
		TweetsPerDay:   1,
		MaxTweetLength: 4000,
		FetchLimit:     50,
		DryRun:         true,
	}
}

func matchingItem() news.Item {
	return news.Item{
		Title:       "Fed cuts rates",
		URL:         "https://example.com/fed-cuts",
		Source:      "CNBC",
		Summary:     "The Federal Reserve lowered its benchmark rate.",
		PublishedAt: time.Now(),
	}
}

func newTestBot(t *testing.T, store *fakeStore, analyst *fakeAnalyst, poster *fakePoster, items ...news.Item) *Bot {
	b := New(testConfig(), []news.Client{&fakeSource{items: items}}, analyst, poster, store)
	b.ArchiveDir = t.TempDir()
	return b
}

func TestRunCyclePostsAndRecords(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	err := b.RunCycle(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(poster.threads))
	assert.Equal(t, 1, len(store.records))

	rec := store.records[0]
	assert.Equal(t, "Fed cuts rates", rec.Title)
	assert.Equal(t, "CNBC", rec.Source)
	assert.Equal(t, repository.NewsHash("Fed cuts rates", "CNBC"), rec.NewsHash)
	assert.Equal(t, true, strings.Contains(rec.TweetText, "The Fed just cut."))
}

func TestRunCycleFiltersIrrelevant(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster,
		matchingItem(),
		news.Item{Title: "Local sports recap", URL: "https://example.com/sports", Source: "CNBC", PublishedAt: time.Now()},
	)

	err := b.RunCycle(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(analyst.analyzed))
	assert.Equal(t, 1, len(analyst.analyzed[0]))
	assert.Equal(t, "Fed cuts rates", analyst.analyzed[0][0].Title)
}

func TestRunCycleSkipsAlreadyPosted(t *testing.T) {
	store := newFakeStore()
	store.posted[repository.NewsHash("Fed cuts rates", "CNBC")] = true

	analyst := &fakeAnalyst{response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	err := b.RunCycle(context.Background())

	// The analyst never sees an article whose key is in the store.
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(analyst.analyzed))
	assert.Equal(t, 0, len(poster.threads))
}

func TestRunCycleIdempotent(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	assert.Equal(t, nil, b.RunCycle(context.Background()))
	assert.Equal(t, nil, b.RunCycle(context.Background()))

	// Second run with an unchanged feed produces zero new posts.
	assert.Equal(t, 1, len(poster.threads))
	assert.Equal(t, 1, len(store.records))
}

func TestRunCycleStorageErrorAborts(t *testing.T) {
	store := newFakeStore()
	store.lookErr = errors.New("connection refused")

	analyst := &fakeAnalyst{response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	err := b.RunCycle(context.Background())

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(analyst.analyzed))
	assert.Equal(t, 0, len(poster.threads))
}

func TestRunCycleAnalysisErrorSkipsPosting(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{analyzeErr: errors.New("rate limited")}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	err := b.RunCycle(context.Background())

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(poster.threads))
	assert.Equal(t, 0, len(store.records))
}

func TestRunCycleEmptyResponseSkipsPosting(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{response: ""}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	err := b.RunCycle(context.Background())

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(poster.threads))
}

func TestRunCyclePartialThreadStillRecords(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}, err: errors.New("posting tweet 2/2 failed")}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	err := b.RunCycle(context.Background())

	// The first unit went out, so the article is recorded and the error
	// still surfaces.
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, len(store.records))
}

func TestRunCycleFullPostFailure(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{response: analysisNote}
	poster := &fakePoster{err: errors.New("forbidden")}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	err := b.RunCycle(context.Background())

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(store.records))
}

func TestRunCycleCurationFallback(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{curateErr: errors.New("timeout"), response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	second := matchingItem()
	second.Title = "BTC ETF inflows hit record"
	second.URL = "https://example.com/etf"
	second.PublishedAt = time.Now().Add(-1 * time.Hour)

	b := newTestBot(t, store, analyst, poster, matchingItem(), second)

	err := b.RunCycle(context.Background())

	// Curation failure falls back to the most recent headline.
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(analyst.analyzed[0]))
	assert.Equal(t, "Fed cuts rates", analyst.analyzed[0][0].Title)
}

func TestRunCycleCurationSkipsOutOfRangeIDs(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{curated: []int{1, 99}, response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	second := matchingItem()
	second.Title = "BTC ETF inflows hit record"
	second.URL = "https://example.com/etf"

	b := newTestBot(t, store, analyst, poster, matchingItem(), second)

	err := b.RunCycle(context.Background())

	// The valid id survives, the out-of-range one is dropped.
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(analyst.analyzed[0]))
	assert.Equal(t, "BTC ETF inflows hit record", analyst.analyzed[0][0].Title)
}

func TestRunCycleCurationAllOutOfRange(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{curated: []int{99}, response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster, matchingItem())

	err := b.RunCycle(context.Background())

	// Nothing usable from curation degrades to the most-recent fallback.
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(analyst.analyzed[0]))
	assert.Equal(t, "Fed cuts rates", analyst.analyzed[0][0].Title)
}

func TestRetryPostRepostsSavedDraft(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{}
	poster := &fakePoster{ids: []string{"1001", "1002"}}

	b := newTestBot(t, store, analyst, poster)

	draft := analysisNote + "\n\n---\n\n" + "Second unit of the desk note, continuing the positioning discussion."
	err := os.WriteFile(filepath.Join(b.ArchiveDir, "latest_tweet.md"), []byte(draft), 0o644)
	assert.Equal(t, nil, err)

	err = b.RetryPost(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(poster.threads))
	assert.Equal(t, 2, len(poster.threads[0]))
	// Source articles are unknown at retry time, so nothing is recorded.
	assert.Equal(t, 0, len(store.records))
}

func TestRetryPostWithoutDraft(t *testing.T) {
	b := newTestBot(t, newFakeStore(), &fakeAnalyst{}, &fakePoster{})

	err := b.RetryPost(context.Background())

	assert.NotEqual(t, nil, err)
}

func TestRunCycleNoItems(t *testing.T) {
	store := newFakeStore()
	analyst := &fakeAnalyst{response: analysisNote}
	poster := &fakePoster{ids: []string{"1001"}}

	b := newTestBot(t, store, analyst, poster)

	err := b.RunCycle(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(poster.threads))
}
