package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HashedAlex/tweet-post/db"
	"github.com/HashedAlex/tweet-post/internal/bot"
	"github.com/HashedAlex/tweet-post/internal/config"
	"github.com/HashedAlex/tweet-post/internal/repository"
	"github.com/HashedAlex/tweet-post/pkg/llm"
	"github.com/HashedAlex/tweet-post/pkg/news"
	"github.com/HashedAlex/tweet-post/pkg/twitter"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	once := flag.Bool("once", false, "run a single cycle and exit")
	hours := flag.Int("hours", 0, "override the news fetch window in hours")
	topic := flag.String("topic", "", "narrow curation to one keyword")
	live := flag.Bool("live", false, "enable live posting (disables dry run)")
	retryPost := flag.Bool("retry-post", false, "re-post the last saved draft and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *live {
		cfg.DryRun = false
		if err := cfg.CheckTwitterCredentials(); err != nil {
			log.Fatalf("invalid configuration: %v", err)
		}
		slog.Info("live mode enabled, posting to X")
	} else if cfg.DryRun {
		slog.Info("dry run mode, posts will be previewed only")
	}

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	repo := repository.NewPostedRepository(db.DB)
	if err := repo.Init(); err != nil {
		log.Fatalf("error initializing posting history: %v", err)
	}

	var store bot.DedupStore = repo
	if os.Getenv("REDIS_URL") != "" {
		if err := db.ConnectRedis(); err != nil {
			slog.Warn("redis unavailable, dedup cache disabled", "error", err)
		} else {
			defer db.CloseRedis()
			store = repository.NewCachedStore(repo)
		}
	}

	var sources []news.Client
	for _, feed := range cfg.Feeds {
		sources = append(sources, news.NewRSSClient(feed, cfg.HTTPTimeout))
	}
	if cfg.FinnhubAPIKey != "" {
		sources = append(sources, news.NewFinnHubClient(cfg.FinnhubAPIKey, cfg.HTTPTimeout))
	}

	var analyst llm.Analyst
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		analyst = llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.HTTPTimeout)
	default:
		analyst = llm.NewOpenAIClient(cfg.OpenRouterAPIKey, llm.OpenRouterBaseURL, cfg.LLMModel, cfg.HTTPTimeout)
	}
	slog.Info("analyst ready", "provider", cfg.LLMProvider, "model", analyst.ModelName())

	poster := twitter.NewClient(twitter.Credentials{
		APIKey:            cfg.TwitterAPIKey,
		APISecret:         cfg.TwitterAPISecret,
		AccessToken:       cfg.TwitterAccessToken,
		AccessTokenSecret: cfg.TwitterAccessTokenSecret,
	}, cfg.DryRun, cfg.TweetDelay, cfg.HTTPTimeout)

	b := bot.New(cfg, sources, analyst, poster, store)
	if *hours > 0 {
		b.FetchWindow = time.Duration(*hours) * time.Hour
	}
	b.Topic = *topic

	if *retryPost {
		if err := b.RetryPost(context.Background()); err != nil {
			log.Fatalf("retry failed: %v", err)
		}
		slog.Info("retry complete, exiting")
		return
	}

	if *once {
		if err := b.RunCycle(context.Background()); err != nil {
			log.Fatalf("cycle failed: %v", err)
		}
		slog.Info("single cycle complete, exiting")
		return
	}

	scheduler, err := bot.NewScheduler(cfg.ScanInterval, func() {
		if err := b.RunCycle(context.Background()); err != nil {
			slog.Error("cycle failed, waiting for next tick", "error", err)
		}
	})
	if err != nil {
		log.Fatalf("error creating scheduler: %v", err)
	}

	scheduler.Start()
	slog.Info("bot scheduled", "interval", cfg.ScanInterval.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	scheduler.Stop()
	slog.Info("shutdown complete")
}
