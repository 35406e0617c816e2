package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

var defaultFeeds = []string{
	// Mainstream finance for macro/Fed context.
	"https://www.cnbc.com/id/100003114/device/rss/rss.html",
	// Crypto media.
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
	"https://www.theblock.co/rss.xml",
	"https://cointelegraph.com/rss",
	"https://blockworks.co/feed",
	"http://feeds.feedburner.com/bankless",
	"https://decrypt.co/feed",
}

var defaultKeywords = []string{
	"bitcoin", "btc", "ethereum", "eth", "crypto", "stablecoin",
	"etf", "sec", "fed", "fomc", "inflation", "cpi", "treasury", "rates",
}

type Config struct {
	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string

	LLMProvider      string
	OpenRouterAPIKey string
	AnthropicAPIKey  string
	LLMModel         string

	FinnhubAPIKey string

	Feeds    []string
	Keywords []string

	ScanInterval   time.Duration
	TweetsPerDay   int
	MaxTweetLength int
	FetchLimit     int
	TweetDelay     time.Duration
	HTTPTimeout    time.Duration

	DryRun bool
}

// Load reads configuration from environment variables. Missing required
// credentials are a startup error; the caller should exit.
func Load() (*Config, error) {
	c := &Config{
		TwitterAPIKey:            os.Getenv("TWITTER_API_KEY"),
		TwitterAPISecret:         os.Getenv("TWITTER_API_SECRET"),
		TwitterAccessToken:       os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessTokenSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),

		LLMProvider:      getEnv("LLM_PROVIDER", ProviderOpenRouter),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		LLMModel:         os.Getenv("LLM_MODEL"),

		FinnhubAPIKey: os.Getenv("FINNHUB_API_KEY"),

		Feeds:    splitAndTrim(getEnv("RSS_FEEDS", strings.Join(defaultFeeds, ","))),
		Keywords: splitAndTrim(getEnv("KEYWORDS", strings.Join(defaultKeywords, ","))),

		ScanInterval:   time.Duration(getInt("SCAN_INTERVAL_HOURS", 24)) * time.Hour,
		TweetsPerDay:   getInt("TWEETS_PER_DAY", 1),
		MaxTweetLength: getInt("MAX_TWEET_LENGTH", 4000),
		FetchLimit:     getInt("FETCH_LIMIT", 50),
		TweetDelay:     getDuration("TWEET_DELAY", "60s"),
		HTTPTimeout:    getDuration("HTTP_TIMEOUT", "30s"),

		DryRun: getBool("DRY_RUN", true),
	}

	if len(c.Feeds) == 0 {
		return nil, fmt.Errorf("RSS_FEEDS must contain at least one feed URL")
	}
	if c.ScanInterval <= 0 {
		return nil, fmt.Errorf("SCAN_INTERVAL_HOURS must be positive")
	}
	if c.MaxTweetLength <= 0 {
		return nil, fmt.Errorf("MAX_TWEET_LENGTH must be positive")
	}
	if c.FetchLimit <= 0 {
		return nil, fmt.Errorf("FETCH_LIMIT must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	switch c.LLMProvider {
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required when LLM_PROVIDER=%s", ProviderOpenRouter)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=%s", ProviderAnthropic)
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (valid: %s, %s)", c.LLMProvider, ProviderOpenRouter, ProviderAnthropic)
	}

	if !c.DryRun {
		if err := c.CheckTwitterCredentials(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// CheckTwitterCredentials verifies all four X API credentials are present.
func (c *Config) CheckTwitterCredentials() error {
	missing := []string{}
	if c.TwitterAPIKey == "" {
		missing = append(missing, "TWITTER_API_KEY")
	}
	if c.TwitterAPISecret == "" {
		missing = append(missing, "TWITTER_API_SECRET")
	}
	if c.TwitterAccessToken == "" {
		missing = append(missing, "TWITTER_ACCESS_TOKEN")
	}
	if c.TwitterAccessTokenSecret == "" {
		missing = append(missing, "TWITTER_ACCESS_TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("live posting requires %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
