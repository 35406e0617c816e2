package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
)

const defaultBaseURL = "https://api.twitter.com"

type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	dryRun     bool
	delay      time.Duration
}

// NewClient builds an X API v2 client signing requests with OAuth1 user
// context. In dry-run mode nothing is sent; posts are previewed in the log.
// Each request is bounded by timeout.
func NewClient(creds Credentials, dryRun bool, delay, timeout time.Duration) *Client {
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)

	httpClient := config.Client(oauth1.NoContext, token)
	if timeout > 0 {
		httpClient.Timeout = timeout
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		dryRun:     dryRun,
		delay:      delay,
	}
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// PostTweet publishes a single tweet, optionally as a reply, and returns
// the new tweet id.
func (c *Client) PostTweet(ctx context.Context, text, inReplyTo string) (string, error) {
	body := tweetRequest{Text: text}
	if inReplyTo != "" {
		body.Reply = &tweetReply{InReplyToTweetID: inReplyTo}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("twitter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("twitter API status %d: %s", resp.StatusCode, detail)
	}

	var parsed tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("twitter decode: %w", err)
	}

	if parsed.Data.ID == "" {
		return "", fmt.Errorf("twitter response missing tweet id")
	}

	return parsed.Data.ID, nil
}

// PostThread publishes units in order, each reply chained to the previous
// tweet. On failure it stops, returning the ids already posted together
// with the error; posted units are never rolled back.
func (c *Client) PostThread(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no tweets to post")
	}

	if c.dryRun {
		ids := make([]string, len(texts))
		for i, text := range texts {
			slog.Info("[dry run] tweet preview", "part", i+1, "total", len(texts), "chars", len([]rune(text)), "text", text)
			ids[i] = fmt.Sprintf("dry-run-%d", i+1)
		}
		return ids, nil
	}

	var ids []string
	previousID := ""

	for i, text := range texts {
		if i > 0 && c.delay > 0 {
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				return ids, ctx.Err()
			}
		}

		id, err := c.PostTweet(ctx, text, previousID)
		if err != nil {
			return ids, fmt.Errorf("posting tweet %d/%d: %w", i+1, len(texts), err)
		}

		slog.Info("tweet posted", "part", i+1, "total", len(texts), "tweet_id", id)
		ids = append(ids, id)
		previousID = id
	}

	return ids, nil
}
