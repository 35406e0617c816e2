package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func rssBody(pubDate string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>CoinDesk</title>
    <item>
      <title>Fed Holds Rates Steady</title>
      <link>https://example.com/fed-rates</link>
      <description>&lt;p&gt;The Federal Reserve kept &lt;b&gt;interest rates&lt;/b&gt; unchanged.&lt;/p&gt;</description>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title>Old BTC Story</title>
      <link>https://example.com/old-btc</link>
      <description>Stale.</description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    </item>
  </channel>
</rss>`, pubDate)
}

func TestRSSFetch(t *testing.T) {
	pubDate := time.Now().Add(-1 * time.Hour).Format(time.RFC1123Z)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssBody(pubDate))
	}))
	defer srv.Close()

	client := NewRSSClient(srv.URL, 0)

	since := time.Now().Add(-8 * time.Hour)
	items, err := client.Fetch(context.Background(), since)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(items))

	item := items[0]
	assert.Equal(t, "Fed Holds Rates Steady", item.Title)
	assert.Equal(t, "https://example.com/fed-rates", item.URL)
	assert.Equal(t, "CoinDesk", item.Source)
	assert.Equal(t, "The Federal Reserve kept interest rates unchanged.", item.Summary)
	assert.NotEqual(t, time.Time{}, item.PublishedAt)
}

func TestRSSFetchBadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not a feed")
	}))
	defer srv.Close()

	client := NewRSSClient(srv.URL, 0)

	_, err := client.Fetch(context.Background(), time.Now().Add(-8*time.Hour))
	assert.NotEqual(t, nil, err)
}

func TestRSSFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewRSSClient(srv.URL, 50*time.Millisecond)

	_, err := client.Fetch(context.Background(), time.Now().Add(-8*time.Hour))
	assert.NotEqual(t, nil, err)
}

func TestStripHTML(t *testing.T) {
	got := stripHTML("<p>BTC reclaims   <b>$95k</b></p>\n<br/>on ETF inflows")
	assert.Equal(t, "BTC reclaims $95k on ETF inflows", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := truncate("abcdefghij", 8)
	assert.Equal(t, "abcde...", long)
	assert.Equal(t, 8, len([]rune(long)))
}
