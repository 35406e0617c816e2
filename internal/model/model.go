package model

import "time"

// PostedRecord is one row of the append-only posting history. NewsHash is
// the dedup key derived from the article title and source.
type PostedRecord struct {
	ID        int64
	NewsHash  string
	Title     string
	Source    string
	URL       string
	TweetText string
	PostedAt  time.Time
}
