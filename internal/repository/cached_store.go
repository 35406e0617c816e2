package repository

import (
	"log/slog"

	"github.com/HashedAlex/tweet-post/db"
	"github.com/HashedAlex/tweet-post/internal/model"
)

// CachedStore puts the Redis fast path in front of the Postgres posting
// history. Redis failures degrade to database lookups; they never fail a
// cycle.
type CachedStore struct {
	inner *PostedRepository
}

func NewCachedStore(inner *PostedRepository) *CachedStore {
	return &CachedStore{inner: inner}
}

func (s *CachedStore) IsPosted(hash string) (bool, error) {
	cached, err := db.IsCachedPosted(hash)
	if err != nil {
		slog.Warn("redis lookup failed, falling back to database", "key", hash, "error", err)
	} else if cached {
		return true, nil
	}

	posted, err := s.inner.IsPosted(hash)
	if err != nil {
		return false, err
	}

	if posted {
		if err := db.CachePosted(hash); err != nil {
			slog.Warn("could not cache dedup key", "key", hash, "error", err)
		}
	}

	return posted, nil
}

func (s *CachedStore) MarkPosted(record *model.PostedRecord) error {
	if err := s.inner.MarkPosted(record); err != nil {
		return err
	}

	if err := db.CachePosted(record.NewsHash); err != nil {
		slog.Warn("could not cache dedup key", "key", record.NewsHash, "error", err)
	}

	return nil
}
