package repository

import (
	"crypto/sha256"
	"database/sql"
	"fmt"

	"github.com/HashedAlex/tweet-post/internal/model"
)

type PostedRepository struct {
	db *sql.DB
}

func NewPostedRepository(db *sql.DB) *PostedRepository {
	return &PostedRepository{db: db}
}

// NewsHash derives the dedup key for an article from its title and source.
func NewsHash(title, source string) string {
	sum := sha256.Sum256([]byte(title + "|" + source))
	return fmt.Sprintf("%x", sum)[:16]
}

// Init creates the posting history table when it does not exist yet.
func (r *PostedRepository) Init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS posted_news (
			id BIGSERIAL PRIMARY KEY,
			news_hash TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			source TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			tweet_text TEXT NOT NULL,
			posted_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *PostedRepository) IsPosted(hash string) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM posted_news WHERE news_hash = $1
	`, hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostedRepository) MarkPosted(record *model.PostedRecord) error {
	err := r.db.QueryRow(`
		INSERT INTO posted_news(news_hash, title, source, url, tweet_text)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (news_hash) DO NOTHING
		RETURNING id, posted_at
	`, record.NewsHash, record.Title, record.Source, record.URL, record.TweetText).Scan(&record.ID, &record.PostedAt)

	if err == sql.ErrNoRows {
		// Already recorded by an earlier cycle.
		return nil
	}

	return err
}

func (r *PostedRepository) GetRecent(limit, offset int) ([]model.PostedRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, news_hash, title, source, url, tweet_text, posted_at
		FROM posted_news
		ORDER BY posted_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.PostedRecord
	for rows.Next() {
		var rec model.PostedRecord
		err := rows.Scan(&rec.ID, &rec.NewsHash, &rec.Title, &rec.Source, &rec.URL, &rec.TweetText, &rec.PostedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *PostedRepository) GetTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM posted_news
	`).Scan(&total)
	return total, err
}
