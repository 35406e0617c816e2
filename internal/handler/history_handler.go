package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HashedAlex/tweet-post/internal/model"
)

type PostStore interface {
	GetRecent(limit, offset int) ([]model.PostedRecord, error)
	GetTotal() (int, error)
}

type HistoryHandler struct {
	repository PostStore
}

func NewHistoryHandler(repository PostStore) *HistoryHandler {
	return &HistoryHandler{repository: repository}
}

type PostedRecordResponse struct {
	ID        int64  `json:"id"`
	NewsHash  string `json:"news_hash"`
	Title     string `json:"title"`
	Source    string `json:"source"`
	URL       string `json:"url"`
	TweetText string `json:"tweet_text"`
	PostedAt  string `json:"posted_at"`
}

type HistoryResponse struct {
	Posts  []PostedRecordResponse `json:"posts"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

func (h *HistoryHandler) GetPosts(c *gin.Context) {
	limit := getQueryInt("limit", 10, c)
	offset := getQueryInt("offset", 0, c)

	records, err := h.repository.GetRecent(limit, offset)
	if err != nil {
		slog.Error("error fetching posting history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetTotal()
	if err != nil {
		slog.Error("error fetching posting history total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := HistoryResponse{
		Posts:  []PostedRecordResponse{},
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}

	for _, rec := range records {
		res.Posts = append(res.Posts, PostedRecordResponse{
			ID:        rec.ID,
			NewsHash:  rec.NewsHash,
			Title:     rec.Title,
			Source:    rec.Source,
			URL:       rec.URL,
			TweetText: rec.TweetText,
			PostedAt:  rec.PostedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *HistoryHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}

	return value
}
