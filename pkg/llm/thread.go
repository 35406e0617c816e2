package llm

import (
	"log/slog"
	"strings"
)

// Responses shorter than this are treated as refusals or noise.
const minPostChars = 50

type Post struct {
	Text  string
	Index int
}

// ParseThread splits a model response into thread posts on "---" delimiter
// lines. Units over maxLen are dropped, not truncated; surviving posts keep
// contiguous indices. An empty result means the response was unusable.
func ParseThread(raw string, maxLen int) []Post {
	raw = strings.TrimSpace(raw)
	if len(raw) < minPostChars {
		return nil
	}

	var units []string
	var current []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "---" {
			units = append(units, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	units = append(units, strings.Join(current, "\n"))

	var posts []Post
	for _, unit := range units {
		unit = strings.TrimSpace(unit)
		if len(unit) < minPostChars {
			continue
		}
		if len([]rune(unit)) > maxLen {
			slog.Warn("dropping over-length thread unit", "chars", len([]rune(unit)), "limit", maxLen)
			continue
		}
		posts = append(posts, Post{Text: unit, Index: len(posts)})
	}

	return posts
}
