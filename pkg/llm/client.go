package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

type ArticleInput struct {
	Title   string
	Source  string
	Summary string
}

// Analyst curates the most critical headlines and writes the desk note.
// Analyze returns the raw model output; ParseThread turns it into posts.
type Analyst interface {
	Curate(ctx context.Context, articles []ArticleInput, topK int, topic string) ([]int, error)
	Analyze(ctx context.Context, articles []ArticleInput) (string, error)
	ModelName() string
}

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// cleanResponse strips reasoning traces and code fences some models wrap
// around their output.
func cleanResponse(content string) string {
	content = thinkBlock.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// parseSelectedIDs extracts article indices from a curation response like
// "3, 7, 12". Out-of-range and duplicate indices are dropped.
func parseSelectedIDs(content string, count, topK int) []int {
	content = cleanResponse(content)

	var ids []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(strings.ReplaceAll(content, " ", ""), ",") {
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if id < 0 || id >= count || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if len(ids) == topK {
			break
		}
	}

	return ids
}

func formatArticles(articles []ArticleInput) string {
	var sb strings.Builder
	for i, a := range articles {
		sb.WriteString(strconv.Itoa(i+1) + ". **" + a.Title + "**\n")
		sb.WriteString("   Source: " + a.Source + "\n")
		if a.Summary != "" {
			sb.WriteString("   Summary: " + a.Summary + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatHeadlines(articles []ArticleInput) string {
	var sb strings.Builder
	for i, a := range articles {
		sb.WriteString("[" + strconv.Itoa(i) + "] " + a.Title + " (Source: " + a.Source + ")\n")
	}
	return sb.String()
}
