// Package keyword 提供一个不依赖外部 LLM 的摘要器。
// 纯文本拼接 + 关键词归类，完全确定性，适合做 Gemini 不可用时的兜底。
package keyword

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"repo-scout/internal/analysis"
	"repo-scout/internal/domain"
)

var (
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	nonWordPattern    = regexp.MustCompile(`[^\w\s\-.]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

const maxDescriptionLen = 100

// Summarizer 实现了 port.Summarizer 接口
type Summarizer struct{}

func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize 用模板句拼出项目摘要。永不报错，永远返回结果。
func (s *Summarizer) Summarize(_ context.Context, repo *domain.ScoredRepo) (*domain.Enrichment, error) {
	var parts []string

	if repo.Language != "" {
		parts = append(parts, fmt.Sprintf("%s is a %s project", repo.Name, repo.Language))
	} else {
		parts = append(parts, fmt.Sprintf("%s is a software project", repo.Name))
	}

	if desc := cleanText(repo.Description); desc != "" {
		if len(desc) > maxDescriptionLen {
			desc = desc[:maxDescriptionLen-3] + "..."
		}
		parts = append(parts, "that "+desc)
	}

	category := analysis.Categorize(&repo.Repo)
	if category != "" {
		parts = append(parts, "focused on "+category)
	}

	switch {
	case repo.Stars > 1000:
		parts = append(parts, fmt.Sprintf("with %d stars, showing strong community adoption", repo.Stars))
	case repo.Stars > 100:
		parts = append(parts, fmt.Sprintf("with %d stars and growing popularity", repo.Stars))
	}

	if len(repo.Topics) > 0 {
		limit := len(repo.Topics)
		if limit > 3 {
			limit = 3
		}
		parts = append(parts, "tagged with: "+strings.Join(repo.Topics[:limit], ", "))
	}

	return &domain.Enrichment{
		Summary:  strings.Join(parts, ". ") + ".",
		Category: category,
	}, nil
}

// cleanText 去掉 URL 和特殊字符，压缩空白
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = urlPattern.ReplaceAllString(text, "")
	text = nonWordPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
