package analysis

import (
	"strings"

	"repo-scout/internal/domain"
)

// categoryOrder 类别的固定遍历顺序，保证平局时结果确定
var categoryOrder = []string{"web", "mobile", "ai", "devops", "data", "game", "blockchain", "api"}

// techKeywords 类别 → 关键词表。命中次数最多的类别胜出。
// 关键词表是配置细节，改动不影响管道契约。
var techKeywords = map[string][]string{
	"web":        {"web", "frontend", "backend", "html", "css", "react", "vue", "angular", "nodejs", "express"},
	"mobile":     {"mobile", "android", "ios", "react-native", "flutter", "swift", "kotlin"},
	"ai":         {"ai", "ml", "machine learning", "deep learning", "neural", "llm", "tensorflow", "pytorch"},
	"devops":     {"docker", "kubernetes", "ci/cd", "deployment", "aws", "cloud", "terraform"},
	"data":       {"data", "analytics", "visualization", "pandas", "numpy", "jupyter", "sql"},
	"game":       {"game", "gaming", "unity", "unreal", "godot", "3d", "graphics"},
	"blockchain": {"blockchain", "crypto", "bitcoin", "ethereum", "web3", "defi", "nft"},
	"api":        {"api", "rest", "graphql", "microservices", "json", "http"},
}

// IsKnownCategory 判断类别是否在固定类别表里
func IsKnownCategory(category string) bool {
	_, ok := techKeywords[category]
	return ok
}

// Categorize 基于描述、topics 和语言做关键词归类。
// 完全确定性：同样的记录永远得到同样的类别。没有命中时返回空串。
func Categorize(r *domain.Repo) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(r.Description))
	sb.WriteString(" ")
	sb.WriteString(strings.ToLower(strings.Join(r.Topics, " ")))
	sb.WriteString(" ")
	sb.WriteString(strings.ToLower(r.Language))
	text := sb.String()

	best := ""
	bestScore := 0
	for _, category := range categoryOrder {
		score := 0
		for _, keyword := range techKeywords[category] {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		// 严格大于才替换，平局按固定顺序取先出现的类别
		if score > bestScore {
			best = category
			bestScore = score
		}
	}
	return best
}
