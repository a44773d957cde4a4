// Package linkedin 把一次分析的聚合结果写成可直接发布的 LinkedIn 贴文草稿，
// 实现 port.PostWriter 接口。文案是纯模板拼接，不经过 LLM。
package linkedin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repo-scout/internal/common"
	"repo-scout/internal/domain"
)

const (
	postTypeWeeklyTrends   = "weekly_trends"
	postTypeHotRepos       = "hot_repositories"
	postTypeMarketAnalysis = "market_analysis"

	// 贴文里单个仓库描述的最大长度
	maxHighlightDescLen = 80
)

// Post 一条贴文草稿
type Post struct {
	Title           string
	Content         string
	Hashtags        []string
	PostType        string
	EngagementHooks []string
	CallToAction    string
}

// Generator 实现了 port.PostWriter 接口
type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// WritePosts 生成三种固定类型的贴文并落盘，返回文件路径。
// 同一份输入永远生成同一组文件内容（时间戳来自 summary，不读墙钟）。
func (g *Generator) WritePosts(summary *domain.Summary, repos []*domain.ClassifiedRepo) ([]string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return nil, common.WrapError(common.ErrCodeReport, "创建贴文目录失败", err)
	}

	posts := []Post{
		g.weeklyTrendsPost(summary),
		g.hotRepositoriesPost(summary, repos),
		g.marketAnalysisPost(summary, repos),
	}

	stamp := summary.GeneratedAt.Format("2006-01-02")
	var files []string
	for _, post := range posts {
		path := filepath.Join(g.dir, fmt.Sprintf("linkedin_%s_%s.md", post.PostType, stamp))
		if err := os.WriteFile(path, []byte(renderPost(post)), 0o644); err != nil {
			return nil, common.WrapError(common.ErrCodeReport, fmt.Sprintf("写贴文 %s 失败", post.PostType), err)
		}
		files = append(files, path)
	}
	return files, nil
}

// weeklyTrendsPost 周趋势总览
func (g *Generator) weeklyTrendsPost(summary *domain.Summary) Post {
	topLangs := topLanguages(summary.Languages, 3)
	highGrowth := summary.TierCounts[domain.TierHigh] + summary.TierCounts[domain.TierExceptional]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚀 Tech Trends Analysis - %s\n\n", summary.GeneratedAt.Format("January 2006")))
	sb.WriteString(fmt.Sprintf("I analyzed %d trending repositories this week. Here's what's driving innovation:\n\n", summary.TotalRepos))

	if len(topLangs) > 0 {
		sb.WriteString("📈 TOP TRENDING LANGUAGES:\n")
		for _, lang := range topLangs {
			sb.WriteString("• " + lang + "\n")
		}
		sb.WriteString("\n")
	}

	if len(summary.Recommendations) > 0 {
		sb.WriteString("💡 KEY INSIGHTS:\n")
		limit := len(summary.Recommendations)
		if limit > 3 {
			limit = 3
		}
		for _, rec := range summary.Recommendations[:limit] {
			sb.WriteString("• " + rec + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("⚡ MOMENTUM METRICS:\n")
	sb.WriteString(fmt.Sprintf("• Average momentum score: %.1f/100\n", summary.AvgMomentum))
	sb.WriteString(fmt.Sprintf("• High-growth projects: %d\n\n", highGrowth))
	sb.WriteString("The open-source ecosystem continues to evolve rapidly. Developers focusing on these trending areas are positioning themselves well.\n\n")
	sb.WriteString("What technologies are you most excited about? Share your thoughts below! 👇")

	hashtags := []string{"#TechTrends", "#OpenSource", "#SoftwareDevelopment", "#Innovation", "#Programming", "#GitHub"}
	for _, lang := range topLangs {
		if tag := languageHashtag(lang); tag != "" {
			hashtags = append(hashtags, tag)
		}
	}

	return Post{
		Title:    fmt.Sprintf("Tech Trends - %s", summary.GeneratedAt.Format("January 2006")),
		Content:  sb.String(),
		Hashtags: hashtags,
		PostType: postTypeWeeklyTrends,
		EngagementHooks: []string{
			"What technologies are you most excited about?",
			"Which trend surprised you the most?",
		},
		CallToAction: "Share your thoughts in the comments! What's trending in your tech stack?",
	}
}

// hotRepositoriesPost 动量前三的仓库亮点
func (g *Generator) hotRepositoriesPost(summary *domain.Summary, repos []*domain.ClassifiedRepo) Post {
	top := topByMomentum(repos, 3)

	var sb strings.Builder
	sb.WriteString("🔥 Hottest GitHub Repositories Right Now\n\n")
	sb.WriteString("I've been analyzing trending open-source projects, and these are absolutely crushing it:\n\n")

	hashtags := []string{"#OpenSource", "#GitHub", "#TechTrends", "#SoftwareDevelopment"}
	seenLangs := map[string]bool{}
	for _, repo := range top {
		language := repo.Language
		if language == "" {
			language = "N/A"
		} else if !seenLangs[language] {
			seenLangs[language] = true
			if tag := languageHashtag(language); tag != "" {
				hashtags = append(hashtags, tag)
			}
		}

		desc := repo.Description
		if len(desc) > maxHighlightDescLen {
			desc = desc[:maxHighlightDescLen-3] + "..."
		}
		sb.WriteString(fmt.Sprintf("🚀 %s (%s)\n   %s\n   ⭐ %d stars | 📈 %.1f/100 momentum\n\n",
			repo.Name, language, desc, repo.Stars, repo.MomentumScore))
	}

	sb.WriteString("💡 WHY THESE MATTER:\n")
	sb.WriteString("• High momentum scores indicate rapid growth and community adoption\n")
	sb.WriteString("• Strong developer engagement and contribution activity\n\n")
	sb.WriteString("Which repository caught your attention? Are you using any similar tools in your projects?")

	return Post{
		Title:    "Hottest GitHub Repositories Right Now",
		Content:  sb.String(),
		Hashtags: hashtags,
		PostType: postTypeHotRepos,
		EngagementHooks: []string{
			"Which repository caught your attention?",
			"Have you tried any of these tools?",
		},
		CallToAction: "Drop a comment with your favorite GitHub discoveries!",
	}
}

// marketAnalysisPost 从成长阶段分布看市场信号
func (g *Generator) marketAnalysisPost(summary *domain.Summary, repos []*domain.ClassifiedRepo) Post {
	undervalued := 0
	for _, repo := range repos {
		if repo.IsUndervalued() {
			undervalued++
		}
	}
	hot := summary.TypeCounts[domain.TypeViral] + summary.TypeCounts[domain.TypeRising]

	var sb strings.Builder
	sb.WriteString("📊 Open Source Market Signals\n\n")
	sb.WriteString(fmt.Sprintf("A growth-stage breakdown of %d trending repositories:\n\n", summary.TotalRepos))
	sb.WriteString(fmt.Sprintf("• 🔥 Viral: %d\n", summary.TypeCounts[domain.TypeViral]))
	sb.WriteString(fmt.Sprintf("• 📈 Rising: %d\n", summary.TypeCounts[domain.TypeRising]))
	sb.WriteString(fmt.Sprintf("• 🏛️ Established: %d\n", summary.TypeCounts[domain.TypeEstablished]))
	sb.WriteString(fmt.Sprintf("• 🧪 Experimental: %d\n", summary.TypeCounts[domain.TypeExperimental]))
	sb.WriteString(fmt.Sprintf("• 💤 Dormant: %d\n\n", summary.TypeCounts[domain.TypeDormant]))

	sb.WriteString("🔍 WHAT THE NUMBERS SAY:\n")
	sb.WriteString(fmt.Sprintf("• %d projects are in an active growth phase right now\n", hot))
	if undervalued > 0 {
		sb.WriteString(fmt.Sprintf("• %d undervalued projects show high growth potential before the crowd notices\n", undervalued))
	}
	sb.WriteString("\nFor developers: great windows to contribute early.\nFor businesses: early indicators of where tooling is heading.\n\n")
	sb.WriteString("Where do you see the next breakout project coming from?")

	return Post{
		Title:    "Open Source Market Signals",
		Content:  sb.String(),
		Hashtags: []string{"#OpenSource", "#TechTrends", "#Innovation", "#MarketAnalysis", "#GitHub"},
		PostType: postTypeMarketAnalysis,
		EngagementHooks: []string{
			"Where do you see the next breakout project coming from?",
		},
		CallToAction: "Follow for weekly open source market breakdowns.",
	}
}

// renderPost 把贴文序列化成可复制粘贴的 Markdown 草稿
func renderPost(post Post) string {
	var sb strings.Builder
	sb.WriteString("# " + post.Title + "\n\n")
	sb.WriteString(post.Content + "\n\n")
	sb.WriteString(strings.Join(post.Hashtags, " ") + "\n\n")
	sb.WriteString("---\n")
	sb.WriteString("Engagement hooks:\n")
	for _, hook := range post.EngagementHooks {
		sb.WriteString("- " + hook + "\n")
	}
	sb.WriteString("\nCall to action: " + post.CallToAction + "\n")
	return sb.String()
}

// languageHashtag 把语言名转成 hashtag，带空格或特殊字符的语言直接跳过
func languageHashtag(language string) string {
	cleaned := strings.ReplaceAll(language, " ", "")
	for _, r := range cleaned {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return ""
		}
	}
	if cleaned == "" {
		return ""
	}
	return "#" + cleaned
}

// topLanguages 平均动量降序取前 N 个语言，平局按字典序
func topLanguages(stats map[string]domain.LanguageStat, limit int) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if stats[names[i]].AvgMomentum != stats[names[j]].AvgMomentum {
			return stats[names[i]].AvgMomentum > stats[names[j]].AvgMomentum
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

// topByMomentum 动量降序取前 N 个仓库，平局按名字字典序
func topByMomentum(repos []*domain.ClassifiedRepo, limit int) []*domain.ClassifiedRepo {
	sorted := append([]*domain.ClassifiedRepo(nil), repos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MomentumScore != sorted[j].MomentumScore {
			return sorted[i].MomentumScore > sorted[j].MomentumScore
		}
		return sorted[i].Name < sorted[j].Name
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
