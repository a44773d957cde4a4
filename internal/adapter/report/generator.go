// Package report 把一次分析的聚合结果落成 Markdown / JSON / HTML 报告文件，
// 实现 port.Reporter 接口。
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repo-scout/internal/analysis"
	"repo-scout/internal/common"
	"repo-scout/internal/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// topRepoLimit 报告里只展开动量最高的前 N 个仓库
const topRepoLimit = 10

// Generator 实现了 port.Reporter 接口
type Generator struct {
	dir     string
	formats []string
	md      goldmark.Markdown
}

// NewGenerator 创建报告生成器。formats 支持 markdown / json / html
func NewGenerator(dir string, formats []string) *Generator {
	if len(formats) == 0 {
		formats = []string{"markdown", "json"}
	}
	return &Generator{
		dir:     dir,
		formats: formats,
		// 表格靠 GFM 扩展渲染
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// WriteReports 按配置的格式落盘，返回生成的文件路径。
// 同一轮的三种格式共享一份 Markdown 内容，HTML 是在它之上渲染的。
func (g *Generator) WriteReports(summary *domain.Summary, repos []*domain.ClassifiedRepo, timeframe string) ([]string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return nil, common.WrapError(common.ErrCodeReport, "创建报告目录失败", err)
	}

	stamp := summary.GeneratedAt.Format("2006-01-02_150405")
	base := fmt.Sprintf("trending_report_%s_%s", timeframe, stamp)
	markdown := renderMarkdown(summary, repos, timeframe)

	var files []string
	for _, format := range g.formats {
		var (
			path string
			err  error
		)
		switch format {
		case "markdown":
			path = filepath.Join(g.dir, base+".md")
			err = os.WriteFile(path, []byte(markdown), 0o644)
		case "json":
			path = filepath.Join(g.dir, base+".json")
			err = g.writeJSON(path, summary, repos, timeframe)
		case "html":
			path = filepath.Join(g.dir, base+".html")
			err = g.writeHTML(path, markdown, timeframe)
		default:
			return nil, common.NewError(common.ErrCodeReport, fmt.Sprintf("不支持的报告格式: %s", format))
		}
		if err != nil {
			return nil, common.WrapError(common.ErrCodeReport, fmt.Sprintf("写 %s 报告失败", format), err)
		}
		files = append(files, path)
	}

	return files, nil
}

// jsonReport JSON 报告的顶层结构
type jsonReport struct {
	Timeframe    string                   `json:"timeframe"`
	GeneratedAt  string                   `json:"generated_at"`
	Summary      *domain.Summary          `json:"summary"`
	Repositories []*domain.ClassifiedRepo `json:"repositories"`
}

func (g *Generator) writeJSON(path string, summary *domain.Summary, repos []*domain.ClassifiedRepo, timeframe string) error {
	report := jsonReport{
		Timeframe:    timeframe,
		GeneratedAt:  summary.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Summary:      summary,
		Repositories: sortByMomentum(repos),
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (g *Generator) writeHTML(path, markdown, timeframe string) error {
	var body bytes.Buffer
	if err := g.md.Convert([]byte(markdown), &body); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>GitHub Trending Report (%s)</title>\n", timeframe))
	sb.WriteString("<style>body{font-family:sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;}table{border-collapse:collapse;}th,td{border:1px solid #ccc;padding:4px 10px;}</style>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// renderMarkdown 渲染 Markdown 报告正文。
// 所有遍历都按固定顺序，同一份输入永远生成同一份报告。
func renderMarkdown(summary *domain.Summary, repos []*domain.ClassifiedRepo, timeframe string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# 🚀 GitHub Trending Report (%s)\n\n", timeframe))
	sb.WriteString(fmt.Sprintf("Generated at: %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	sb.WriteString("## 📊 Overview\n\n")
	sb.WriteString(fmt.Sprintf("- Repositories analyzed: **%d**\n", summary.TotalRepos))
	sb.WriteString(fmt.Sprintf("- Average momentum: **%.1f/100**\n", summary.AvgMomentum))
	sb.WriteString(fmt.Sprintf("- Top momentum: **%.1f/100**\n\n", summary.TopMomentum))

	if len(summary.Recommendations) > 0 {
		sb.WriteString("## 💡 Key Insights\n\n")
		for _, rec := range summary.Recommendations {
			sb.WriteString("- " + rec + "\n")
		}
		sb.WriteString("\n")
	}

	if top := sortByMomentum(repos); len(top) > 0 {
		if len(top) > topRepoLimit {
			top = top[:topRepoLimit]
		}
		sb.WriteString("## 🔥 Top Repositories\n\n")
		sb.WriteString("| # | Repository | Language | Stars | Momentum | Stage | Growth Tier |\n")
		sb.WriteString("|---|------------|----------|-------|----------|-------|-------------|\n")
		for i, repo := range top {
			language := repo.Language
			if language == "" {
				language = "-"
			}
			sb.WriteString(fmt.Sprintf("| %d | [%s](%s) | %s | %d | %.1f | %s | %s |\n",
				i+1, repo.Name, repo.URL, language, repo.Stars,
				repo.MomentumScore, repo.Type, repo.GrowthTier))
		}
		sb.WriteString("\n")

		for _, repo := range top {
			if repo.Summary == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf("**%s**: %s\n\n", repo.Name, repo.Summary))
		}
	}

	if len(summary.Languages) > 0 {
		sb.WriteString("## 🌐 Language Trends\n\n")
		sb.WriteString("| Language | Repos | Avg Momentum | Avg Stars | Top Repository |\n")
		sb.WriteString("|----------|-------|--------------|-----------|----------------|\n")
		for _, lang := range sortedLanguages(summary.Languages) {
			stat := summary.Languages[lang]
			sb.WriteString(fmt.Sprintf("| %s | %d | %.1f | %.0f | %s |\n",
				lang, stat.Count, stat.AvgMomentum, stat.AvgStars, stat.TopRepo))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## 📅 Age Distribution\n\n")
	writeBucketTable(&sb, summary.ByAge, analysis.AgeBucketOrder())

	sb.WriteString("## ⭐ Size Distribution\n\n")
	writeBucketTable(&sb, summary.BySize, analysis.SizeBucketOrder())

	sb.WriteString("## 🏷️ Stage Breakdown\n\n")
	for _, t := range []domain.RepoType{domain.TypeViral, domain.TypeRising, domain.TypeEstablished, domain.TypeExperimental, domain.TypeDormant} {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", t, summary.TypeCounts[t]))
	}
	sb.WriteString("\n## 📈 Growth Tier Breakdown\n\n")
	for _, tier := range []domain.GrowthTier{domain.TierLow, domain.TierModerate, domain.TierHigh, domain.TierExceptional} {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", tier, summary.TierCounts[tier]))
	}
	sb.WriteString("\n---\n*Report generated by repo-scout*\n")

	return sb.String()
}

func writeBucketTable(sb *strings.Builder, buckets map[string]domain.BucketStat, order []string) {
	sb.WriteString("| Bucket | Repos | Avg Momentum |\n")
	sb.WriteString("|--------|-------|--------------|\n")
	for _, bucket := range order {
		stat := buckets[bucket]
		if !stat.HasData {
			// 空桶明确标记无数据，不显示误导性的 0 分
			sb.WriteString(fmt.Sprintf("| %s | 0 | no data |\n", bucket))
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %.1f |\n", bucket, stat.Count, stat.AvgMomentum))
	}
	sb.WriteString("\n")
}

// sortByMomentum 动量降序，平局按名字字典序，保证输出稳定
func sortByMomentum(repos []*domain.ClassifiedRepo) []*domain.ClassifiedRepo {
	sorted := append([]*domain.ClassifiedRepo(nil), repos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MomentumScore != sorted[j].MomentumScore {
			return sorted[i].MomentumScore > sorted[j].MomentumScore
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// sortedLanguages 平均动量降序，平局按语言名字典序
func sortedLanguages(stats map[string]domain.LanguageStat) []string {
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
	return names
}
