package main

import (
	"context"
	"fmt"
	"time"

	"repo-scout/internal/adapter/keyword"
	"repo-scout/internal/analysis"
	"repo-scout/internal/domain"
)

// 调试入口：不碰网络和数据库，用几条典型的内置记录
// 把整条评分 → 分类 → 摘要 → 聚合管道跑一遍，方便肉眼核对数值。
func main() {
	now := time.Now()

	records := []*domain.Repo{
		{
			ID:                "debug-1",
			Name:              "demo/hot-new-tool",
			URL:               "https://github.com/demo/hot-new-tool",
			Description:       "A pytorch toolkit for training LLM agents",
			Language:          "Python",
			Stars:             19,
			Forks:             6,
			Contributors:      1,
			ContributorsKnown: true,
			Topics:            []string{"deep-learning", "llm"},
			CreatedAt:         now.AddDate(0, 0, -2),
			PushedAt:          now,
		},
		{
			ID:          "debug-2",
			Name:        "demo/abandoned",
			URL:         "https://github.com/demo/abandoned",
			Description: "An old experiment",
			CreatedAt:   now.AddDate(0, 0, -400),
			PushedAt:    now.AddDate(0, 0, -200),
		},
		{
			ID:                "debug-3",
			Name:              "demo/steady-web",
			URL:               "https://github.com/demo/steady-web",
			Description:       "A react component library",
			Language:          "TypeScript",
			Stars:             4200,
			Forks:             300,
			Contributors:      45,
			ContributorsKnown: true,
			Topics:            []string{"react", "frontend"},
			CreatedAt:         now.AddDate(-2, 0, 0),
			PushedAt:          now.AddDate(0, 0, -1),
		},
	}

	fmt.Println("🔍 调试模式：内置样本走一遍分析管道")

	classified, err := analysis.ScoreAndClassify(records, now)
	if err != nil {
		fmt.Printf("❌ 评分失败: %v\n", err)
		return
	}

	summarizer := keyword.NewSummarizer()
	for _, repo := range classified {
		enrichment, err := summarizer.Summarize(context.Background(), &repo.ScoredRepo)
		if err == nil {
			repo.Summary = enrichment.Summary
			if enrichment.Category != "" {
				repo.Category = enrichment.Category
			}
		}

		fmt.Printf("\n📦 %s\n", repo.Name)
		fmt.Printf("   年龄 %d 天 | 速率 %.2f stars/天 | 活跃度因子 %.2f\n",
			repo.AgeDays, repo.StarVelocity, repo.RecencyFactor)
		fmt.Printf("   动量 %.1f/100 | 成长潜力 %.1f/100 (%s)\n",
			repo.MomentumScore, repo.GrowthPotential, repo.GrowthTier)
		fmt.Printf("   阶段: %s | 类别: %s\n", repo.Type, orDash(repo.Category))
		fmt.Printf("   摘要: %s\n", repo.Summary)
	}

	summary := analysis.Summarize(classified, now)
	fmt.Printf("\n📊 批次统计: %d 个项目, 平均动量 %.1f, 最高动量 %.1f\n",
		summary.TotalRepos, summary.AvgMomentum, summary.TopMomentum)
	for _, rec := range summary.Recommendations {
		fmt.Println("   " + rec)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
