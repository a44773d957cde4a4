package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"repo-scout/internal/analysis"
	"repo-scout/internal/domain"
	"repo-scout/internal/port"
)

// ScoutService 串起一轮完整的分析流水线：
// 抓取 → 校验 → 评分分类 → 摘要富化 → 聚合 → 报告/贴文 → 入库推送
type ScoutService struct {
	fetcher    port.Scouter
	summarizer port.Summarizer
	repoStore  port.Repository
	notifier   port.Notifier
	reporter   port.Reporter
	postWriter port.PostWriter

	languages   []string
	minMomentum float64
	concurrency int

	// 测试时替换成固定时间
	now func() time.Time
}

// NewScoutService 创建分析服务。repoStore / notifier / reporter / postWriter
// 都可以为 nil，对应环节会被跳过。
func NewScoutService(
	fetcher port.Scouter,
	summarizer port.Summarizer,
	repoStore port.Repository,
	notifier port.Notifier,
	reporter port.Reporter,
	postWriter port.PostWriter,
	languages []string,
	minMomentum float64,
	concurrency int,
) *ScoutService {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &ScoutService{
		fetcher:     fetcher,
		summarizer:  summarizer,
		repoStore:   repoStore,
		notifier:    notifier,
		reporter:    reporter,
		postWriter:  postWriter,
		languages:   languages,
		minMomentum: minMomentum,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// CycleResult 一轮分析的产出
type CycleResult struct {
	Summary     *domain.Summary
	Repos       []*domain.ClassifiedRepo
	ReportFiles []string
	PostFiles   []string
	Notified    int
}

// RunAnalysisCycle 执行一轮完整的分析
func (s *ScoutService) RunAnalysisCycle(ctx context.Context, timeframe string) (*CycleResult, error) {
	now := s.now()
	fmt.Printf("🚀 [分析模式] 开始分析 %s 时间窗口的趋势项目...\n", timeframe)

	// 1. 数据源 (Fetcher)
	records := s.collect(ctx, timeframe)
	if len(records) == 0 {
		return nil, fmt.Errorf("没有抓到任何项目，本轮分析中止")
	}
	fmt.Printf("✅ 去重后共 %d 个项目\n", len(records))

	// 2. 校验：脏记录跳过并记日志，不拖垮整批
	valid := make([]*domain.Repo, 0, len(records))
	for _, record := range records {
		if err := analysis.ValidateRepo(record, now); err != nil {
			log.Printf("⚠️ 项目 %s 数据不合法，跳过: %v", record.Name, err)
			continue
		}
		valid = append(valid, record)
	}

	// 3. 评分 + 分类
	fmt.Println("🧠 开始评分和分类...")
	classified, err := analysis.ScoreAndClassify(valid, now)
	if err != nil {
		return nil, err
	}
	fmt.Printf("✅ 已完成 %d 个项目的评分\n", len(classified))

	// 4. 摘要富化 (并发受控)
	if s.summarizer != nil {
		fmt.Println("✍️ 开始生成项目摘要...")
		s.enrichAll(ctx, classified)
	}

	// 5. 聚合
	summary := analysis.Summarize(classified, now)

	result := &CycleResult{
		Summary: summary,
		Repos:   classified,
	}

	// 6. 报告和贴文
	if s.reporter != nil {
		files, err := s.reporter.WriteReports(summary, classified, timeframe)
		if err != nil {
			log.Printf("❌ 生成报告失败: %v", err)
		} else {
			fmt.Printf("📄 已生成 %d 份报告\n", len(files))
			result.ReportFiles = files
		}
	}
	if s.postWriter != nil {
		files, err := s.postWriter.WritePosts(summary, classified)
		if err != nil {
			log.Printf("❌ 生成贴文失败: %v", err)
		} else {
			fmt.Printf("📣 已生成 %d 份贴文草稿\n", len(files))
			result.PostFiles = files
		}
	}

	// 7. 入库和推送
	result.Notified = s.persistAndNotify(ctx, classified)

	fmt.Printf("🎉 本轮分析完成，共推送 %d 个项目\n", result.Notified)
	return result, nil
}

// collect 按配置的语言逐个抓取并按仓库名去重。
// 单个语言抓取失败只记日志，不影响其他语言。
func (s *ScoutService) collect(ctx context.Context, timeframe string) []*domain.Repo {
	languages := s.languages
	if len(languages) == 0 {
		languages = []string{""}
	}

	seen := make(map[string]bool)
	var records []*domain.Repo
	for _, language := range languages {
		fmt.Printf("📥 正在抓取 %s 项目...\n", displayLanguage(language))
		repos, err := s.fetcher.GetTrendingRepos(ctx, language, timeframe)
		if err != nil {
			log.Printf("❌ 抓取 %s 项目失败: %v", displayLanguage(language), err)
			continue
		}
		for _, repo := range repos {
			if seen[repo.Name] {
				continue
			}
			seen[repo.Name] = true
			records = append(records, repo)
		}
		fmt.Printf("✅ 成功获取 %d 个 %s 项目\n", len(repos), displayLanguage(language))
	}
	return records
}

func displayLanguage(language string) string {
	if language == "" {
		return "全语言"
	}
	return language
}

// enrichAll 受控并发地为每个项目生成摘要。
// 摘要失败不是致命错误：保留分类阶段的关键词类别，摘要留空。
func (s *ScoutService) enrichAll(ctx context.Context, repos []*domain.ClassifiedRepo) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)

	for _, repo := range repos {
		wg.Add(1)
		sem <- struct{}{}
		go func(repo *domain.ClassifiedRepo) {
			defer wg.Done()
			defer func() { <-sem }()

			enrichment, err := s.summarizer.Summarize(ctx, &repo.ScoredRepo)
			if err != nil {
				log.Printf("⚠️ 生成 %s 的摘要失败: %v", repo.Name, err)
				return
			}
			repo.Summary = enrichment.Summary
			// 摘要器给出的类别优先于关键词启发式
			if enrichment.Category != "" {
				repo.Category = enrichment.Category
			}
		}(repo)
	}
	wg.Wait()
}

// persistAndNotify 把动量达标的新项目入库并推送
func (s *ScoutService) persistAndNotify(ctx context.Context, repos []*domain.ClassifiedRepo) int {
	if s.repoStore == nil {
		log.Println("⚠️ 未配置数据库，跳过入库和推送")
		return 0
	}

	fmt.Println("💾 开始存储和推送...")
	notified := 0
	for _, repo := range repos {
		select {
		case <-ctx.Done():
			fmt.Println("⏰ 执行时间过长，提前结束存储和推送阶段")
			return notified
		default:
		}

		if repo.MomentumScore < s.minMomentum {
			continue
		}

		exists, err := s.repoStore.Exists(ctx, repo.ID)
		if err != nil {
			log.Printf("❌ 检查项目 %s 是否存在时出错: %v，跳过该项目", repo.Name, err)
			continue
		}
		if exists {
			fmt.Printf("⏭️ 项目 %s 已存在\n", repo.Name)
			continue
		}

		if err := s.repoStore.Save(ctx, repo); err != nil {
			log.Printf("❌ 保存项目 %s 失败: %v", repo.Name, err)
			continue
		}

		if s.notifier == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, repo); err != nil {
			log.Printf("❌ 推送项目 %s 失败: %v", repo.Name, err)
			continue
		}
		if err := s.repoStore.MarkAsNotified(ctx, repo.ID); err != nil {
			log.Printf("⚠️ 标记项目 %s 为已通知失败: %v", repo.Name, err)
			continue
		}
		fmt.Printf("📲 已推送项目 %s\n", repo.Name)
		notified++
	}
	return notified
}

// Search 关键词搜索历史分析结果
func (s *ScoutService) Search(ctx context.Context, query string) ([]*domain.ClassifiedRepo, error) {
	if s.repoStore == nil {
		return nil, fmt.Errorf("未配置数据库，无法搜索")
	}
	return s.repoStore.Search(ctx, query)
}
