package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"repo-scout/internal/adapter/feishu"
	"repo-scout/internal/adapter/gemini"
	"repo-scout/internal/adapter/github"
	"repo-scout/internal/adapter/keyword"
	"repo-scout/internal/adapter/linkedin"
	"repo-scout/internal/adapter/report"
	"repo-scout/internal/adapter/repository"
	"repo-scout/internal/config"
	"repo-scout/internal/port"
	"repo-scout/internal/service"
)

// cycleTimeout 单轮分析的超时时间
const cycleTimeout = 10 * time.Minute

func main() {
	// 1. 定义命令行参数
	mode := flag.String("mode", "analyze", "运行模式: analyze (分析) 或 search (搜索)")
	query := flag.String("q", "", "搜索关键词 (仅在 search 模式下有效)")
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	timeframe := flag.String("timeframe", "", "时间窗口: daily / weekly / monthly (覆盖配置文件)")
	languages := flag.String("languages", "", "语言列表，逗号分隔 (覆盖配置文件)")
	interval := flag.Int("interval", 0, "定时执行间隔（分钟），0表示只执行一次")
	concurrency := flag.Int("concurrency", 3, "摘要生成并发数")
	flag.Parse()

	// 2. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	if *languages != "" {
		cfg.Data.Languages = splitLanguages(*languages)
	}
	if *timeframe != "" {
		cfg.Data.Timeframes = []string{*timeframe}
	}

	// 3. 组装依赖
	svc := buildService(cfg, *concurrency)

	// 4. 根据模式分流
	switch *mode {
	case "search":
		runSearch(svc, *query)
	case "analyze":
		if *interval > 0 {
			runScheduled(svc, cfg.Data.Timeframes, *interval)
		} else {
			runOnce(svc, cfg.Data.Timeframes)
		}
	default:
		fmt.Println("❌ 未知模式，请使用 -mode=analyze 或 -mode=search")
	}
}

func splitLanguages(raw string) []string {
	var languages []string
	for _, language := range strings.Split(raw, ",") {
		if language = strings.TrimSpace(language); language != "" {
			languages = append(languages, language)
		}
	}
	return languages
}

// buildService 按配置组装分析服务。数据库和推送是可选的，
// 没配就跳过对应环节，分析和报告照常工作。
func buildService(cfg *config.Config, concurrency int) *service.ScoutService {
	fetcher := github.NewFetcher(cfg.GitHub.Token, cfg.Data.MinStars, cfg.GitHub.MaxRepos)

	// Gemini 可用时优先用 LLM 摘要，否则退回关键词摘要器
	var summarizer port.Summarizer
	if cfg.AI.GeminiAPIKey != "" {
		geminiSummarizer, err := gemini.NewSummarizer(context.Background(), cfg.AI.GeminiAPIKey)
		if err != nil {
			log.Printf("⚠️ Gemini 初始化失败，退回关键词摘要: %v", err)
			summarizer = keyword.NewSummarizer()
		} else {
			summarizer = geminiSummarizer
		}
	} else {
		fmt.Println("ℹ️ 未配置 Gemini API Key，使用关键词摘要器")
		summarizer = keyword.NewSummarizer()
	}

	var repoStore port.Repository
	if cfg.Database.DSN != "" {
		store, err := repository.NewPostgresRepo(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("❌ DB 初始化失败: %v", err)
		}
		repoStore = store
	}

	var notifier port.Notifier
	if cfg.Notify.FeishuWebhook != "" {
		notifier = feishu.NewNotifier(cfg.Notify.FeishuWebhook)
	}

	reporter := report.NewGenerator(cfg.Output.ReportsDir, cfg.Output.Formats)
	postWriter := linkedin.NewGenerator(cfg.Output.PostsDir)

	return service.NewScoutService(
		fetcher, summarizer, repoStore, notifier, reporter, postWriter,
		cfg.Data.Languages, cfg.Notify.MinMomentum, concurrency,
	)
}

// runOnce 把配置的每个时间窗口各跑一轮
func runOnce(svc *service.ScoutService, timeframes []string) {
	for _, timeframe := range timeframes {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		if _, err := svc.RunAnalysisCycle(ctx, timeframe); err != nil {
			log.Printf("❌ %s 分析失败: %v", timeframe, err)
		}
		cancel()
	}
}

// runScheduled 定时执行模式，Ctrl+C 优雅退出
func runScheduled(svc *service.ScoutService, timeframes []string, intervalMinutes int) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(intervalMinutes) * time.Minute)
	defer ticker.Stop()

	fmt.Printf("⏰ 定时执行模式已启动，每 %d 分钟执行一次\n", intervalMinutes)
	fmt.Println("按下 Ctrl+C 可以优雅停止程序")

	// 立即执行一次
	runOnce(svc, timeframes)

	for {
		select {
		case <-ticker.C:
			runOnce(svc, timeframes)
		case <-sigChan:
			fmt.Println("\n👋 收到停止信号，正在退出...")
			return
		}
	}
}

// runSearch 查询历史分析结果
func runSearch(svc *service.ScoutService, query string) {
	if query == "" {
		fmt.Println("⚠️ 请输入搜索关键词")
		fmt.Println("例如: -mode=search -q 'vector database'")
		return
	}

	results, err := svc.Search(context.Background(), query)
	if err != nil {
		log.Fatalf("❌ 搜索失败: %v", err)
	}
	if len(results) == 0 {
		fmt.Println("📭 没有匹配的项目。先运行 -mode=analyze 积累一些数据吧！")
		return
	}

	fmt.Printf("\n================ [ 搜索结果: %s ] ================\n", query)
	for i, repo := range results {
		fmt.Printf("%d. %s (%s)\n", i+1, repo.Name, repo.Language)
		fmt.Printf("   动量 %.1f/100 | %s | %s\n", repo.MomentumScore, repo.Type, repo.URL)
		if repo.Summary != "" {
			fmt.Printf("   %s\n", repo.Summary)
		}
	}
	fmt.Println("==================================================")
}
