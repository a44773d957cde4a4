package github

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"repo-scout/internal/common"
	"repo-scout/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// recentCommitWindow 近期活跃度统计的时间窗口
const recentCommitWindow = 7 * 24 * time.Hour

// Fetcher 实现了 port.Scouter 接口
type Fetcher struct {
	client   *github.Client
	minStars int
	maxRepos int
}

// NewFetcher 初始化 GitHub 客户端。token 为空时走匿名访问，速率限制会低很多
func NewFetcher(token string, minStars, maxRepos int) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	if maxRepos <= 0 || maxRepos > 100 {
		maxRepos = 100
	}

	return &Fetcher{client: client, minStars: minStars, maxRepos: maxRepos}
}

// GetTrendingRepos 获取GitHub Trending项目
// 由于GitHub没有直接的Trending API，我们用搜索按创建时间+stars排序来模拟
func (f *Fetcher) GetTrendingRepos(ctx context.Context, language string, since string) ([]*domain.Repo, error) {
	// 计算时间范围
	var dateRange string
	switch since {
	case "daily":
		dateRange = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	case "weekly":
		dateRange = time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	case "monthly":
		dateRange = time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	default:
		dateRange = time.Now().AddDate(0, 0, -1).Format("2006-01-02") // 默认一天
	}

	query := fmt.Sprintf("created:>%s stars:>=%d", dateRange, f.minStars)
	if language != "" {
		query = fmt.Sprintf("language:%s %s", language, query)
	}

	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: f.maxRepos,
		},
	}

	var result *github.RepositoriesSearchResult
	err := common.Do(ctx, func() error {
		var apiErr error
		result, _, apiErr = f.client.Search.Repositories(ctx, query, opts)
		return apiErr
	},
		common.WithMaxRetries(3),
		common.WithInitialDelay(time.Second),
		common.WithRetryIf(isRetryable),
	)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, "GitHub 搜索调用失败", err)
	}

	var repos []*domain.Repo
	for _, item := range result.Repositories {
		repo := mapRepo(item)
		f.enrich(ctx, repo)
		repos = append(repos, repo)
	}

	return repos, nil
}

// mapRepo 把 GitHub API 的仓库对象映射成领域模型
func mapRepo(item *github.Repository) *domain.Repo {
	repo := &domain.Repo{
		ID:          fmt.Sprintf("github-%d", item.GetID()),
		Name:        item.GetFullName(),
		URL:         item.GetHTMLURL(),
		Description: item.GetDescription(),
		Language:    item.GetLanguage(),
		Stars:       item.GetStargazersCount(),
		Forks:       item.GetForksCount(),
		OpenIssues:  item.GetOpenIssuesCount(),
		Topics:      item.Topics,
		CreatedAt:   item.GetCreatedAt().Time,
		PushedAt:    item.GetPushedAt().Time,
	}
	// 个别搜索结果不带 pushed_at，退回 updated_at 兜底
	if repo.PushedAt.IsZero() {
		repo.PushedAt = item.GetUpdatedAt().Time
	}
	return repo
}

// enrich 补齐搜索结果里没有的字段：贡献者数和近一周提交数。
// 富化失败不阻断整条流水线，只把贡献者数标记为未知。
func (f *Fetcher) enrich(ctx context.Context, repo *domain.Repo) {
	owner, name, ok := splitFullName(repo.Name)
	if !ok {
		return
	}

	contributors, _, err := f.client.Repositories.ListContributors(ctx, owner, name, &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		log.Printf("⚠️ 获取 %s 贡献者列表失败: %v", repo.Name, err)
		repo.ContributorsKnown = false
	} else {
		repo.Contributors = len(contributors)
		repo.ContributorsKnown = true
	}

	commits, _, err := f.client.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
		Since:       time.Now().Add(-recentCommitWindow),
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		log.Printf("⚠️ 获取 %s 近期提交失败: %v", repo.Name, err)
		return
	}
	repo.RecentCommits = len(commits)
}

func splitFullName(fullName string) (owner, name string, ok bool) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// isRetryable 判断 GitHub API 错误是否值得重试。
// 搜索语法错误（422）重试多少次都是一样的结果，触发二级限流时
// 按 GitHub 的要求也不该立刻重试。
func isRetryable(err error) bool {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == 422 {
		return false
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return false
	}
	var rateErr *github.RateLimitError
	return !errors.As(err, &rateErr)
}
