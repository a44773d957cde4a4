package port

import (
	"context"

	"repo-scout/internal/domain"
)

// Scouter (侦察兵): 负责从 GitHub 发现趋势仓库
// 返回的是只读的原始记录，评分管道不会修改它来源的数据
type Scouter interface {
	// 比如：GetTrendingRepos(ctx, "Go", "weekly")
	GetTrendingRepos(ctx context.Context, language string, since string) ([]*domain.Repo, error)
}

// Summarizer (解说员): 给单个仓库生成摘要和类别标签
// LLM 实现可能失败；关键词兜底实现永远成功且结果确定
type Summarizer interface {
	Summarize(ctx context.Context, repo *domain.ScoredRepo) (*domain.Enrichment, error)
}

// Repository (仓库管理员): 负责存储和查询分析结果
type Repository interface {
	// 保存 (Upsert) 一条分析结果
	Save(ctx context.Context, repo *domain.ClassifiedRepo) error

	// 判断是否已经处理过 (防重)
	Exists(ctx context.Context, repoID string) (bool, error)

	// 标记已推送，避免重复打扰
	MarkAsNotified(ctx context.Context, repoID string) error

	// 关键词模糊搜索，按动量降序
	Search(ctx context.Context, query string) ([]*domain.ClassifiedRepo, error)

	// 取最近入库的候选项目
	GetRecentCandidates(ctx context.Context, limit int) ([]*domain.ClassifiedRepo, error)
}

// Notifier (信使): 推送高动量发现到通知通道
type Notifier interface {
	Notify(ctx context.Context, repo *domain.ClassifiedRepo) error
}

// Reporter (书记员): 把聚合结果落成报告文件
// 返回生成的文件路径列表
type Reporter interface {
	WriteReports(summary *domain.Summary, repos []*domain.ClassifiedRepo, timeframe string) ([]string, error)
}

// PostWriter (文案): 把聚合结果写成社交平台帖子文件
type PostWriter interface {
	WritePosts(summary *domain.Summary, repos []*domain.ClassifiedRepo) ([]string, error)
}
