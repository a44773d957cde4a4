package domain

import "time"

// RepoType 仓库成长阶段标签
type RepoType string

const (
	TypeViral        RepoType = "viral"        // 爆发期：动量高且非常年轻
	TypeRising       RepoType = "rising"       // 上升期：动量高
	TypeEstablished  RepoType = "established"  // 成熟期：老项目，动量一般
	TypeExperimental RepoType = "experimental" // 实验期：信号弱，默认值
	TypeDormant      RepoType = "dormant"      // 休眠期：长期没有提交
)

// GrowthTier 成长潜力档位 (四档连续区间，覆盖 [0,100])
type GrowthTier string

const (
	TierLow         GrowthTier = "low"
	TierModerate    GrowthTier = "moderate"
	TierHigh        GrowthTier = "high"
	TierExceptional GrowthTier = "exceptional"
)

// Repo 代表从数据源抓到的一个仓库原始记录 (进入评分管道前只读)
type Repo struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"` // 例如 "gohugoio/hugo"
	URL         string `json:"url"`
	Description string `json:"description"`
	Language    string `json:"language"` // 可能为空 (GitHub 识别不出语言)
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	OpenIssues  int    `json:"open_issues"`

	// 贡献者数需要单独的 API 才能拿到，拿不到时 Known 为 false
	Contributors      int  `json:"contributors"`
	ContributorsKnown bool `json:"contributors_known"`

	RecentCommits int      `json:"recent_commits"` // 最近7天提交数
	Topics        []string `json:"topics" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	PushedAt  time.Time `json:"pushed_at"` // 最后一次 push
}

// ScoredRepo 评分后的仓库：原始记录 + 派生指标
type ScoredRepo struct {
	Repo `gorm:"embedded"`

	AgeDays         int     `json:"age_days"`
	StarVelocity    float64 `json:"star_velocity"`    // 每天涨多少 star
	RecencyFactor   float64 `json:"recency_factor"`   // 活跃度衰减因子 [0.05, 1]
	EngagementRatio float64 `json:"engagement_ratio"` // fork/star，封顶 1
	MomentumScore   float64 `json:"momentum_score"`   // 0-100
	GrowthPotential float64 `json:"growth_potential"` // 0-100，弱化绝对热度
}

// ClassifiedRepo 分类后的仓库：评分结果 + 标签 + 可选的文本增强
type ClassifiedRepo struct {
	ScoredRepo `gorm:"embedded"`

	Type       RepoType   `json:"repo_type"`
	GrowthTier GrowthTier `json:"growth_tier"`

	// 文本增强 (LLM 或关键词兜底生成)
	Summary  string `json:"summary"`
	Category string `json:"category"`

	AlreadyNotified bool `json:"already_notified"`
}

// IsUndervalued 判断是否是"被低估"的项目：
// 标签还停留在实验期，但成长潜力已经进入高档位
func (c *ClassifiedRepo) IsUndervalued() bool {
	return c.Type == TypeExperimental &&
		(c.GrowthTier == TierHigh || c.GrowthTier == TierExceptional)
}

// Enrichment 文本增强结果：一句话摘要 + 类别标签
// 可能来自 LLM，也可能来自关键词兜底实现
type Enrichment struct {
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

// LanguageStat 按语言聚合的统计
type LanguageStat struct {
	Count       int     `json:"count"`
	AvgMomentum float64 `json:"avg_momentum"`
	AvgStars    float64 `json:"avg_stars"`
	TopRepo     string  `json:"top_repo"` // 该语言下动量最高的仓库
}

// BucketStat 按年龄/规模分桶的统计。
// 空桶 HasData 为 false，调用方必须显式处理"没有数据"，
// 不允许出现除零产生的脏数值。
type BucketStat struct {
	Count       int     `json:"count"`
	AvgMomentum float64 `json:"avg_momentum"`
	HasData     bool    `json:"has_data"`
}

// Summary 一次分析运行的聚合结果 (每轮重算，不做持久状态)
type Summary struct {
	TotalRepos  int     `json:"total_repos"`
	AvgMomentum float64 `json:"avg_momentum"`
	TopMomentum float64 `json:"top_momentum"`

	Languages map[string]LanguageStat `json:"languages"`
	ByAge     map[string]BucketStat   `json:"by_age"`
	BySize    map[string]BucketStat   `json:"by_size"`

	TierCounts map[GrowthTier]int `json:"tier_counts"`
	TypeCounts map[RepoType]int   `json:"type_counts"`

	Recommendations []string  `json:"recommendations"`
	GeneratedAt     time.Time `json:"generated_at"`
}
