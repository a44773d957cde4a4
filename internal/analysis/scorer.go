package analysis

import (
	"math"
	"time"

	"repo-scout/internal/domain"
)

// 打分常量。这组权重是可调参数，不是硬性契约，
// 但必须保证：分数封顶 0-100，且对 star 速率和活跃度单调不减。
const (
	// 归一化上限
	velocityCap    = 10.0 // 每天 10 颗星即满分
	contributorCap = 20.0 // 20 个贡献者即满分

	// 活跃度衰减曲线：push 在 7 天内满权重，线性衰减到 90 天触底
	recencyFullDays = 7.0
	recencyZeroDays = 90.0
	recencyFloor    = 0.05 // 不归零，休眠项目仍保留一点分

	// 新鲜度窗口：一年以上的项目新鲜度为 0
	freshnessWindowDays = 365.0

	// 热度抑制参考值：log1p(stars)/log1p(ref)，10万星视为热度满格
	popularityDampRef = 100000.0

	// 动量分权重
	weightVelocity     = 0.35
	weightContributors = 0.20
	weightRecency      = 0.30
	weightEngagement   = 0.15

	// 成长潜力分权重：弱化绝对热度，突出年轻和增速
	growthWeightVelocity   = 0.35
	growthWeightFreshness  = 0.25
	growthWeightRecency    = 0.20
	growthWeightEngagement = 0.10
	growthWeightUnderdog   = 0.10
)

// Scorer 把一条仓库原始记录变成带动量指标的评分记录。
// 纯函数：同样的记录 + 同样的 now，永远得到同样的结果。
type Scorer struct{}

// NewScorer 创建评分器
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score 对单条记录打分。对任何通过校验的记录都不会失败：
// 所有除法都有保护，所有结果都封顶在 [0, 100]。
func (s *Scorer) Score(r *domain.Repo, now time.Time) *domain.ScoredRepo {
	// 年龄至少算 1 天，刚创建的项目不会出现无穷大的速率
	ageDays := int(now.Sub(r.CreatedAt).Hours() / 24)
	if ageDays < 1 {
		ageDays = 1
	}

	starVelocity := float64(r.Stars) / float64(ageDays)

	staleDays := now.Sub(r.PushedAt).Hours() / 24
	recency := recencyFactor(staleDays)

	// fork/star 比，封顶 1，避免极端项目 (fork 远多于 star) 垄断分数
	engagement := math.Min(float64(r.Forks)/math.Max(float64(r.Stars), 1), 1.0)

	velocityNorm := math.Min(starVelocity/velocityCap, 1.0)

	// 贡献者数未知时按 0 计，不惩罚也不奖励
	contributorNorm := 0.0
	if r.ContributorsKnown {
		contributorNorm = math.Min(float64(r.Contributors)/contributorCap, 1.0)
	}

	momentum := clampScore((weightVelocity*velocityNorm +
		weightContributors*contributorNorm +
		weightRecency*recency +
		weightEngagement*engagement) * 100)

	// 成长潜力：同样的 star 数，2 天前创建的项目必须排在 2 年前创建的前面
	freshness := math.Max(1-float64(ageDays)/freshnessWindowDays, 0)
	underdog := 1 - math.Min(math.Log1p(float64(r.Stars))/math.Log1p(popularityDampRef), 1.0)

	growth := clampScore((growthWeightVelocity*velocityNorm +
		growthWeightFreshness*freshness +
		growthWeightRecency*recency +
		growthWeightEngagement*engagement +
		growthWeightUnderdog*underdog) * 100)

	return &domain.ScoredRepo{
		Repo:            *r,
		AgeDays:         ageDays,
		StarVelocity:    starVelocity,
		RecencyFactor:   recency,
		EngagementRatio: engagement,
		MomentumScore:   momentum,
		GrowthPotential: growth,
	}
}

// recencyFactor 按最后一次 push 距今的天数计算活跃度因子。
// 单调不增，永远落在 [recencyFloor, 1]。
func recencyFactor(staleDays float64) float64 {
	if staleDays <= recencyFullDays {
		return 1.0
	}
	if staleDays >= recencyZeroDays {
		return recencyFloor
	}
	span := recencyZeroDays - recencyFullDays
	return 1.0 - (staleDays-recencyFullDays)/span*(1.0-recencyFloor)
}

// clampScore 把分数压到 [0, 100]，极端输入饱和而不是溢出
func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
