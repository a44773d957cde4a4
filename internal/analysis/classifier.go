package analysis

import "repo-scout/internal/domain"

// 分类阈值。调整时必须保持：四个档位连续覆盖 [0,100]；
// 休眠判定与 star 数无关。
const (
	viralMomentum   = 75.0 // 爆发期动量门槛
	viralMaxAgeDays = 30   // 爆发期年龄上限

	risingMomentum = 55.0 // 上升期动量门槛

	// 活跃度因子贴着下限就算休眠 (最后一次 push 在 90 天以前)
	dormantRecency = recencyFloor + 0.01

	establishedAgeDays = 365 // 成熟期年龄下限

	// 成长潜力四档的分界线
	tierModerateMin    = 40.0
	tierHighMin        = 65.0
	tierExceptionalMin = 85.0
)

// Classifier 给评分后的仓库贴成长阶段标签和潜力档位。
// 纯阈值规则，对任何合法的 ScoredRepo 都有唯一确定的结果。
type Classifier struct{}

// NewClassifier 创建分类器
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify 分类单条记录。categoryHint 是外部增强 (比如 LLM) 给出的
// 类别标签，非空时直接采用，否则退回到内部的关键词启发式。
func (c *Classifier) Classify(s *domain.ScoredRepo, categoryHint string) *domain.ClassifiedRepo {
	category := categoryHint
	if category == "" {
		category = Categorize(&s.Repo)
	}

	return &domain.ClassifiedRepo{
		ScoredRepo: *s,
		Type:       classifyType(s),
		GrowthTier: TierFor(s.GrowthPotential),
		Category:   category,
	}
}

// classifyType 固定优先级的阈值规则，首个命中即返回。
// 休眠判定排在上升期之前：只要长期没有 push，
// 不管历史 star 多高都算休眠 (爆发期不受影响，
// 年龄上限 30 天的项目不可能 90 天没 push)。
func classifyType(s *domain.ScoredRepo) domain.RepoType {
	switch {
	case s.MomentumScore >= viralMomentum && s.AgeDays <= viralMaxAgeDays:
		return domain.TypeViral
	case s.RecencyFactor <= dormantRecency:
		return domain.TypeDormant
	case s.MomentumScore >= risingMomentum:
		return domain.TypeRising
	case s.AgeDays >= establishedAgeDays:
		return domain.TypeEstablished
	default:
		return domain.TypeExperimental
	}
}

// TierFor 把成长潜力分映射到四个连续档位，无缝隙无重叠
func TierFor(growthPotential float64) domain.GrowthTier {
	switch {
	case growthPotential >= tierExceptionalMin:
		return domain.TierExceptional
	case growthPotential >= tierHighMin:
		return domain.TierHigh
	case growthPotential >= tierModerateMin:
		return domain.TierModerate
	default:
		return domain.TierLow
	}
}
