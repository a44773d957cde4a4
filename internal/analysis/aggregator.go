package analysis

import (
	"fmt"
	"sort"
	"time"

	"repo-scout/internal/domain"
)

// 分桶边界是固定配置，不随批次重算
const (
	ageBucketNew    = "new (0-30 days)"
	ageBucketYoung  = "young (31-90 days)"
	ageBucketMature = "mature (91-365 days)"
	ageBucketOld    = "established (>365 days)"

	sizeBucketSmall  = "small (0-100 stars)"
	sizeBucketMedium = "medium (101-1000 stars)"
	sizeBucketLarge  = "large (1001-10000 stars)"
	sizeBucketHuge   = "huge (>10000 stars)"

	maxRecommendations = 5
)

var ageBucketOrder = []string{ageBucketNew, ageBucketYoung, ageBucketMature, ageBucketOld}
var sizeBucketOrder = []string{sizeBucketSmall, sizeBucketMedium, sizeBucketLarge, sizeBucketHuge}

// AgeBucketOrder 返回年龄桶的展示顺序，供报告层按固定顺序渲染
func AgeBucketOrder() []string {
	return append([]string(nil), ageBucketOrder...)
}

// SizeBucketOrder 返回规模桶的展示顺序
func SizeBucketOrder() []string {
	return append([]string(nil), sizeBucketOrder...)
}

// Aggregator 把一批分类结果折叠成聚合统计和推荐语。
// 单向 fold：跑一遍求和计数，结束时才算平均，空桶显式标记无数据。
type Aggregator struct{}

// NewAggregator 创建聚合器
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate 聚合一批分类结果。空批次返回全零的 Summary，不报错。
func (a *Aggregator) Aggregate(repos []*domain.ClassifiedRepo, now time.Time) *domain.Summary {
	summary := &domain.Summary{
		TotalRepos:      len(repos),
		Languages:       make(map[string]domain.LanguageStat),
		ByAge:           make(map[string]domain.BucketStat),
		BySize:          make(map[string]domain.BucketStat),
		TierCounts:      make(map[domain.GrowthTier]int),
		TypeCounts:      make(map[domain.RepoType]int),
		Recommendations: []string{},
		GeneratedAt:     now,
	}

	// 每个桶和每个档位都先占位，空桶也要显式出现在结果里
	for _, bucket := range ageBucketOrder {
		summary.ByAge[bucket] = domain.BucketStat{}
	}
	for _, bucket := range sizeBucketOrder {
		summary.BySize[bucket] = domain.BucketStat{}
	}
	for _, tier := range []domain.GrowthTier{domain.TierLow, domain.TierModerate, domain.TierHigh, domain.TierExceptional} {
		summary.TierCounts[tier] = 0
	}
	for _, t := range []domain.RepoType{domain.TypeViral, domain.TypeRising, domain.TypeEstablished, domain.TypeExperimental, domain.TypeDormant} {
		summary.TypeCounts[t] = 0
	}

	if len(repos) == 0 {
		return summary
	}

	type langAcc struct {
		count       int
		sumMomentum float64
		sumStars    float64
		topRepo     string
		topMomentum float64
	}
	type bucketAcc struct {
		count       int
		sumMomentum float64
	}

	langs := make(map[string]*langAcc)
	ageAcc := make(map[string]*bucketAcc)
	sizeAcc := make(map[string]*bucketAcc)

	totalMomentum := 0.0
	topMomentum := 0.0

	for _, repo := range repos {
		totalMomentum += repo.MomentumScore
		if repo.MomentumScore > topMomentum {
			topMomentum = repo.MomentumScore
		}

		summary.TierCounts[repo.GrowthTier]++
		summary.TypeCounts[repo.Type]++

		// 语言未知的记录不进语言统计
		if repo.Language != "" {
			acc := langs[repo.Language]
			if acc == nil {
				acc = &langAcc{}
				langs[repo.Language] = acc
			}
			acc.count++
			acc.sumMomentum += repo.MomentumScore
			acc.sumStars += float64(repo.Stars)
			if repo.MomentumScore > acc.topMomentum || acc.topRepo == "" {
				acc.topRepo = repo.Name
				acc.topMomentum = repo.MomentumScore
			}
		}

		ab := ageBucketFor(repo.AgeDays)
		if ageAcc[ab] == nil {
			ageAcc[ab] = &bucketAcc{}
		}
		ageAcc[ab].count++
		ageAcc[ab].sumMomentum += repo.MomentumScore

		sb := sizeBucketFor(repo.Stars)
		if sizeAcc[sb] == nil {
			sizeAcc[sb] = &bucketAcc{}
		}
		sizeAcc[sb].count++
		sizeAcc[sb].sumMomentum += repo.MomentumScore
	}

	summary.AvgMomentum = totalMomentum / float64(len(repos))
	summary.TopMomentum = topMomentum

	for lang, acc := range langs {
		summary.Languages[lang] = domain.LanguageStat{
			Count:       acc.count,
			AvgMomentum: acc.sumMomentum / float64(acc.count),
			AvgStars:    acc.sumStars / float64(acc.count),
			TopRepo:     acc.topRepo,
		}
	}
	for bucket, acc := range ageAcc {
		summary.ByAge[bucket] = domain.BucketStat{
			Count:       acc.count,
			AvgMomentum: acc.sumMomentum / float64(acc.count),
			HasData:     true,
		}
	}
	for bucket, acc := range sizeAcc {
		summary.BySize[bucket] = domain.BucketStat{
			Count:       acc.count,
			AvgMomentum: acc.sumMomentum / float64(acc.count),
			HasData:     true,
		}
	}

	summary.Recommendations = a.buildRecommendations(summary, repos)
	return summary
}

// buildRecommendations 固定顺序生成推荐语，最多 maxRecommendations 条
func (a *Aggregator) buildRecommendations(summary *domain.Summary, repos []*domain.ClassifiedRepo) []string {
	recs := []string{}

	// 1. 平均动量最高的语言，平局按语言名字典序取最小
	if lang := topLanguage(summary.Languages); lang != "" {
		recs = append(recs, fmt.Sprintf(
			"🔥 %s repositories are showing the highest momentum right now", lang))
	}

	// 2. 高潜力档位数量
	highTier := summary.TierCounts[domain.TierHigh] + summary.TierCounts[domain.TierExceptional]
	if highTier > 0 {
		recs = append(recs, fmt.Sprintf(
			"⭐ %d repositories fall in the high or exceptional growth tier", highTier))
	}

	// 3. 被低估的项目：标签还是实验期，潜力已经进高档
	undervalued := 0
	for _, repo := range repos {
		if repo.IsUndervalued() {
			undervalued++
		}
	}
	if undervalued > 0 {
		recs = append(recs, fmt.Sprintf(
			"💎 %d undervalued repositories could be tomorrow's stars", undervalued))
	}

	// 4. 爆发期 + 上升期数量
	hot := summary.TypeCounts[domain.TypeViral] + summary.TypeCounts[domain.TypeRising]
	if hot > 0 {
		recs = append(recs, fmt.Sprintf(
			"🚀 %d repositories are in a viral or rising growth phase", hot))
	}

	// 5. 整批平均动量
	if summary.TotalRepos > 0 {
		recs = append(recs, fmt.Sprintf(
			"📊 Average momentum across %d repositories is %.1f/100",
			summary.TotalRepos, summary.AvgMomentum))
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// topLanguage 按平均动量取最高的语言，平局取字典序最小的
func topLanguage(stats map[string]domain.LanguageStat) string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestAvg := -1.0
	for _, name := range names {
		if stats[name].AvgMomentum > bestAvg {
			best = name
			bestAvg = stats[name].AvgMomentum
		}
	}
	return best
}

// ageBucketFor 按年龄分桶
func ageBucketFor(ageDays int) string {
	switch {
	case ageDays <= 30:
		return ageBucketNew
	case ageDays <= 90:
		return ageBucketYoung
	case ageDays <= 365:
		return ageBucketMature
	default:
		return ageBucketOld
	}
}

// sizeBucketFor 按 star 规模分桶
func sizeBucketFor(stars int) string {
	switch {
	case stars <= 100:
		return sizeBucketSmall
	case stars <= 1000:
		return sizeBucketMedium
	case stars <= 10000:
		return sizeBucketLarge
	default:
		return sizeBucketHuge
	}
}
