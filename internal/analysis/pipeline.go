package analysis

import (
	"time"

	"repo-scout/internal/domain"
)

// ScoreAndClassify 批量入口：校验 → 打分 → 分类。
// 整批共用同一个 now，避免同一轮里速率和活跃度的时间基准不一致。
// 任何一条记录校验失败都会让整批报错，脏数据不允许混进结果。
func ScoreAndClassify(records []*domain.Repo, now time.Time) ([]*domain.ClassifiedRepo, error) {
	scorer := NewScorer()
	classifier := NewClassifier()

	classified := make([]*domain.ClassifiedRepo, 0, len(records))
	for _, record := range records {
		if err := ValidateRepo(record, now); err != nil {
			return nil, err
		}
		classified = append(classified, classifier.Classify(scorer.Score(record, now), ""))
	}
	return classified, nil
}

// Summarize 批量入口：把分类结果折叠成聚合统计。空批次不报错。
func Summarize(classified []*domain.ClassifiedRepo, now time.Time) *domain.Summary {
	return NewAggregator().Aggregate(classified, now)
}
