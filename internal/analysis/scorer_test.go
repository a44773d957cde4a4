package analysis

import (
	"math"
	"testing"
	"time"

	"repo-scout/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Score(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer()

	tests := []struct {
		name   string
		repo   *domain.Repo
		verify func(*testing.T, *domain.ScoredRepo)
	}{
		{
			name: "高速增长的新项目",
			repo: &domain.Repo{
				Name:              "test/hot-new-tool",
				Language:          "Python",
				Stars:             19,
				Forks:             6,
				Contributors:      1,
				ContributorsKnown: true,
				CreatedAt:         now.AddDate(0, 0, -2),
				PushedAt:          now,
			},
			verify: func(t *testing.T, s *domain.ScoredRepo) {
				assert.Equal(t, 2, s.AgeDays)
				assert.InDelta(t, 9.5, s.StarVelocity, 0.001)
				assert.Equal(t, 1.0, s.RecencyFactor)
				assert.InDelta(t, 6.0/19.0, s.EngagementRatio, 0.001)
				// 新项目 + 高速率 + 刚push，动量应该在高分区
				assert.Greater(t, s.MomentumScore, 60.0)
				assert.LessOrEqual(t, s.MomentumScore, 100.0)
				// 成长潜力至少进入 high 档
				assert.GreaterOrEqual(t, s.GrowthPotential, 65.0)
			},
		},
		{
			name: "休眠的老项目",
			repo: &domain.Repo{
				Name:              "test/abandoned",
				Stars:             0,
				Forks:             0,
				Contributors:      0,
				ContributorsKnown: true,
				CreatedAt:         now.AddDate(0, 0, -400),
				PushedAt:          now.AddDate(0, 0, -200),
			},
			verify: func(t *testing.T, s *domain.ScoredRepo) {
				assert.Equal(t, 400, s.AgeDays)
				assert.Equal(t, 0.0, s.StarVelocity)
				// 活跃度触底但不归零
				assert.InDelta(t, 0.05, s.RecencyFactor, 0.001)
				assert.Less(t, s.MomentumScore, 10.0)
				assert.GreaterOrEqual(t, s.MomentumScore, 0.0)
				assert.Less(t, s.GrowthPotential, 40.0)
			},
		},
		{
			name: "刚创建的项目年龄按1天算",
			repo: &domain.Repo{
				Name:      "test/just-born",
				Stars:     30,
				CreatedAt: now,
				PushedAt:  now,
			},
			verify: func(t *testing.T, s *domain.ScoredRepo) {
				// 零年龄不允许出现除零或无穷大
				assert.Equal(t, 1, s.AgeDays)
				assert.InDelta(t, 30.0, s.StarVelocity, 0.001)
				assert.False(t, math.IsNaN(s.MomentumScore))
				assert.False(t, math.IsInf(s.StarVelocity, 0))
			},
		},
		{
			name: "全零记录不报错",
			repo: &domain.Repo{
				Name:      "test/empty",
				CreatedAt: now.AddDate(0, 0, -1),
				PushedAt:  now.AddDate(0, 0, -1),
			},
			verify: func(t *testing.T, s *domain.ScoredRepo) {
				assert.Equal(t, 0.0, s.StarVelocity)
				assert.Equal(t, 0.0, s.EngagementRatio)
				assert.GreaterOrEqual(t, s.MomentumScore, 0.0)
				assert.False(t, math.IsNaN(s.GrowthPotential))
			},
		},
		{
			name: "极端输入饱和而不溢出",
			repo: &domain.Repo{
				Name:              "test/mega",
				Stars:             2000000,
				Forks:             900000,
				Contributors:      5000,
				ContributorsKnown: true,
				CreatedAt:         now.AddDate(0, 0, -3),
				PushedAt:          now,
			},
			verify: func(t *testing.T, s *domain.ScoredRepo) {
				assert.LessOrEqual(t, s.MomentumScore, 100.0)
				assert.LessOrEqual(t, s.GrowthPotential, 100.0)
				assert.LessOrEqual(t, s.EngagementRatio, 1.0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, scorer.Score(tt.repo, now))
		})
	}
}

func TestScorer_ContributorsUnknown(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer()

	base := domain.Repo{
		Name:      "test/repo",
		Stars:     100,
		Forks:     10,
		CreatedAt: now.AddDate(0, 0, -30),
		PushedAt:  now,
	}

	unknown := base
	unknown.ContributorsKnown = false
	unknown.Contributors = 0

	knownZero := base
	knownZero.ContributorsKnown = true
	knownZero.Contributors = 0

	// 贡献者数未知和已知为零都按零贡献计，分数一致
	assert.Equal(t,
		scorer.Score(&unknown, now).MomentumScore,
		scorer.Score(&knownZero, now).MomentumScore)

	known := base
	known.ContributorsKnown = true
	known.Contributors = 10
	assert.Greater(t,
		scorer.Score(&known, now).MomentumScore,
		scorer.Score(&unknown, now).MomentumScore)
}

func TestScorer_MonotonicInStars(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer()

	// 其他条件完全一致，star 越多动量不能更低
	prev := -1.0
	for _, stars := range []int{0, 1, 5, 20, 100, 500, 2000, 50000} {
		repo := &domain.Repo{
			Name:      "test/repo",
			Stars:     stars,
			CreatedAt: now.AddDate(0, 0, -60),
			PushedAt:  now.AddDate(0, 0, -3),
		}
		score := scorer.Score(repo, now).MomentumScore
		assert.GreaterOrEqual(t, score, prev, "stars=%d 时动量下降了", stars)
		prev = score
	}
}

func TestScorer_MonotonicInRecency(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer()

	// push 越久远，动量和成长潜力都不能更高
	prevMomentum := math.MaxFloat64
	prevGrowth := math.MaxFloat64
	for _, staleDays := range []int{0, 3, 7, 14, 30, 60, 89, 90, 180, 365} {
		repo := &domain.Repo{
			Name:      "test/repo",
			Stars:     200,
			Forks:     20,
			CreatedAt: now.AddDate(0, 0, -500),
			PushedAt:  now.AddDate(0, 0, -staleDays),
		}
		scored := scorer.Score(repo, now)
		assert.LessOrEqual(t, scored.MomentumScore, prevMomentum, "staleDays=%d", staleDays)
		assert.LessOrEqual(t, scored.GrowthPotential, prevGrowth, "staleDays=%d", staleDays)
		prevMomentum = scored.MomentumScore
		prevGrowth = scored.GrowthPotential
	}
}

func TestScorer_GrowthFavorsYoungRepos(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer()

	// 同样 20 颗星，2 天前创建的必须排在 2 年前创建的前面
	young := &domain.Repo{
		Name:      "test/young",
		Stars:     20,
		CreatedAt: now.AddDate(0, 0, -2),
		PushedAt:  now,
	}
	old := &domain.Repo{
		Name:      "test/old",
		Stars:     20,
		CreatedAt: now.AddDate(-2, 0, 0),
		PushedAt:  now,
	}

	assert.Greater(t,
		scorer.Score(young, now).GrowthPotential,
		scorer.Score(old, now).GrowthPotential)
}

func TestRecencyFactor(t *testing.T) {
	// 7 天内满权重
	assert.Equal(t, 1.0, recencyFactor(0))
	assert.Equal(t, 1.0, recencyFactor(7))
	// 90 天以上触底，但不归零
	assert.InDelta(t, 0.05, recencyFactor(90), 0.0001)
	assert.InDelta(t, 0.05, recencyFactor(1000), 0.0001)
	// 中间段单调不增
	prev := 1.0
	for d := 8.0; d < 90; d++ {
		f := recencyFactor(d)
		assert.LessOrEqual(t, f, prev)
		assert.Greater(t, f, 0.0)
		prev = f
	}
}

func TestScorer_BoundsProperty(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer()

	// 网格扫一遍各种输入组合，分数必须都落在 [0, 100]
	for _, stars := range []int{0, 10, 1000, 1000000} {
		for _, forks := range []int{0, 5, 5000} {
			for _, ageDays := range []int{0, 1, 30, 365, 3650} {
				for _, staleDays := range []int{0, 10, 100} {
					if staleDays > ageDays {
						continue
					}
					repo := &domain.Repo{
						Name:      "test/grid",
						Stars:     stars,
						Forks:     forks,
						CreatedAt: now.AddDate(0, 0, -ageDays),
						PushedAt:  now.AddDate(0, 0, -staleDays),
					}
					s := scorer.Score(repo, now)
					assert.GreaterOrEqual(t, s.MomentumScore, 0.0)
					assert.LessOrEqual(t, s.MomentumScore, 100.0)
					assert.GreaterOrEqual(t, s.GrowthPotential, 0.0)
					assert.LessOrEqual(t, s.GrowthPotential, 100.0)
					assert.False(t, math.IsNaN(s.MomentumScore))
					assert.False(t, math.IsNaN(s.GrowthPotential))
				}
			}
		}
	}
}
