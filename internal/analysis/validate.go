package analysis

import (
	"fmt"
	"time"

	"repo-scout/internal/common"
	"repo-scout/internal/domain"
)

// ValidateRepo 在记录进入评分管道之前做边界校验。
// 脏数据 (负数、时间倒挂、未来时间戳) 直接报错，
// 绝不悄悄把非法输入算成一个看起来合法的分数。
// 可选字段缺失 (贡献者数未知、没有 topics、描述为空) 不算错误。
func ValidateRepo(r *domain.Repo, now time.Time) error {
	if r == nil {
		return common.NewError(common.ErrCodeValidation, "记录为空")
	}
	if r.Stars < 0 || r.Forks < 0 || r.OpenIssues < 0 || r.RecentCommits < 0 {
		return common.NewError(common.ErrCodeValidation,
			fmt.Sprintf("仓库 %s 存在负数计数 (stars=%d forks=%d issues=%d commits=%d)",
				r.Name, r.Stars, r.Forks, r.OpenIssues, r.RecentCommits))
	}
	if r.ContributorsKnown && r.Contributors < 0 {
		return common.NewError(common.ErrCodeValidation,
			fmt.Sprintf("仓库 %s 贡献者数为负 (%d)", r.Name, r.Contributors))
	}
	if r.CreatedAt.IsZero() || r.PushedAt.IsZero() {
		return common.NewError(common.ErrCodeValidation,
			fmt.Sprintf("仓库 %s 缺少时间戳", r.Name))
	}
	if r.CreatedAt.After(now) {
		return common.NewError(common.ErrCodeValidation,
			fmt.Sprintf("仓库 %s 创建时间在未来", r.Name))
	}
	if r.PushedAt.After(now) {
		return common.NewError(common.ErrCodeValidation,
			fmt.Sprintf("仓库 %s push 时间在未来", r.Name))
	}
	if r.CreatedAt.After(r.PushedAt) {
		return common.NewError(common.ErrCodeValidation,
			fmt.Sprintf("仓库 %s 创建时间晚于 push 时间", r.Name))
	}
	return nil
}
