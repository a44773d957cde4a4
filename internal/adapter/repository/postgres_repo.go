package repository

import (
	"context"

	"repo-scout/internal/common"
	"repo-scout/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// defaultSearchLimit 关键词搜索默认返回条数
const defaultSearchLimit = 10

// PostgresRepo 实现了 port.Repository 接口
type PostgresRepo struct {
	db *gorm.DB
}

// NewPostgresRepo 初始化数据库连接并自动迁移表结构
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "连接数据库失败", err)
	}

	// AutoMigrate 会自动建 classified_repos 表，字段变了也会跟着更新
	if err := db.AutoMigrate(&domain.ClassifiedRepo{}); err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "数据库迁移失败", err)
	}

	return &PostgresRepo{db: db}, nil
}

// Save 保存或更新分析结果 (Upsert)
func (r *PostgresRepo) Save(ctx context.Context, repo *domain.ClassifiedRepo) error {
	result := r.db.WithContext(ctx).Save(repo)
	if result.Error != nil {
		return common.WrapError(common.ErrCodeDatabase, "保存分析结果失败", result.Error)
	}
	return nil
}

// Exists 检查项目是否已经入库
func (r *PostgresRepo) Exists(ctx context.Context, repoID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ClassifiedRepo{}).
		Where("id = ?", repoID).
		Count(&count).Error
	if err != nil {
		return false, common.WrapError(common.ErrCodeDatabase, "查询项目是否存在失败", err)
	}
	return count > 0, nil
}

// MarkAsNotified 标记项目为已推送
func (r *PostgresRepo) MarkAsNotified(ctx context.Context, repoID string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.ClassifiedRepo{}).
		Where("id = ?", repoID).
		Update("already_notified", true).Error
	if err != nil {
		return common.WrapError(common.ErrCodeDatabase, "标记已推送失败", err)
	}
	return nil
}

// Search 关键词模糊搜索，高动量的排在前面
func (r *PostgresRepo) Search(ctx context.Context, query string) ([]*domain.ClassifiedRepo, error) {
	var repos []*domain.ClassifiedRepo
	likeQuery := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR description LIKE ? OR summary LIKE ?", likeQuery, likeQuery, likeQuery).
		Order("momentum_score DESC").
		Limit(defaultSearchLimit).
		Find(&repos).Error
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "搜索失败", err)
	}
	return repos, nil
}

// GetRecentCandidates 取最近入库的候选项目
func (r *PostgresRepo) GetRecentCandidates(ctx context.Context, limit int) ([]*domain.ClassifiedRepo, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	var repos []*domain.ClassifiedRepo
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&repos).Error
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "读取候选项目失败", err)
	}
	return repos, nil
}
