package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"repo-scout/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB 创建一个模拟的数据库连接
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// 禁用日志以减少输出
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func sampleClassifiedRepo(now time.Time) *domain.ClassifiedRepo {
	return &domain.ClassifiedRepo{
		ScoredRepo: domain.ScoredRepo{
			Repo: domain.Repo{
				ID:          "github-123",
				Name:        "test/awesome-tool",
				URL:         "https://github.com/test/awesome-tool",
				Description: "An awesome tool",
				Language:    "Go",
				Stars:       500,
				Forks:       60,
				CreatedAt:   now.AddDate(0, 0, -5),
				PushedAt:    now,
			},
			AgeDays:       5,
			StarVelocity:  100,
			MomentumScore: 82.5,
		},
		Type:       domain.TypeViral,
		GrowthTier: domain.TierHigh,
		Summary:    "A fast-growing tool",
		Category:   "devops",
	}
}

func TestPostgresRepo_Save(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name: "成功保存分析结果",
			setupMock: func(mock sqlmock.Sqlmock) {
				// GORM 的 Save 对带主键的记录走 UPDATE
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "classified_repos"`)).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectError: false,
		},
		{
			name: "数据库报错",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "classified_repos"`)).
					WillReturnError(gorm.ErrInvalidDB)
				mock.ExpectRollback()
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock := setupMockDB(t)
			tt.setupMock(mock)

			repo := &PostgresRepo{db: gormDB}
			err := repo.Save(context.Background(), sampleClassifiedRepo(now))

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepo_Exists(t *testing.T) {
	tests := []struct {
		name      string
		count     int64
		expected  bool
	}{
		{name: "已存在", count: 1, expected: true},
		{name: "不存在", count: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock := setupMockDB(t)

			mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "classified_repos" WHERE id = $1`)).
				WithArgs("github-123").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			repo := &PostgresRepo{db: gormDB}
			exists, err := repo.Exists(context.Background(), "github-123")
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepo_MarkAsNotified(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "classified_repos" SET "already_notified"=$1 WHERE id = $2`)).
		WithArgs(true, "github-123").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PostgresRepo{db: gormDB}
	err := repo.MarkAsNotified(context.Background(), "github-123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Search(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "momentum_score"}).
		AddRow("github-1", "test/hot", 90.0).
		AddRow("github-2", "test/warm", 60.0)

	mock.ExpectQuery(`SELECT \* FROM "classified_repos" WHERE name LIKE .+ ORDER BY momentum_score DESC LIMIT .+`).
		WillReturnRows(rows)

	repo := &PostgresRepo{db: gormDB}
	results, err := repo.Search(context.Background(), "test")
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "test/hot", results[0].Name)
	assert.Equal(t, 90.0, results[0].MomentumScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetRecentCandidates(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow("github-9", "test/latest")

	mock.ExpectQuery(`SELECT \* FROM "classified_repos" ORDER BY created_at DESC LIMIT .+`).
		WillReturnRows(rows)

	repo := &PostgresRepo{db: gormDB}
	results, err := repo.GetRecentCandidates(context.Background(), 50)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "test/latest", results[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
