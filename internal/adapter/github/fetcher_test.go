package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/stretchr/testify/assert"
)

// setupMockGitHubServer 创建一个模拟的 GitHub API 服务器
func setupMockGitHubServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Fetcher) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	// 创建一个使用测试服务器的客户端
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL

	fetcher := &Fetcher{client: client, minStars: 10, maxRepos: 100}
	return server, fetcher
}

// createMockRepo 创建模拟的 GitHub 仓库对象
func createMockRepo(id int64, fullName, description, language string, stars, forks int, createdAt, pushedAt time.Time) *github.Repository {
	return &github.Repository{
		ID:              github.Int64(id),
		FullName:        github.String(fullName),
		HTMLURL:         github.String("https://github.com/" + fullName),
		Description:     github.String(description),
		StargazersCount: github.Int(stars),
		ForksCount:      github.Int(forks),
		OpenIssuesCount: github.Int(3),
		Language:        github.String(language),
		Topics:          []string{"testing"},
		CreatedAt:       &github.Timestamp{Time: createdAt},
		PushedAt:        &github.Timestamp{Time: pushedAt},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetcher_GetTrendingRepos(t *testing.T) {
	now := time.Now().Truncate(time.Second).UTC()

	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/repositories"):
			query := r.URL.Query().Get("q")
			assert.Contains(t, query, "language:go")
			assert.Contains(t, query, "stars:>=10")
			assert.Contains(t, query, "created:>")
			writeJSON(t, w, &github.RepositoriesSearchResult{
				Total: github.Int(1),
				Repositories: []*github.Repository{
					createMockRepo(1, "test/repo1", "Test repo 1", "Go", 100, 20, now.AddDate(0, 0, -1), now),
				},
			})
		case strings.HasSuffix(r.URL.Path, "/contributors"):
			writeJSON(t, w, []*github.Contributor{
				{Login: github.String("alice")},
				{Login: github.String("bob")},
			})
		case strings.HasSuffix(r.URL.Path, "/commits"):
			assert.NotEmpty(t, r.URL.Query().Get("since"))
			writeJSON(t, w, []*github.RepositoryCommit{
				{SHA: github.String("abc123")},
				{SHA: github.String("def456")},
				{SHA: github.String("ghi789")},
			})
		default:
			t.Errorf("意外的请求路径: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	repos, err := fetcher.GetTrendingRepos(context.Background(), "go", "daily")
	assert.NoError(t, err)
	assert.Len(t, repos, 1)

	repo := repos[0]
	assert.Equal(t, "github-1", repo.ID)
	assert.Equal(t, "test/repo1", repo.Name)
	assert.Equal(t, "https://github.com/test/repo1", repo.URL)
	assert.Equal(t, "Test repo 1", repo.Description)
	assert.Equal(t, "Go", repo.Language)
	assert.Equal(t, 100, repo.Stars)
	assert.Equal(t, 20, repo.Forks)
	assert.Equal(t, 3, repo.OpenIssues)
	assert.Equal(t, []string{"testing"}, repo.Topics)
	assert.True(t, repo.PushedAt.Equal(now))

	// 富化字段
	assert.True(t, repo.ContributorsKnown)
	assert.Equal(t, 2, repo.Contributors)
	assert.Equal(t, 3, repo.RecentCommits)
}

func TestFetcher_GetTrendingRepos_NoLanguage(t *testing.T) {
	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/search/repositories") {
			assert.NotContains(t, r.URL.Query().Get("q"), "language:")
			writeJSON(t, w, &github.RepositoriesSearchResult{Total: github.Int(0)})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	repos, err := fetcher.GetTrendingRepos(context.Background(), "", "weekly")
	assert.NoError(t, err)
	assert.Empty(t, repos)
}

func TestFetcher_EnrichFailureKeepsRepo(t *testing.T) {
	now := time.Now().UTC()

	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/repositories"):
			writeJSON(t, w, &github.RepositoriesSearchResult{
				Total: github.Int(1),
				Repositories: []*github.Repository{
					createMockRepo(7, "test/flaky", "desc", "Go", 42, 5, now.AddDate(0, 0, -2), now),
				},
			})
		default:
			// 富化接口全部失败
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	repos, err := fetcher.GetTrendingRepos(context.Background(), "go", "daily")
	assert.NoError(t, err)
	assert.Len(t, repos, 1)

	// 富化失败不丢弃项目，贡献者数标记为未知
	repo := repos[0]
	assert.Equal(t, 42, repo.Stars)
	assert.False(t, repo.ContributorsKnown)
	assert.Equal(t, 0, repo.Contributors)
	assert.Equal(t, 0, repo.RecentCommits)
}

func TestFetcher_SearchErrorNotRetried(t *testing.T) {
	requests := 0
	_, fetcher := setupMockGitHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		// 422 说明查询语法有问题，重试没有意义
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "Validation Failed"}`))
	})

	_, err := fetcher.GetTrendingRepos(context.Background(), "go", "daily")
	assert.Error(t, err)
	assert.Equal(t, 1, requests)
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		input string
		owner string
		name  string
		ok    bool
	}{
		{"owner/repo", "owner", "repo", true},
		{"owner/repo/extra", "owner", "repo/extra", true},
		{"no-slash", "", "", false},
		{"/repo", "", "", false},
		{"owner/", "", "", false},
	}

	for _, tt := range tests {
		owner, name, ok := splitFullName(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.owner, owner, tt.input)
		assert.Equal(t, tt.name, name, tt.input)
	}
}
