package config

import (
	"fmt"
	"os"

	"repo-scout/internal/common"

	"gopkg.in/yaml.v3"
)

// Config 汇总整个应用的配置，字段和 config.yaml 一一对应
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Data     DataConfig     `yaml:"data"`
	Output   OutputConfig   `yaml:"output"`
	AI       AIConfig       `yaml:"ai"`
	Database DatabaseConfig `yaml:"database"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// GitHubConfig GitHub 抓取相关配置
type GitHubConfig struct {
	// Token 支持 ${GITHUB_TOKEN} 写法，加载时自动展开环境变量
	Token    string `yaml:"token"`
	MaxRepos int    `yaml:"max_repos"`
}

// DataConfig 数据采集范围配置
type DataConfig struct {
	Languages  []string `yaml:"languages"`
	Timeframes []string `yaml:"trending_timeframes"`
	MinStars   int      `yaml:"min_stars"`
}

// OutputConfig 报告和贴文的输出配置
type OutputConfig struct {
	Formats    []string `yaml:"formats"`
	ReportsDir string   `yaml:"reports_dir"`
	PostsDir   string   `yaml:"posts_dir"`
}

// AIConfig LLM 摘要配置，key 为空时退回关键词摘要器
type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key"`
}

// DatabaseConfig 数据库配置，DSN 为空时跳过入库
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotifyConfig 推送配置
type NotifyConfig struct {
	FeishuWebhook string `yaml:"feishu_webhook"`
	// MinMomentum 只推送动量不低于该阈值的项目
	MinMomentum float64 `yaml:"min_momentum"`
}

// Default 返回内置默认配置，和示例 config.yaml 保持一致
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Token:    os.Getenv("GITHUB_TOKEN"),
			MaxRepos: 100,
		},
		Data: DataConfig{
			Languages:  []string{"python", "javascript", "typescript"},
			Timeframes: []string{"daily"},
			MinStars:   10,
		},
		Output: OutputConfig{
			Formats:    []string{"markdown", "json", "html"},
			ReportsDir: "reports",
			PostsDir:   "posts",
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Notify: NotifyConfig{
			FeishuWebhook: os.Getenv("FEISHU_WEBHOOK"),
			MinMomentum:   75,
		},
	}
}

// Load 从 YAML 文件加载配置。文件不存在时不报错，直接用默认值，
// 这样本地跑 demo 不需要先写配置文件。
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, common.WrapError(common.ErrCodeConfig, fmt.Sprintf("读取配置文件 %s 失败", path), err)
	}

	// ${VAR} 在解析前统一展开，token 之类的敏感值不用写死在文件里
	expanded := os.ExpandEnv(string(raw))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, common.WrapError(common.ErrCodeConfig, fmt.Sprintf("解析配置文件 %s 失败", path), err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GitHub.MaxRepos <= 0 {
		return common.NewError(common.ErrCodeConfig, "github.max_repos 必须大于 0")
	}
	if c.Data.MinStars < 0 {
		return common.NewError(common.ErrCodeConfig, "data.min_stars 不能为负数")
	}
	if c.Notify.MinMomentum < 0 || c.Notify.MinMomentum > 100 {
		return common.NewError(common.ErrCodeConfig, "notify.min_momentum 必须落在 [0, 100]")
	}
	for _, tf := range c.Data.Timeframes {
		switch tf {
		case "daily", "weekly", "monthly":
		default:
			return common.NewError(common.ErrCodeConfig, fmt.Sprintf("未知的时间窗口: %s", tf))
		}
	}
	return nil
}
