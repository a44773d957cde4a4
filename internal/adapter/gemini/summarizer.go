package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"repo-scout/internal/analysis"
	"repo-scout/internal/common"
	"repo-scout/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Summarizer 用 Gemini 生成项目摘要和类别，实现 port.Summarizer 接口
type Summarizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// 定义一个内部结构体来接收 AI 返回的 JSON
type aiResponse struct {
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

// NewSummarizer 初始化 Gemini 客户端
func NewSummarizer(ctx context.Context, apiKey string) (*Summarizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "Gemini 客户端初始化失败", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	// 强制要求返回 JSON，降低解析错误的概率
	model.ResponseMIMEType = "application/json"

	return &Summarizer{
		client: client,
		model:  model,
	}, nil
}

// Close 释放底层连接
func (s *Summarizer) Close() error {
	return s.client.Close()
}

// Summarize 为单个项目生成摘要和类别。
// AI 挂了或者返回不可解析时报错，调用方决定是否退回关键词摘要。
func (s *Summarizer) Summarize(ctx context.Context, repo *domain.ScoredRepo) (*domain.Enrichment, error) {
	prompt := fmt.Sprintf(`
你是一个经验丰富的开源技术分析师。请分析以下 GitHub 项目：

项目名称: %s
项目地址: %s
项目描述: %s
主要语言: %s
Stars: %d | Forks: %d | 动量评分: %.1f/100
Topics: %s

请严格按照 JSON 格式返回分析结果，包含以下字段：
1. summary: 两到三句的英文摘要，说明项目是做什么的、为什么最近有热度。
2. category: 从这个列表里选一个最贴切的类别，没有合适的就填空字符串: web, mobile, ai, devops, data, game, blockchain, api。

请直接返回 JSON，不要包含 Markdown 格式标记。
`, repo.Name, repo.URL, repo.Description, repo.Language,
		repo.Stars, repo.Forks, repo.MomentumScore,
		strings.Join(repo.Topics, ", "))

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "AI 调用失败", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, common.NewError(common.ErrCodeAIProcessing, "AI 返回内容为空")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return nil, common.NewError(common.ErrCodeAIProcessing, "AI 返回格式错误")
	}

	res, err := parseAIResponse(string(text))
	if err != nil {
		return nil, err
	}

	return &domain.Enrichment{
		Summary:  res.Summary,
		Category: res.Category,
	}, nil
}

// parseAIResponse 智能寻找 JSON 的起止位置。
// 即使 AI 返回 "```json { ... } \n ```"，我们也能精准抠出中间的 { ... }
func parseAIResponse(rawContent string) (*aiResponse, error) {
	start := strings.Index(rawContent, "{")
	end := strings.LastIndex(rawContent, "}")

	if start == -1 || end == -1 || end <= start {
		return nil, common.NewError(common.ErrCodeAIProcessing, fmt.Sprintf("无法提取 JSON, AI 原文: %s", rawContent))
	}

	cleanJson := rawContent[start : end+1]

	var res aiResponse
	if err := json.Unmarshal([]byte(cleanJson), &res); err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, fmt.Sprintf("JSON 解析失败, 原文: %s", cleanJson), err)
	}

	// 类别不在固定表里的当没归类处理，下游会退回关键词启发式
	res.Category = strings.ToLower(strings.TrimSpace(res.Category))
	if !analysis.IsKnownCategory(res.Category) {
		res.Category = ""
	}

	return &res, nil
}
