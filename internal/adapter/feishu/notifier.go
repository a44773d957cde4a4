package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"repo-scout/internal/common"
	"repo-scout/internal/domain"
)

// typeLabels 成长阶段 → 卡片标题里的中文标签
var typeLabels = map[domain.RepoType]string{
	domain.TypeViral:        "爆发期",
	domain.TypeRising:       "上升期",
	domain.TypeEstablished:  "成熟期",
	domain.TypeExperimental: "实验期",
	domain.TypeDormant:      "休眠期",
}

// Notifier 实现了 port.Notifier 接口
type Notifier struct {
	webhookURL string
}

func NewNotifier(webhook string) *Notifier {
	if webhook == "" {
		log.Println("⚠️ 警告: 飞书 Webhook 为空，推送功能将无法工作！")
	}
	return &Notifier{webhookURL: webhook}
}

// Notify 发送飞书卡片消息 (Schema 2.0)
func (n *Notifier) Notify(ctx context.Context, repo *domain.ClassifiedRepo) error {
	if n.webhookURL == "" {
		return common.NewError(common.ErrCodeNotification, "Webhook URL 为空")
	}

	label := typeLabels[repo.Type]
	if label == "" {
		label = string(repo.Type)
	}
	title := fmt.Sprintf("🚨 发现%s项目: %s", label, repo.Name)

	mdContent := fmt.Sprintf(`**⭐ Stars:** %d  |  **语言:** %s  |  **创建日期:** %s
**📈 动量评分:** %.1f/100  |  **成长潜力:** %.1f/100 (%s)

**📝 项目描述:**
%s

**🤖 摘要:**
%s

**🚀 Star增长速率:** %.2f stars/天
`,
		repo.Stars, repo.Language, repo.CreatedAt.Format("2006-01-02"),
		repo.MomentumScore, repo.GrowthPotential, repo.GrowthTier,
		repo.Description,
		repo.Summary,
		repo.StarVelocity)

	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"schema": "2.0",
			"config": map[string]interface{}{
				"update_multi": true,
			},
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": "blue",
			},
			"body": map[string]interface{}{
				"direction": "vertical",
				"elements": []map[string]interface{}{
					{
						"tag":       "markdown",
						"content":   mdContent,
						"text_size": "normal",
					},
					{
						"tag": "button",
						"text": map[string]interface{}{
							"tag":     "plain_text",
							"content": "🔗 查看源码",
						},
						"type": "primary",
						"behaviors": []map[string]interface{}{
							{
								"type":        "open_url",
								"default_url": repo.URL,
							},
						},
					},
				},
			},
		},
	}

	// 带重试发送
	body, _ := json.Marshal(payload)
	err := common.Do(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, postErr := http.DefaultClient.Do(req)
		if postErr != nil {
			return postErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("飞书 API 报错: 状态码 %d", resp.StatusCode)
		}
		return nil
	},
		common.WithMaxRetries(3),
		common.WithInitialDelay(500*time.Millisecond),
	)
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "发送飞书消息失败", err)
	}

	return nil
}
