package service

import (
	"bytes"
	"context"
	"csa_sim_backend/internal/config"
	"csa_sim_backend/internal/util"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatCompleter 模型调用边界，测试中以stub替换
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string, contextDocs []string) (string, error)
}

// AIService 调用OpenAI兼容的chat completions接口
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete 单次调用，不重试；检索到的FAQ语料作为system消息注入
// 网络、鉴权、限流、超时一律折叠为ErrGradingUnavailable，由调用方决定对外表现
func (s *AIService) Complete(ctx context.Context, prompt string, contextDocs []string) (string, error) {
	messages := []AIChatMessage{}

	if len(contextDocs) > 0 {
		messages = append(messages, AIChatMessage{
			Role:    "system",
			Content: "You are grading customer service trainee responses. Use the following reference material as background context:\n\n" + strings.Join(contextDocs, "\n\n"),
		})
	} else {
		messages = append(messages, AIChatMessage{
			Role:    "system",
			Content: "You are grading customer service trainee responses.",
		})
	}

	messages = append(messages, AIChatMessage{
		Role:    "user",
		Content: prompt,
	})

	reqBody := ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		Temperature: s.config.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrGradingUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: AI API error (status %d): %s", util.ErrGradingUnavailable, resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrGradingUnavailable, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrGradingUnavailable, result.Error.Message)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: AI returned no choices", util.ErrGradingUnavailable)
}
