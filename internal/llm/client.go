package llm

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"cv-parser-go/internal/config"
)

// TextGenerator 推理服务的窄接口：单提示词进、自由文本出
// 生产实现为OllamaClient，测试中用MockGenerator替换
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OllamaClient 通过HTTP调用Ollama /api/generate 的文本生成客户端
type OllamaClient struct {
	client *resty.Client
	model  string

	// 重试设置
	maxRetries int
	retryWait  time.Duration

	// 采样参数
	options map[string]interface{}

	logger *log.Logger
}

// generateRequest Ollama生成接口的请求体
type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// generateResponse Ollama生成接口的响应体(非流式)
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// OllamaOption OllamaClient的配置选项
type OllamaOption func(*OllamaClient)

// WithOllamaLogger 设置日志记录器
func WithOllamaLogger(logger *log.Logger) OllamaOption {
	return func(c *OllamaClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewOllamaClient 创建新的Ollama客户端
// 每次调用都带配置的超时；调用方的ctx取消同样生效
func NewOllamaClient(cfg config.OllamaConfig, opts ...OllamaOption) *OllamaClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	retryWait := time.Duration(cfg.RetryWaitSeconds) * time.Second
	if retryWait <= 0 {
		retryWait = 2 * time.Second
	}

	client := &OllamaClient{
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryWait:  retryWait,
		options: map[string]interface{}{
			"temperature":    cfg.Temperature,
			"num_predict":    cfg.NumPredict,
			"top_k":          cfg.TopK,
			"top_p":          cfg.TopP,
			"repeat_penalty": cfg.RepeatPenalty,
		},
		logger: log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Generate 实现TextGenerator接口
// 对可重试的传输错误做有限次指数退避重试
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	retryWait := c.retryWait

	var lastErr error
	for retry := 0; retry <= c.maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryWait):
				retryWait *= 2
				c.logger.Printf("重试LLM调用 (第%d次)", retry)
			}
		}

		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			break
		}
	}

	c.logger.Printf("[OllamaClient] LLM调用最终失败: %v", lastErr)
	return "", fmt.Errorf("LLM Generate failed: %w", lastErr)
}

func (c *OllamaClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:   c.model,
			Prompt:  prompt,
			Stream:  false,
			Options: c.options,
		}).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("调用Ollama失败: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("Ollama返回错误状态 %d: %s", resp.StatusCode(), resp.String())
	}
	return out.Response, nil
}

// isRetryableError 判断错误是否应该重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}
