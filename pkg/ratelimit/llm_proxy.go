package ratelimit

import (
	"context"
	"time"

	"cv-parser-go/internal/llm"
)

// RateLimitedGenerator 对文本生成调用进行限流的代理
// 批量解析简历时避免把本地Ollama实例打满
type RateLimitedGenerator struct {
	original    llm.TextGenerator
	rateLimiter *TokenBucket
}

// NewRateLimitedGenerator 创建一个新的限流生成器代理
func NewRateLimitedGenerator(original llm.TextGenerator, qpm int) *RateLimitedGenerator {
	return &RateLimitedGenerator{
		original:    original,
		rateLimiter: NewTokenBucket(qpm, qpm/2), // 容量设为QPM的一半，允许一定的突发流量
	}
}

// WithRetryPolicy 设置重试策略
func (rl *RateLimitedGenerator) WithRetryPolicy(waitTime time.Duration, maxRetries int) *RateLimitedGenerator {
	rl.rateLimiter.WithRetryPolicy(waitTime, maxRetries)
	return rl
}

// Generate 代理Generate方法，增加限流和重试逻辑
func (rl *RateLimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var response string

	err := rl.rateLimiter.RetryWithBackoff(ctx, func() error {
		var genErr error
		response, genErr = rl.original.Generate(ctx, prompt)
		return genErr
	})

	return response, err
}
