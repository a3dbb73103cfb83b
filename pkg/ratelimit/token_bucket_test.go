package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-parser-go/internal/llm"
)

// TestTokenBucketAllow 容量内放行，超出拒绝
func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(60, 2)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "桶空后应拒绝")
}

// TestTokenBucketWaitContextCancel 等令牌时上下文取消要及时返回
func TestTokenBucketWaitContextCancel(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestRetryWithBackoffNonRetryable 不可重试错误直接返回
func TestRetryWithBackoffNonRetryable(t *testing.T) {
	tb := NewTokenBucket(600, 10).WithRetryPolicy(time.Millisecond, 3)

	calls := 0
	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("invalid input")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

// TestRetryWithBackoffRecovers 可重试错误恢复后成功
func TestRetryWithBackoffRecovers(t *testing.T) {
	tb := NewTokenBucket(600, 10).WithRetryPolicy(time.Millisecond, 3)

	calls := 0
	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

// TestRateLimitedGeneratorPassthrough 代理透传生成结果
func TestRateLimitedGeneratorPassthrough(t *testing.T) {
	mock := llm.NewMockGenerator("risposta")
	rl := NewRateLimitedGenerator(mock, 600)

	out, err := rl.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "risposta", out)
	assert.Equal(t, 1, mock.CallCount)
}
