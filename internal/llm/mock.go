package llm

import (
	"context"
	"sync"
)

// MockGenerator 测试用的确定性文本生成器
// 按顺序返回预置的响应；响应耗尽后重复返回最后一个
type MockGenerator struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	CallCount int
	Prompts   []string
}

// NewMockGenerator 创建带预置响应的mock
func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{Responses: responses}
}

// Generate 实现TextGenerator接口
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.CallCount
	m.CallCount++
	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}
