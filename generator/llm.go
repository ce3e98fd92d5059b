package generator

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned empty text")

// LLMClient 생성형 모델 추상화. Given a prompt it returns the model's text.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 구체 구현에 전달되는 기본 설정.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
