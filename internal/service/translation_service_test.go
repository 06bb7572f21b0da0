package service

import (
	"context"
	"errors"
	"testing"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/internal/dto"
	"paper-assistant-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLMProvider struct {
	reply        string
	err          error
	lastMessages []llm.Message
	lastOptions  llm.Options
}

func (p *stubLLMProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.lastMessages = history
	for _, opt := range options {
		opt(&p.lastOptions)
	}
	return p.reply, p.err
}

func (p *stubLLMProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func (p *stubLLMProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestTranslateWithoutProvider(t *testing.T) {
	svc := NewTranslationService(nil, nopLogger{})

	_, err := svc.Translate(context.Background(), &dto.TranslateRequest{Text: "An abstract."})

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusServiceUnavailable, fiberErr.Code)
	assert.Equal(t, constant.MsgTranslationUnavailable, fiberErr.Message)
}

func TestTranslateDefaultsToChinese(t *testing.T) {
	provider := &stubLLMProvider{reply: "  翻译结果  "}
	svc := NewTranslationService(provider, nopLogger{})

	res, err := svc.Translate(context.Background(), &dto.TranslateRequest{Text: "An abstract."})
	require.NoError(t, err)

	assert.Equal(t, "翻译结果", res.Translated)
	assert.Equal(t, constant.DefaultTranslationLanguage, res.TargetLanguage)
	assert.InDelta(t, constant.TranslationTemperature, provider.lastOptions.Temperature, 1e-9)

	require.Len(t, provider.lastMessages, 2)
	assert.Equal(t, constant.ChatMessageRoleSystem, provider.lastMessages[0].Role)
	assert.Contains(t, provider.lastMessages[0].Content, "Chinese")
	assert.Contains(t, provider.lastMessages[1].Content, "An abstract.")
}

func TestTranslateHonorsTargetLanguage(t *testing.T) {
	provider := &stubLLMProvider{reply: "Résumé traduit"}
	svc := NewTranslationService(provider, nopLogger{})

	res, err := svc.Translate(context.Background(), &dto.TranslateRequest{
		Text:           "An abstract.",
		TargetLanguage: "French",
	})
	require.NoError(t, err)

	assert.Equal(t, "French", res.TargetLanguage)
	assert.Contains(t, provider.lastMessages[0].Content, "French")
}

func TestTranslateProviderFailure(t *testing.T) {
	provider := &stubLLMProvider{err: errors.New("model down")}
	svc := NewTranslationService(provider, nopLogger{})

	_, err := svc.Translate(context.Background(), &dto.TranslateRequest{Text: "An abstract."})

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadGateway, fiberErr.Code)
	assert.Contains(t, fiberErr.Message, "model down")
}
