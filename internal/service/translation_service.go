package service

import (
	"context"
	"fmt"
	"strings"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/pkg/logger"
	"paper-assistant-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

type ITranslationService interface {
	Translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error)
}

type translationService struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewTranslationService(provider llm.LLMProvider, log logger.ILogger) ITranslationService {
	return &translationService{
		provider: provider,
		logger:   log,
	}
}

// Translate renders an abstract in the target language. Low temperature
// keeps terminology stable across repeated calls.
func (s *translationService) Translate(ctx context.Context, req *dto.TranslateRequest) (*dto.TranslateResponse, error) {
	if s.provider == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, constant.MsgTranslationUnavailable)
	}

	lang := strings.TrimSpace(req.TargetLanguage)
	if lang == "" {
		lang = constant.DefaultTranslationLanguage
	}

	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: fmt.Sprintf(constant.TranslationSystemPromptV1, lang)},
		{Role: constant.ChatMessageRoleUser, Content: fmt.Sprintf(constant.TranslationPromptV1, lang, req.Text)},
	}

	translated, err := s.provider.Chat(ctx, messages,
		llm.WithTemperature(constant.TranslationTemperature),
	)
	if err != nil {
		s.logger.Error("TranslationService", "Translation failed", map[string]interface{}{
			"error":    err.Error(),
			"language": lang,
		})
		return nil, fiber.NewError(fiber.StatusBadGateway, "translation failed: "+err.Error())
	}

	return &dto.TranslateResponse{
		Translated:     strings.TrimSpace(translated),
		TargetLanguage: lang,
	}, nil
}
