package factory

import (
	"fmt"

	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/llm/ollama"
	"paper-assistant-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai", "modelscope":
		if baseURL == "" {
			baseURL = "https://api-inference.modelscope.cn/v1" // Default
		}
		if apiKey == "" {
			return nil, fmt.Errorf("api key required for provider %s", providerType)
		}
		return openai.NewOpenAIProvider(baseURL, apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
