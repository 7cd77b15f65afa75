package llm

import (
	"fmt"

	"canvas-reminder/internal/config"
)

// FromConfig builds the client selected by LLM_PROVIDER. It returns nil, nil
// when no provider is configured.
func FromConfig(cfg *config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %q", cfg.LLMProvider)
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case config.ProviderYandex:
		if cfg.YandexOAuthToken == "" || cfg.YandexFolderID == "" {
			return nil, fmt.Errorf("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for provider %q", cfg.LLMProvider)
		}
		return NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
