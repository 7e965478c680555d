package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrEmptyResponse is returned when the backend answers without any usable text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// ollamaAPIKey is sent to Ollama, which ignores it but the SDK expects a bearer value.
const ollamaAPIKey = "ollama"

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// Ollama, DeepSeek and OpenAI all expose this API; only the base URL differs.
type OpenAILLM struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	apiKey := cfg.APIKey
	switch cfg.Provider {
	case "ollama":
		if cfg.BaseURL == "" {
			return nil, errors.New("llm provider ollama requires base_url")
		}
		if apiKey == "" {
			apiKey = ollamaAPIKey
		}
	case "deepseek":
		if cfg.BaseURL == "" {
			return nil, errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		fallthrough
	default:
		if apiKey == "" {
			return nil, fmt.Errorf("%s api key missing; provide llm.api_key", cfg.Provider)
		}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	if cfg.KeepAlive != "" && cfg.Provider == "ollama" {
		// Ollama reads keep_alive from the request body to keep the model resident.
		opts = append(opts, option.WithJSONSet("keep_alive", cfg.KeepAlive))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &OpenAILLM{Model: cfg.Model, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	var msgs []openai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		msgs = append(msgs, openai.SystemMessage(prompt.System))
	}
	msgs = append(msgs, openai.UserMessage(prompt.User))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.Model),
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", o.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", o.Model, ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
