package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const translationModel = openai.GPT4oMini

var targetLangNames = map[string]string{
	"RO": "Romanian",
	"EN": "English",
	"DE": "German",
	"FR": "French",
}

// OpenAI translates through a chat-completion model. Brands and
// product codes must survive the round trip, hence the strict prompt.
type OpenAI struct {
	client     *openai.Client
	targetLang string
}

// NewOpenAI creates the LLM-backed translation backend.
func NewOpenAI(apiKey, targetLang string) *OpenAI {
	return &OpenAI{
		client:     openai.NewClient(apiKey),
		targetLang: targetLang,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	lang := targetLangNames[strings.ToUpper(o.targetLang)]
	if lang == "" {
		lang = o.targetLang
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       translationModel,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"Translate into %s. Keep brand names and product codes unchanged. Do not invent specifications.", lang),
			},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI translation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("OpenAI returned empty translation")
	}
	return out, nil
}
