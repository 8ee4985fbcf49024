// Package translator turns the translatable prose of LaTeX documents into a
// target language while leaving commands, math and structure untouched. The
// LLM backend sits behind the Translator interface; the eino OpenAI chat
// model is the production implementation.
package translator

import (
	"context"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/cloudwego/eino-ext/components/model/openai"

	"latex-project-translator/internal/logger"
	"latex-project-translator/internal/types"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o"

// Translator translates a single piece of prose. hints carry per-document
// guidance (custom command names, safety notes) that the backend folds into
// its prompt.
type Translator interface {
	Translate(ctx context.Context, text string, lang types.TargetLanguage, hints []string) (string, error)
}

// OpenAITranslator is the Translator backed by an OpenAI-compatible chat
// model through eino.
type OpenAITranslator struct {
	chatModel einomodel.BaseChatModel
	modelName string
}

// NewOpenAITranslator creates an OpenAITranslator. baseURL may point at any
// OpenAI-compatible endpoint; empty means the official API.
func NewOpenAITranslator(ctx context.Context, apiKey, baseURL, modelName string) (*OpenAITranslator, error) {
	if apiKey == "" {
		return nil, types.NewAppError(types.ErrConfig, "OpenAI API key is not configured", nil)
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	cfg := &openai.ChatModelConfig{
		Model:  modelName,
		APIKey: apiKey,
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		logger.Error("failed to create chat model", err, logger.String("model", modelName))
		return nil, types.NewAppError(types.ErrConfig, "failed to create chat model", err)
	}

	return &OpenAITranslator{chatModel: chatModel, modelName: modelName}, nil
}

// Translate sends one prose span to the chat model and returns the model
// output verbatim. Structural repair of the output is the caller's job.
func (t *OpenAITranslator) Translate(ctx context.Context, text string, lang types.TargetLanguage, hints []string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	messages := []*schema.Message{
		schema.SystemMessage(buildSystemPrompt(lang)),
		schema.UserMessage(buildUserPrompt(text, lang, hints)),
	}

	resp, err := t.chatModel.Generate(ctx, messages)
	if err != nil {
		logger.Error("chat model call failed", err, logger.String("model", t.modelName))
		return "", types.NewAppError(types.ErrTranslation, "translation request failed", err)
	}
	if resp == nil || resp.Content == "" {
		return "", types.NewAppError(types.ErrTranslation, "chat model returned an empty response", nil)
	}

	return resp.Content, nil
}
