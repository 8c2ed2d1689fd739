package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
)

var _ llm.Summarizer = (*Client)(nil)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Summarize implements llm.Summarizer. Every failure is logged and returned as
// a summary of the form "❌ LLM API error: <details>".
func (c *Client) Summarize(ctx context.Context, text string) llm.Fields {
	start := time.Now()
	log := common.LoggerFrom(ctx, c.logger)

	log.Info("llm.summarize.start",
		"model", c.cfg.Model,
		"temp", *c.cfg.Temperature,
		"text_len", len(text),
	)

	summary, err := c.summarize(ctx, text)
	if err != nil {
		log.Error("llm.summarize.failed",
			"error", err,
			"failure", common.ErrorCode(err),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.FailedSummary("LLM API error: " + details(err))
	}

	log.Info("llm.summarize.ok",
		"summary_len", len(summary),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return llm.Fields{llm.FieldSummary: summary}
}

func (c *Client) summarize(ctx context.Context, text string) (string, error) {
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: llm.SystemPrompt},
			{Role: "user", Content: llm.BuildSummaryPrompt(text, c.cfg.MaxInputChars)},
		},
		Temperature: *c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return "", err
	}
	if err := llm.ValidateJSONAgainstSchema(llm.ChatCompletionSchema(), raw); err != nil {
		return "", common.NewAppError(common.CodeRemoteServiceFailure, "unexpected response shape", fmt.Errorf("%w: %v", common.ErrRemoteService, err))
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", common.NewAppError(common.CodeRemoteServiceFailure, "decode response", fmt.Errorf("%w: %v", common.ErrRemoteService, err))
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

// details is the AppError message without its code.
func details(err error) string {
	var ae *common.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
