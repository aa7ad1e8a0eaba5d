package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrEmptyReply = errors.New("assistant returned an empty reply")

// Request - системная инструкция с контекстом свадьбы и сообщение гостя
type Request struct {
	System  string
	Message string
}

type Reply struct {
	Text     string
	Provider string
}

type Assistant interface {
	Reply(ctx context.Context, req Request) (*Reply, error)
}

type Config struct {
	OpenAIKey      string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
	Timeout        time.Duration
}

// New выбирает OpenAI, затем Anthropic; без ключей возвращает nil
func New(cfg Config) Assistant {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch {
	case cfg.OpenAIKey != "":
		return &openAI{apiKey: cfg.OpenAIKey, model: cfg.OpenAIModel, http: httpClient, endpoint: "https://api.openai.com/v1/responses"}
	case cfg.AnthropicKey != "":
		return &anthropic{apiKey: cfg.AnthropicKey, model: cfg.AnthropicModel, http: httpClient, endpoint: "https://api.anthropic.com/v1/messages"}
	}
	return nil
}

// ---------------- OpenAI (Responses API) ----------------

type openAI struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

func (a *openAI) Reply(ctx context.Context, req Request) (*Reply, error) {
	body := map[string]any{
		"model":        a.model,
		"instructions": req.System,
		"input":        req.Message,
	}
	headers := map[string]string{"Authorization": "Bearer " + a.apiKey}

	var parsed struct {
		Output []struct {
			Type string `json:"type"`
			Role string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := postJSON(ctx, a.http, a.endpoint, headers, body, &parsed); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	var sb strings.Builder
	for _, item := range parsed.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" && strings.TrimSpace(c.Text) != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(c.Text)
			}
		}
	}
	return finish(sb.String(), "openai")
}

// ---------------- Anthropic (Messages API) ----------------

type anthropic struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

func (a *anthropic) Reply(ctx context.Context, req Request) (*Reply, error) {
	body := map[string]any{
		"model":      a.model,
		"max_tokens": 400,
		"system":     req.System,
		"messages": []map[string]string{
			{"role": "user", "content": req.Message},
		},
	}
	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := postJSON(ctx, a.http, a.endpoint, headers, body, &parsed); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	var sb strings.Builder
	for _, c := range parsed.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	return finish(sb.String(), "anthropic")
}

func finish(text, provider string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReply
	}
	return &Reply{Text: text, Provider: provider}, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
